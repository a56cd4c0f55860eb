package errors

import (
	"errors"

	"github.com/johnquangdev/meeting-summarizer/internal/domain/entities"
)

// Common errors
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotFound      = errors.New("resource not found")
	ErrInternalError = errors.New("internal server error")
)

// Meeting errors
var (
	ErrMeetingNotFound  = errors.New("meeting not found")
	ErrEmptyTranscript  = entities.ErrEmptyTranscript
	ErrAlreadyPersisted = entities.ErrAlreadyPersisted
)
