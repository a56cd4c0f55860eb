package entities

import "errors"

// Domain errors
var (
	ErrEmptyTranscript  = errors.New("no transcript found")
	ErrAlreadyPersisted = errors.New("meeting result already persisted")
	ErrNilMeetingResult = errors.New("meeting result cannot be nil")
)
