package handler

import (
	"context"
	stdErrors "errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-summarizer/errors"
	"github.com/johnquangdev/meeting-summarizer/internal/adapter/dto"
	"github.com/johnquangdev/meeting-summarizer/internal/adapter/presenter"
	ucerrors "github.com/johnquangdev/meeting-summarizer/internal/usecase/errors"
	"github.com/johnquangdev/meeting-summarizer/internal/usecase/ingest"
	"github.com/johnquangdev/meeting-summarizer/internal/usecase/meeting"
	"github.com/johnquangdev/meeting-summarizer/pkg/jobcontext"
)

// ArchiveLister lists the archived sources of a meeting
type ArchiveLister interface {
	ListArchived(ctx context.Context, meetingID uint64) ([]string, error)
}

// Meeting handles the upload and history endpoints
type Meeting struct {
	svc     meeting.Service
	archive ArchiveLister
	timeout time.Duration
	logger  *zap.Logger
}

// NewMeetingHandler creates a new meeting handler. archive may be nil when
// object storage is disabled; a zero timeout leaves uploads unbounded.
func NewMeetingHandler(svc meeting.Service, archive ArchiveLister, timeout time.Duration, logger *zap.Logger) *Meeting {
	return &Meeting{svc: svc, archive: archive, timeout: timeout, logger: logger}
}

// Upload ingests the submitted sources, summarizes and saves the meeting
// @Summary      Summarize a meeting
// @Description  Accepts documents, one audio file or pasted text. Files take precedence over audio, audio over text.
// @Tags         Meetings
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        title  formData  string  false  "Meeting title"
// @Param        text   formData  string  false  "Pasted transcript"
// @Param        files  formData  file    false  "Transcript or document files (txt, md, pdf, docx, images)"
// @Param        audio  formData  file    false  "Audio recording"
// @Success      200    {object}  dto.MeetingResponse
// @Failure      400    {object}  map[string]interface{}  "No transcript found"
// @Failure      401    {object}  map[string]interface{}  "Missing or invalid token"
// @Failure      500    {object}  map[string]interface{}  "Failed to summarize"
// @Router       /upload [post]
func (h *Meeting) Upload(c echo.Context) error {
	var req dto.UploadRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	in := meeting.Input{Title: req.Title, Text: req.Text}
	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		form, err := c.MultipartForm()
		if err != nil {
			return HandleError(h.logger, c, errors.ErrInvalidPayload())
		}
		if in.Files, err = readSources(form.File["files"]); err != nil {
			return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
		}
		audio, err := readSources(form.File["audio"])
		if err != nil {
			return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
		}
		if len(audio) > 0 {
			in.Audio = &audio[0]
		}
	}

	ctx, cancel := jobcontext.Begin(c.Request().Context(), jobcontext.KindUpload, h.timeout)
	defer cancel()

	result, err := h.svc.Process(ctx, in)
	if err != nil {
		return HandleError(h.logger, c, mapError(err))
	}
	return HandleSuccess(h.logger, c, presenter.ToMeetingResponse(result))
}

// ListMeetings returns the most recent meetings
// @Summary      List meetings
// @Description  Returns meeting history, most recent first
// @Tags         Meetings
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query     int  false  "Maximum rows (default 50, max 200)"
// @Success      200    {object}  dto.ListMeetingsResponse
// @Failure      400    {object}  map[string]interface{}  "Invalid limit"
// @Router       /meetings [get]
func (h *Meeting) ListMeetings(c echo.Context) error {
	var req dto.ListMeetingsRequest
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("limit must be an integer"))
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	items, err := h.svc.List(c.Request().Context(), req.Limit)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrDBQueryFailed("list meetings", err))
	}
	return HandleSuccess(h.logger, c, presenter.ToListMeetingsResponse(items))
}

// GetMeeting returns one stored meeting
// @Summary      Get meeting
// @Tags         Meetings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Meeting ID"
// @Success      200  {object}  dto.MeetingResponse
// @Failure      400  {object}  map[string]interface{}  "Invalid meeting ID"
// @Failure      404  {object}  map[string]interface{}  "Meeting not found"
// @Router       /meetings/{id} [get]
func (h *Meeting) GetMeeting(c echo.Context) error {
	id, err := parseMeetingID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	result, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		if stdErrors.Is(err, ucerrors.ErrMeetingNotFound) {
			return HandleError(h.logger, c, errors.ErrMeetingNotFound(c.Param("id")))
		}
		return HandleError(h.logger, c, errors.ErrDBQueryFailed("get meeting", err))
	}
	return HandleSuccess(h.logger, c, presenter.ToMeetingResponse(result))
}

// ListSources returns the object keys archived for a meeting
// @Summary      List archived sources
// @Tags         Meetings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Meeting ID"
// @Success      200  {object}  dto.ArchivedSourcesResponse
// @Failure      404  {object}  map[string]interface{}  "Meeting not found"
// @Failure      503  {object}  map[string]interface{}  "Object storage disabled"
// @Router       /meetings/{id}/sources [get]
func (h *Meeting) ListSources(c echo.Context) error {
	if h.archive == nil {
		return HandleError(h.logger, c, errors.AppError{
			HTTPCode: http.StatusServiceUnavailable,
			Code:     errors.ErrorCode_INTEGRATION_STORAGE_FAILED,
			Message:  "Object storage is disabled",
		})
	}
	id, err := parseMeetingID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	ctx := c.Request().Context()
	if _, err := h.svc.Get(ctx, id); err != nil {
		if stdErrors.Is(err, ucerrors.ErrMeetingNotFound) {
			return HandleError(h.logger, c, errors.ErrMeetingNotFound(c.Param("id")))
		}
		return HandleError(h.logger, c, errors.ErrDBQueryFailed("get meeting", err))
	}

	keys, err := h.archive.ListArchived(ctx, id)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrStorageFailed("list", err))
	}
	if keys == nil {
		keys = []string{}
	}
	return HandleSuccess(h.logger, c, dto.ArchivedSourcesResponse{MeetingID: id, Objects: keys})
}

func parseMeetingID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.ErrInvalidArgument("meeting id must be a positive integer")
	}
	return id, nil
}

// mapError translates use case errors to API errors
func mapError(err error) error {
	switch {
	case stdErrors.Is(err, ucerrors.ErrEmptyTranscript):
		return errors.ErrNoTranscript()
	case stdErrors.Is(err, context.Canceled), stdErrors.Is(err, context.DeadlineExceeded):
		return errors.ErrRequestCancelled(err)
	default:
		return errors.ErrAISummaryFailed(err)
	}
}

func readSources(headers []*multipart.FileHeader) ([]ingest.Source, error) {
	sources := make([]ingest.Source, 0, len(headers))
	for _, fh := range headers {
		data, err := readFile(fh)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", fh.Filename, err)
		}
		sources = append(sources, ingest.Source{Name: fh.Filename, Data: data})
	}
	return sources, nil
}

func readFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
