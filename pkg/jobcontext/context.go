// Package jobcontext tags a summarization run with an id, a kind and a
// start time so every log line and span of the run can be correlated.
package jobcontext

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type KeyContext string

var (
	keyRunID     KeyContext = "run_id"
	keyRunKind   KeyContext = "run_kind"
	keyStartTime KeyContext = "run_start_time"
)

// Run kinds
const (
	KindUpload = "upload"
	KindCLI    = "cli"
	KindWatch  = "watch"
)

// RunMetadata holds the values attached by Begin
type RunMetadata struct {
	RunID     uuid.UUID
	Kind      string
	StartTime time.Time
}

// Begin derives a run context with a fresh id. A positive timeout bounds the
// run; otherwise the returned cancel only releases the derived context.
func Begin(parent context.Context, kind string, timeout time.Duration) (context.Context, context.CancelFunc) {
	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(parent, timeout)
	} else {
		ctx, cancel = context.WithCancel(parent)
	}

	ctx = context.WithValue(ctx, keyRunID, uuid.New())
	ctx = context.WithValue(ctx, keyRunKind, kind)
	ctx = context.WithValue(ctx, keyStartTime, time.Now())
	return ctx, cancel
}

// GetRunID extracts the run id from context
func GetRunID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(keyRunID).(uuid.UUID)
	return id, ok
}

// GetKind extracts the run kind from context
func GetKind(ctx context.Context) (string, bool) {
	kind, ok := ctx.Value(keyRunKind).(string)
	return kind, ok
}

// GetStartTime extracts the run start time from context
func GetStartTime(ctx context.Context) (time.Time, bool) {
	start, ok := ctx.Value(keyStartTime).(time.Time)
	return start, ok
}

// Elapsed returns the time since Begin, or zero outside a run
func Elapsed(ctx context.Context) time.Duration {
	start, ok := GetStartTime(ctx)
	if !ok {
		return 0
	}
	return time.Since(start)
}

// GetRunMetadata extracts all run metadata from context
func GetRunMetadata(ctx context.Context) *RunMetadata {
	id, _ := GetRunID(ctx)
	kind, _ := GetKind(ctx)
	start, _ := GetStartTime(ctx)
	return &RunMetadata{RunID: id, Kind: kind, StartTime: start}
}

// Fields returns the zap fields identifying the run, empty outside a run
func Fields(ctx context.Context) []zap.Field {
	id, ok := GetRunID(ctx)
	if !ok {
		return nil
	}
	kind, _ := GetKind(ctx)
	return []zap.Field{
		zap.String("run_id", id.String()),
		zap.String("run_kind", kind),
	}
}
