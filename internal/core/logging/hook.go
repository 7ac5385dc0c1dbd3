package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// ContextHook copies request_id and conn_id from the event context onto the
// log event.
type ContextHook struct{}

// Run adds contextual fields to the zerolog event.
func (h ContextHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	ctx := e.GetCtx()
	if ctx == nil || ctx == context.Background() {
		return
	}

	if id := RequestID(ctx); id != "" {
		e.Str("request_id", id)
	}
	if id := ConnID(ctx); id != "" {
		e.Str("conn_id", id)
	}
}
