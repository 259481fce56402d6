package sse

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/bnema/llm-council/internal/application"
)

var ErrStreamingUnsupported = errors.New("response writer does not support flushing")

type Writer struct {
	w       io.Writer
	flusher http.Flusher
}

// NewWriter sends the event-stream headers and the 200 status line.
func NewWriter(w http.ResponseWriter) (*Writer, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, ErrStreamingUnsupported
	}

	header := w.Header()
	header.Set("Content-Type", "text/event-stream")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	header.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	return &Writer{w: w, flusher: flusher}, nil
}

// NewLineWriter writes bare JSON lines, one per event, to w.
func NewLineWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (s *Writer) Write(event WireEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", event.Type, err)
	}

	if s.flusher == nil {
		_, err = fmt.Fprintf(s.w, "%s\n", payload)
	} else {
		_, err = fmt.Fprintf(s.w, "data: %s\n\n", payload)
	}
	if err != nil {
		return fmt.Errorf("write %s event: %w", event.Type, err)
	}
	if s.flusher != nil {
		s.flusher.Flush()
	}
	return nil
}

// Stream forwards events until the channel closes. It stops early when ctx
// is done or a write fails; the caller must then cancel the producer.
func Stream(ctx context.Context, w *Writer, events <-chan application.Event) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-events:
			if !ok {
				return nil
			}
			if err := w.Write(FromEvent(event)); err != nil {
				return err
			}
		}
	}
}
