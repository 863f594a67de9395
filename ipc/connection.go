package ipc

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"
)

// Handler processes one message line. A non-nil submission is written back.
type Handler func(ctx context.Context, line []byte) (*Submission, error)

// Connection is one match session over a line stream: the engine writes
// frames to our stdin and reads turn submissions from our stdout.
type Connection struct {
	r        *bufio.Reader
	w        *bufio.Writer
	handlers map[MessageType]Handler

	// TurnTimeout bounds a turn handler. Zero means no limit.
	TurnTimeout time.Duration
}

func NewConnection(r io.Reader, w io.Writer, handlers map[MessageType]Handler) *Connection {
	if handlers == nil {
		handlers = make(map[MessageType]Handler)
	}
	return &Connection{
		r:        bufio.NewReaderSize(r, 1<<16),
		w:        bufio.NewWriter(w),
		handlers: handlers,
	}
}

func (c *Connection) RegisterHandler(msgType MessageType, handler Handler) {
	c.handlers[msgType] = handler
}

// Submit writes a turn as two lines (build, then deploy) and flushes.
func (c *Connection) Submit(sub *Submission) error {
	if sub == nil {
		sub = EmptySubmission()
	}
	if err := WriteLine(c.w, sub.Build); err != nil {
		return fmt.Errorf("submit build: %w", err)
	}
	if err := WriteLine(c.w, sub.Deploy); err != nil {
		return fmt.Errorf("submit deploy: %w", err)
	}
	if err := c.w.Flush(); err != nil {
		return fmt.Errorf("submit flush: %w", err)
	}
	return nil
}

// ReadLoop blocks until the match ends, the stream closes or ctx is done.
// Messages are handled strictly in arrival order, so every action frame of a
// resolution is processed before the next turn is planned. A turn always
// gets a submission: if its handler fails an empty turn is sent.
func (c *Connection) ReadLoop(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, err := ReadLine(c.r)
		if err != nil {
			if errors.Is(err, io.EOF) {
				slog.Info("match stream closed")
				return nil
			}
			return err
		}

		msgType, err := Classify(line)
		if err != nil {
			slog.Warn("unreadable message", "bytes", len(line), "error", err)
			continue
		}
		if msgType == TypeEnd {
			slog.Info("match ended")
			if h, ok := c.handlers[TypeEnd]; ok {
				if _, err := h(ctx, line); err != nil {
					slog.Error("handler error", "type", msgType, "error", err)
				}
			}
			return nil
		}

		handler, ok := c.handlers[msgType]
		if !ok {
			slog.Debug("no handler for message type", "type", msgType)
			if msgType == TypeTurn {
				if err := c.Submit(nil); err != nil {
					return err
				}
			}
			continue
		}

		sub, err := c.dispatch(ctx, msgType, handler, line)
		if err != nil {
			slog.Error("handler error", "type", msgType, "error", err)
		}
		if msgType != TypeTurn {
			continue
		}
		if sub == nil {
			sub = EmptySubmission()
		}
		if err := c.Submit(sub); err != nil {
			return err
		}
		slog.Debug("turn submitted", "build", len(sub.Build), "deploy", len(sub.Deploy))
	}
}

func (c *Connection) dispatch(ctx context.Context, msgType MessageType, h Handler, line []byte) (*Submission, error) {
	if msgType == TypeTurn && c.TurnTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.TurnTimeout)
		defer cancel()
	}
	return h(ctx, line)
}
