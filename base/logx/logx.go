// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package logx provides the default slog handler and user level
// used by the app, with level names colored for the terminal.
package logx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/muesli/termenv"
)

// UserLevel is the verbosity [slog.Level] that the user has selected
// for what logging and printing messages should be shown. Messages at
// levels at or above this level will be shown. It should typically be
// set through the command line flag. It defaults to [slog.LevelInfo],
// or Debug / Warn under the debug / release build tags.
var UserLevel = defaultUserLevel

// LevelColors are the terminal colors used for each level name.
var LevelColors = map[slog.Level]termenv.ANSIColor{
	slog.LevelDebug: termenv.ANSIBrightBlack,
	slog.LevelInfo:  termenv.ANSICyan,
	slog.LevelWarn:  termenv.ANSIYellow,
	slog.LevelError: termenv.ANSIRed,
}

// Handler is a text [slog.Handler] that prints the level name first,
// colored according to the color profile of its output.
type Handler struct {
	slog.Handler

	out *termenv.Output
	w   io.Writer
	mu  *sync.Mutex
}

// NewHandler returns a new [Handler] writing to w at the given
// minimum level. Colors are only used when w is a terminal.
func NewHandler(w io.Writer, level slog.Leveler) *Handler {
	return newHandler(termenv.NewOutput(w), w, level)
}

func newHandler(out *termenv.Output, w io.Writer, level slog.Leveler) *Handler {
	th := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && a.Key == slog.LevelKey {
				return slog.Attr{}
			}
			return a
		},
	})
	return &Handler{Handler: th, out: out, w: w, mu: &sync.Mutex{}}
}

func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	lv := r.Level.String()
	if clr, ok := LevelColors[r.Level]; ok {
		lv = h.out.String(lv).Foreground(clr).String()
	}
	if _, err := io.WriteString(h.w, lv+" "); err != nil {
		return err
	}
	return h.Handler.Handle(ctx, r)
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{Handler: h.Handler.WithAttrs(attrs), out: h.out, w: h.w, mu: h.mu}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{Handler: h.Handler.WithGroup(name), out: h.out, w: h.w, mu: h.mu}
}

// SetDefault installs a [NewHandler] on stderr as the default slog
// logger, at the given level, and sets [UserLevel] to it.
func SetDefault(level slog.Level) {
	UserLevel = level
	slog.SetDefault(slog.New(NewHandler(os.Stderr, level)))
}

// ParseLevel parses a level name (debug, info, warn, error),
// case insensitively.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return UserLevel, fmt.Errorf("logx: unknown log level %q", s)
}
