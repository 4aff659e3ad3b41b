// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logx

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	for s, want := range map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"":      slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"Error": slog.LevelError,
	} {
		lv, err := ParseLevel(s)
		assert.NoError(t, err, s)
		assert.Equal(t, want, lv, s)
	}
	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestHandlerLevel(t *testing.T) {
	var buf bytes.Buffer
	out := termenv.NewOutput(&buf, termenv.WithProfile(termenv.Ascii))
	lg := slog.New(newHandler(out, &buf, slog.LevelWarn))
	lg.Info("hidden")
	assert.Empty(t, buf.String())
	lg.Warn("shown", "frame", 3)
	s := buf.String()
	assert.Contains(t, s, "WARN ")
	assert.NotContains(t, s, "level=")
	assert.Contains(t, s, "msg=shown")
	assert.Contains(t, s, "frame=3")
}

func TestHandlerColor(t *testing.T) {
	var buf bytes.Buffer
	out := termenv.NewOutput(&buf, termenv.WithProfile(termenv.ANSI))
	lg := slog.New(newHandler(out, &buf, slog.LevelDebug))
	lg.Error("boom")
	assert.Contains(t, buf.String(), "\x1b[")
	assert.Contains(t, buf.String(), "ERROR")
}
