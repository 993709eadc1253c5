// Copyright 2024 The uztadh/P Authors
// This file is part of uztadh/P.
//
// uztadh/P is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// uztadh/P is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with uztadh/P. If not, see <http://www.gnu.org/licenses/>.

// Package obslog wraps logiface/stumpy with the handful of structured
// fields the scheduler actually emits when a monitor announce or a machine
// dispatch fails: search depth, machine handle and event tag. It plays the role
// ProbeChain's own log package plays for the rest of that codebase, except
// built on a real importable logging library rather than an unavailable
// internal one.
package obslog

import (
	"io"
	"os"

	"github.com/joeycumines/go-utilpkg/logiface"
	"github.com/joeycumines/go-utilpkg/logiface/stumpy"
)

// Logger is the scheduler-wide structured logger handle.
type Logger struct {
	l *logiface.Logger[*stumpy.Event]
}

// New builds a Logger writing JSON lines to w at the given minimum level
// ("debug", "info", "warn", "error"; anything else defaults to info).
func New(w io.Writer, level string) *Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := []logiface.Option[*stumpy.Event]{
		stumpy.WithStumpy(stumpy.WithWriter(w)),
		logiface.WithLevel[*stumpy.Event](parseLevel(level)),
	}
	return &Logger{l: logiface.New(opts...)}
}

func parseLevel(level string) logiface.Level {
	switch level {
	case "debug":
		return logiface.LevelDebug
	case "warn", "warning":
		return logiface.LevelWarning
	case "error":
		return logiface.LevelError
	default:
		return logiface.LevelInformational
	}
}

// Event starts a structured log record at the given severity, for a
// specific machine handle, scheduler step and event tag. Pass "" for
// machine/eventTag when not applicable (e.g. engine-lifecycle messages).
func (lg *Logger) Event(level logiface.Level, step int, machine, eventTag, msg string, fields map[string]any) {
	if lg == nil || lg.l == nil {
		return
	}
	b := lg.l.Build(level)
	if b == nil {
		return
	}
	b = b.Int("step", step)
	if machine != "" {
		b = b.Str("machine", machine)
	}
	if eventTag != "" {
		b = b.Str("event", eventTag)
	}
	for k, v := range fields {
		b = b.Field(k, v)
	}
	b.Log(msg)
}

func (lg *Logger) Info(step int, machine, eventTag, msg string, fields map[string]any) {
	lg.Event(logiface.LevelInformational, step, machine, eventTag, msg, fields)
}

func (lg *Logger) Debug(step int, machine, eventTag, msg string, fields map[string]any) {
	lg.Event(logiface.LevelDebug, step, machine, eventTag, msg, fields)
}

func (lg *Logger) Warn(step int, machine, eventTag, msg string, fields map[string]any) {
	lg.Event(logiface.LevelWarning, step, machine, eventTag, msg, fields)
}

func (lg *Logger) Error(step int, machine, eventTag, msg string, err error, fields map[string]any) {
	if lg == nil || lg.l == nil {
		return
	}
	b := lg.l.Err()
	if b == nil {
		return
	}
	if err != nil {
		b = b.Err(err)
	}
	b = b.Int("step", step)
	if machine != "" {
		b = b.Str("machine", machine)
	}
	if eventTag != "" {
		b = b.Str("event", eventTag)
	}
	for k, v := range fields {
		b = b.Field(k, v)
	}
	b.Log(msg)
}
