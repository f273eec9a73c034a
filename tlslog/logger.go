/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package tlslog provides the structured logging used by the channel engine
// to record protocol-level diagnostics that are never surfaced to callers
// (spec §7: "protocol-error descriptions are not surfaced to the caller").
// It is a narrow, logrus-backed field helper in the style of the teacher's
// own logger package, trimmed to what a library embedded inside someone
// else's process actually needs: a field builder and a handful of
// level-tagged entry points, no hook/formatter plumbing of its own (the
// host application owns logrus's global configuration).
package tlslog

import "github.com/sirupsen/logrus"

// Fields is an immutable-by-convention field set, mirroring the teacher's
// logger.Fields: every mutator returns a new map rather than mutating the
// receiver, so a base field set can be shared across log calls safely.
type Fields map[string]interface{}

// Add returns a copy of f with key/val set.
func (f Fields) Add(key string, val interface{}) Fields {
	out := make(Fields, len(f)+1)
	for k, v := range f {
		out[k] = v
	}
	out[key] = val
	return out
}

func (f Fields) logrus() logrus.Fields {
	out := make(logrus.Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Logger is the narrow logging surface the channel engine depends on. The
// default implementation delegates to the standard logrus logger; embedding
// applications can supply their own via WithEntry.
type Logger interface {
	Debug(fields Fields, msg string)
	Info(fields Fields, msg string)
	Warn(fields Fields, msg string)
	Error(fields Fields, msg string)
}

type logrusLogger struct {
	entry *logrus.Entry
}

// Default returns a Logger backed by logrus's standard logger.
func Default() Logger {
	return &logrusLogger{entry: logrus.NewEntry(logrus.StandardLogger())}
}

// WithEntry returns a Logger backed by a caller-supplied logrus.Entry, so a
// host application's own logrus configuration (formatter, hooks, output)
// flows through unchanged.
func WithEntry(e *logrus.Entry) Logger {
	if e == nil {
		return Default()
	}
	return &logrusLogger{entry: e}
}

func (l *logrusLogger) Debug(f Fields, msg string) { l.entry.WithFields(f.logrus()).Debug(msg) }
func (l *logrusLogger) Info(f Fields, msg string)  { l.entry.WithFields(f.logrus()).Info(msg) }
func (l *logrusLogger) Warn(f Fields, msg string)  { l.entry.WithFields(f.logrus()).Warn(msg) }
func (l *logrusLogger) Error(f Fields, msg string) { l.entry.WithFields(f.logrus()).Error(msg) }

// Noop returns a Logger that discards everything; used as the channel
// engine's default when the caller does not supply one, so logging is
// opt-in rather than forcing logrus global state onto embedders.
func Noop() Logger { return noopLogger{} }

type noopLogger struct{}

func (noopLogger) Debug(Fields, string) {}
func (noopLogger) Info(Fields, string)  {}
func (noopLogger) Warn(Fields, string)  {}
func (noopLogger) Error(Fields, string) {}
