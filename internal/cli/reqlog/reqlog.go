// Package reqlog appends request/response audit entries to a log file.
//
// Entries are slog JSON lines sharing a per-invocation ULID, so
// overlapping invocations remain distinguishable. Credential material
// is redacted before it reaches the file, and logging failures never
// break the main flow.
package reqlog

import (
	"encoding/base64"
	"log/slog"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"github.com/oklog/ulid/v2"

	"github.com/plmtools/centric-cli/internal/telemetry/logger"
)

// Log writes audit entries for one invocation.
type Log struct {
	file *os.File
	slog *slog.Logger
}

// Open opens the audit log in append mode, creating the parent
// directory as needed. An empty path disables auditing and returns nil.
func Open(path string) (*Log, error) {
	if path == "" {
		return nil, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, errors.Wrap(err, "create log directory")
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, errors.Wrapf(err, "open audit log %s", path)
	}

	handler := slog.NewJSONHandler(file, &slog.HandlerOptions{
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			return logger.RedactAttr(a)
		},
	})

	return &Log{
		file: file,
		slog: slog.New(handler).With("invocation_id", ulid.Make().String()),
	}, nil
}

// Close flushes and closes the underlying file.
func (l *Log) Close() error {
	if l == nil {
		return nil
	}
	return l.file.Close()
}

// Request records an outgoing request.
func (l *Log) Request(method, url string, body []byte, note string) {
	if l == nil {
		return
	}
	l.slog.Info("request",
		"phase", "request",
		"method", method,
		"url", url,
		"request_body", SafeBody(body),
		"note", note,
	)
}

// Response records a completed exchange.
func (l *Log) Response(method, url string, status int, body []byte, note string) {
	if l == nil {
		return
	}
	l.slog.Info("response",
		"phase", "response",
		"method", method,
		"url", url,
		"status", status,
		"response_body", SafeBody(body),
		"note", note,
	)
}

// Failure records a failed attempt.
func (l *Log) Failure(method, url string, note string) {
	if l == nil {
		return
	}
	l.slog.Info("error",
		"phase", "error",
		"method", method,
		"url", url,
		"note", note,
	)
}

// SafeBody renders a body for logging: UTF-8 text verbatim, anything
// else base64 with a marker prefix.
func SafeBody(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	if utf8.Valid(body) {
		return string(body)
	}
	return "base64:" + base64.StdEncoding.EncodeToString(body)
}
