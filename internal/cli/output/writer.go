// Package output writes response bodies to their destination.
package output

import (
	"bytes"
	"encoding/json"
	"io"
	"os"

	"github.com/cockroachdb/errors"
)

// Stdout is the destination value selecting standard output.
const Stdout = "-"

// Formatter renders a response body to a writer.
type Formatter interface {
	Format(w io.Writer, body []byte) error
}

// RawFormatter writes the body byte-for-byte.
type RawFormatter struct{}

// Format writes the raw bytes unchanged.
func (RawFormatter) Format(w io.Writer, body []byte) error {
	_, err := w.Write(body)
	return err
}

// JSONFormatter re-indents JSON bodies for human consumption. Bodies
// that are not valid JSON pass through unchanged.
type JSONFormatter struct{}

// Format writes the body with two-space indentation when it is valid
// JSON, raw bytes otherwise.
func (JSONFormatter) Format(w io.Writer, body []byte) error {
	if !json.Valid(body) {
		_, err := w.Write(body)
		return err
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, body, "", "  "); err != nil {
		_, werr := w.Write(body)
		return werr
	}
	buf.WriteByte('\n')
	_, err := buf.WriteTo(w)
	return err
}

// NewFormatter selects the formatter for the pretty flag.
func NewFormatter(pretty bool) Formatter {
	if pretty {
		return JSONFormatter{}
	}
	return RawFormatter{}
}

// Write renders the body to dest. "-" (or empty) selects stdout; any
// other value is a file path. File destinations are created fresh,
// written, and closed on every path, including failures.
func Write(dest string, pretty bool, body []byte) error {
	f := NewFormatter(pretty)

	if dest == "" || dest == Stdout {
		return f.Format(os.Stdout, body)
	}

	file, err := os.Create(dest)
	if err != nil {
		return errors.Wrapf(err, "create output file %s", dest)
	}

	ferr := f.Format(file, body)
	if cerr := file.Close(); ferr == nil && cerr != nil {
		ferr = errors.Wrapf(cerr, "close output file %s", dest)
	}
	return ferr
}
