package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/klauspost/compress/gzip"
	"golang.org/x/text/encoding/unicode"
)


// Body is the decoded response published with [EventEnd].
type Body struct {
	text  string
	value any
	json  bool
}

// Text returns the response as text, after any gzip decompression.
func (b Body) Text() string { return b.text }

// IsJSON reports whether the response was parsed as JSON.
func (b Body) IsJSON() bool { return b.json }

// Value returns the parsed JSON value when IsJSON is true, otherwise the
// text.
func (b Body) Value() any {
	if b.json {
		return b.value
	}
	return b.text
}

// Decode unmarshals the response text into dest, which must be a pointer.
func (b Body) Decode(dest any) error {
	if err := json.Unmarshal([]byte(b.text), dest); err != nil {
		return fmt.Errorf("decoding body: %w", err)
	}
	return nil
}

// accumulator holds the chunks of one response in arrival order.
type accumulator struct {
	chunks [][]byte
	size   int
}

// add stores a copy of p, since the caller reuses its read buffer.
func (a *accumulator) add(p []byte) {
	a.chunks = append(a.chunks, bytes.Clone(p))
	a.size += len(p)
}

func (a *accumulator) bytes() []byte {
	out := make([]byte, 0, a.size)
	for _, c := range a.chunks {
		out = append(out, c...)
	}
	return out
}

// decodeBody turns the complete response into a Body. Content-Encoding
// must be exactly "gzip" to trigger decompression, and Content-Type must
// contain "application/json;" for the text to be parsed.
func decodeBody(header http.Header, raw []byte, useNumber bool) (Body, error) {
	if header.Get("Content-Encoding") == "gzip" && len(raw) > 0 {
		plain, err := gunzip(raw)
		if err != nil {
			return Body{}, &DecodeError{Stage: StageGzip, Err: err}
		}
		raw = plain
	}

	// Decoders carry state; each call gets its own. Every invalid byte
	// becomes one U+FFFD.
	text, err := unicode.UTF8.NewDecoder().Bytes(raw)
	if err != nil {
		return Body{}, &DecodeError{Stage: StageText, Err: err}
	}
	body := Body{text: string(text)}

	if strings.Contains(header.Get("Content-Type"), "application/json;") {
		v, err := parseJSON(body.text, useNumber)
		if err != nil {
			return Body{}, &DecodeError{Stage: StageJSON, Err: err}
		}
		body.value = v
		body.json = true
	}

	return body, nil
}

func gunzip(raw []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("opening gzip stream: %w", err)
	}
	defer zr.Close()

	plain, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("reading gzip stream: %w", err)
	}

	return plain, nil
}

// parseJSON parses exactly one JSON value; trailing data is an error.
func parseJSON(text string, useNumber bool) (any, error) {
	d := json.NewDecoder(strings.NewReader(text))
	if useNumber {
		d.UseNumber()
	}

	var v any
	if err := d.Decode(&v); err != nil {
		return nil, err
	}

	if _, err := d.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after top-level value")
	}

	return v, nil
}
