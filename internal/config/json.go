package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
)

func decodeJSON(path string, data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, malformed(path, "source is empty")
		}
		e := &MalformedConfigError{Path: path, Detail: "invalid JSON", Err: err}
		var syn *json.SyntaxError
		if errors.As(err, &syn) {
			e.Line, e.Column = lineCol(data, syn.Offset)
		}
		return nil, e
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		e := malformed(path, "unexpected data after the top-level object")
		e.Line, e.Column = lineCol(data, dec.InputOffset())
		return nil, e
	}

	doc, ok := v.(map[string]any)
	if !ok {
		return nil, malformed(path, "top level must be an object, got %s", typeName(v))
	}
	return doc, nil
}

// lineCol converts a byte offset into a 1-based line and column.
func lineCol(data []byte, offset int64) (int, int) {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	line, col := 1, 1
	for _, b := range data[:offset] {
		if b == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return line, col
}
