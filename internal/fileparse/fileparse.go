// Package fileparse decodes uploaded JSON and CSV files into records.
package fileparse

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"math/big"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/sozercan/echarts-ai/internal/jsonvalue"
)

// UnsupportedFormatError is returned for uploads that are neither .json nor .csv.
type UnsupportedFormatError struct {
	Ext string
}

func (e *UnsupportedFormatError) Error() string {
	ext := e.Ext
	if ext == "" {
		ext = "(none)"
	}
	return fmt.Sprintf("unsupported file format %s: upload a JSON or CSV file", ext)
}

// ParseError wraps a decode failure of an otherwise supported upload.
type ParseError struct {
	Format string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Format, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

var errInvalidUTF8 = errors.New("content is not valid UTF-8")

// Parse decodes content according to the suffix of filename. JSON files
// are returned as parsed; CSV files become an array of objects keyed by
// the header row.
func Parse(filename string, content []byte) (jsonvalue.Value, error) {
	switch {
	case strings.HasSuffix(filename, ".json"):
		return parseJSON(content)
	case strings.HasSuffix(filename, ".csv"):
		return parseCSV(content)
	}
	return jsonvalue.Value{}, &UnsupportedFormatError{Ext: filepath.Ext(filename)}
}

func parseJSON(content []byte) (jsonvalue.Value, error) {
	if !utf8.Valid(content) {
		return jsonvalue.Value{}, &ParseError{Format: "json", Err: errInvalidUTF8}
	}
	v, err := jsonvalue.Parse(content)
	if err != nil {
		return jsonvalue.Value{}, &ParseError{Format: "json", Err: err}
	}
	return v, nil
}

var lineBreaks = strings.NewReplacer("\r\n", "\n", "\r", "\n")

func parseCSV(content []byte) (jsonvalue.Value, error) {
	if !utf8.Valid(content) {
		return jsonvalue.Value{}, &ParseError{Format: "csv", Err: errInvalidUTF8}
	}

	r := csv.NewReader(strings.NewReader(lineBreaks.Replace(string(content))))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err == io.EOF {
		return jsonvalue.ArrayOf(), nil
	}
	if err != nil {
		return jsonvalue.Value{}, &ParseError{Format: "csv", Err: err}
	}

	var records []jsonvalue.Value
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return jsonvalue.Value{}, &ParseError{Format: "csv", Err: err}
		}

		members := make([]jsonvalue.Member, 0, len(header))
		for i, name := range header {
			if i >= len(row) {
				members = append(members, jsonvalue.Member{Key: name, Value: jsonvalue.Null()})
				continue
			}
			members = append(members, jsonvalue.Member{Key: name, Value: Coerce(row[i])})
		}
		records = append(records, jsonvalue.ObjectOf(members...))
	}
	return jsonvalue.ArrayOf(records...), nil
}

// Coerce converts a CSV field to a number when it looks like one. A field
// containing "." is tried as a float, anything else as an integer. Fields
// that fail to convert are kept as the original string, so "1.2.3" stays
// text and so does "1e5".
func Coerce(field string) jsonvalue.Value {
	trimmed := strings.TrimSpace(field)
	if strings.Contains(field, ".") {
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil || math.IsInf(f, 0) || math.IsNaN(f) || isHexFloat(trimmed) {
			return jsonvalue.String(field)
		}
		return jsonvalue.Float(f)
	}

	n, ok := new(big.Int).SetString(trimmed, 10)
	if !ok {
		return jsonvalue.String(field)
	}
	if n.IsInt64() {
		return jsonvalue.Int(n.Int64())
	}
	v, err := jsonvalue.Number(n.String())
	if err != nil {
		return jsonvalue.String(field)
	}
	return v
}

func isHexFloat(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X")
}
