// Package http provides HTTP server and handler implementations.
//
// This file implements utilities for parsing and validating HTTP request data.
// Handlers accept either JSON or form-encoded bodies through the same parser.

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"budget/internal/core"
)

// maxBodyBytes bounds every request body.
const maxBodyBytes = 64 << 10

// FieldError reports a missing or malformed request field. Handlers turn it
// into a 422.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// RequestBodyParser handles different content types for request body parsing.
// It supports both JSON objects and form-encoded data.
type RequestBodyParser struct {
	body        []byte
	contentType string
	jsonData    map[string]any
	formData    url.Values
	parsed      bool
	err         error
}

// NewRequestBodyParser creates a parser for the given request.
// It reads the body once and stores it for subsequent parsing.
func NewRequestBodyParser(w http.ResponseWriter, r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{
		contentType: r.Header.Get("Content-Type"),
	}

	p.body, p.err = io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	return p
}

// Parse attempts to parse the body as JSON or form data.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}

	trimmed := strings.TrimSpace(string(p.body))
	if trimmed == "" {
		p.formData = url.Values{}
		return nil
	}

	if strings.HasPrefix(p.contentType, "application/json") || trimmed[0] == '{' {
		p.jsonData = make(map[string]any)
		if err := json.Unmarshal([]byte(trimmed), &p.jsonData); err != nil {
			p.err = fmt.Errorf("decode JSON body: %w", err)
			return p.err
		}
		return nil
	}

	p.formData, p.err = url.ParseQuery(trimmed)
	if p.err != nil {
		p.err = fmt.Errorf("decode form body: %w", p.err)
	}
	return p.err
}

// Has reports whether key was sent at all.
func (p *RequestBodyParser) Has(key string) bool {
	if p.jsonData != nil {
		_, ok := p.jsonData[key]
		return ok
	}
	if p.formData != nil {
		_, ok := p.formData[key]
		return ok
	}
	return false
}

// Get returns a string value from the parsed data (JSON or form).
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return sanitizeInput(stringValue(val))
		}
		return ""
	}
	if p.formData != nil {
		return sanitizeInput(p.formData.Get(key))
	}
	return ""
}

// RequiredString returns the value of key, failing when it is absent or
// blank.
func (p *RequestBodyParser) RequiredString(key string) (string, error) {
	v := p.Get(key)
	if v == "" {
		return "", &FieldError{Field: key, Reason: "is required"}
	}
	return v, nil
}

// Amount coerces key to an amount. JSON numbers and numeric strings are both
// accepted, with either decimal separator.
func (p *RequestBodyParser) Amount(key string) (float64, error) {
	if !p.Has(key) {
		return 0, &FieldError{Field: key, Reason: "is required"}
	}
	v, err := core.ParseAmount(p.Get(key))
	if err != nil {
		return 0, &FieldError{Field: key, Reason: "must be a number"}
	}
	return v, nil
}

// stringValue converts a decoded JSON value to string.
func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// ParseBodyOrFail reads and parses the request body, returning an error
// response on failure and nil on success.
func ParseBodyOrFail(w http.ResponseWriter, r *http.Request) (*RequestBodyParser, *JSONResponseBuilder) {
	p := NewRequestBodyParser(w, r)
	if err := p.Parse(); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, ErrorResponse(http.StatusRequestEntityTooLarge, "request body too large")
		}
		return nil, BadRequestError("malformed request body")
	}
	return p, nil
}

// fieldErrorResponse maps a FieldError to a 422.
func fieldErrorResponse(err error) *JSONResponseBuilder {
	var fe *FieldError
	if errors.As(err, &fe) {
		return UnprocessableEntityError(fe.Error())
	}
	return UnprocessableEntityError(err.Error())
}
