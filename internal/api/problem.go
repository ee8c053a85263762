package api

import (
	"encoding/json"
	"mime"
	"net/http"
)

// Problem is an RFC 9457 Problem Details body as returned by the API on
// non-2xx responses. Only title and status are guaranteed; everything else
// is optional, including the service-specific code/retryable/trace_id and
// violations extensions.
type Problem struct {
	Type       string      `json:"type,omitempty"`
	Title      string      `json:"title"`
	Status     int         `json:"status"`
	Detail     string      `json:"detail,omitempty"`
	Instance   string      `json:"instance,omitempty"`
	Code       string      `json:"code,omitempty"`
	Retryable  *bool       `json:"retryable,omitempty"`
	TraceID    string      `json:"trace_id,omitempty"`
	Violations []Violation `json:"violations,omitempty"`
}

// Violation describes a single invalid field in a rejected request.
type Violation struct {
	Path    string `json:"path,omitempty"`
	Message string `json:"message"`
}

// String returns a short human-readable form, preferring detail over title.
func (p *Problem) String() string {
	if p.Detail != "" {
		return p.Detail
	}
	return p.Title
}

// DecodeProblem parses an error response body into a Problem. Bodies that are
// not JSON problem material (wrong content type, empty, malformed) degrade to
// a minimal Problem built from the HTTP status; decoding never fails.
func DecodeProblem(status int, contentType string, body []byte) *Problem {
	if len(body) == 0 || !jsonContentType(contentType) {
		return minimalProblem(status)
	}

	var p Problem
	if err := json.Unmarshal(body, &p); err != nil {
		return minimalProblem(status)
	}
	if p.Title == "" {
		p.Title = http.StatusText(status)
	}
	if p.Status == 0 {
		p.Status = status
	}
	return &p
}

func minimalProblem(status int) *Problem {
	return &Problem{
		Title:  http.StatusText(status),
		Status: status,
	}
}

func jsonContentType(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	switch mt {
	case "application/json", "application/problem+json":
		return true
	}
	return false
}
