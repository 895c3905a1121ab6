package core

import (
	"errors"
	"net/http"
)

// Problem codes exposed to HTTP clients.
const (
	ProblemCodeDocumentDecode    = "document_decode_failed"
	ProblemCodeUnsupportedFormat = "unsupported_format"
	ProblemCodeEncode            = "encode_failed"
	ProblemCodeTooLarge          = "document_too_large"
	ProblemCodeInvalidInput      = "invalid_input"
	ProblemCodeInternal          = "internal_error"
)

// Problem captures the information returned in an RFC 7807 error response.
type Problem struct {
	Type     string
	Title    string
	Status   int
	Detail   string
	Instance string
	Extras   map[string]any
}

// NormalizeProblem ensures the provided problem includes canonical defaults.
func NormalizeProblem(problem *Problem) *Problem {
	if problem == nil {
		problem = &Problem{}
	}
	if problem.Status == 0 {
		problem.Status = http.StatusInternalServerError
	}
	if problem.Title == "" {
		problem.Title = http.StatusText(problem.Status)
	}
	if problem.Type == "" {
		problem.Type = "about:blank"
	}
	return problem
}

// BuildProblemBody renders the problem as a JSON object. Extras are merged
// last but never replace the reserved keys.
func BuildProblemBody(problem *Problem) map[string]any {
	body := make(map[string]any, len(problem.Extras)+6)
	for key, value := range problem.Extras {
		if _, reserved := reservedProblemKeys[key]; !reserved {
			body[key] = value
		}
	}
	body["status"] = problem.Status
	body["error"] = problem.Title
	if code, ok := problem.Extras["code"]; ok {
		body["code"] = code
	}
	for key, value := range map[string]string{
		"details":  problem.Detail,
		"type":     problem.Type,
		"instance": problem.Instance,
	} {
		if value != "" {
			body[key] = value
		}
	}
	return body
}

// ProblemFromError maps the conversion error kinds onto HTTP problems.
func ProblemFromError(err error) *Problem {
	status, code := http.StatusInternalServerError, ProblemCodeInternal
	extras := map[string]any{}
	var decodeErr *DocumentDecodeError
	var formatErr *UnsupportedFormatError
	var encodeErr *EncodeError
	switch {
	case errors.Is(err, ErrDocumentTooLarge):
		status, code = http.StatusRequestEntityTooLarge, ProblemCodeTooLarge
		if errors.As(err, &decodeErr) {
			extras["file"] = decodeErr.Name
		}
	case errors.As(err, &decodeErr):
		status, code = http.StatusUnprocessableEntity, ProblemCodeDocumentDecode
		extras["file"] = decodeErr.Name
	case errors.As(err, &formatErr):
		status, code = http.StatusBadRequest, ProblemCodeUnsupportedFormat
		extras["format"] = formatErr.Value
	case errors.As(err, &encodeErr):
		status, code = http.StatusInternalServerError, ProblemCodeEncode
		extras["format"] = encodeErr.Format
	}
	extras["code"] = code
	detail := ""
	if err != nil {
		detail = err.Error()
	}
	return NormalizeProblem(&Problem{Status: status, Detail: detail, Extras: extras})
}

var reservedProblemKeys = map[string]struct{}{
	"status": {}, "error": {}, "details": {}, "code": {}, "type": {}, "instance": {},
}
