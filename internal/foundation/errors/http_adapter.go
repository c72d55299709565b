package errors

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// HTTPErrorResponse is the JSON body written for failed requests.
type HTTPErrorResponse struct {
	Error   string         `json:"error"`
	Code    string         `json:"code,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// HTTPErrorAdapter turns errors into status codes and JSON bodies for the preview server.
type HTTPErrorAdapter struct {
	logger *slog.Logger
}

// NewHTTPErrorAdapter returns an adapter logging to logger, or slog.Default() when nil.
func NewHTTPErrorAdapter(logger *slog.Logger) *HTTPErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPErrorAdapter{logger: logger}
}

var statusByCategory = map[ErrorCategory]int{
	CategoryValidation: http.StatusBadRequest,
	CategoryNotFound:   http.StatusNotFound,
	CategoryRender:     http.StatusUnprocessableEntity,
	CategoryRuntime:    http.StatusServiceUnavailable,
}

// StatusCodeFor returns the HTTP status for err; anything unmapped is a 500.
func (a *HTTPErrorAdapter) StatusCodeFor(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if ce, ok := AsClassified(err); ok {
		if status, ok := statusByCategory[ce.Category()]; ok {
			return status
		}
	}
	return http.StatusInternalServerError
}

// FormatErrorResponse builds the JSON body for err.
func (a *HTTPErrorAdapter) FormatErrorResponse(err error) HTTPErrorResponse {
	if err == nil {
		return HTTPErrorResponse{}
	}
	ce, ok := AsClassified(err)
	if !ok {
		return HTTPErrorResponse{Error: err.Error()}
	}
	return HTTPErrorResponse{
		Error:   ce.Message(),
		Code:    string(ce.Category()),
		Details: ce.Context().Map(),
	}
}

// WriteErrorResponse writes err as JSON with its status and logs it.
func (a *HTTPErrorAdapter) WriteErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		w.WriteHeader(http.StatusOK)
		return
	}

	status := a.StatusCodeFor(err)
	body, jerr := json.Marshal(a.FormatErrorResponse(err))
	if jerr != nil {
		body = []byte(`{"error":"internal error"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)

	level := slog.LevelError
	if ce, ok := AsClassified(err); ok {
		level = ce.Severity().Level()
	}
	a.logger.Log(r.Context(), level, err.Error(), "path", r.URL.Path, "status", status)
}
