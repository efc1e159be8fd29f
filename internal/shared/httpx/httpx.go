package httpx

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
)

type HandlerFunc func(http.ResponseWriter, *http.Request) error

// Envelope is the standardized error body returned for every failed
// request: {status, error, errorCode, message, details, path}.
type Envelope struct {
	Status    int      `json:"status"`
	ErrorText string   `json:"error"`
	ErrorCode string   `json:"errorCode"`
	Message   string   `json:"message"`
	Details   []string `json:"details"`
	Path      string   `json:"path"`
}

// Error carries everything the envelope needs except the request path,
// which WriteError fills in at the boundary.
type Error struct {
	Status  int
	Code    string
	Message string
	Details []string
}

func (e *Error) Error() string { return e.Message }

func NewError(status int, code, message string, details ...string) *Error {
	return &Error{Status: status, Code: code, Message: message, Details: details}
}

func WriteJSON(w http.ResponseWriter, v any, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, r *http.Request, e *Error) {
	details := e.Details
	if details == nil {
		details = []string{}
	}
	WriteJSON(w, Envelope{
		Status:    e.Status,
		ErrorText: http.StatusText(e.Status),
		ErrorCode: e.Code,
		Message:   e.Message,
		Details:   details,
		Path:      r.URL.Path,
	}, e.Status)
}

// Wrap converts an error-returning handler into an http.Handler.
// *Error values keep their status and code; anything else becomes a 500.
func Wrap(fn HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		err := fn(w, r)
		if err == nil {
			return
		}
		var he *Error
		if !errors.As(err, &he) {
			he = NewError(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR",
				"An unexpected error occurred.", err.Error())
		}
		WriteError(w, r, he)
	})
}

func Decode[T any](r *http.Request) (T, error) {
	var t T
	err := json.NewDecoder(r.Body).Decode(&t)
	return t, err
}

// CORS allows any origin on every route, matching the API's
// browser-facing deployment.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ClientIP is the per-client key for throttling wrappers.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
