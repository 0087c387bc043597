package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// ErrorResponse is the body of failed API calls.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is the body of API calls that only report an outcome.
type MessageResponse struct {
	Message string `json:"message"`
}

// ChangesResponse reports how many leads a mutation matched.
type ChangesResponse struct {
	Message string `json:"message"`
	Changes int64  `json:"changes"`
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, MessageResponse{Message: message})
}

// fields is a decoded request body. A key that is absent or JSON null maps
// to a nil value.
type fields map[string]*string

func (f fields) get(key string) *string {
	return f[key]
}

// readFields decodes a form-encoded or JSON object body. Non-string JSON
// scalars are kept in their textual form.
func readFields(r *http.Request) (fields, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch mediaType {
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return nil, err
		}
		out := fields{}
		for key, values := range r.PostForm {
			if len(values) > 0 {
				v := values[0]
				out[key] = &v
			}
		}
		return out, nil
	default:
		var raw map[string]any
		dec := json.NewDecoder(r.Body)
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				return fields{}, nil
			}
			return nil, err
		}
		out := make(fields, len(raw))
		for key, value := range raw {
			switch typed := value.(type) {
			case nil:
				out[key] = nil
			case string:
				out[key] = &typed
			default:
				s := fmt.Sprint(typed)
				out[key] = &s
			}
		}
		return out, nil
	}
}

func parseLeadID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "leadID"), 10, 64)
}
