package apiutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

type FieldError struct {
	Field  string
	Reason string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

type HandlerError struct {
	Status  int
	Message string
	Err     error
}

func (e HandlerError) Error() string {
	return e.Message
}

func (e HandlerError) Unwrap() error {
	return e.Err
}

// DecodeJSON decodes the request body into dst, rejecting unknown fields and
// trailing content. Decode failures come back as a HandlerError wrapping the
// underlying error, so callers can still errors.Is against io.EOF for an empty
// body.
func DecodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return HandlerError{Status: http.StatusBadRequest, Message: "missing request body"}
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return HandlerError{Status: http.StatusBadRequest, Message: "invalid JSON body", Err: err}
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return HandlerError{Status: http.StatusBadRequest, Message: "invalid JSON body"}
	}
	return nil
}

func WriteJSON(w http.ResponseWriter, status int, payload any) error {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	if err := encoder.Encode(payload); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err := w.Write(buf.Bytes())
	return err
}
