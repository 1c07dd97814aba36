package transport

import (
	"bytes"
	"encoding/json"
)

// MessageResponse is the success body for message-only operations.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the uniform error body. Timestamp is epoch milliseconds
// captured when the error is constructed. ValidationErrors is present only
// for field-validation failures.
type ErrorResponse struct {
	Path             string      `json:"path"`
	Timestamp        int64       `json:"timestamp"`
	Message          string      `json:"message"`
	ValidationErrors FieldErrors `json:"validationErrors,omitempty"`
}

// FieldError is one field's first failed rule, already localized.
type FieldError struct {
	Field   string
	Message string
}

// FieldErrors marshals as a JSON object preserving field declaration order.
// encoding/json sorts map keys, which would scramble the order the rules
// ran in.
type FieldErrors []FieldError

func (f FieldErrors) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, fe := range f {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(fe.Field)
		if err != nil {
			return nil, err
		}
		msg, err := json.Marshal(fe.Message)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(msg)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UserResponse is the public projection of a user record. Password hash and
// activation token never appear here.
type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// TokenResponse is returned when a bearer token is issued.
type TokenResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Token    string `json:"token"`
}

// PageResponse is the listing envelope.
type PageResponse struct {
	Content    []UserResponse `json:"content"`
	Page       int            `json:"page"`
	Size       int            `json:"size"`
	TotalPages int            `json:"totalPages"`
}
