package transport

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldErrors_MarshalPreservesOrder(t *testing.T) {
	fields := FieldErrors{
		{Field: "username", Message: "Username cannot be null"},
		{Field: "email", Message: "E-mail cannot be null"},
		{Field: "password", Message: "Password cannot be null"},
	}

	out, err := json.Marshal(fields)
	require.NoError(t, err)

	assert.Equal(t, `{"username":"Username cannot be null","email":"E-mail cannot be null","password":"Password cannot be null"}`, string(out))
}

func TestErrorResponse_OmitsEmptyValidationErrors(t *testing.T) {
	out, err := json.Marshal(ErrorResponse{
		Path:      "/api/1.0/users",
		Timestamp: 1561895988555,
		Message:   "E-mail Failure",
	})
	require.NoError(t, err)

	assert.JSONEq(t, `{"path":"/api/1.0/users","timestamp":1561895988555,"message":"E-mail Failure"}`, string(out))
}

func TestFieldErrors_EscapesStrings(t *testing.T) {
	out, err := json.Marshal(FieldErrors{{Field: "user\"name", Message: "a\nb"}})
	require.NoError(t, err)

	var decoded map[string]string
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, "a\nb", decoded[`user"name`])
}
