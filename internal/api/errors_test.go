package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeError_DetailString(t *testing.T) {
	e := DecodeError(401, []byte(`{"detail":"Incorrect username or password"}`))

	assert.Equal(t, KindMessage, e.Kind)
	assert.Equal(t, 401, e.Status)
	assert.Equal(t, "Incorrect username or password", e.Message)
	assert.Equal(t, []string{"Incorrect username or password"}, e.Lines())
}

func TestDecodeError_ValidationList(t *testing.T) {
	body := `{"detail":[
		{"loc":["body","password1"],"msg":"ensure this value has at least 4 characters","type":"value_error"},
		{"loc":["body","email"],"msg":"value is not a valid email address","type":"value_error"}
	]}`
	e := DecodeError(422, []byte(body))

	require.Equal(t, KindFieldErrors, e.Kind)
	require.Len(t, e.Fields, 2)
	assert.Equal(t, "password1", e.Fields[0].Field)
	assert.Equal(t, "email", e.Fields[1].Field)
	assert.Len(t, e.Lines(), 2)
	assert.Contains(t, e.Lines()[0], "password1: ")
}

func TestDecodeError_MessageObject(t *testing.T) {
	e := DecodeError(500, []byte(`{"message":"database unavailable"}`))
	assert.Equal(t, KindMessage, e.Kind)
	assert.Equal(t, "database unavailable", e.Message)
}

func TestDecodeError_ErrorObject(t *testing.T) {
	e := DecodeError(400, []byte(`{"error":"bad request"}`))
	assert.Equal(t, "bad request", e.Message)
}

func TestDecodeError_BareString(t *testing.T) {
	e := DecodeError(403, []byte(`"forbidden"`))
	assert.Equal(t, KindMessage, e.Kind)
	assert.Equal(t, "forbidden", e.Message)
}

func TestDecodeError_UnknownShapeKeepsRawBody(t *testing.T) {
	e := DecodeError(502, []byte(`<html>bad gateway</html>`))
	assert.Equal(t, KindMessage, e.Kind)
	assert.Contains(t, e.Message, "bad gateway")
}

func TestDecodeError_NumericLocElement(t *testing.T) {
	e := DecodeError(422, []byte(`{"detail":[{"loc":["body",0],"msg":"invalid","type":"value_error"}]}`))
	require.Equal(t, KindFieldErrors, e.Kind)
	assert.Equal(t, "item 0", e.Fields[0].Field)
}
