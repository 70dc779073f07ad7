package studio

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, s string) interface{} {
	t.Helper()
	var v interface{}
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

func TestValidateSchema_NestedRequired(t *testing.T) {
	value := decode(t, `{"title":"t","description":"d","category":"c","accentColor":"#000",
		"listicleData":{"items":[{"id":"1","title":"a","description":"x"},{"id":"2","description":"y"}]}}`)

	err := validateSchema(value, listicleSchema(), "")
	var violation *SchemaViolationError
	require.True(t, errors.As(err, &violation))
	assert.Equal(t, "listicleData.items[1].title", violation.Path)
}

func TestValidateSchema_WrongType(t *testing.T) {
	value := decode(t, `{"title":5,"description":"d","category":"c","accentColor":"#000","content":"x"}`)

	err := validateSchema(value, pageSchema(nil), "")
	var violation *SchemaViolationError
	require.True(t, errors.As(err, &violation))
	assert.Equal(t, "title", violation.Path)
	assert.Contains(t, violation.Reason, "expected string")
}

func TestValidateSchema_NullCountsAsMissing(t *testing.T) {
	value := decode(t, `{"title":"t","description":null,"category":"c","accentColor":"#000","content":"x"}`)
	assert.Error(t, validateSchema(value, pageSchema(nil), ""))
}

func TestValidateSchema_IntegerAndEnum(t *testing.T) {
	schema := map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"count": map[string]interface{}{"type": "integer"},
			"mode":  map[string]interface{}{"type": "string", "enum": []string{"solo", "duo"}},
		},
	}

	assert.NoError(t, validateSchema(decode(t, `{"count":3,"mode":"duo"}`), schema, ""))
	assert.Error(t, validateSchema(decode(t, `{"count":3.5}`), schema, ""))
	assert.Error(t, validateSchema(decode(t, `{"mode":"trio"}`), schema, ""))
}

func TestValidateSchema_EmptySchemaAcceptsAnything(t *testing.T) {
	assert.NoError(t, validateSchema(decode(t, `[1,2,3]`), nil, ""))
}
