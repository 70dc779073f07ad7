package studio

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/magstudio/internal/services/llm"
)

func TestInvoke_PassesRequestThrough(t *testing.T) {
	gen := &mockGenerator{}
	schema := pageSchema(nil)
	gen.On("GenerateContent", mock.Anything, mock.MatchedBy(func(r *llm.ContentRequest) bool {
		return r.Model == "gemini-3-pro-preview" && r.Prompt == "write" && r.Grounded && len(r.OutputSchema) > 0
	})).Return(textResponse(pageJSON(t, "<p>x</p>")), nil)

	inv := NewInvoker(gen, testLogger())
	parsed, err := inv.Invoke(context.Background(), "gemini-3-pro-preview", "write", schema, true)
	require.NoError(t, err)
	assert.Equal(t, "Episode One", parsed["title"])
	gen.AssertExpectations(t)
}

func TestInvoke_AcceptsFencedJSON(t *testing.T) {
	gen := &mockGenerator{}
	gen.On("GenerateContent", mock.Anything, mock.Anything).
		Return(textResponse("```json\n"+pageJSON(t, "<p>x</p>")+"\n```"), nil)

	parsed, err := NewInvoker(gen, testLogger()).Invoke(context.Background(), "m", "p", pageSchema(nil), false)
	require.NoError(t, err)
	assert.Equal(t, "<p>x</p>", parsed["content"])
}

func TestInvoke_Errors(t *testing.T) {
	tests := []struct {
		name string
		text string
		err  error
		kind string
	}{
		{name: "transport", err: errors.New("503 unavailable"), kind: KindTransport},
		{name: "not json", text: "<html>oops</html>", kind: KindMalformedResponse},
		{name: "truncated json", text: `{"title": "a"`, kind: KindMalformedResponse},
		{name: "missing required", text: `{"title":"a","description":"b"}`, kind: KindSchemaViolation},
		{name: "array root", text: `[1,2]`, kind: KindSchemaViolation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &mockGenerator{}
			if tt.err != nil {
				gen.On("GenerateContent", mock.Anything, mock.Anything).Return(nil, tt.err)
			} else {
				gen.On("GenerateContent", mock.Anything, mock.Anything).Return(textResponse(tt.text), nil)
			}

			parsed, err := NewInvoker(gen, testLogger()).Invoke(context.Background(), "m", "p", pageSchema(nil), false)
			assert.Nil(t, parsed)
			assert.Equal(t, tt.kind, ErrorKind(err))
		})
	}
}

func TestInvoke_ObjectRootWithoutSchema(t *testing.T) {
	gen := &mockGenerator{}
	gen.On("GenerateContent", mock.Anything, mock.Anything).Return(textResponse(`"just a string"`), nil)

	_, err := NewInvoker(gen, testLogger()).Invoke(context.Background(), "m", "p", nil, false)
	var violation *SchemaViolationError
	assert.True(t, errors.As(err, &violation))
}
