package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/ternarybob/arbor"
	"google.golang.org/genai"

	"github.com/ternarybob/magstudio/internal/common"
)

func newTestFactory(defaultProvider common.LLMProvider) *ProviderFactory {
	cfg := common.NewDefaultConfig()
	cfg.LLM.DefaultProvider = defaultProvider
	return NewProviderFactory(&cfg.Gemini, &cfg.Claude, &cfg.LLM, nil, arbor.NewLogger())
}

func TestDetectProvider(t *testing.T) {
	f := newTestFactory(common.LLMProviderGemini)

	assert.Equal(t, ProviderClaude, f.DetectProvider("claude-sonnet-4-20250514"))
	assert.Equal(t, ProviderClaude, f.DetectProvider("anthropic/claude-opus"))
	assert.Equal(t, ProviderGemini, f.DetectProvider("gemini-3-pro-preview"))
	assert.Equal(t, ProviderGemini, f.DetectProvider("google/gemini-3-flash-preview"))
	assert.Equal(t, ProviderGemini, f.DetectProvider(""))
	assert.Equal(t, ProviderGemini, f.DetectProvider("some-other-model"))

	claudeDefault := newTestFactory(common.LLMProviderClaude)
	assert.Equal(t, ProviderClaude, claudeDefault.DetectProvider(""))
}

func TestNormalizeModel(t *testing.T) {
	f := newTestFactory(common.LLMProviderGemini)

	assert.Equal(t, "claude-sonnet-4-20250514", f.NormalizeModel("claude/claude-sonnet-4-20250514"))
	assert.Equal(t, "gemini-3-pro-preview", f.NormalizeModel("Gemini/gemini-3-pro-preview"))
	assert.Equal(t, "gemini-3-pro-preview", f.NormalizeModel("gemini-3-pro-preview"))
}

func TestFirstInlineData(t *testing.T) {
	assert.Nil(t, firstInlineData(nil))
	assert.Nil(t, firstInlineData(&genai.GenerateContentResponse{}))

	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{
				{Text: "ignored"},
				{InlineData: &genai.Blob{Data: []byte{1, 2, 3}, MIMEType: "audio/pcm"}},
				{InlineData: &genai.Blob{Data: []byte{9}}},
			}},
		}},
	}
	assert.Equal(t, []byte{1, 2, 3}, firstInlineData(resp))
}
