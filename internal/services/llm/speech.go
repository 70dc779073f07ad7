package llm

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"

	"github.com/ternarybob/magstudio/internal/common"
)

// SpeechSampleRate is the PCM sample rate returned by the Gemini TTS models
const SpeechSampleRate = 24000

// SynthesizeSpeech requests single-voice narration from the Gemini TTS model and returns
// the first inline audio blob (raw mono PCM). A response without audio yields (nil, nil).
func (f *ProviderFactory) SynthesizeSpeech(ctx context.Context, model, text, voice string) ([]byte, error) {
	client, err := f.GetGeminiClient(ctx)
	if err != nil {
		return nil, err
	}

	if model == "" {
		model = f.geminiConfig.SpeechModel
	}
	model = f.NormalizeModel(model)

	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{
					VoiceName: voice,
				},
			},
		},
	}

	contents := []*genai.Content{
		genai.NewContentFromText(text, genai.RoleUser),
	}

	timeout := common.ParseDurationOr(f.geminiConfig.Timeout, 5*time.Minute)
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var resp *genai.GenerateContentResponse
	err = f.retry.Do(callCtx, f.logger, string(ProviderGemini), func() error {
		if err := f.wait(callCtx); err != nil {
			return err
		}
		var apiErr error
		resp, apiErr = client.Models.GenerateContent(callCtx, model, contents, config)
		return apiErr
	})
	if err != nil {
		return nil, fmt.Errorf("Gemini speech call failed: %w", err)
	}

	audio := firstInlineData(resp)

	f.logger.Debug().
		Str("model", model).
		Str("voice", voice).
		Int("audio_bytes", len(audio)).
		Msg("Speech synthesis completed")

	return audio, nil
}

// firstInlineData returns the first inline blob of the first candidate
func firstInlineData(resp *genai.GenerateContentResponse) []byte {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil
	}
	content := resp.Candidates[0].Content
	if content == nil {
		return nil
	}
	for _, part := range content.Parts {
		if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return part.InlineData.Data
		}
	}
	return nil
}
