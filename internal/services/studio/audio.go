package studio

import (
	"context"
	"encoding/base64"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/magstudio/internal/models"
)

// SpeechSynthesizer produces raw PCM narration; *llm.ProviderFactory satisfies it
type SpeechSynthesizer interface {
	SynthesizeSpeech(ctx context.Context, model, text, voice string) ([]byte, error)
}

var podcastVoices = map[models.PodcastMode]string{
	models.PodcastModeSolo: "Kore",
	models.PodcastModeDuo:  "Puck",
}

// VoiceFor returns the prebuilt voice for a podcast mode. Unset means solo.
func VoiceFor(mode models.PodcastMode) string {
	if voice, ok := podcastVoices[mode]; ok {
		return voice
	}
	return podcastVoices[models.PodcastModeSolo]
}

// NarrationText is the script read aloud for a podcast result
func NarrationText(topic string, result *models.GenerationResult) string {
	parts := []string{"Welcome to this special podcast episode on " + strings.TrimSpace(topic) + "."}
	if title := strings.TrimSpace(result.Title); title != "" {
		parts = append(parts, strings.TrimSuffix(title, ".")+".")
	}
	if description := strings.TrimSpace(result.Description); description != "" {
		parts = append(parts, description)
	}
	return strings.Join(parts, " ")
}

// AudioAdapter attaches narration to podcast results
type AudioAdapter struct {
	synth  SpeechSynthesizer
	model  string
	logger arbor.ILogger
}

// NewAudioAdapter creates an adapter that narrates with the given TTS model
func NewAudioAdapter(synth SpeechSynthesizer, model string, logger arbor.ILogger) *AudioAdapter {
	return &AudioAdapter{synth: synth, model: model, logger: logger}
}

// Narrate returns base64 PCM for the result. A failed or empty synthesis
// returns "" with degraded set; it never fails the generation.
func (a *AudioAdapter) Narrate(ctx context.Context, req *models.GenerationRequest, result *models.GenerationResult) (audio string, degraded bool) {
	voice := VoiceFor(req.Mode)

	pcm, err := a.synth.SynthesizeSpeech(ctx, a.model, NarrationText(req.Topic, result), voice)
	if err != nil {
		a.logger.Warn().
			Str("voice", voice).
			Str("model", a.model).
			Err(err).
			Msg("Speech synthesis failed, returning podcast without audio")
		return "", true
	}
	if len(pcm) == 0 {
		a.logger.Warn().
			Str("voice", voice).
			Str("model", a.model).
			Msg("Speech synthesis returned no audio, returning podcast without audio")
		return "", true
	}

	return base64.StdEncoding.EncodeToString(pcm), false
}
