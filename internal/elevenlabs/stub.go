package elevenlabs

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
)

// StubEngine implements the Engine interface with deterministic output.
// It is intended for CI and testing environments where the real
// ElevenLabs API is unavailable.
type StubEngine struct {
	log *slog.Logger
}

// NewStubEngine returns a stub that generates silent audio proportional
// to the input text length and derives clone voice IDs from the name.
func NewStubEngine(logger *slog.Logger) *StubEngine {
	if logger == nil {
		logger = slog.Default()
	}
	return &StubEngine{log: logger}
}

// Synthesize returns deterministic silent audio. The output size is
// len(text) * 320 bytes (320 bytes ≈ 10 ms at 16 kHz mono PCM16).
func (s *StubEngine) Synthesize(_ context.Context, voiceID string, req SynthesizeRequest) ([]byte, error) {
	if voiceID == "" {
		return nil, fmt.Errorf("elevenlabs: voice_id is required")
	}
	if req.Text == "" {
		return nil, fmt.Errorf("elevenlabs: text is required")
	}

	audio := make([]byte, len(req.Text)*320)

	s.log.Info("stub synthesis",
		"text_length", len(req.Text),
		"voice_id", voiceID,
		"bytes", len(audio),
	)

	return audio, nil
}

// CloneVoice returns a voice whose ID is derived from the clone name, so
// repeated calls with the same name yield the same ID.
func (s *StubEngine) CloneVoice(_ context.Context, req CloneRequest) (Voice, error) {
	if req.Name == "" {
		return Voice{}, fmt.Errorf("elevenlabs: name is required")
	}
	if len(req.Samples) == 0 {
		return Voice{}, fmt.Errorf("elevenlabs: at least one audio sample is required")
	}

	sum := sha256.Sum256([]byte(req.Name))
	voice := Voice{
		VoiceID:  fmt.Sprintf("%x", sum[:10]),
		Name:     req.Name,
		Category: "cloned",
	}

	s.log.Info("stub voice clone",
		"name", req.Name,
		"samples", len(req.Samples),
		"voice_id", voice.VoiceID,
	)

	return voice, nil
}

// Voices returns a fixed premade set.
func (s *StubEngine) Voices(_ context.Context) ([]Voice, error) {
	return []Voice{
		{VoiceID: "TxGEqnHWrfWFTfGW9XjX", Name: "Josh", Category: "premade"},
		{VoiceID: "21m00Tcm4TlvDq8ikWAM", Name: "Rachel", Category: "premade"},
	}, nil
}

// DeleteVoice accepts any non-empty voice ID.
func (s *StubEngine) DeleteVoice(_ context.Context, voiceID string) error {
	if voiceID == "" {
		return fmt.Errorf("elevenlabs: voice_id is required")
	}
	s.log.Info("stub voice delete", "voice_id", voiceID)
	return nil
}
