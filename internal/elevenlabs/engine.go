package elevenlabs

import "context"

// Engine abstracts the ElevenLabs API so that the server can be tested with
// a mock implementation and run offline against the stub.
type Engine interface {
	Synthesize(ctx context.Context, voiceID string, req SynthesizeRequest) ([]byte, error)
	CloneVoice(ctx context.Context, req CloneRequest) (Voice, error)
	Voices(ctx context.Context) ([]Voice, error)
	DeleteVoice(ctx context.Context, voiceID string) error
}
