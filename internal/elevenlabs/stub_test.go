package elevenlabs

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
)

func TestStubSynthesizeSuccess(t *testing.T) {
	stub := NewStubEngine(slog.Default())
	data, err := stub.Synthesize(context.Background(), "voice-1", SynthesizeRequest{Text: "hello"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := len("hello") * 320
	if len(data) != want {
		t.Errorf("got %d bytes, want %d", len(data), want)
	}
}

func TestStubSynthesizeDeterministic(t *testing.T) {
	stub := NewStubEngine(slog.Default())
	req := SynthesizeRequest{Text: "deterministic test"}

	data1, err := stub.Synthesize(context.Background(), "voice-1", req)
	if err != nil {
		t.Fatalf("first call error: %v", err)
	}
	data2, err := stub.Synthesize(context.Background(), "voice-1", req)
	if err != nil {
		t.Fatalf("second call error: %v", err)
	}

	if !bytes.Equal(data1, data2) {
		t.Fatalf("output differs between calls: %d vs %d bytes", len(data1), len(data2))
	}
}

func TestStubSynthesizeEmptyText(t *testing.T) {
	stub := NewStubEngine(slog.Default())
	_, err := stub.Synthesize(context.Background(), "voice-1", SynthesizeRequest{Text: ""})
	if err == nil {
		t.Fatal("expected error for empty text")
	}
}

func TestStubSynthesizeEmptyVoiceID(t *testing.T) {
	stub := NewStubEngine(slog.Default())
	_, err := stub.Synthesize(context.Background(), "", SynthesizeRequest{Text: "hello"})
	if err == nil {
		t.Fatal("expected error for empty voiceID")
	}
}

func TestStubSynthesizeNilLogger(t *testing.T) {
	stub := NewStubEngine(nil)
	data, err := stub.Synthesize(context.Background(), "v1", SynthesizeRequest{Text: "test"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(data) != len("test")*320 {
		t.Errorf("got %d bytes, want %d", len(data), len("test")*320)
	}
}

func TestStubSynthesizeLongText(t *testing.T) {
	stub := NewStubEngine(slog.Default())

	short := "hi"
	long := "this is a much longer sentence for testing proportional output size"

	dataShort, err := stub.Synthesize(context.Background(), "v1", SynthesizeRequest{Text: short})
	if err != nil {
		t.Fatalf("short text error: %v", err)
	}
	dataLong, err := stub.Synthesize(context.Background(), "v1", SynthesizeRequest{Text: long})
	if err != nil {
		t.Fatalf("long text error: %v", err)
	}

	if len(dataShort) != len(short)*320 {
		t.Errorf("short: got %d bytes, want %d", len(dataShort), len(short)*320)
	}
	if len(dataLong) != len(long)*320 {
		t.Errorf("long: got %d bytes, want %d", len(dataLong), len(long)*320)
	}
	if len(dataLong) <= len(dataShort) {
		t.Errorf("longer text should produce more bytes: short=%d, long=%d", len(dataShort), len(dataLong))
	}
}

func TestStubCloneVoiceDeterministicID(t *testing.T) {
	stub := NewStubEngine(slog.Default())
	req := CloneRequest{
		Name:    "user_42_alex",
		Samples: []Sample{{Filename: "a.mp3", Data: []byte{0x01}}},
	}

	v1, err := stub.CloneVoice(context.Background(), req)
	if err != nil {
		t.Fatalf("first clone error: %v", err)
	}
	v2, err := stub.CloneVoice(context.Background(), req)
	if err != nil {
		t.Fatalf("second clone error: %v", err)
	}

	if v1.VoiceID == "" {
		t.Fatal("expected non-empty voice ID")
	}
	if v1.VoiceID != v2.VoiceID {
		t.Errorf("same name produced different IDs: %q vs %q", v1.VoiceID, v2.VoiceID)
	}
	if v1.Name != req.Name {
		t.Errorf("got name %q, want %q", v1.Name, req.Name)
	}
}

func TestStubCloneVoiceDistinctNames(t *testing.T) {
	stub := NewStubEngine(slog.Default())
	sample := []Sample{{Filename: "a.mp3", Data: []byte{0x01}}}

	v1, err := stub.CloneVoice(context.Background(), CloneRequest{Name: "user_1_a", Samples: sample})
	if err != nil {
		t.Fatalf("clone error: %v", err)
	}
	v2, err := stub.CloneVoice(context.Background(), CloneRequest{Name: "user_2_b", Samples: sample})
	if err != nil {
		t.Fatalf("clone error: %v", err)
	}

	if v1.VoiceID == v2.VoiceID {
		t.Errorf("distinct names produced the same ID %q", v1.VoiceID)
	}
}

func TestStubCloneVoiceEmptyName(t *testing.T) {
	stub := NewStubEngine(slog.Default())
	_, err := stub.CloneVoice(context.Background(), CloneRequest{
		Samples: []Sample{{Filename: "a.mp3", Data: []byte{0x01}}},
	})
	if err == nil {
		t.Fatal("expected error for empty name")
	}
}

func TestStubCloneVoiceNoSamples(t *testing.T) {
	stub := NewStubEngine(slog.Default())
	_, err := stub.CloneVoice(context.Background(), CloneRequest{Name: "user_1_a"})
	if err == nil {
		t.Fatal("expected error for missing samples")
	}
}

func TestStubVoices(t *testing.T) {
	stub := NewStubEngine(slog.Default())
	voices, err := stub.Voices(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(voices) == 0 {
		t.Fatal("expected at least one voice")
	}
	for _, v := range voices {
		if v.VoiceID == "" || v.Name == "" {
			t.Errorf("voice missing fields: %+v", v)
		}
	}
}

func TestStubDeleteVoice(t *testing.T) {
	stub := NewStubEngine(slog.Default())
	if err := stub.DeleteVoice(context.Background(), "voice-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := stub.DeleteVoice(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty voiceID")
	}
}
