package telemetry

import (
	"log/slog"
	"sync"
	"testing"
)

func TestRecorderCounts(t *testing.T) {
	r := NewRecorder(slog.Default())

	r.RecordSynthesis(100, false)
	r.RecordSynthesis(50, true)
	r.RecordSynthesisFailure()
	r.RecordClone()
	r.RecordCloneFailure()

	s := r.Snapshot()
	if s.SynthesizeRequests != 3 {
		t.Errorf("SynthesizeRequests = %d, want 3", s.SynthesizeRequests)
	}
	if s.SynthesizeFailures != 1 {
		t.Errorf("SynthesizeFailures = %d, want 1", s.SynthesizeFailures)
	}
	if s.CloneRequests != 2 {
		t.Errorf("CloneRequests = %d, want 2", s.CloneRequests)
	}
	if s.CloneFailures != 1 {
		t.Errorf("CloneFailures = %d, want 1", s.CloneFailures)
	}
	if s.CacheHits != 1 {
		t.Errorf("CacheHits = %d, want 1", s.CacheHits)
	}
	if s.AudioBytes != 150 {
		t.Errorf("AudioBytes = %d, want 150", s.AudioBytes)
	}
}

func TestRecorderConcurrent(t *testing.T) {
	r := NewRecorder(nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.RecordSynthesis(10, false)
		}()
	}
	wg.Wait()

	s := r.Snapshot()
	if s.SynthesizeRequests != 50 {
		t.Errorf("SynthesizeRequests = %d, want 50", s.SynthesizeRequests)
	}
	if s.AudioBytes != 500 {
		t.Errorf("AudioBytes = %d, want 500", s.AudioBytes)
	}
}

func TestRecorderNilLogger(t *testing.T) {
	r := NewRecorder(nil)
	if r.Logger() == nil {
		t.Fatal("Logger() returned nil")
	}
}
