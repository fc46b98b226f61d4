package telemetry

import (
	"log/slog"
	"sync/atomic"
)

// Recorder centralises telemetry (logs, counters) for the gateway. Counters
// are process-local and reset on restart; future releases will integrate
// with distributed tracing and metrics aggregation.
type Recorder struct {
	logger *slog.Logger

	synthRequests atomic.Int64
	synthFailures atomic.Int64
	cloneRequests atomic.Int64
	cloneFailures atomic.Int64
	cacheHits     atomic.Int64
	audioBytes    atomic.Int64
}

// Stats is a point-in-time snapshot of the recorder's counters.
type Stats struct {
	SynthesizeRequests int64 `json:"synthesize_requests"`
	SynthesizeFailures int64 `json:"synthesize_failures"`
	CloneRequests      int64 `json:"clone_requests"`
	CloneFailures      int64 `json:"clone_failures"`
	CacheHits          int64 `json:"cache_hits"`
	AudioBytes         int64 `json:"audio_bytes"`
}

// NewRecorder constructs a telemetry recorder using the provided slog.Logger.
func NewRecorder(logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{logger: logger}
}

// Logger returns the underlying slog.Logger for direct use.
func (r *Recorder) Logger() *slog.Logger {
	return r.logger
}

// RecordSynthesis counts a completed synthesis and its audio size.
// cached marks responses served from the audio cache.
func (r *Recorder) RecordSynthesis(bytes int, cached bool) {
	r.synthRequests.Add(1)
	r.audioBytes.Add(int64(bytes))
	if cached {
		r.cacheHits.Add(1)
	}
}

// RecordSynthesisFailure counts a synthesis attempt that ended in error.
func (r *Recorder) RecordSynthesisFailure() {
	r.synthRequests.Add(1)
	r.synthFailures.Add(1)
}

// RecordClone counts a completed voice clone.
func (r *Recorder) RecordClone() {
	r.cloneRequests.Add(1)
}

// RecordCloneFailure counts a clone attempt that ended in error.
func (r *Recorder) RecordCloneFailure() {
	r.cloneRequests.Add(1)
	r.cloneFailures.Add(1)
}

// Snapshot returns the current counter values.
func (r *Recorder) Snapshot() Stats {
	return Stats{
		SynthesizeRequests: r.synthRequests.Load(),
		SynthesizeFailures: r.synthFailures.Load(),
		CloneRequests:      r.cloneRequests.Load(),
		CloneFailures:      r.cloneFailures.Load(),
		CacheHits:          r.cacheHits.Load(),
		AudioBytes:         r.audioBytes.Load(),
	}
}
