package server

import (
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/voicegate/voicegate/internal/buildinfo"
	"github.com/voicegate/voicegate/internal/cache"
	"github.com/voicegate/voicegate/internal/config"
	"github.com/voicegate/voicegate/internal/elevenlabs"
	"github.com/voicegate/voicegate/internal/telemetry"
)

const requestIDKey = "request_id"

// Server implements the speech gateway HTTP API on top of a synthesis engine.
type Server struct {
	cfg     config.Config
	log     *slog.Logger
	engine  elevenlabs.Engine
	metrics *telemetry.Recorder
	cache   *cache.Cache // nil when caching is disabled
}

// New returns a new Server instance.
func New(cfg config.Config, logger *slog.Logger, engine elevenlabs.Engine, metrics *telemetry.Recorder, audioCache *cache.Cache) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if engine == nil {
		panic("server: synthesis engine must not be nil")
	}
	if metrics == nil {
		metrics = telemetry.NewRecorder(logger)
	}
	return &Server{
		cfg: cfg,
		log: logger.With(
			"component", "server",
			"model", cfg.Model,
			"voice_id", cfg.VoiceID,
		),
		engine:  engine,
		metrics: metrics,
		cache:   audioCache,
	}
}

// Router assembles the gin engine with all routes and middleware.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.requestLog())

	r.POST("/synthesize", s.handleSynthesize)
	r.POST("/clone-voice", s.handleCloneVoice)
	r.GET("/voices", s.handleVoices)
	r.DELETE("/voices/:voice_id", s.handleDeleteVoice)
	r.GET("/healthz", s.handleHealthz)
	r.GET("/stats", s.handleStats)

	return r
}

// requestLog tags each request with an ID and logs method, path, status and latency.
func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		reqID := uuid.NewString()
		c.Set(requestIDKey, reqID)
		c.Header("X-Request-ID", reqID)

		c.Next()

		s.log.Info("request",
			"request_id", reqID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}

func requestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// -- Request/response shapes --

type synthesizeRequest struct {
	Text    string `json:"text"`
	UserID  *int   `json:"user_id"`
	VoiceID string `json:"voice_id"`
}

type synthesizeResponse struct {
	Success   bool   `json:"success"`
	AudioData string `json:"audio_data"`
}

type cloneVoiceResponse struct {
	Success bool   `json:"success"`
	VoiceID string `json:"voice_id"`
}

// detailError writes the error envelope shared by all failure responses.
func detailError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"detail": message})
}

// handleSynthesize forwards text to the synthesis engine and returns the
// audio base64-encoded. Empty text is forwarded as-is: content validation
// is the engine's call, not ours.
func (s *Server) handleSynthesize(c *gin.Context) {
	var req synthesizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		detailError(c, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if req.UserID == nil {
		detailError(c, http.StatusBadRequest, "user_id is required")
		return
	}

	voiceID := req.VoiceID
	if voiceID == "" {
		voiceID = s.cfg.VoiceID
	}

	logEntry := s.log.With(
		"request_id", requestID(c),
		"user_id", *req.UserID,
		"voice_id", voiceID,
		"text_length", len(req.Text),
	)
	logEntry.Info("synthesis request received")

	synthReq := elevenlabs.SynthesizeRequest{
		Text:    req.Text,
		ModelID: s.cfg.Model,
	}
	if s.cfg.Stability != nil || s.cfg.SimilarityBoost != nil {
		synthReq.VoiceSettings = &elevenlabs.VoiceSettings{
			Stability:       s.cfg.Stability,
			SimilarityBoost: s.cfg.SimilarityBoost,
		}
	}

	var cacheKey string
	if s.cache != nil {
		cacheKey = cache.Key(req.Text, s.cfg.Model, voiceID, s.cfg.Stability, s.cfg.SimilarityBoost)
		if data, ok := s.cache.Get(cacheKey); ok {
			logEntry.Info("cache hit", "key", cacheKey, "bytes", len(data))
			s.metrics.RecordSynthesis(len(data), true)
			c.JSON(http.StatusOK, synthesizeResponse{
				Success:   true,
				AudioData: base64.StdEncoding.EncodeToString(data),
			})
			return
		}
		logEntry.Debug("cache miss", "key", cacheKey)
	}

	start := time.Now()
	audio, err := s.engine.Synthesize(c.Request.Context(), voiceID, synthReq)
	if err != nil {
		logEntry.Error("synthesis failed", "error", err)
		s.metrics.RecordSynthesisFailure()
		detailError(c, http.StatusInternalServerError, err.Error())
		return
	}

	logEntry.Info("synthesis completed",
		"bytes", len(audio),
		"duration_sec", time.Since(start).Seconds(),
	)
	s.metrics.RecordSynthesis(len(audio), false)

	if s.cache != nil && len(audio) > 0 {
		if err := s.cache.Put(cacheKey, audio); err != nil {
			logEntry.Warn("failed to store in cache", "error", err)
		}
	}

	c.JSON(http.StatusOK, synthesizeResponse{
		Success:   true,
		AudioData: base64.StdEncoding.EncodeToString(audio),
	})
}

// handleCloneVoice builds the namespaced clone name user_<user_id>_<name>
// and forwards the uploaded samples to the engine. An empty sample list is
// forwarded unchecked; the engine decides what it can work with.
func (s *Server) handleCloneVoice(c *gin.Context) {
	params, err := parseCloneRequest(c)
	if err != nil {
		detailError(c, http.StatusBadRequest, err.Error())
		return
	}

	cloneName := fmt.Sprintf("user_%d_%s", params.userID, params.name)
	logEntry := s.log.With(
		"request_id", requestID(c),
		"user_id", params.userID,
		"clone_name", cloneName,
		"samples", len(params.samples),
	)
	logEntry.Info("clone request received")

	voice, err := s.engine.CloneVoice(c.Request.Context(), elevenlabs.CloneRequest{
		Name:    cloneName,
		Samples: params.samples,
	})
	if err != nil {
		logEntry.Error("voice clone failed", "error", err)
		s.metrics.RecordCloneFailure()
		detailError(c, http.StatusInternalServerError, err.Error())
		return
	}

	logEntry.Info("voice clone completed", "voice_id", voice.VoiceID)
	s.metrics.RecordClone()
	c.JSON(http.StatusOK, cloneVoiceResponse{Success: true, VoiceID: voice.VoiceID})
}

type cloneParams struct {
	userID  int
	name    string
	samples []elevenlabs.Sample
}

// parseCloneRequest accepts either a multipart form (audio_files file parts)
// or a JSON body (audio_files as base64 strings). user_id and name may also
// arrive in the query string in both variants.
func parseCloneRequest(c *gin.Context) (cloneParams, error) {
	var p cloneParams

	switch c.ContentType() {
	case gin.MIMEMultipartPOSTForm:
		form, err := c.MultipartForm()
		if err != nil {
			return p, fmt.Errorf("invalid multipart form: %v", err)
		}

		p.userID, err = parseUserID(firstNonEmpty(c.Query("user_id"), c.PostForm("user_id")))
		if err != nil {
			return p, err
		}
		p.name = firstNonEmpty(c.Query("name"), c.PostForm("name"))
		if p.name == "" {
			return p, fmt.Errorf("name is required")
		}

		for _, fh := range form.File["audio_files"] {
			f, err := fh.Open()
			if err != nil {
				return p, fmt.Errorf("open uploaded file %q: %v", fh.Filename, err)
			}
			data, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				return p, fmt.Errorf("read uploaded file %q: %v", fh.Filename, err)
			}
			p.samples = append(p.samples, elevenlabs.Sample{Filename: fh.Filename, Data: data})
		}
		return p, nil

	case gin.MIMEJSON:
		var body struct {
			UserID     *int     `json:"user_id"`
			Name       string   `json:"name"`
			AudioFiles []string `json:"audio_files"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			return p, fmt.Errorf("invalid request body: %v", err)
		}

		if raw := c.Query("user_id"); raw != "" {
			userID, err := parseUserID(raw)
			if err != nil {
				return p, err
			}
			p.userID = userID
		} else if body.UserID != nil {
			p.userID = *body.UserID
		} else {
			return p, fmt.Errorf("user_id is required")
		}

		p.name = firstNonEmpty(c.Query("name"), body.Name)
		if p.name == "" {
			return p, fmt.Errorf("name is required")
		}

		for i, enc := range body.AudioFiles {
			data, err := base64.StdEncoding.DecodeString(enc)
			if err != nil {
				return p, fmt.Errorf("audio_files[%d]: invalid base64: %v", i, err)
			}
			p.samples = append(p.samples, elevenlabs.Sample{Data: data})
		}
		return p, nil

	default:
		return p, fmt.Errorf("unsupported content type %q", c.ContentType())
	}
}

func parseUserID(raw string) (int, error) {
	if raw == "" {
		return 0, fmt.Errorf("user_id is required")
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("user_id must be an integer")
	}
	return id, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// handleVoices lists the voices available to the configured account.
func (s *Server) handleVoices(c *gin.Context) {
	voices, err := s.engine.Voices(c.Request.Context())
	if err != nil {
		s.log.Error("list voices failed", "request_id", requestID(c), "error", err)
		detailError(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "voices": voices})
}

// handleDeleteVoice removes a voice from the vendor account.
func (s *Server) handleDeleteVoice(c *gin.Context) {
	voiceID := c.Param("voice_id")
	logEntry := s.log.With("request_id", requestID(c), "voice_id", voiceID)

	if err := s.engine.DeleteVoice(c.Request.Context(), voiceID); err != nil {
		logEntry.Error("voice delete failed", "error", err)
		detailError(c, http.StatusInternalServerError, err.Error())
		return
	}

	logEntry.Info("voice deleted")
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": buildinfo.Info.Name,
		"version": buildinfo.Version(),
	})
}

func (s *Server) handleStats(c *gin.Context) {
	payload := gin.H{"success": true, "stats": s.metrics.Snapshot()}
	if s.cache != nil {
		payload["cache"] = s.cache.Stats()
	}
	c.JSON(http.StatusOK, payload)
}

func init() {
	gin.SetMode(gin.ReleaseMode)
}
