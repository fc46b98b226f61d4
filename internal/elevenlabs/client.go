package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"
)

const (
	// BaseURL is the ElevenLabs API base URL.
	BaseURL = "https://api.elevenlabs.io/v1"

	// DefaultTimeout for HTTP requests (can be overridden per-request).
	DefaultTimeout = 30 * time.Second
)

// Client wraps HTTP calls to the ElevenLabs API.
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
}

// NewClient constructs an ElevenLabs API client with the provided API key.
func NewClient(apiKey string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		apiKey:  apiKey,
		baseURL: BaseURL,
	}
}

// VoiceSettings contains optional voice configuration parameters.
type VoiceSettings struct {
	Stability       *float64 `json:"stability,omitempty"`
	SimilarityBoost *float64 `json:"similarity_boost,omitempty"`
}

// SynthesizeRequest describes a TTS synthesis request.
type SynthesizeRequest struct {
	Text          string         `json:"text"`
	ModelID       string         `json:"model_id,omitempty"`
	VoiceSettings *VoiceSettings `json:"voice_settings,omitempty"`
}

// Voice is the vendor-side handle for a synthetic voice.
type Voice struct {
	VoiceID  string `json:"voice_id"`
	Name     string `json:"name,omitempty"`
	Category string `json:"category,omitempty"`
}

// Sample is one audio file uploaded when cloning a voice.
type Sample struct {
	Filename string
	Data     []byte
}

// CloneRequest describes a voice cloning request. Samples are uploaded in
// order; the vendor decides whether they are usable (count, size, format).
type CloneRequest struct {
	Name        string
	Description string
	Samples     []Sample
}

// Synthesize calls the ElevenLabs text-to-speech endpoint and returns the
// complete audio buffer (MP3). Text is forwarded as-is, including empty text:
// content validation is the vendor's call, not ours.
func (c *Client) Synthesize(ctx context.Context, voiceID string, req SynthesizeRequest) ([]byte, error) {
	if voiceID == "" {
		return nil, fmt.Errorf("elevenlabs: voice_id is required")
	}

	endpoint := fmt.Sprintf("%s/text-to-speech/%s", c.baseURL, url.PathEscape(voiceID))

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "audio/mpeg")
	httpReq.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: read audio: %w", err)
	}
	return audio, nil
}

// CloneVoice uploads the given samples to the ElevenLabs voice-add endpoint
// and returns the created voice handle. An empty sample list is forwarded
// unchecked; the vendor rejects what it cannot work with.
func (c *Client) CloneVoice(ctx context.Context, req CloneRequest) (Voice, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if err := mw.WriteField("name", req.Name); err != nil {
		return Voice{}, fmt.Errorf("elevenlabs: write name field: %w", err)
	}
	if req.Description != "" {
		if err := mw.WriteField("description", req.Description); err != nil {
			return Voice{}, fmt.Errorf("elevenlabs: write description field: %w", err)
		}
	}
	for i, sample := range req.Samples {
		filename := sample.Filename
		if filename == "" {
			filename = fmt.Sprintf("sample_%d", i)
		}
		part, err := mw.CreateFormFile("files", filename)
		if err != nil {
			return Voice{}, fmt.Errorf("elevenlabs: create file part: %w", err)
		}
		if _, err := part.Write(sample.Data); err != nil {
			return Voice{}, fmt.Errorf("elevenlabs: write sample %d: %w", i, err)
		}
	}
	if err := mw.Close(); err != nil {
		return Voice{}, fmt.Errorf("elevenlabs: finalize multipart body: %w", err)
	}

	endpoint := c.baseURL + "/voices/add"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return Voice{}, fmt.Errorf("elevenlabs: create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", mw.FormDataContentType())
	httpReq.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Voice{}, fmt.Errorf("elevenlabs: http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Voice{}, apiError(resp)
	}

	var payload struct {
		VoiceID string `json:"voice_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Voice{}, fmt.Errorf("elevenlabs: decode response: %w", err)
	}
	return Voice{VoiceID: payload.VoiceID, Name: req.Name}, nil
}

// Voices lists the voices available to the configured API key.
func (c *Client) Voices(ctx context.Context) ([]Voice, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/voices", nil)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: create request: %w", err)
	}
	httpReq.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp)
	}

	var payload struct {
		Voices []Voice `json:"voices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("elevenlabs: decode response: %w", err)
	}
	return payload.Voices, nil
}

// DeleteVoice removes a voice from the vendor account.
func (c *Client) DeleteVoice(ctx context.Context, voiceID string) error {
	if voiceID == "" {
		return fmt.Errorf("elevenlabs: voice_id is required")
	}

	endpoint := fmt.Sprintf("%s/voices/%s", c.baseURL, url.PathEscape(voiceID))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return fmt.Errorf("elevenlabs: create request: %w", err)
	}
	httpReq.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("elevenlabs: http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}
	return nil
}

// apiError turns a non-200 vendor response into an error carrying the status
// and up to 4 KiB of the response body.
func apiError(resp *http.Response) error {
	errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return fmt.Errorf("elevenlabs: API error (status %d): %s", resp.StatusCode, string(errBody))
}
