package azure

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"kakitori/internal/config"
)

// OutputFormat is the RIFF/WAV format requested from the speech service
const OutputFormat = "riff-24khz-16bit-mono-pcm"

// Speech synthesizes audio through the Azure text-to-speech REST API
type Speech struct {
	key        string
	baseURL    string
	httpClient *http.Client
}

// NewSpeech creates a speech client. An empty BaseURL targets the regional endpoint.
func NewSpeech(cfg config.SpeechConfig, timeout time.Duration) *Speech {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.tts.speech.microsoft.com", cfg.Region)
	}
	return &Speech{
		key:        cfg.Key,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Configured reports whether a subscription key is present
func (s *Speech) Configured() bool {
	return s.key != ""
}

// Synthesize returns WAV audio of text spoken by voice
func (s *Speech) Synthesize(ctx context.Context, voice, text string) ([]byte, error) {
	if !s.Configured() {
		return nil, ErrNotConfigured
	}

	ssml, err := buildSSML(voice, text)
	if err != nil {
		return nil, fmt.Errorf("azure speech: build ssml: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/cognitiveservices/v1", strings.NewReader(ssml))
	if err != nil {
		return nil, fmt.Errorf("azure speech: create request: %w", err)
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", s.key)
	req.Header.Set("Content-Type", "application/ssml+xml")
	req.Header.Set("X-Microsoft-OutputFormat", OutputFormat)
	req.Header.Set("User-Agent", "kakitori")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("azure speech: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("speech", resp)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("azure speech: read audio: %w", err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("azure speech: empty audio for voice %s", voice)
	}
	return audio, nil
}

// buildSSML wraps text in a single-voice SSML document; the language comes from the voice name
func buildSSML(voice, text string) (string, error) {
	var escaped bytes.Buffer
	if err := xml.EscapeText(&escaped, []byte(text)); err != nil {
		return "", err
	}
	var escapedVoice bytes.Buffer
	if err := xml.EscapeText(&escapedVoice, []byte(voice)); err != nil {
		return "", err
	}

	return fmt.Sprintf(
		`<speak version="1.0" xmlns="http://www.w3.org/2001/10/synthesis" xml:lang="%s"><voice name="%s">%s</voice></speak>`,
		voiceLocale(voice), escapedVoice.String(), escaped.String(),
	), nil
}

// voiceLocale extracts "ja-JP" from "ja-JP-NanamiNeural"
func voiceLocale(voice string) string {
	parts := strings.SplitN(voice, "-", 3)
	if len(parts) < 3 {
		return "ja-JP"
	}
	return parts[0] + "-" + parts[1]
}
