package azure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"kakitori/internal/config"
)

// Translator translates glosses through the Azure Translator v3 REST API
type Translator struct {
	key        string
	endpoint   string
	region     string
	from       string
	to         string
	httpClient *http.Client
}

// NewTranslator creates a translator from configuration
func NewTranslator(cfg config.TranslatorConfig, timeout time.Duration) *Translator {
	return &Translator{
		key:        cfg.Key,
		endpoint:   cfg.Endpoint,
		region:     cfg.Region,
		from:       cfg.From,
		to:         cfg.To,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Configured reports whether credentials and endpoint are present
func (t *Translator) Configured() bool {
	return t.key != "" && t.endpoint != ""
}

type translateRequest struct {
	Text string `json:"text"`
}

type translateResponse struct {
	Translations []struct {
		Text string `json:"text"`
		To   string `json:"to"`
	} `json:"translations"`
}

// Translate returns text translated from the source to the target language
func (t *Translator) Translate(ctx context.Context, text string) (string, error) {
	if !t.Configured() {
		return "", ErrNotConfigured
	}

	body, err := json.Marshal([]translateRequest{{Text: text}})
	if err != nil {
		return "", fmt.Errorf("azure translator: encode request: %w", err)
	}

	query := url.Values{}
	query.Set("api-version", "3.0")
	query.Set("from", t.from)
	query.Set("to", t.to)
	reqURL := t.endpoint + "/translate?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("azure translator: create request: %w", err)
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", t.key)
	req.Header.Set("Ocp-Apim-Subscription-Region", t.region)
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("azure translator: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", statusError("translator", resp)
	}

	var result []translateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("azure translator: decode response: %w", err)
	}
	if len(result) == 0 || len(result[0].Translations) == 0 {
		return "", fmt.Errorf("azure translator: empty response")
	}

	return result[0].Translations[0].Text, nil
}
