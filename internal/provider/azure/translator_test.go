package azure

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kakitori/internal/config"
)

func newTestTranslator(endpoint, key string) *Translator {
	return NewTranslator(config.TranslatorConfig{
		Key:      key,
		Endpoint: endpoint,
		Region:   "eastus2",
		From:     "en",
		To:       "pt-br",
	}, 5*time.Second)
}

func TestTranslator_Translate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/translate", r.URL.Path)
		assert.Equal(t, "3.0", r.URL.Query().Get("api-version"))
		assert.Equal(t, "en", r.URL.Query().Get("from"))
		assert.Equal(t, "pt-br", r.URL.Query().Get("to"))
		assert.Equal(t, "secret", r.Header.Get("Ocp-Apim-Subscription-Key"))
		assert.Equal(t, "eastus2", r.Header.Get("Ocp-Apim-Subscription-Region"))

		var body []map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []map[string]string{{"text": "to eat"}}, body)

		_, _ = w.Write([]byte(`[{"translations":[{"text":"comer","to":"pt-br"}]}]`))
	}))
	defer srv.Close()

	text, err := newTestTranslator(srv.URL, "secret").Translate(context.Background(), "to eat")

	require.NoError(t, err)
	assert.Equal(t, "comer", text)
}

func TestTranslator_Translate_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		errPart string
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{"error":"bad key"}`, errPart: "401"},
		{name: "malformed body", status: http.StatusOK, body: `not json`, errPart: "decode"},
		{name: "no translations", status: http.StatusOK, body: `[]`, errPart: "empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			text, err := newTestTranslator(srv.URL, "secret").Translate(context.Background(), "to eat")

			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.errPart)
			assert.Empty(t, text)
		})
	}
}

func TestTranslator_NotConfigured(t *testing.T) {
	tr := newTestTranslator("", "secret")

	text, err := tr.Translate(context.Background(), "to eat")

	assert.False(t, tr.Configured())
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.Empty(t, text)
}
