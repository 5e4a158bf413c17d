package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sar-academy/eval-api/pkg/config"
)

type httpClientStub struct {
	status  int
	body    string
	err     error
	lastReq *http.Request
}

func (c *httpClientStub) Do(req *http.Request) (*http.Response, error) {
	c.lastReq = req
	if c.err != nil {
		return nil, c.err
	}
	return &http.Response{
		StatusCode: c.status,
		Body:       io.NopCloser(bytes.NewBufferString(c.body)),
	}, nil
}

func translationConfig() config.TranslationConfig {
	return config.TranslationConfig{
		Enabled:  true,
		Endpoint: "http://translator.local/translate",
		APIKey:   "secret",
		Timeout:  2 * time.Second,
	}
}

func TestTranslateAllSuccess(t *testing.T) {
	client := &httpClientStub{
		status: http.StatusOK,
		body:   `{"translations":["Question one","Good work"]}`,
	}
	svc := NewTranslationService(client, translationConfig(), zap.NewNop())

	out := svc.TranslateAll(context.Background(), []string{"Pregunta uno", "Buen trabajo"}, "es", "en")
	assert.Equal(t, []string{"Question one", "Good work"}, out)

	require.NotNil(t, client.lastReq)
	assert.Equal(t, "Bearer secret", client.lastReq.Header.Get("Authorization"))

	var payload translateRequest
	raw, err := io.ReadAll(client.lastReq.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &payload))
	assert.Equal(t, "es", payload.Source)
	assert.Equal(t, "en", payload.Target)
}

func TestTranslateAllFallsBackOnTransportError(t *testing.T) {
	client := &httpClientStub{err: errors.New("connection refused")}
	svc := NewTranslationService(client, translationConfig(), zap.NewNop())

	texts := []string{"Pregunta uno"}
	out := svc.TranslateAll(context.Background(), texts, "es", "en")
	assert.Equal(t, texts, out)
}

func TestTranslateAllFallsBackOnBackendError(t *testing.T) {
	client := &httpClientStub{status: http.StatusBadGateway, body: "{}"}
	svc := NewTranslationService(client, translationConfig(), zap.NewNop())

	texts := []string{"Pregunta uno"}
	out := svc.TranslateAll(context.Background(), texts, "es", "en")
	assert.Equal(t, texts, out)
}

func TestTranslateAllFallsBackOnLengthMismatch(t *testing.T) {
	client := &httpClientStub{status: http.StatusOK, body: `{"translations":["only one"]}`}
	svc := NewTranslationService(client, translationConfig(), zap.NewNop())

	texts := []string{"uno", "dos"}
	out := svc.TranslateAll(context.Background(), texts, "es", "en")
	assert.Equal(t, texts, out)
}

func TestTranslateAllDisabled(t *testing.T) {
	client := &httpClientStub{status: http.StatusOK, body: `{"translations":["x"]}`}
	cfg := translationConfig()
	cfg.Enabled = false
	svc := NewTranslationService(client, cfg, zap.NewNop())

	texts := []string{"Pregunta uno"}
	out := svc.TranslateAll(context.Background(), texts, "es", "en")
	assert.Equal(t, texts, out)
	assert.Nil(t, client.lastReq)
}

func TestTranslateAllSameLanguageSkipsCall(t *testing.T) {
	client := &httpClientStub{status: http.StatusOK, body: `{"translations":["x"]}`}
	svc := NewTranslationService(client, translationConfig(), zap.NewNop())

	texts := []string{"Pregunta uno"}
	out := svc.TranslateAll(context.Background(), texts, "es", "es")
	assert.Equal(t, texts, out)
	assert.Nil(t, client.lastReq)
}

func TestTranslateAllKeepsSourceForEmptyEntries(t *testing.T) {
	client := &httpClientStub{status: http.StatusOK, body: `{"translations":["Question one",""]}`}
	svc := NewTranslationService(client, translationConfig(), zap.NewNop())

	out := svc.TranslateAll(context.Background(), []string{"Pregunta uno", "sin traducir"}, "es", "en")
	assert.Equal(t, []string{"Question one", "sin traducir"}, out)
}
