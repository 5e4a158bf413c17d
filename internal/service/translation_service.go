package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/sar-academy/eval-api/pkg/config"
)

// HTTPClient abstracts the outbound HTTP transport for translation calls.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// TranslationService translates rendered text through an external HTTP API.
// Translation is strictly best effort: any transport or decoding failure
// returns the source text unchanged so document generation never blocks on
// the translation backend.
type TranslationService struct {
	client HTTPClient
	cfg    config.TranslationConfig
	logger *zap.Logger
}

// NewTranslationService constructs the service.
func NewTranslationService(client HTTPClient, cfg config.TranslationConfig, logger *zap.Logger) *TranslationService {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TranslationService{client: client, cfg: cfg, logger: logger}
}

type translateRequest struct {
	Texts  []string `json:"q"`
	Source string   `json:"source"`
	Target string   `json:"target"`
}

type translateResponse struct {
	Translations []string `json:"translations"`
}

// TranslateAll translates the given texts from source to target language.
// The returned slice always has the same length as the input; entries that
// could not be translated keep their source value.
func (s *TranslationService) TranslateAll(ctx context.Context, texts []string, source, target string) []string {
	if !s.cfg.Enabled || s.cfg.Endpoint == "" || source == target || len(texts) == 0 {
		return texts
	}

	translated, err := s.request(ctx, texts, source, target)
	if err != nil {
		s.logger.Sugar().Warnw("translation fallback to source text", "error", err, "target", target)
		return texts
	}
	if len(translated) != len(texts) {
		s.logger.Sugar().Warnw("translation response length mismatch",
			"expected", len(texts), "got", len(translated))
		return texts
	}
	out := make([]string, len(texts))
	for i, t := range translated {
		if t == "" {
			out[i] = texts[i]
			continue
		}
		out[i] = t
	}
	return out
}

func (s *TranslationService) request(ctx context.Context, texts []string, source, target string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	body, err := json.Marshal(translateRequest{Texts: texts, Source: source, Target: target})
	if err != nil {
		return nil, fmt.Errorf("marshal translation request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build translation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("translation request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("translation backend status %d", resp.StatusCode)
	}

	var decoded translateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode translation response: %w", err)
	}
	return decoded.Translations, nil
}
