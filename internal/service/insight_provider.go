package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/signalforge/zairix-api/internal/config"
)

// InsightProvider generates strategic insight text from a prompt.
type InsightProvider interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// httpInsightProvider calls an external completion endpoint over JSON.
type httpInsightProvider struct {
	url    string
	apiKey string
	client *http.Client
}

// NewHTTPInsightProvider returns nil when no provider URL is
// configured; the insight endpoint answers 503 in that case.
func NewHTTPInsightProvider(cfg config.InsightsConfig) InsightProvider {
	if cfg.ProviderURL == "" {
		return nil
	}

	timeout := cfg.Timeout.Duration
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &httpInsightProvider{
		url:    cfg.ProviderURL,
		apiKey: cfg.APIKey,
		client: &http.Client{Timeout: timeout},
	}
}

type insightProviderRequest struct {
	Prompt string `json:"prompt"`
}

type insightProviderResponse struct {
	Content string `json:"content"`
}

func (p *httpInsightProvider) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(insightProviderRequest{Prompt: prompt})
	if err != nil {
		return "", fmt.Errorf("failed to marshal provider request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build provider request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return "", ErrProviderUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", ErrProviderUnavailable
	}

	var out insightProviderResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", ErrProviderUnavailable
	}

	content := strings.TrimSpace(out.Content)
	if content == "" {
		return "", ErrProviderUnavailable
	}

	return content, nil
}
