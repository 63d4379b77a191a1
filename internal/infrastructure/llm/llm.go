package llm

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"VergeDigest/internal/config"
	"VergeDigest/internal/ports"
)

// ErrEmptyResponse means the provider answered without any text.
var ErrEmptyResponse = errors.New("llm returned no text")

// New builds the TextGenerator selected by cfg.Provider.
func New(cfg config.SummarizerConfig, httpClient *http.Client) (ports.TextGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("summarizer not configured: missing api key")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.RequestTimeout()}
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", "gemini":
		return &GeminiClient{
			endpoint:   orDefault(cfg.Endpoint, defaultGeminiEndpoint),
			model:      orDefault(cfg.Model, defaultGeminiModel),
			apiKey:     cfg.APIKey,
			httpClient: httpClient,
		}, nil
	case "openai":
		return &ChatGPTClient{
			endpoint:   orDefault(cfg.Endpoint, defaultOpenAIEndpoint),
			model:      orDefault(cfg.Model, defaultOpenAIModel),
			apiKey:     cfg.APIKey,
			httpClient: httpClient,
		}, nil
	default:
		return nil, fmt.Errorf("unknown summarizer provider: %q (valid: gemini, openai)", cfg.Provider)
	}
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
