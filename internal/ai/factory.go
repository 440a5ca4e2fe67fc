package ai

import (
	"context"
	"fmt"
	"log/slog"
)

// Provider names form a closed set; adding a backend means one
// constant and one switch arm.
const (
	ProviderGemini  = "gemini"
	ProviderBedrock = "bedrock"
)

// Settings carries everything needed to construct any provider.
type Settings struct {
	DefaultProvider string
	GeminiAPIKey    string
	GeminiModel     string
	Bedrock         BedrockConfig
}

// NewProvider builds the selected provider. Resolution order: the
// explicit name, then the configured default, then gemini. An
// unrecognized name is a hard configuration error, never a silent
// fallback.
func NewProvider(ctx context.Context, explicit string, settings Settings, logger *slog.Logger) (Provider, error) {
	name := explicit
	if name == "" {
		name = settings.DefaultProvider
	}
	if name == "" {
		name = ProviderGemini
	}

	switch name {
	case ProviderGemini:
		return NewGemini(ctx, settings.GeminiAPIKey, settings.GeminiModel, logger)
	case ProviderBedrock:
		return NewBedrock(ctx, settings.Bedrock, logger)
	default:
		return nil, fmt.Errorf("unsupported AI provider: %q", name)
	}
}

// SupportedProviders lists the selectable provider names.
func SupportedProviders() []string {
	return []string{ProviderGemini, ProviderBedrock}
}
