package ai

import (
	"context"
	"strings"
	"testing"
)

func TestNewProvider_UnknownNameIsHardError(t *testing.T) {
	_, err := NewProvider(context.Background(), "clippy", Settings{}, nil)
	if err == nil {
		t.Fatal("expected an error for an unknown provider name")
	}
	if !strings.Contains(err.Error(), "clippy") {
		t.Errorf("error %q should name the rejected provider", err)
	}
}

func TestNewProvider_GeminiRequiresAPIKey(t *testing.T) {
	_, err := NewProvider(context.Background(), ProviderGemini, Settings{}, nil)
	if err == nil {
		t.Fatal("expected a configuration error without an API key")
	}
}

func TestNewProvider_BedrockRequiresCredentials(t *testing.T) {
	tests := []struct {
		name    string
		bedrock BedrockConfig
	}{
		{"no credentials", BedrockConfig{}},
		{"missing secret", BedrockConfig{AccessKeyID: "AKIA..."}},
		{"missing key id", BedrockConfig{SecretAccessKey: "secret"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProvider(context.Background(), ProviderBedrock, Settings{Bedrock: tt.bedrock}, nil)
			if err == nil {
				t.Fatal("expected a configuration error without full credentials")
			}
		})
	}
}

func TestNewProvider_ResolutionOrder(t *testing.T) {
	// The explicit name wins over the configured default; with neither
	// set the selection falls back to gemini. All three resolve to a
	// provider whose construction fails on missing credentials, which
	// is how we observe the choice without real keys.
	_, err := NewProvider(context.Background(), "", Settings{DefaultProvider: ProviderBedrock}, nil)
	if err == nil || !strings.Contains(err.Error(), "AWS") {
		t.Errorf("configured default not honored, err = %v", err)
	}

	_, err = NewProvider(context.Background(), ProviderGemini, Settings{DefaultProvider: ProviderBedrock}, nil)
	if err == nil || !strings.Contains(err.Error(), "gemini") {
		t.Errorf("explicit provider not honored, err = %v", err)
	}

	_, err = NewProvider(context.Background(), "", Settings{}, nil)
	if err == nil || !strings.Contains(err.Error(), "gemini") {
		t.Errorf("fixed default not honored, err = %v", err)
	}
}

func TestSupportedProviders(t *testing.T) {
	got := SupportedProviders()
	if len(got) != 2 || got[0] != ProviderGemini || got[1] != ProviderBedrock {
		t.Errorf("SupportedProviders() = %v", got)
	}
}
