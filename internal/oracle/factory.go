package oracle

import (
	"fmt"
	"strings"

	"github.com/veriverse/veriverse/internal/model"
)

// NewProvider creates a reasoning oracle based on configuration
func NewProvider(config model.OracleConfig) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		return NewOpenAIProvider(config)

	case "anthropic", "claude":
		return NewAnthropicProvider(config)

	case "ollama":
		return NewOllamaProvider(config)

	case "":
		// No provider configured - oracle disabled
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown oracle provider: %s (supported: openai, anthropic, ollama)", config.Provider)
	}
}
