// Package secrets resolves the market data API credential. The pipeline
// resolves it exactly once per run through the Provider interface, so
// tests and alternative secret backends can be substituted freely.
package secrets

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// Provider returns the market data API key.
type Provider interface {
	APIKey(ctx context.Context) (string, error)
}

// EnvProvider reads the key from an environment variable.
type EnvProvider struct {
	Name string
}

// NewEnvProvider creates a provider backed by the named environment variable.
func NewEnvProvider(name string) *EnvProvider {
	return &EnvProvider{Name: name}
}

// APIKey returns the variable's value, trimmed. An unset or empty variable
// is an error: the pipeline treats it as fatal.
func (p *EnvProvider) APIKey(ctx context.Context) (string, error) {
	key := strings.TrimSpace(os.Getenv(p.Name))
	if key == "" {
		return "", fmt.Errorf("environment variable %s is not set", p.Name)
	}
	return key, nil
}

// FileProvider reads the key from a file, typically a mounted secret.
type FileProvider struct {
	Path string
}

// NewFileProvider creates a provider backed by the file at path.
func NewFileProvider(path string) *FileProvider {
	return &FileProvider{Path: path}
}

// APIKey returns the file contents, trimmed.
func (p *FileProvider) APIKey(ctx context.Context) (string, error) {
	data, err := os.ReadFile(p.Path)
	if err != nil {
		return "", fmt.Errorf("read secret file: %w", err)
	}

	key := strings.TrimSpace(string(data))
	if key == "" {
		return "", fmt.Errorf("secret file %s is empty", p.Path)
	}
	return key, nil
}
