package secrets

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestEnvProvider(t *testing.T) {
	t.Setenv("TEST_MARKET_KEY", "  secret-value\n")

	p := NewEnvProvider("TEST_MARKET_KEY")
	key, err := p.APIKey(context.Background())
	if err != nil {
		t.Fatalf("APIKey() error = %v", err)
	}
	if key != "secret-value" {
		t.Errorf("APIKey() = %q, want trimmed value", key)
	}
}

func TestEnvProviderUnset(t *testing.T) {
	p := NewEnvProvider("TEST_MARKET_KEY_DOES_NOT_EXIST")
	if _, err := p.APIKey(context.Background()); err == nil {
		t.Fatal("expected error for unset variable")
	}
}

func TestFileProvider(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api_key")
	if err := os.WriteFile(path, []byte("file-secret\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	p := NewFileProvider(path)
	key, err := p.APIKey(context.Background())
	if err != nil {
		t.Fatalf("APIKey() error = %v", err)
	}
	if key != "file-secret" {
		t.Errorf("APIKey() = %q, want trimmed file contents", key)
	}
}

func TestFileProviderMissing(t *testing.T) {
	p := NewFileProvider(filepath.Join(t.TempDir(), "nope"))
	if _, err := p.APIKey(context.Background()); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestFileProviderEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty")
	if err := os.WriteFile(path, []byte("  \n"), 0o600); err != nil {
		t.Fatal(err)
	}

	p := NewFileProvider(path)
	if _, err := p.APIKey(context.Background()); err == nil {
		t.Fatal("expected error for empty secret")
	}
}
