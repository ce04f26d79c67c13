package ports

import (
	"context"
	"io"

	"LawExporter/internal/domain"
)

// DocumentSource enumerates and parses the input codes.
type DocumentSource interface {
	List(ctx context.Context) ([]string, error)
	Load(ctx context.Context, name string) (*domain.Code, error)
}

// FileStore is the filesystem collaborator used for inputs, artifacts and the cache.
type FileStore interface {
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	ReadFile(ctx context.Context, path string) ([]byte, error)
	WriteFile(ctx context.Context, path string, data []byte) error
	// MkdirAll succeeds when the directory already exists.
	MkdirAll(ctx context.Context, path string) error
	List(ctx context.Context, dir, pattern string) ([]string, error)
}

// CacheResult is the outcome of a cache lookup. Found is false on a miss.
type CacheResult struct {
	Text  string
	Found bool
}

// TranslationCache memoizes translations across runs.
type TranslationCache interface {
	Lookup(ctx context.Context, key string) (CacheResult, error)
	Store(ctx context.Context, key, text string) error
}

// Provider turns a prompt into a completion (Ollama, OpenAI, ...).
type Provider interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// Translator returns the translation of an article's text.
type Translator interface {
	Translate(ctx context.Context, articleID, text string) (string, error)
}

// ArtifactRepository records exported artifacts.
type ArtifactRepository interface {
	SaveArtifact(ctx context.Context, record domain.ArtifactRecord) error
}
