package parser

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/klauspost/compress/gzip"

	"LawExporter/internal/config"
	"LawExporter/internal/domain"
	"LawExporter/internal/ports"
)

// FileSource implements ports.DocumentSource over the configured input directory.
type FileSource struct {
	store    ports.FileStore
	parser   *LegiParser
	dir      string
	patterns []string
	logger   *slog.Logger
}

var _ ports.DocumentSource = (*FileSource)(nil)

// NewFileSource wires the file store with the input configuration.
func NewFileSource(store ports.FileStore, parser *LegiParser, cfg config.InputConfig, log *slog.Logger) *FileSource {
	patterns := cfg.Patterns
	if len(patterns) == 0 {
		patterns = []string{"*.xml"}
	}
	if parser == nil {
		parser = NewLegiParser()
	}
	return &FileSource{
		store:    store,
		parser:   parser,
		dir:      cfg.Dir,
		patterns: patterns,
		logger:   log,
	}
}

// List returns input files pattern by pattern; a file matched twice is listed once.
func (s *FileSource) List(ctx context.Context) ([]string, error) {
	seen := map[string]struct{}{}
	var files []string
	for _, pattern := range s.patterns {
		matches, err := s.store.List(ctx, s.dir, pattern)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", pattern, err)
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}

	s.debug("input files listed", "dir", s.dir, "count", len(files))
	return files, nil
}

// Load parses one input file, transparently decompressing ".gz" files.
func (s *FileSource) Load(ctx context.Context, name string) (*domain.Code, error) {
	f, err := s.store.Open(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(strings.ToLower(name), ".gz") {
		zr, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("gunzip %s: %w", name, err)
		}
		defer zr.Close()
		r = zr
	}

	code, err := s.parser.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	return code, nil
}

func (s *FileSource) debug(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
