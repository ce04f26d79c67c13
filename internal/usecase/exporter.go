package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"LawExporter/internal/artifact"
	"LawExporter/internal/domain"
	"LawExporter/internal/headings"
	"LawExporter/internal/identity"
	"LawExporter/internal/ports"
)

// ExporterDeps wires all driven adapters into the corpus driver.
type ExporterDeps struct {
	Source     ports.DocumentSource
	Store      ports.FileStore
	Translator ports.Translator
	Index      ports.ArtifactRepository
	Identity   *identity.Resolver
	Composer   *artifact.Composer
	OutputRoot string
	Logger     *slog.Logger
}

// Exporter converts every in-force article of every input code into a text artifact.
type Exporter struct {
	source     ports.DocumentSource
	store      ports.FileStore
	translator ports.Translator
	index      ports.ArtifactRepository
	identity   *identity.Resolver
	composer   *artifact.Composer
	outputRoot string
	logger     *slog.Logger
}

// Summary counts what a run produced.
type Summary struct {
	Documents           int
	Articles            int
	Translated          int
	TranslationFailures int
}

// NewExporter constructs the orchestration component.
func NewExporter(deps ExporterDeps) *Exporter {
	if deps.Identity == nil {
		deps.Identity = identity.NewResolver("", nil)
	}
	if deps.Composer == nil {
		deps.Composer = artifact.NewComposer(artifact.Options{})
	}
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Exporter{
		source:     deps.Source,
		store:      deps.Store,
		translator: deps.Translator,
		index:      deps.Index,
		identity:   deps.Identity,
		composer:   deps.Composer,
		outputRoot: deps.OutputRoot,
		logger:     deps.Logger,
	}
}

// Run processes documents one at a time in source order. Translation failures are
// logged and the artifact is written without a translation; any other failure stops the run.
func (e *Exporter) Run(ctx context.Context) (Summary, error) {
	var summary Summary
	if e.source == nil || e.store == nil {
		return summary, fmt.Errorf("exporter is missing its source or file store")
	}

	names, err := e.source.List(ctx)
	if err != nil {
		return summary, fmt.Errorf("list documents: %w", err)
	}

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		code, err := e.source.Load(ctx, name)
		if err != nil {
			return summary, fmt.Errorf("load document: %w", err)
		}

		if err := e.exportCode(ctx, code, &summary); err != nil {
			return summary, fmt.Errorf("export %s: %w", name, err)
		}
		summary.Documents++
	}

	e.logger.Info("export finished",
		"documents", summary.Documents,
		"articles", summary.Articles,
		"translated", summary.Translated,
		"translation_failures", summary.TranslationFailures)
	return summary, nil
}

func (e *Exporter) exportCode(ctx context.Context, code *domain.Code, summary *Summary) error {
	dirName := code.Name
	if dirName == "" {
		dirName = identity.Synthetic(nil)
		e.logger.Warn("code has no name, using synthetic directory", "dir", dirName)
	}

	codeDir := filepath.Join(e.outputRoot, dirName)
	if err := e.store.MkdirAll(ctx, codeDir); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	var entries []headings.Entry
	headings.Walk(code, func(entry headings.Entry) {
		if entry.Article.InForce() {
			entries = append(entries, entry)
		}
	})

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := e.exportArticle(ctx, code.Name, codeDir, entry, summary); err != nil {
			return err
		}
	}
	return nil
}

func (e *Exporter) exportArticle(ctx context.Context, codeName, codeDir string, entry headings.Entry, summary *Summary) error {
	article := entry.Article
	articleID := e.identity.Resolve(article)

	translation := e.translate(ctx, articleID, article, summary)

	content := e.composer.Compose(codeName, article, entry.Headings, articleID, translation)
	path := filepath.Join(codeDir, articleID+".txt")
	if err := e.store.WriteFile(ctx, path, []byte(content)); err != nil {
		return fmt.Errorf("write article %s: %w", articleID, err)
	}
	summary.Articles++
	e.logger.Info("artifact written", "path", path, "article_id", articleID)

	if e.index == nil {
		return nil
	}
	err := e.index.SaveArtifact(ctx, domain.ArtifactRecord{
		Code:       codeName,
		ArticleID:  articleID,
		Number:     article.Number,
		Path:       path,
		Digest:     artifact.Digest(content),
		Size:       len(content),
		Translated: strings.TrimSpace(translation) != "",
	})
	if err != nil {
		return fmt.Errorf("index article %s: %w", articleID, err)
	}
	return nil
}

// translate never fails the article: errors are logged and yield no translation.
func (e *Exporter) translate(ctx context.Context, articleID string, article *domain.Article, summary *Summary) string {
	if e.translator == nil {
		return ""
	}

	translated, err := e.translator.Translate(ctx, articleID, strings.TrimSpace(article.Text))
	if err != nil {
		summary.TranslationFailures++
		e.logger.Error("translation failed", "article_id", articleID, "error", err)
		return ""
	}
	summary.Translated++
	return translated
}
