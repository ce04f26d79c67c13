// Package translation acquires article translations, preferring the on-disk
// cache and falling back across the configured providers.
package translation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"LawExporter/internal/ports"
)

// ErrTranslationUnavailable is returned when neither the cache nor any provider yields text.
var ErrTranslationUnavailable = errors.New("translation unavailable")

// DefaultPrompt asks for a bare translation; %s receives the source text.
const DefaultPrompt = "Translate the following French legal text into English. " +
	"Reply with the translation only, without any introduction, notes or commentary.\n\n%s"

// ProviderError ties a failure to the provider that produced it.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

var errEmptyCompletion = errors.New("empty completion")

// Gateway implements ports.Translator.
type Gateway struct {
	cache     ports.TranslationCache
	providers []ports.Provider
	prompt    string
	logger    *slog.Logger
}

var _ ports.Translator = (*Gateway)(nil)

// NewGateway wires the cache and providers; providers are tried in order.
func NewGateway(cache ports.TranslationCache, providers []ports.Provider, prompt string, logger *slog.Logger) *Gateway {
	if strings.TrimSpace(prompt) == "" {
		prompt = DefaultPrompt
	}
	if !strings.Contains(prompt, "%s") {
		prompt += "\n\n%s"
	}
	return &Gateway{
		cache:     cache,
		providers: providers,
		prompt:    prompt,
		logger:    logger,
	}
}

// Translate returns the cached translation for articleID, or asks the providers
// and stores the first non-empty answer before returning it.
func (g *Gateway) Translate(ctx context.Context, articleID, text string) (string, error) {
	if g.cache != nil {
		hit, err := g.cache.Lookup(ctx, articleID)
		if err != nil {
			return "", fmt.Errorf("%w: cache lookup %s: %v", ErrTranslationUnavailable, articleID, err)
		}
		if hit.Found && strings.TrimSpace(hit.Text) != "" {
			g.debug("translation cache hit", "article_id", articleID)
			return hit.Text, nil
		}
	}

	translated, err := g.generate(ctx, text)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrTranslationUnavailable, articleID, err)
	}

	if g.cache != nil {
		if err := g.cache.Store(ctx, articleID, translated); err != nil && g.logger != nil {
			g.logger.Warn("cannot persist translation", "article_id", articleID, "error", err)
		}
	}

	return translated, nil
}

func (g *Gateway) generate(ctx context.Context, text string) (string, error) {
	if len(g.providers) == 0 {
		return "", errors.New("no translation provider configured")
	}

	prompt := fmt.Sprintf(g.prompt, text)

	var errs []error
	for _, provider := range g.providers {
		out, err := provider.Generate(ctx, prompt)
		if err == nil && strings.TrimSpace(out) == "" {
			err = errEmptyCompletion
		}
		if err != nil {
			errs = append(errs, &ProviderError{Provider: provider.Name(), Err: err})
			g.debug("provider failed, trying next", "provider", provider.Name(), "error", err)
			if ctx.Err() != nil {
				break
			}
			continue
		}
		return strings.TrimSpace(out), nil
	}

	return "", errors.Join(errs...)
}

func (g *Gateway) debug(msg string, args ...any) {
	if g.logger != nil {
		g.logger.Debug(msg, args...)
	}
}
