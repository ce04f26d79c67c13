package translation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"LawExporter/internal/ports"
)

type memoryCache struct {
	entries map[string]string
	stores  int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string]string{}}
}

func (c *memoryCache) Lookup(_ context.Context, key string) (ports.CacheResult, error) {
	text, ok := c.entries[key]
	return ports.CacheResult{Text: text, Found: ok}, nil
}

func (c *memoryCache) Store(_ context.Context, key, text string) error {
	c.stores++
	c.entries[key] = text
	return nil
}

type stubProvider struct {
	name    string
	reply   string
	err     error
	calls   int
	prompts []string
}

func (p *stubProvider) Name() string { return p.name }

func (p *stubProvider) Generate(_ context.Context, prompt string) (string, error) {
	p.calls++
	p.prompts = append(p.prompts, prompt)
	return p.reply, p.err
}

func TestTranslateUsesCacheOnSecondCall(t *testing.T) {
	t.Parallel()

	cache := newMemoryCache()
	provider := &stubProvider{name: "ollama", reply: " Spouses owe each other fidelity. "}
	gw := NewGateway(cache, []ports.Provider{provider}, "", nil)

	ctx := context.Background()
	first, err := gw.Translate(ctx, "LEGIARTI1", "Les époux se doivent fidélité.")
	if err != nil {
		t.Fatalf("first translate: %v", err)
	}
	second, err := gw.Translate(ctx, "LEGIARTI1", "Les époux se doivent fidélité.")
	if err != nil {
		t.Fatalf("second translate: %v", err)
	}

	if provider.calls != 1 {
		t.Fatalf("expected one provider call, got %d", provider.calls)
	}
	if first != second || first != "Spouses owe each other fidelity." {
		t.Fatalf("unexpected translations %q / %q", first, second)
	}
	if cache.entries["LEGIARTI1"] != first {
		t.Fatalf("translation not cached: %q", cache.entries["LEGIARTI1"])
	}
}

func TestTranslatePromptEmbedsText(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{name: "ollama", reply: "ok"}
	gw := NewGateway(nil, []ports.Provider{provider}, "", nil)

	if _, err := gw.Translate(context.Background(), "A1", "Texte source."); err != nil {
		t.Fatalf("translate: %v", err)
	}
	if len(provider.prompts) != 1 || !strings.HasSuffix(provider.prompts[0], "\n\nTexte source.") {
		t.Fatalf("unexpected prompt: %#v", provider.prompts)
	}
	if !strings.Contains(provider.prompts[0], "into English") {
		t.Fatalf("prompt lacks target language: %s", provider.prompts[0])
	}
}

func TestTranslateFallsBackToNextProvider(t *testing.T) {
	t.Parallel()

	cache := newMemoryCache()
	broken := &stubProvider{name: "ollama", err: errors.New("connection refused")}
	blank := &stubProvider{name: "blank", reply: "  "}
	working := &stubProvider{name: "openai", reply: "translated"}
	gw := NewGateway(cache, []ports.Provider{broken, blank, working}, "", nil)

	got, err := gw.Translate(context.Background(), "A1", "texte")
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if got != "translated" {
		t.Fatalf("unexpected translation %q", got)
	}
	if broken.calls != 1 || blank.calls != 1 || working.calls != 1 {
		t.Fatalf("unexpected calls: %d %d %d", broken.calls, blank.calls, working.calls)
	}
}

func TestTranslateFailsWhenEveryProviderFails(t *testing.T) {
	t.Parallel()

	cache := newMemoryCache()
	boom := errors.New("boom")
	gw := NewGateway(cache, []ports.Provider{
		&stubProvider{name: "ollama", err: boom},
		&stubProvider{name: "openai", reply: ""},
	}, "", nil)

	_, err := gw.Translate(context.Background(), "A1", "texte")
	if !errors.Is(err, ErrTranslationUnavailable) {
		t.Fatalf("expected ErrTranslationUnavailable, got %v", err)
	}
	if !errors.Is(err, boom) {
		t.Fatalf("expected provider error to be wrapped, got %v", err)
	}

	var perr *ProviderError
	if !errors.As(err, &perr) || perr.Provider != "ollama" {
		t.Fatalf("expected ProviderError for ollama, got %v", err)
	}
	if cache.stores != 0 || len(cache.entries) != 0 {
		t.Fatalf("cache must stay untouched, got %v", cache.entries)
	}
}

func TestTranslateWithoutProviders(t *testing.T) {
	t.Parallel()

	_, err := NewGateway(newMemoryCache(), nil, "", nil).Translate(context.Background(), "A1", "texte")
	if !errors.Is(err, ErrTranslationUnavailable) {
		t.Fatalf("expected ErrTranslationUnavailable, got %v", err)
	}
}

func TestTranslateIgnoresEmptyCacheEntry(t *testing.T) {
	t.Parallel()

	cache := newMemoryCache()
	cache.entries["A1"] = ""
	provider := &stubProvider{name: "ollama", reply: "fresh"}

	got, err := NewGateway(cache, []ports.Provider{provider}, "", nil).Translate(context.Background(), "A1", "texte")
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if got != "fresh" || provider.calls != 1 {
		t.Fatalf("expected provider call for empty cache entry, got %q after %d calls", got, provider.calls)
	}
}
