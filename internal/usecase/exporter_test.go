package usecase

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"LawExporter/internal/artifact"
	"LawExporter/internal/config"
	"LawExporter/internal/domain"
	"LawExporter/internal/identity"
	"LawExporter/internal/infrastructure/parser"
	"LawExporter/internal/infrastructure/storage"
)

type staticSource struct {
	codes map[string]*domain.Code
	order []string
}

func (s *staticSource) List(context.Context) ([]string, error) {
	return s.order, nil
}

func (s *staticSource) Load(_ context.Context, name string) (*domain.Code, error) {
	code, ok := s.codes[name]
	if !ok {
		return nil, errors.New("malformed document")
	}
	return code, nil
}

type scriptedTranslator struct {
	replies map[string]string
	calls   []string
}

func (t *scriptedTranslator) Translate(_ context.Context, articleID, text string) (string, error) {
	t.calls = append(t.calls, articleID)
	reply, ok := t.replies[articleID]
	if !ok {
		return "", errors.New("provider exploded")
	}
	return reply, nil
}

type recordingIndex struct {
	records []domain.ArtifactRecord
}

func (r *recordingIndex) SaveArtifact(_ context.Context, record domain.ArtifactRecord) error {
	r.records = append(r.records, record)
	return nil
}

func articleNode(a *domain.Article) *domain.Node {
	return &domain.Node{Kind: domain.NodeArticle, Article: a}
}

func TestRunWritesSingleArtifactWithoutTranslation(t *testing.T) {
	t.Parallel()

	out := t.TempDir()
	source := &staticSource{
		order: []string{"civil.xml"},
		codes: map[string]*domain.Code{
			"civil.xml": {
				Name: "Code Civil",
				Children: []*domain.Node{articleNode(&domain.Article{
					Status:     domain.StatusInForce,
					Number:     "215",
					Text:       " Les époux ... ",
					Attributes: map[string]string{"cid": "LEGIARTI1"},
				})},
			},
		},
	}

	exporter := NewExporter(ExporterDeps{
		Source:     source,
		Store:      storage.NewFSStore(),
		OutputRoot: out,
	})

	summary, err := exporter.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.Documents != 1 || summary.Articles != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	files, err := filepath.Glob(filepath.Join(out, "*", "*"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(files) != 1 || files[0] != filepath.Join(out, "Code Civil", "LEGIARTI1.txt") {
		t.Fatalf("unexpected output files: %v", files)
	}

	raw, err := os.ReadFile(files[0])
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	content := string(raw)
	for _, want := range []string{`"Code Civil"`, "Article number: 215", "\nLes époux ...\n"} {
		if !strings.Contains(content, want) {
			t.Fatalf("artifact lacks %q:\n%s", want, content)
		}
	}
	if strings.Contains(content, "translation:") {
		t.Fatalf("unexpected translation section:\n%s", content)
	}
}

func TestRunIsolatesTranslationFailures(t *testing.T) {
	t.Parallel()

	out := t.TempDir()
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	source := &staticSource{
		order: []string{"civil.xml"},
		codes: map[string]*domain.Code{
			"civil.xml": {
				Name: "Code civil",
				Children: []*domain.Node{
					articleNode(&domain.Article{Status: domain.StatusInForce, Text: "Premier.", Attributes: map[string]string{"cid": "A1"}}),
					articleNode(&domain.Article{Status: domain.StatusRepealed, Text: "Abrogé.", Attributes: map[string]string{"cid": "A-OLD"}}),
					articleNode(&domain.Article{Status: domain.StatusInForce, Text: "Second.", Attributes: map[string]string{"cid": "A2"}}),
				},
			},
		},
	}
	translator := &scriptedTranslator{replies: map[string]string{"A2": "Second (en)."}}
	index := &recordingIndex{}

	exporter := NewExporter(ExporterDeps{
		Source:     source,
		Store:      storage.NewFSStore(),
		Translator: translator,
		Index:      index,
		OutputRoot: out,
		Logger:     logger,
	})

	summary, err := exporter.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.Articles != 2 || summary.Translated != 1 || summary.TranslationFailures != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if strings.Join(translator.calls, ",") != "A1,A2" {
		t.Fatalf("unexpected translation calls: %v", translator.calls)
	}

	label := artifact.NewComposer(artifact.Options{}).TranslationLabel()

	first, err := os.ReadFile(filepath.Join(out, "Code civil", "A1.txt"))
	if err != nil {
		t.Fatalf("read first: %v", err)
	}
	if strings.Contains(string(first), label) {
		t.Fatalf("first artifact should lack translation:\n%s", first)
	}

	second, err := os.ReadFile(filepath.Join(out, "Code civil", "A2.txt"))
	if err != nil {
		t.Fatalf("read second: %v", err)
	}
	if !strings.Contains(string(second), label+"\nSecond (en).") {
		t.Fatalf("second artifact should carry translation:\n%s", second)
	}

	if _, err := os.Stat(filepath.Join(out, "Code civil", "A-OLD.txt")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("repealed article must not be exported (stat err %v)", err)
	}

	var failures []string
	for _, line := range strings.Split(logs.String(), "\n") {
		if strings.Contains(line, "translation failed") {
			failures = append(failures, line)
		}
	}
	if len(failures) != 1 || !strings.Contains(failures[0], "article_id=A1") || !strings.Contains(failures[0], "level=ERROR") {
		t.Fatalf("expected one translation error for A1, got %v", failures)
	}

	if len(index.records) != 2 || index.records[0].Translated || !index.records[1].Translated {
		t.Fatalf("unexpected index records: %+v", index.records)
	}
	if index.records[1].Digest != artifact.Digest(string(second)) {
		t.Fatalf("digest does not match written artifact")
	}
}

func TestRunSyntheticIdentifiers(t *testing.T) {
	t.Parallel()

	out := t.TempDir()
	source := &staticSource{
		order: []string{"x.xml"},
		codes: map[string]*domain.Code{
			"x.xml": {
				Children: []*domain.Node{articleNode(&domain.Article{
					Status:     domain.StatusInForce,
					Text:       "Sans identifiant.",
					Attributes: map[string]string{"cid": "undefined"},
				})},
			},
		},
	}

	exporter := NewExporter(ExporterDeps{
		Source:     source,
		Store:      storage.NewFSStore(),
		Identity:   identity.NewResolver("cid", func() string { return "token" }),
		OutputRoot: out,
	})
	if _, err := exporter.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	files, err := filepath.Glob(filepath.Join(out, "*", "*.txt"))
	if err != nil || len(files) != 1 {
		t.Fatalf("expected one artifact, got %v (%v)", files, err)
	}
	if filepath.Base(files[0]) != "no-title-token.txt" {
		t.Fatalf("unexpected artifact name: %s", files[0])
	}
	if !identity.IsSynthetic(filepath.Base(filepath.Dir(files[0]))) {
		t.Fatalf("unnamed code should get a synthetic directory: %s", files[0])
	}

	raw, err := os.ReadFile(files[0])
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if strings.Contains(string(raw), "Article identifier") {
		t.Fatalf("synthetic id leaked:\n%s", raw)
	}
}

func TestRunStopsOnMalformedDocument(t *testing.T) {
	t.Parallel()

	source := &staticSource{order: []string{"broken.xml"}, codes: map[string]*domain.Code{}}
	exporter := NewExporter(ExporterDeps{Source: source, Store: storage.NewFSStore(), OutputRoot: t.TempDir()})

	if _, err := exporter.Run(context.Background()); err == nil {
		t.Fatalf("expected malformed document to abort the run")
	}
}

func TestRunOverwritesAndToleratesExistingDirectories(t *testing.T) {
	t.Parallel()

	in := t.TempDir()
	out := t.TempDir()
	doc := `<code nom="Code civil"><T title="Livre Ier"><article etat="VIGUEUR" num="1" cid="LEGIARTI1">Texte.</article></T></code>`
	if err := os.WriteFile(filepath.Join(in, "civil.xml"), []byte(doc), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	store := storage.NewFSStore()
	exporter := NewExporter(ExporterDeps{
		Source:     parser.NewFileSource(store, nil, config.InputConfig{Dir: in, Patterns: []string{"*.xml"}}, nil),
		Store:      store,
		Composer:   artifact.NewComposer(artifact.Options{IncludeContext: true}),
		OutputRoot: out,
	})

	target := filepath.Join(out, "Code civil", "LEGIARTI1.txt")
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(target, []byte("stale"), 0o644); err != nil {
		t.Fatalf("seed stale artifact: %v", err)
	}

	for run := 0; run < 2; run++ {
		if _, err := exporter.Run(context.Background()); err != nil {
			t.Fatalf("run %d: %v", run, err)
		}
	}

	raw, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if strings.Contains(string(raw), "stale") || !strings.Contains(string(raw), " - Livre Ier\n") {
		t.Fatalf("unexpected artifact:\n%s", raw)
	}
}
