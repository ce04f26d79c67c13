// Package artifact renders the plain-text file written for each article.
package artifact

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/zeebo/blake3"

	"LawExporter/internal/domain"
	"LawExporter/internal/identity"
)

const contextMarker = "- "

// Options tunes the rendered text.
type Options struct {
	// IncludeContext renders the heading chain after the intro.
	IncludeContext bool
	SourceLanguage string
	TargetLanguage string
}

// Composer renders artifacts. It holds no state besides its options.
type Composer struct {
	opts Options
}

// NewComposer fills language defaults.
func NewComposer(opts Options) *Composer {
	if strings.TrimSpace(opts.SourceLanguage) == "" {
		opts.SourceLanguage = "French"
	}
	if strings.TrimSpace(opts.TargetLanguage) == "" {
		opts.TargetLanguage = "English"
	}
	return &Composer{opts: opts}
}

// TranslationLabel is the line introducing the translated block.
func (c *Composer) TranslationLabel() string {
	return fmt.Sprintf("%s translation:", c.opts.TargetLanguage)
}

// Compose renders one article. Identical inputs always produce identical output.
func (c *Composer) Compose(codeName string, article *domain.Article, headingChain []string, resolvedID, translation string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "The following is an excerpt of France's %q which is part of French law.\n", codeName)
	fmt.Fprintf(&b, "The rule described here is currently applicable law. This text is in %s.\n\n", c.opts.SourceLanguage)

	if c.opts.IncludeContext {
		c.writeContext(&b, codeName, article.Title, headingChain)
	}

	var meta []string
	if article.Title != "" {
		meta = append(meta, "Article title: "+article.Title)
	}
	if article.Number != "" {
		meta = append(meta, "Article number: "+article.Number)
	}
	if resolvedID != "" && !identity.IsSynthetic(resolvedID) {
		meta = append(meta, "Article identifier: "+resolvedID)
	}
	if len(meta) > 0 {
		b.WriteString(strings.Join(meta, "\n"))
		b.WriteString("\n\n")
	}

	fmt.Fprintf(&b, "Text in %s:\n", c.opts.SourceLanguage)
	b.WriteString(strings.TrimSpace(article.Text))
	b.WriteString("\n")

	if translated := strings.TrimSpace(translation); translated != "" {
		b.WriteString("\n")
		b.WriteString(c.TranslationLabel())
		b.WriteString("\n")
		b.WriteString(translated)
		b.WriteString("\n")
	}

	return b.String()
}

func (c *Composer) writeContext(b *strings.Builder, codeName, articleTitle string, headingChain []string) {
	var lines []string
	for depth, heading := range headingChain {
		heading = strings.TrimSpace(heading)
		if heading == "" || heading == articleTitle {
			continue
		}
		lines = append(lines, strings.Repeat(" ", depth+1)+contextMarker+heading)
	}
	if len(lines) == 0 {
		return
	}

	fmt.Fprintf(b, "Context within %q:\n", codeName)
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n\n")
}

// Digest returns the hex blake3 sum of an artifact.
func Digest(content string) string {
	sum := blake3.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
