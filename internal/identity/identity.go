package identity

import (
	"strings"

	"github.com/google/uuid"

	"LawExporter/internal/domain"
)

const (
	// SyntheticPrefix marks identifiers that were generated rather than read from the source.
	SyntheticPrefix = "no-title-"

	// DefaultAttribute is the LEGI attribute holding the article identifier.
	DefaultAttribute = "cid"

	undefinedToken = "undefined"
)

// Resolver derives the identifier used for artifact filenames and cache keys.
type Resolver struct {
	attribute string
	generate  func() string
}

// NewResolver reads ids from attribute (falling back to DefaultAttribute) and
// uses generate for synthetic tokens; nil selects random UUIDs.
func NewResolver(attribute string, generate func() string) *Resolver {
	attribute = strings.TrimSpace(attribute)
	if attribute == "" {
		attribute = DefaultAttribute
	}
	if generate == nil {
		generate = randomToken
	}
	return &Resolver{attribute: attribute, generate: generate}
}

// Attribute returns the source attribute the resolver reads.
func (r *Resolver) Attribute() string {
	return r.attribute
}

// Resolve never fails: a missing or "undefined" source id yields a synthetic one.
func (r *Resolver) Resolve(article *domain.Article) string {
	if raw := article.Attr(r.attribute); raw != "" && raw != undefinedToken {
		return raw
	}
	return Synthetic(r.generate)
}

// Synthetic builds a fresh identifier carrying SyntheticPrefix.
func Synthetic(generate func() string) string {
	if generate == nil {
		generate = randomToken
	}
	return SyntheticPrefix + generate()
}

// IsSynthetic reports whether id was produced by Synthetic.
func IsSynthetic(id string) bool {
	return strings.HasPrefix(id, SyntheticPrefix)
}

func randomToken() string {
	return uuid.NewString()
}
