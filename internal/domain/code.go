package domain

import "strings"

// Status mirrors the LEGI "etat" attribute of an article.
type Status string

const (
	StatusInForce  Status = "VIGUEUR"
	StatusRepealed Status = "ABROGE"
	StatusModified Status = "MODIFIE"
)

// NodeKind distinguishes heading sections, plain containers and leaf articles.
type NodeKind int

const (
	NodeGroup NodeKind = iota
	NodeSection
	NodeArticle
)

// Code is a parsed legal code. It is built once per input document and never mutated.
type Code struct {
	Name     string
	Children []*Node
}

// Node is one element of a code tree. Only NodeArticle nodes carry an Article.
type Node struct {
	Kind     NodeKind
	Title    string
	Children []*Node
	Article  *Article
}

// Article is a leaf provision.
type Article struct {
	Status     Status
	Title      string
	Number     string
	Text       string
	Attributes map[string]string
}

// InForce reports whether the article is currently applicable law.
func (a *Article) InForce() bool {
	return a != nil && a.Status == StatusInForce
}

// Attr returns the named source attribute, matching names case-insensitively.
func (a *Article) Attr(name string) string {
	if a == nil || len(a.Attributes) == 0 {
		return ""
	}
	if v, ok := a.Attributes[name]; ok {
		return v
	}
	return a.Attributes[strings.ToLower(name)]
}
