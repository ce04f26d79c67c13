package parser

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"

	"LawExporter/internal/domain"
)

// Element and attribute names of LEGI code exports.
const (
	tagCode    = "code"
	tagSection = "t"
	tagArticle = "article"

	attrCodeName = "nom"
	attrTitle    = "title"
	attrModTitle = "modtitle"
	attrNumber   = "num"
	attrStatus   = "etat"
)

// ErrNoCode is returned when a document has no <code> element.
var ErrNoCode = errors.New("document has no code element")

type xmlElement struct {
	XMLName  xml.Name
	Attrs    []xml.Attr   `xml:",any,attr"`
	Inner    string       `xml:",innerxml"`
	Children []xmlElement `xml:",any"`
}

// LegiParser turns a LEGI code export into a domain.Code tree.
type LegiParser struct{}

// NewLegiParser builds a parser. It is stateless and safe to reuse.
func NewLegiParser() *LegiParser {
	return &LegiParser{}
}

// Parse reads one document. Markup is decoded leniently (HTML entities,
// unclosed void tags, non UTF-8 charsets) since article bodies embed HTML.
func (p *LegiParser) Parse(r io.Reader) (*domain.Code, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = false
	dec.AutoClose = xml.HTMLAutoClose
	dec.Entity = xml.HTMLEntity
	dec.CharsetReader = charset.NewReaderLabel

	var root xmlElement
	if err := dec.Decode(&root); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}

	codeEl := findCode(&root)
	if codeEl == nil {
		return nil, ErrNoCode
	}

	code := &domain.Code{Name: strings.TrimSpace(attributes(codeEl)[attrCodeName])}
	for i := range codeEl.Children {
		node, err := buildNode(&codeEl.Children[i])
		if err != nil {
			return nil, err
		}
		code.Children = append(code.Children, node)
	}
	return code, nil
}

func findCode(el *xmlElement) *xmlElement {
	if strings.EqualFold(el.XMLName.Local, tagCode) {
		return el
	}
	for i := range el.Children {
		if found := findCode(&el.Children[i]); found != nil {
			return found
		}
	}
	return nil
}

func buildNode(el *xmlElement) (*domain.Node, error) {
	attrs := attributes(el)

	switch strings.ToLower(el.XMLName.Local) {
	case tagArticle:
		text, err := plainText(el.Inner)
		if err != nil {
			return nil, fmt.Errorf("article %s: %w", attrs[attrNumber], err)
		}
		title := attrs[attrModTitle]
		if title == "" {
			title = attrs[attrTitle]
		}
		return &domain.Node{
			Kind: domain.NodeArticle,
			Article: &domain.Article{
				Status:     domain.Status(strings.ToUpper(strings.TrimSpace(attrs[attrStatus]))),
				Title:      strings.TrimSpace(title),
				Number:     strings.TrimSpace(attrs[attrNumber]),
				Text:       text,
				Attributes: attrs,
			},
		}, nil
	case tagSection:
		node := &domain.Node{Kind: domain.NodeSection, Title: attrs[attrTitle]}
		return node, appendChildren(node, el)
	default:
		node := &domain.Node{Kind: domain.NodeGroup}
		return node, appendChildren(node, el)
	}
}

func appendChildren(node *domain.Node, el *xmlElement) error {
	for i := range el.Children {
		child, err := buildNode(&el.Children[i])
		if err != nil {
			return err
		}
		node.Children = append(node.Children, child)
	}
	return nil
}

func attributes(el *xmlElement) map[string]string {
	attrs := make(map[string]string, len(el.Attrs))
	for _, a := range el.Attrs {
		attrs[strings.ToLower(a.Name.Local)] = a.Value
	}
	return attrs
}

// plainText strips the HTML markup of an article body.
func plainText(inner string) (string, error) {
	if strings.TrimSpace(inner) == "" {
		return "", nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(inner))
	if err != nil {
		return "", fmt.Errorf("parse body: %w", err)
	}
	doc.Find("br").Each(func(_ int, s *goquery.Selection) {
		s.ReplaceWithNodes(newline())
	})
	doc.Find("p, div, li").Each(func(_ int, s *goquery.Selection) {
		s.AppendNodes(newline())
	})

	text := strings.ReplaceAll(doc.Text(), "\u00a0", " ")
	lines := strings.Split(text, "\n")
	out := lines[:0]
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n"), nil
}

func newline() *html.Node {
	return &html.Node{Type: html.TextNode, Data: "\n"}
}
