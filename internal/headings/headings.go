// Package headings recovers the heading chain of every article in a code.
//
// The chain is accumulated top-down while walking the tree, so nodes never
// need to know their parent.
package headings

import "LawExporter/internal/domain"

// Entry pairs an article with the titles of the heading sections above it,
// ordered root first and immediate parent last.
type Entry struct {
	Article  *domain.Article
	Headings []string
}

// Walk visits every article of code in document order.
//
// A heading section contributes its title (possibly empty) to the chain of its
// descendants. Any other container starts a fresh chain, since only the
// uninterrupted run of heading sections directly above an article gives it context.
func Walk(code *domain.Code, fn func(Entry)) {
	if code == nil || fn == nil {
		return
	}
	for _, child := range code.Children {
		walk(child, nil, fn)
	}
}

// Collect returns all entries of code in document order.
func Collect(code *domain.Code) []Entry {
	var entries []Entry
	Walk(code, func(e Entry) {
		entries = append(entries, e)
	})
	return entries
}

func walk(node *domain.Node, chain []string, fn func(Entry)) {
	if node == nil {
		return
	}

	switch node.Kind {
	case domain.NodeArticle:
		if node.Article != nil {
			fn(Entry{Article: node.Article, Headings: chain})
		}
		return
	case domain.NodeSection:
		chain = extend(chain, node.Title)
	default:
		chain = nil
	}

	for _, child := range node.Children {
		walk(child, chain, fn)
	}
}

// extend copies chain so siblings never share a backing array.
func extend(chain []string, title string) []string {
	next := make([]string, len(chain), len(chain)+1)
	copy(next, chain)
	return append(next, title)
}
