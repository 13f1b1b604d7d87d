// Package locate finds nodes by text and reveals them: matched nodes get
// their ancestor chain expanded so they occupy a visible row.
package locate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/pstuifzand/tui-treeview/internal/tree"
)

// Matcher decides whether a node satisfies a query.
type Matcher interface {
	Matches(n *tree.Node) bool
	String() string // For debug output
}

// TextMatcher matches nodes whose text contains the search term (case-insensitive)
type TextMatcher struct {
	term string
}

func NewTextMatcher(term string) *TextMatcher {
	return &TextMatcher{term: strings.ToLower(term)}
}

func (m *TextMatcher) Matches(n *tree.Node) bool {
	return strings.Contains(strings.ToLower(n.Text), m.term)
}

func (m *TextMatcher) String() string {
	return fmt.Sprintf("text(%q)", m.term)
}

// FuzzyMatcher matches nodes whose text fuzzy-matches the search term (case-insensitive)
type FuzzyMatcher struct {
	term string
}

func NewFuzzyMatcher(term string) *FuzzyMatcher {
	return &FuzzyMatcher{term: strings.ToLower(term)}
}

func (m *FuzzyMatcher) Matches(n *tree.Node) bool {
	return fuzzy.MatchFold(m.term, strings.ToLower(n.Text))
}

func (m *FuzzyMatcher) String() string {
	return fmt.Sprintf("fuzzy(%q)", m.term)
}

// RegexMatcher matches nodes whose text matches a regular expression pattern
type RegexMatcher struct {
	pattern string
	re      *regexp.Regexp
}

func NewRegexMatcher(pattern string) (*RegexMatcher, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid regex pattern: %v", err)
	}
	return &RegexMatcher{pattern: pattern, re: re}, nil
}

func (m *RegexMatcher) Matches(n *tree.Node) bool {
	return m.re.MatchString(n.Text)
}

func (m *RegexMatcher) String() string {
	return fmt.Sprintf("regex(/%s/)", m.pattern)
}

// FindAll returns every matching node in pre-order, collapsed subtrees
// included.
func FindAll(t *tree.Tree, m Matcher) []*tree.Node {
	var out []*tree.Node
	t.Accept(func(n *tree.Node) tree.VisitResult {
		if m.Matches(n) {
			out = append(out, n)
			return tree.Matched
		}
		return tree.Continue
	}, false, false, true)
	return out
}

// FindFirst returns the first matching node in pre-order, or nil.
func FindFirst(t *tree.Tree, m Matcher) *tree.Node {
	var found *tree.Node
	t.Accept(func(n *tree.Node) tree.VisitResult {
		if m.Matches(n) {
			found = n
			return tree.Stop
		}
		return tree.Continue
	}, false, false, false)
	return found
}

// FindNext returns the first match in pre-order after from, wrapping around
// to the start when nothing follows. A nil from starts at the beginning.
func FindNext(t *tree.Tree, from *tree.Node, m Matcher) *tree.Node {
	if from == nil {
		return FindFirst(t, m)
	}
	var found, first *tree.Node
	passed := false
	t.Accept(func(n *tree.Node) tree.VisitResult {
		if n == from {
			passed = true
			return tree.Continue
		}
		if !m.Matches(n) {
			return tree.Continue
		}
		if first == nil {
			first = n
		}
		if passed {
			found = n
			return tree.Stop
		}
		return tree.Continue
	}, false, false, false)
	if found != nil {
		return found
	}
	return first
}

// Any reports whether any node in the subtree rooted at n matches, n
// included.
func Any(t *tree.Tree, n *tree.Node, m Matcher) bool {
	return t.AcceptFrom(n, func(n *tree.Node) tree.VisitResult {
		if m.Matches(n) {
			return tree.Matched
		}
		return tree.Continue
	}, false, false, true) == tree.Matched
}

// Reveal expands the ancestors of n so it occupies a visible row and returns
// that row's 1-based index.
func Reveal(t *tree.Tree, n *tree.Node) int {
	t.ExpandAncestors(n)
	return t.RowOf(n)
}
