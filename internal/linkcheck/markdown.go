// Package linkcheck verifies that intra-site links resolve, both in Markdown
// sources and in rendered HTML.
package linkcheck

import (
	"net/url"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/danielewood/blog/internal/index"
)

// Problem is one unresolvable internal link.
type Problem struct {
	Source      string // content-root relative path of the referencing file
	Destination string // the link destination as written
	Reason      string
}

// ExtractDestinations parses a Markdown body and returns every link, image,
// and reference-definition destination.
func ExtractDestinations(body []byte) []string {
	md := goldmark.New()
	ctx := parser.NewContext()
	root := md.Parser().Parse(text.NewReader(body), parser.WithContext(ctx))

	var dests []string
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *gmast.AutoLink:
			dests = append(dests, string(node.URL(body)))
		case *gmast.Image:
			dests = append(dests, string(node.Destination))
		case *gmast.Link:
			dests = append(dests, string(node.Destination))
		}
		return gmast.WalkContinue, nil
	})

	// Reference definitions live in the parse context, not the AST.
	refs := ctx.References()
	sort.Slice(refs, func(i, j int) bool { return string(refs[i].Label()) < string(refs[j].Label()) })
	for _, ref := range refs {
		dests = append(dests, string(ref.Destination()))
	}
	return dests
}

// CheckDocuments verifies every site-absolute link in every document against
// the index: a destination must be a canonical URL, a registered alias, a
// taxonomy term page, or a known section listing. External URLs and relative
// fragments are not checked.
func CheckDocuments(idx *index.Index) []Problem {
	sections := make(map[string]struct{})
	for _, doc := range idx.Documents {
		if doc.Section != "" {
			sections[doc.Section] = struct{}{}
		}
	}

	var problems []Problem
	for _, doc := range idx.Documents {
		for _, dest := range ExtractDestinations(doc.Body) {
			if reason, bad := unresolvable(idx, sections, dest); bad {
				problems = append(problems, Problem{Source: doc.RelPath, Destination: dest, Reason: reason})
			}
		}
	}
	return problems
}

func unresolvable(idx *index.Index, sections map[string]struct{}, dest string) (string, bool) {
	u, err := url.Parse(dest)
	if err != nil {
		return "unparseable destination", true
	}
	// Only site-absolute paths are ours to verify.
	if u.Scheme != "" || u.Host != "" || !strings.HasPrefix(u.Path, "/") {
		return "", false
	}
	p := u.Path

	if resolves(idx, sections, p) {
		return "", false
	}
	return "no document, alias, or listing at this path", true
}

func resolves(idx *index.Index, sections map[string]struct{}, p string) bool {
	withSlash := p
	if !strings.HasSuffix(withSlash, "/") {
		withSlash += "/"
	}

	if _, ok := idx.Lookup(withSlash); ok {
		return true
	}
	if _, ok := idx.Resolve(p); ok {
		return true
	}
	if _, ok := idx.Resolve(withSlash); ok {
		return true
	}

	trimmed := strings.Trim(p, "/")
	parts := strings.SplitN(trimmed, "/", 2)

	// Taxonomy listings: /tags/, /tags/<term>/, same for categories and series.
	if len(parts) >= 1 {
		var tax index.Taxonomy
		switch parts[0] {
		case "tags":
			tax = idx.Tags
		case "categories":
			tax = idx.Categories
		case "series":
			tax = idx.Series
		}
		if tax != nil {
			if len(parts) == 1 {
				return true
			}
			_, ok := tax.Get(parts[1])
			return ok
		}
	}

	// Section listings and the home page.
	if trimmed == "" {
		return true
	}
	_, ok := sections[trimmed]
	return ok
}
