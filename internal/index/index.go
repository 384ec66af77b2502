// Package index aggregates loaded content documents into the taxonomy and
// alias indexes consumed by the renderer boundary.
package index

import (
	"sort"

	"golang.org/x/text/cases"

	"github.com/danielewood/blog/internal/blogerr"
	"github.com/danielewood/blog/internal/content"
)

// folder canonicalizes taxonomy terms. Term matching is case-insensitive
// ("DevOps" and "devops" are one term); the first-seen spelling is kept for
// display.
var folder = cases.Fold()

// Term is one taxonomy value with the documents carrying it, kept in the
// loader's date-descending order.
type Term struct {
	Display   string // first-seen spelling
	Documents []*content.Document
}

// Taxonomy maps folded term keys to their entries.
type Taxonomy map[string]*Term

// Terms returns the folded keys sorted lexically, for deterministic output.
func (t Taxonomy) Terms() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get looks up a term by any casing.
func (t Taxonomy) Get(term string) (*Term, bool) {
	e, ok := t[folder.String(term)]
	return e, ok
}

// Index is the fully-resolved aggregate over all content documents. Once
// built it is immutable: the renderer boundary only reads it.
type Index struct {
	Documents  []*content.Document // date descending
	Tags       Taxonomy
	Categories Taxonomy
	Series     Taxonomy

	// Aliases maps each legacy URL path to the canonical URL of its owner.
	Aliases map[string]string

	// ByCanonical maps canonical URLs back to documents.
	ByCanonical map[string]*content.Document
}

// Build constructs the index in a single pass. Document order must already be
// date-descending (the content loader guarantees this); term document lists
// inherit it. An alias claimed by two documents is a fatal build error.
func Build(docs []content.Document) (*Index, error) {
	idx := &Index{
		Documents:   make([]*content.Document, len(docs)),
		Tags:        make(Taxonomy),
		Categories:  make(Taxonomy),
		Series:      make(Taxonomy),
		Aliases:     make(map[string]string),
		ByCanonical: make(map[string]*content.Document),
	}

	aliasOwner := make(map[string]string) // alias -> RelPath, for error reporting

	for i := range docs {
		doc := &docs[i]
		idx.Documents[i] = doc
		idx.ByCanonical[doc.CanonicalURL()] = doc

		addTerms(idx.Tags, doc.Meta.Tags, doc)
		addTerms(idx.Categories, doc.Meta.Categories, doc)
		addTerms(idx.Series, doc.Meta.Series, doc)

		for _, alias := range doc.Meta.Aliases {
			if first, taken := aliasOwner[alias]; taken {
				return nil, blogerr.DuplicateAlias(alias, first, doc.RelPath)
			}
			aliasOwner[alias] = doc.RelPath
			idx.Aliases[alias] = doc.CanonicalURL()
		}
	}

	return idx, nil
}

// Resolve maps an alias path to its canonical URL.
func (idx *Index) Resolve(alias string) (string, bool) {
	canonical, ok := idx.Aliases[alias]
	return canonical, ok
}

// Lookup finds a document by canonical URL.
func (idx *Index) Lookup(canonical string) (*content.Document, bool) {
	d, ok := idx.ByCanonical[canonical]
	return d, ok
}

func addTerms(tax Taxonomy, terms []string, doc *content.Document) {
	for _, term := range terms {
		if term == "" {
			continue
		}
		key := folder.String(term)
		entry, ok := tax[key]
		if !ok {
			entry = &Term{Display: term}
			tax[key] = entry
		}
		entry.Documents = append(entry.Documents, doc)
	}
}
