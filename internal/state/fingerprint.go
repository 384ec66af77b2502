package state

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/danielewood/blog/internal/content"
	"github.com/danielewood/blog/internal/frontmatter"
)

// HashDocument fingerprints one document: its path, the complete re-encoded
// front matter (typed fields and theme extras), and the body. Any front
// matter edit — a new tag, alias, or description included — changes the
// hash; taxonomy and redirect pages depend on those fields as much as list
// pages depend on the body.
func HashDocument(doc *content.Document) string {
	h := sha256.New()
	h.Write([]byte(doc.RelPath))
	h.Write([]byte{0})
	fm, err := frontmatter.Encode(doc.Meta, doc.Extra)
	if err != nil {
		// Encode only fails on unmarshalable extras; degrade to a
		// representation that still tracks every field.
		fm = []byte(fmt.Sprintf("%+v|%+v", doc.Meta, doc.Extra))
	}
	h.Write(fm)
	h.Write([]byte{0})
	h.Write(doc.Body)
	return hex.EncodeToString(h.Sum(nil))
}

// Fingerprint folds every document hash into one corpus fingerprint. The
// input order is the loader's deterministic ordering, so equal corpora yield
// equal fingerprints.
func Fingerprint(docs []content.Document) string {
	h := sha256.New()
	for i := range docs {
		h.Write([]byte(HashDocument(&docs[i])))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// DocumentRecords builds the per-document rows persisted with a build.
func DocumentRecords(docs []content.Document) []DocumentRecord {
	out := make([]DocumentRecord, len(docs))
	for i := range docs {
		out[i] = DocumentRecord{
			RelPath: docs[i].RelPath,
			Hash:    HashDocument(&docs[i]),
			LastMod: docs[i].LastMod(),
		}
	}
	return out
}
