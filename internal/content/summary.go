package content

import (
	"strings"
	"unicode"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// summaryMaxRunes bounds derived summaries to roughly what list pages show.
const summaryMaxRunes = 280

// Summarize derives a plain-text summary from the first paragraph of a
// Markdown body. Used when the front matter carries no explicit summary.
// Headings, code blocks, and images are skipped; inline markup is flattened
// to its text content.
func Summarize(body []byte) string {
	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(body))

	// Image-only paragraphs flatten to nothing; keep looking until a
	// paragraph yields text.
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		para, ok := n.(*gmast.Paragraph)
		if !ok {
			continue
		}
		if s := flattenText(para, body); s != "" {
			return truncateAtWord(s, summaryMaxRunes)
		}
	}
	return ""
}

func flattenText(para *gmast.Paragraph, body []byte) string {
	var sb strings.Builder
	_ = gmast.Walk(para, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *gmast.Text:
			sb.Write(node.Segment.Value(body))
			if node.SoftLineBreak() || node.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *gmast.Image:
			return gmast.WalkSkipChildren, nil
		}
		return gmast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}

// truncateAtWord cuts s to at most max runes, backing up to the previous word
// boundary and appending an ellipsis.
func truncateAtWord(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	cut := max
	for cut > 0 && !unicode.IsSpace(runes[cut]) {
		cut--
	}
	if cut == 0 {
		cut = max
	}
	return strings.TrimSpace(string(runes[:cut])) + "…"
}
