// Package frontmatter splits, decodes, and re-serializes the YAML front
// matter block that prefixes every content document.
package frontmatter

import (
	"bytes"
	"errors"
)

// ErrMissingClosingDelimiter indicates the document started with a front
// matter delimiter but never closed it.
var ErrMissingClosingDelimiter = errors.New("front matter opening delimiter found but closing delimiter is missing")

// Style captures formatting details needed for stable rewriting.
//
// It intentionally focuses on newline shape and does not attempt to preserve
// original YAML formatting.
type Style struct {
	Newline            string
	HasTrailingNewline bool
}

// Block is the result of splitting a document into front matter and body.
type Block struct {
	FrontMatter []byte // raw YAML, without delimiters
	Body        []byte // Markdown body
	Present     bool   // false when the document has no front matter block
	Style       Style
}

// Split separates a `---` delimited YAML front matter block from the
// Markdown body. Documents without a leading delimiter are returned whole as
// the body with Present false.
func Split(content []byte) (Block, error) {
	style := detectStyle(content)
	nl := style.Newline

	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return Block{Body: content, Style: style}, nil
	}

	rest := content[len(open):]

	// Empty block: the closing delimiter immediately follows the opener.
	if bytes.HasPrefix(rest, open) {
		return Block{
			FrontMatter: []byte{},
			Body:        rest[len(open):],
			Present:     true,
			Style:       style,
		}, nil
	}

	closeSeq := []byte(nl + "---" + nl)
	idx := bytes.Index(rest, closeSeq)
	if idx < 0 {
		return Block{Style: style}, ErrMissingClosingDelimiter
	}

	return Block{
		FrontMatter: rest[:idx+len(nl)],
		Body:        rest[idx+len(closeSeq):],
		Present:     true,
		Style:       style,
	}, nil
}

// Join reassembles a document from a Block. Blocks without front matter are
// returned as the bare body.
func (b Block) Join() []byte {
	if !b.Present {
		return b.Body
	}

	nl := b.Style.Newline
	if nl == "" {
		nl = "\n"
	}

	delim := []byte("---" + nl)
	out := make([]byte, 0, 2*len(delim)+len(b.FrontMatter)+len(b.Body))
	out = append(out, delim...)
	out = append(out, b.FrontMatter...)
	out = append(out, delim...)
	out = append(out, b.Body...)
	return out
}

func detectStyle(content []byte) Style {
	newline := "\n"
	for i := 0; i+1 < len(content); i++ {
		if content[i] == '\r' && content[i+1] == '\n' {
			newline = "\r\n"
			break
		}
		if content[i] == '\n' {
			break
		}
	}

	return Style{
		Newline:            newline,
		HasTrailingNewline: len(content) > 0 && content[len(content)-1] == '\n',
	}
}
