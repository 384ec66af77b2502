package linkcheck

import (
	"io"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
)

// HTMLRef is one link-like reference found in rendered HTML.
type HTMLRef struct {
	URL       string
	Tag       string // a, img, link, script
	Attribute string // href or src
}

// linkAttrs maps HTML tags to the attribute that carries a reference.
var linkAttrs = map[string]string{
	"a":      "href",
	"img":    "src",
	"link":   "href",
	"script": "src",
}

// ExtractHTMLRefs parses rendered HTML and returns every href/src reference.
func ExtractHTMLRefs(r io.Reader) ([]HTMLRef, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var refs []HTMLRef
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if attr, ok := linkAttrs[n.Data]; ok {
				for _, a := range n.Attr {
					if a.Key == attr && a.Val != "" {
						refs = append(refs, HTMLRef{URL: a.Val, Tag: n.Data, Attribute: attr})
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return refs, nil
}

// CheckRenderedDir walks a rendered site directory and reports internal
// references that do not correspond to a file in the output. External URLs
// are skipped.
func CheckRenderedDir(dir string) ([]Problem, error) {
	var problems []Problem
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(d.Name()), ".html") {
			return nil
		}

		f, err := os.Open(p)
		if err != nil {
			return err
		}
		refs, perr := ExtractHTMLRefs(f)
		_ = f.Close()
		if perr != nil {
			return perr
		}

		rel, _ := filepath.Rel(dir, p)
		for _, ref := range refs {
			if reason, bad := missingTarget(dir, ref.URL); bad {
				problems = append(problems, Problem{
					Source:      filepath.ToSlash(rel),
					Destination: ref.URL,
					Reason:      reason,
				})
			}
		}
		return nil
	})
	return problems, err
}

func missingTarget(dir, raw string) (string, bool) {
	u, err := url.Parse(raw)
	if err != nil {
		return "unparseable reference", true
	}
	if u.Scheme != "" || u.Host != "" || !strings.HasPrefix(u.Path, "/") {
		return "", false
	}

	clean := path.Clean(u.Path)
	candidates := []string{
		filepath.Join(dir, filepath.FromSlash(clean)),
		filepath.Join(dir, filepath.FromSlash(clean), "index.html"),
	}
	for _, c := range candidates {
		if fi, err := os.Stat(c); err == nil && !fi.IsDir() {
			return "", false
		}
		if fi, err := os.Stat(c); err == nil && fi.IsDir() {
			// A directory target needs an index file, covered by the second
			// candidate; a bare directory hit here is fine for assets dirs.
			continue
		}
	}
	return "no file at this path in the rendered output", true
}
