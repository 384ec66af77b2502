package frontmatter

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/danielewood/blog/internal/blogerr"
)

// StringList accepts both a YAML scalar and a YAML sequence, so
// `author: Daniel` and `author: ["Daniel", "Guest"]` decode identically.
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *StringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var v string
		if err := node.Decode(&v); err != nil {
			return err
		}
		if v == "" {
			*s = nil
			return nil
		}
		*s = StringList{v}
		return nil
	case yaml.SequenceNode:
		var v []string
		if err := node.Decode(&v); err != nil {
			return err
		}
		*s = StringList(v)
		return nil
	default:
		return fmt.Errorf("expected string or list of strings, got yaml kind %d", node.Kind)
	}
}

// MarshalYAML keeps single-author documents serialized as a scalar.
func (s StringList) MarshalYAML() (any, error) {
	if len(s) == 1 {
		return s[0], nil
	}
	return []string(s), nil
}

// dateLayouts are the formats accepted for front matter dates, tried in order.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// DateTime is a front matter date that tolerates the layouts bloggers
// actually write.
type DateTime struct {
	time.Time
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *DateTime) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	if raw == "" {
		d.Time = time.Time{}
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			d.Time = t
			return nil
		}
	}
	return fmt.Errorf("unparseable date %q", raw)
}

// MarshalYAML implements yaml.Marshaler.
func (d DateTime) MarshalYAML() (any, error) {
	if d.IsZero() {
		return "", nil
	}
	return d.Format(time.RFC3339), nil
}

// Meta is the typed front matter of a content document. Unknown keys are
// preserved separately (see Decode) so theme-specific fields survive a
// rewrite untouched.
type Meta struct {
	Title       string     `yaml:"title"`
	Date        DateTime   `yaml:"date"`
	Lastmod     DateTime   `yaml:"lastmod,omitempty"`
	ExpiryDate  DateTime   `yaml:"expiryDate,omitempty"`
	Draft       bool       `yaml:"draft,omitempty"`
	Author      StringList `yaml:"author,omitempty"`
	Description string     `yaml:"description,omitempty"`
	Summary     string     `yaml:"summary,omitempty"`
	Tags        []string   `yaml:"tags,omitempty"`
	Categories  []string   `yaml:"categories,omitempty"`
	Series      []string   `yaml:"series,omitempty"`
	ShowToc     bool       `yaml:"showToc,omitempty"`
	TocOpen     bool       `yaml:"TocOpen,omitempty"`
	Aliases     []string   `yaml:"aliases,omitempty"`
	Weight      int        `yaml:"weight,omitempty"`
	Cover       *Cover     `yaml:"cover,omitempty"`
}

// Cover is the theme's cover image block.
type Cover struct {
	Image    string `yaml:"image,omitempty"`
	Alt      string `yaml:"alt,omitempty"`
	Caption  string `yaml:"caption,omitempty"`
	Relative bool   `yaml:"relative,omitempty"`
	Hidden   bool   `yaml:"hidden,omitempty"`
}

// metaKeys mirrors the yaml tags of Meta; anything else is an extra.
var metaKeys = map[string]struct{}{
	"title": {}, "date": {}, "lastmod": {}, "expiryDate": {}, "draft": {},
	"author": {}, "description": {}, "summary": {}, "tags": {},
	"categories": {}, "series": {}, "showToc": {}, "TocOpen": {},
	"aliases": {}, "weight": {}, "cover": {},
}

// Decode parses raw front matter into Meta plus the passthrough extras, and
// enforces the required fields: a non-empty title and a parseable date.
// path is used only for error reporting.
func Decode(raw []byte, path string) (Meta, map[string]any, error) {
	var meta Meta
	if err := yaml.Unmarshal(raw, &meta); err != nil {
		return Meta{}, nil, blogerr.FrontMatterParse(path, err)
	}

	var all map[string]any
	if err := yaml.Unmarshal(raw, &all); err != nil {
		return Meta{}, nil, blogerr.FrontMatterParse(path, err)
	}

	if meta.Title == "" {
		return Meta{}, nil, blogerr.FrontMatter(path, "missing required field: title")
	}
	if meta.Date.IsZero() {
		return Meta{}, nil, blogerr.FrontMatter(path, "missing or unparseable required field: date")
	}

	extras := make(map[string]any)
	for k, v := range all {
		if _, known := metaKeys[k]; !known {
			extras[k] = v
		}
	}
	if len(extras) == 0 {
		extras = nil
	}
	return meta, extras, nil
}

// Encode serializes Meta plus extras back to YAML for the resolved tree.
// Typed fields win on key collisions with extras.
func Encode(meta Meta, extras map[string]any) ([]byte, error) {
	merged := make(map[string]any, len(extras)+len(metaKeys))
	for k, v := range extras {
		merged[k] = v
	}

	typed, err := yaml.Marshal(&meta)
	if err != nil {
		return nil, err
	}
	var typedMap map[string]any
	if err := yaml.Unmarshal(typed, &typedMap); err != nil {
		return nil, err
	}
	for k, v := range typedMap {
		merged[k] = v
	}

	return yaml.Marshal(merged)
}
