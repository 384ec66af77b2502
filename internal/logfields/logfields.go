package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyPath       = "path"
	KeySlug       = "slug"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyTerm       = "term"
	KeyTaxonomy   = "taxonomy"
	KeyAlias      = "alias"
	KeyBuildID    = "build_id"
	KeyOutput     = "output"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Slug(s string) slog.Attr         { return slog.String(KeySlug, s) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Term(t string) slog.Attr         { return slog.String(KeyTerm, t) }
func Taxonomy(t string) slog.Attr     { return slog.String(KeyTaxonomy, t) }
func Alias(a string) slog.Attr        { return slog.String(KeyAlias, a) }
func BuildID(id string) slog.Attr     { return slog.String(KeyBuildID, id) }
func Output(dir string) slog.Attr     { return slog.String(KeyOutput, dir) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
