package index

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/danielewood/blog/internal/blogerr"
	"github.com/danielewood/blog/internal/content"
	"github.com/danielewood/blog/internal/frontmatter"
)

func doc(rel, title string, date time.Time, mut func(*frontmatter.Meta)) content.Document {
	meta := frontmatter.Meta{Title: title, Date: frontmatter.DateTime{Time: date}}
	if mut != nil {
		mut(&meta)
	}
	return content.Document{RelPath: rel, Meta: meta}
}

// corpus mirrors the real blog: the 2019 APC post with its legacy alias and
// the two late-2024 OpenTofu posts sharing a tag.
func corpus() []content.Document {
	return []content.Document{
		doc("posts/opentofu-state.md", "OpenTofu State Management",
			time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC), func(m *frontmatter.Meta) {
				m.Tags = []string{"opentofu"}
				m.Series = []string{"opentofu"}
			}),
		doc("posts/opentofu-provider.md", "OpenTofu Provider Patterns",
			time.Date(2024, 12, 29, 0, 0, 0, 0, time.UTC), func(m *frontmatter.Meta) {
				m.Tags = []string{"opentofu", "terraform"}
				m.Series = []string{"opentofu"}
			}),
		doc("posts/apc-ap9606.md", "Resetting and Upgrading an APC AP9606",
			time.Date(2019, 4, 5, 0, 0, 0, 0, time.UTC), func(m *frontmatter.Meta) {
				m.Tags = []string{"apc", "ups"}
				m.Categories = []string{"hardware"}
				m.Aliases = []string{"/2019/04/resetting-and-upgrading-apc-ap9606.html"}
			}),
	}
}

func TestBuild_SharedTag_BothDocumentsInTermDateDescending(t *testing.T) {
	idx, err := Build(corpus())
	require.NoError(t, err)

	term, ok := idx.Tags.Get("opentofu")
	require.True(t, ok)
	require.Len(t, term.Documents, 2)
	require.Equal(t, "posts/opentofu-state.md", term.Documents[0].RelPath)
	require.Equal(t, "posts/opentofu-provider.md", term.Documents[1].RelPath)
}

func TestBuild_RemovedDocument_AbsentFromAllIndexes(t *testing.T) {
	docs := corpus()
	idx, err := Build(docs[:2]) // drop the APC post
	require.NoError(t, err)

	_, ok := idx.Tags.Get("apc")
	require.False(t, ok)
	_, ok = idx.Categories.Get("hardware")
	require.False(t, ok)
	_, ok = idx.Resolve("/2019/04/resetting-and-upgrading-apc-ap9606.html")
	require.False(t, ok)
}

func TestBuild_AliasResolvesToCanonicalURL(t *testing.T) {
	idx, err := Build(corpus())
	require.NoError(t, err)

	canonical, ok := idx.Resolve("/2019/04/resetting-and-upgrading-apc-ap9606.html")
	require.True(t, ok)
	require.Equal(t, "/posts/apc-ap9606/", canonical)

	owner, ok := idx.Lookup(canonical)
	require.True(t, ok)
	require.Equal(t, "Resetting and Upgrading an APC AP9606", owner.Meta.Title)
}

func TestBuild_DuplicateAlias_FailsWithDuplicateAliasError(t *testing.T) {
	docs := corpus()
	docs = append(docs, doc("posts/claim-jumper.md", "Claim Jumper",
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), func(m *frontmatter.Meta) {
			m.Aliases = []string{"/2019/04/resetting-and-upgrading-apc-ap9606.html"}
		}))

	_, err := Build(docs)
	require.Error(t, err)
	require.True(t, blogerr.IsCategory(err, blogerr.CategoryIndex))

	var be *blogerr.Error
	require.ErrorAs(t, err, &be)
	require.Equal(t, "/2019/04/resetting-and-upgrading-apc-ap9606.html", be.Context["alias"])
}

func TestBuild_TermMatching_IsCaseFolded(t *testing.T) {
	docs := []content.Document{
		doc("posts/a.md", "A", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), func(m *frontmatter.Meta) {
			m.Tags = []string{"DevOps"}
		}),
		doc("posts/b.md", "B", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), func(m *frontmatter.Meta) {
			m.Tags = []string{"devops"}
		}),
	}

	idx, err := Build(docs)
	require.NoError(t, err)

	term, ok := idx.Tags.Get("DEVOPS")
	require.True(t, ok)
	require.Len(t, term.Documents, 2)
	// First-seen spelling wins for display.
	require.Equal(t, "DevOps", term.Display)
}

func TestTaxonomy_Terms_SortedDeterministically(t *testing.T) {
	idx, err := Build(corpus())
	require.NoError(t, err)

	require.Equal(t, []string{"apc", "opentofu", "terraform", "ups"}, idx.Tags.Terms())
}

func TestBuild_EndToEnd_ListingOrder(t *testing.T) {
	idx, err := Build(corpus())
	require.NoError(t, err)

	require.Len(t, idx.Documents, 3)
	require.Equal(t, "posts/opentofu-state.md", idx.Documents[0].RelPath)
	require.Equal(t, "posts/opentofu-provider.md", idx.Documents[1].RelPath)
	require.Equal(t, "posts/apc-ap9606.md", idx.Documents[2].RelPath)
}
