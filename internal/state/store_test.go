package state

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/danielewood/blog/internal/content"
	"github.com/danielewood/blog/internal/frontmatter"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_RecordAndFetchLastSuccessfulBuild(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rec := BuildRecord{
		ID:          "b1",
		Started:     time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC),
		Finished:    time.Date(2025, 8, 1, 10, 0, 2, 0, time.UTC),
		Outcome:     "success",
		ConfigHash:  "cfg1",
		ContentHash: "content1",
		Documents:   3,
	}
	require.NoError(t, s.RecordBuild(ctx, rec, []DocumentRecord{
		{RelPath: "posts/a.md", Hash: "h1", LastMod: rec.Finished},
	}))

	last, err := s.LastSuccessfulBuild(ctx)
	require.NoError(t, err)
	require.NotNil(t, last)
	require.Equal(t, "b1", last.ID)
	require.Equal(t, "cfg1", last.ConfigHash)
	require.Equal(t, 3, last.Documents)

	docs, err := s.DocumentsForBuild(ctx, "b1")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	require.Equal(t, "posts/a.md", docs[0].RelPath)
}

func TestStore_FailedBuilds_NotReturnedAsLastSuccess(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.RecordBuild(ctx, BuildRecord{
		ID: "bad", Started: time.Now(), Finished: time.Now(),
		Outcome: "failed", ConfigHash: "c", ContentHash: "x",
	}, nil))

	last, err := s.LastSuccessfulBuild(ctx)
	require.NoError(t, err)
	require.Nil(t, last)
}

func TestUnchangedSinceLastSuccess_MatchesOnlyIdenticalHashes(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	ok, err := s.UnchangedSinceLastSuccess(ctx, "cfg", "content")
	require.NoError(t, err)
	require.False(t, ok, "no prior build means no skip")

	require.NoError(t, s.RecordBuild(ctx, BuildRecord{
		ID: "b1", Started: time.Now(), Finished: time.Now(),
		Outcome: "success", ConfigHash: "cfg", ContentHash: "content",
	}, nil))

	ok, err = s.UnchangedSinceLastSuccess(ctx, "cfg", "content")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = s.UnchangedSinceLastSuccess(ctx, "cfg", "content-changed")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestFingerprint_SensitiveToBodyAndOrderIndependentCorpus(t *testing.T) {
	mk := func(rel, title, body string) content.Document {
		return content.Document{
			RelPath: rel,
			Meta: frontmatter.Meta{
				Title: title,
				Date:  frontmatter.DateTime{Time: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
			},
			Body: []byte(body),
		}
	}

	a := []content.Document{mk("posts/a.md", "A", "one"), mk("posts/b.md", "B", "two")}
	same := []content.Document{mk("posts/a.md", "A", "one"), mk("posts/b.md", "B", "two")}
	edited := []content.Document{mk("posts/a.md", "A", "one EDITED"), mk("posts/b.md", "B", "two")}

	require.Equal(t, Fingerprint(a), Fingerprint(same))
	require.NotEqual(t, Fingerprint(a), Fingerprint(edited))
	require.NotEqual(t, HashDocument(&a[0]), HashDocument(&a[1]))
}

func TestFingerprint_SensitiveToAllFrontMatterFields(t *testing.T) {
	base := func() content.Document {
		return content.Document{
			RelPath: "posts/apc-ap9606.md",
			Meta: frontmatter.Meta{
				Title: "Resetting the AP9606",
				Date:  frontmatter.DateTime{Time: time.Date(2019, 4, 5, 0, 0, 0, 0, time.UTC)},
				Tags:  []string{"apc", "ups"},
			},
			Body: []byte("body"),
		}
	}

	orig := base()
	origDocs := []content.Document{base()}

	retagged := base()
	retagged.Meta.Tags = append(retagged.Meta.Tags, "snmp")
	require.NotEqual(t, HashDocument(&orig), HashDocument(&retagged),
		"tag edit must change the fingerprint")
	require.NotEqual(t, Fingerprint(origDocs), Fingerprint([]content.Document{retagged}))

	aliased := base()
	aliased.Meta.Aliases = []string{"/2019/04/resetting-the-ap9606.html"}
	require.NotEqual(t, HashDocument(&orig), HashDocument(&aliased),
		"alias edit must change the fingerprint")

	described := base()
	described.Meta.Description = "Recovering a lost management card password"
	require.NotEqual(t, HashDocument(&orig), HashDocument(&described))

	extras := base()
	extras.Extra = map[string]any{"cover_color": "teal"}
	require.NotEqual(t, HashDocument(&orig), HashDocument(&extras),
		"theme extras count toward the fingerprint")

	require.Equal(t, HashDocument(&orig), HashDocument(&origDocs[0]),
		"identical documents keep identical hashes")
}
