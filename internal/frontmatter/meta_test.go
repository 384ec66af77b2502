package frontmatter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/danielewood/blog/internal/blogerr"
)

const apcFrontMatter = `author: ["Daniel Wood"]
title: "Resetting and Upgrading an APC AP9606"
date: 2019-04-05
description: "Recovering a bricked AP9606 management card"
summary: "Serial recovery for the AP9606"
tags: ["apc", "ups", "hardware"]
categories: ["infrastructure"]
showToc: true
TocOpen: false
aliases:
  - /2019/04/resetting-and-upgrading-apc-ap9606.html
cover:
  image: /images/ap9606.jpg
`

func TestDecode_FullFrontMatter_PopulatesTypedFields(t *testing.T) {
	meta, extras, err := Decode([]byte(apcFrontMatter), "posts/apc-ap9606.md")
	require.NoError(t, err)

	require.Equal(t, "Resetting and Upgrading an APC AP9606", meta.Title)
	require.Equal(t, time.Date(2019, 4, 5, 0, 0, 0, 0, time.UTC), meta.Date.Time)
	require.Equal(t, StringList{"Daniel Wood"}, meta.Author)
	require.Equal(t, []string{"apc", "ups", "hardware"}, meta.Tags)
	require.Equal(t, []string{"infrastructure"}, meta.Categories)
	require.True(t, meta.ShowToc)
	require.False(t, meta.TocOpen)
	require.Equal(t, []string{"/2019/04/resetting-and-upgrading-apc-ap9606.html"}, meta.Aliases)

	// Theme-specific keys pass through as extras.
	require.Contains(t, extras, "cover")
	require.NotContains(t, extras, "title")
}

func TestDecode_MissingTitle_ReturnsFrontMatterError(t *testing.T) {
	_, _, err := Decode([]byte("date: 2024-12-29\n"), "posts/x.md")

	require.Error(t, err)
	require.True(t, blogerr.IsCategory(err, blogerr.CategoryFrontMatter))
}

func TestDecode_MissingDate_ReturnsFrontMatterError(t *testing.T) {
	_, _, err := Decode([]byte("title: No Date\n"), "posts/x.md")

	require.Error(t, err)
	require.True(t, blogerr.IsCategory(err, blogerr.CategoryFrontMatter))
}

func TestDecode_UnparseableDate_ReturnsFrontMatterError(t *testing.T) {
	_, _, err := Decode([]byte("title: Bad\ndate: sometime in april\n"), "posts/x.md")

	require.Error(t, err)
	require.True(t, blogerr.IsCategory(err, blogerr.CategoryFrontMatter))
}

func TestDecode_ScalarAuthor_DecodesAsSingleElementList(t *testing.T) {
	meta, _, err := Decode([]byte("title: T\ndate: 2024-12-30\nauthor: Daniel Wood\n"), "posts/x.md")
	require.NoError(t, err)
	require.Equal(t, StringList{"Daniel Wood"}, meta.Author)
}

func TestDateTime_AcceptedLayouts(t *testing.T) {
	for _, raw := range []string{
		"2024-12-29",
		"2024-12-29T10:30:00",
		"2024-12-29 10:30:00",
		"2024-12-29T10:30:00-08:00",
	} {
		var d DateTime
		err := yaml.Unmarshal([]byte("d: "+raw+"\n"), &struct {
			D *DateTime `yaml:"d"`
		}{D: &d})
		require.NoError(t, err, "layout %q", raw)
		require.Equal(t, 2024, d.Year())
		require.Equal(t, time.December, d.Month())
		require.Equal(t, 29, d.Day())
	}
}

func TestEncode_RoundTrip_PreservesTypedFieldsAndExtras(t *testing.T) {
	meta, extras, err := Decode([]byte(apcFrontMatter), "posts/apc-ap9606.md")
	require.NoError(t, err)

	out, err := Encode(meta, extras)
	require.NoError(t, err)

	meta2, extras2, err := Decode(out, "posts/apc-ap9606.md")
	require.NoError(t, err)
	require.Equal(t, meta.Title, meta2.Title)
	require.Equal(t, meta.Date.Time, meta2.Date.Time)
	require.Equal(t, meta.Tags, meta2.Tags)
	require.Equal(t, meta.Aliases, meta2.Aliases)
	require.Contains(t, extras2, "cover")
}
