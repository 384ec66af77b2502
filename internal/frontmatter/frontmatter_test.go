package frontmatter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplit_NoFrontMatter_ReturnsBodyOnly(t *testing.T) {
	input := []byte("# Title\n\nHello\n")

	blk, err := Split(input)
	require.NoError(t, err)
	require.False(t, blk.Present)
	require.Empty(t, blk.FrontMatter)
	require.Equal(t, input, blk.Body)
}

func TestSplit_YAMLFrontMatter_SplitsFrontMatterAndBody(t *testing.T) {
	input := []byte("---\ntitle: APC AP9606 Reset\n---\n# Notes\n")

	blk, err := Split(input)
	require.NoError(t, err)
	require.True(t, blk.Present)
	require.Equal(t, []byte("title: APC AP9606 Reset\n"), blk.FrontMatter)
	require.Equal(t, []byte("# Notes\n"), blk.Body)
}

func TestSplit_MissingClosingDelimiter_ReturnsError(t *testing.T) {
	input := []byte("---\ntitle: broken\n# Notes\n")

	_, err := Split(input)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrMissingClosingDelimiter))
}

func TestSplit_CRLF_SplitsFrontMatterAndBody(t *testing.T) {
	input := []byte("---\r\ntitle: win\r\n---\r\n# Notes\r\n")

	blk, err := Split(input)
	require.NoError(t, err)
	require.True(t, blk.Present)
	require.Equal(t, []byte("title: win\r\n"), blk.FrontMatter)
	require.Equal(t, "\r\n", blk.Style.Newline)
}

func TestSplit_EmptyBlock_PresentWithEmptyFrontMatter(t *testing.T) {
	input := []byte("---\n---\n# Notes\n")

	blk, err := Split(input)
	require.NoError(t, err)
	require.True(t, blk.Present)
	require.Empty(t, blk.FrontMatter)
	require.Equal(t, []byte("# Notes\n"), blk.Body)
}

func TestJoin_RoundTrip_ReconstructsOriginalBytes(t *testing.T) {
	cases := [][]byte{
		[]byte("# Notes\n\nHello\n"),
		[]byte("---\ntitle: a\n---\n# Notes\n"),
		[]byte("---\n---\n# Notes\n"),
		[]byte("---\r\ntitle: a\r\n---\r\n# Notes\r\n"),
	}

	for _, input := range cases {
		blk, err := Split(input)
		require.NoError(t, err)
		require.Equal(t, input, blk.Join())
	}
}
