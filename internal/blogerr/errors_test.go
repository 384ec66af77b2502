package blogerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestError_WithCause_FormatsCategoryAndCause(t *testing.T) {
	cause := errors.New("yaml: line 3: mapping values are not allowed")
	err := ConfigParse("config.yaml", cause)

	require.Contains(t, err.Error(), "config (fatal)")
	require.Contains(t, err.Error(), "mapping values")
	require.ErrorIs(t, err, cause)
}

func TestError_WithoutCause_FormatsCategoryOnly(t *testing.T) {
	err := FrontMatter("posts/a.md", "missing required field: title")

	require.Equal(t, "frontmatter (fatal): front matter invalid", err.Error())
	require.Nil(t, errors.Unwrap(err))
}

func TestIsCategory_WrappedError_MatchesCategory(t *testing.T) {
	err := fmt.Errorf("loading content: %w", FrontMatter("posts/a.md", "missing date"))

	require.True(t, IsCategory(err, CategoryFrontMatter))
	require.False(t, IsCategory(err, CategoryConfig))
}

func TestGetCategory_PlainError_ReturnsInternal(t *testing.T) {
	require.Equal(t, CategoryInternal, GetCategory(errors.New("boom")))
}

func TestDuplicateAlias_RecordsBothPaths(t *testing.T) {
	err := DuplicateAlias("/2019/04/old.html", "posts/a.md", "posts/b.md")

	require.Equal(t, CategoryIndex, err.Category)
	require.Equal(t, "posts/b.md", err.Path())
	require.Equal(t, "posts/a.md", err.Context["claimed_by"])
	require.Equal(t, "/2019/04/old.html", err.Context["alias"])
}

func TestPath_NoContext_ReturnsEmpty(t *testing.T) {
	err := New(CategoryBuild, SeverityError, "stage failed")
	require.Empty(t, err.Path())
}
