package content

import (
	"os"
	"testing"
	"testing/fstest"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchTestdata(t *testing.T) {
	res, err := Match(os.DirFS("testdata/site"), []string{
		"./templates/**/*.html",
		"!./templates/drafts/**",
		"./static/**/*.js",
		"./components/**/*.go",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"static/app.js",
		"templates/index.html",
		"templates/pool/picks.html",
		"templates/pool/standings.html",
	}, res.Files)

	assert.Equal(t, []PatternResult{
		{Pattern: "./templates/**/*.html", Matches: 4},
		{Pattern: "!./templates/drafts/**", Negated: true, Matches: 1},
		{Pattern: "./static/**/*.js", Matches: 1},
		{Pattern: "./components/**/*.go", Matches: 0},
	}, res.Patterns)

	assert.Equal(t, []string{"./components/**/*.go"}, res.Unmatched())
}

func TestMatchOverlappingPatternsCountedOnce(t *testing.T) {
	fsys := fstest.MapFS{
		"a/x.html": {Data: []byte("x")},
		"a/y.html": {Data: []byte("y")},
	}
	res, err := Match(fsys, []string{"a/*.html", "a/x.html", "**/*.html"})
	require.NoError(t, err)

	assert.Equal(t, []string{"a/x.html", "a/y.html"}, res.Files)
	assert.Equal(t, 2, res.Patterns[0].Matches)
	assert.Equal(t, 1, res.Patterns[1].Matches)
	assert.Equal(t, 2, res.Patterns[2].Matches)
	assert.Empty(t, res.Unmatched())
}

func TestMatchSkipsDirectories(t *testing.T) {
	fsys := fstest.MapFS{
		"templates/pool/index.html": {Data: []byte("x")},
	}
	res, err := Match(fsys, []string{"templates/*"})
	require.NoError(t, err)

	assert.Empty(t, res.Files)
	assert.Equal(t, []string{"templates/*"}, res.Unmatched())
}

func TestMatchOutsideRoot(t *testing.T) {
	fsys := fstest.MapFS{"a.html": {Data: []byte("x")}}
	res, err := Match(fsys, []string{"../shared/**/*.html", "/abs/*.html", "./a.html"})
	require.NoError(t, err)

	assert.True(t, res.Patterns[0].Outside)
	assert.True(t, res.Patterns[1].Outside)
	assert.False(t, res.Patterns[2].Outside)
	assert.Equal(t, []string{"a.html"}, res.Files)
	assert.Empty(t, res.Unmatched(), "outside patterns are not reported as unmatched")
}

func TestMatchEmpty(t *testing.T) {
	res, err := Match(fstest.MapFS{}, nil)
	require.NoError(t, err)
	assert.Empty(t, res.Files)
	assert.Empty(t, res.Patterns)
	assert.Empty(t, res.Unmatched())
}

func TestMatchBadPattern(t *testing.T) {
	_, err := Match(fstest.MapFS{}, []string{"src/[a-"})
	require.ErrorIs(t, err, doublestar.ErrBadPattern)
}

func TestClean(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"./a/*.html", "a/*.html", true},
		{"././a/**", "a/**", true},
		{"a/./b/*.go", "a/b/*.go", true},
		{"a/../b/*.go", "b/*.go", true},
		{"../a/*.html", "", false},
		{"a/../../b", "", false},
		{"/abs/*.html", "", false},
		{"./", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := clean(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
