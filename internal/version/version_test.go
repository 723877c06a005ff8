package version

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withBuild(t *testing.T, version, commit, date string) {
	t.Helper()
	v, c, d := Version, Commit, Date
	Version, Commit, Date = version, commit, date
	t.Cleanup(func() { Version, Commit, Date = v, c, d })
}

func TestSplitRepoURL(t *testing.T) {
	cases := []struct {
		raw, owner, repo string
	}{
		{"https://github.com/redjax/notedash", "redjax", "notedash"},
		{"https://github.com/redjax/notedash.git/", "redjax", "notedash"},
		{"https://github.com/redjax", unknown, unknown},
		{"://bad", unknown, unknown},
	}
	for _, tc := range cases {
		owner, repo := splitRepoURL(tc.raw)
		assert.Equal(t, tc.owner, owner, tc.raw)
		assert.Equal(t, tc.repo, repo, tc.raw)
	}
}

func TestCurrent(t *testing.T) {
	withBuild(t, "1.2.0", "abcdef123456", "2024-03-05")

	b := Current()
	assert.NotEmpty(t, b.Program)
	assert.Equal(t, "redjax", b.Owner)
	assert.Equal(t, "notedash", b.Repo)
	assert.Equal(t, "notedash 1.2.0 (commit abcdef123456, built 2024-03-05)", b.String())
}

func TestWriteDetails(t *testing.T) {
	withBuild(t, "1.2.0", "abc", "today")

	var buf bytes.Buffer
	require.NoError(t, Current().WriteDetails(&buf))

	out := buf.String()
	assert.Contains(t, out, "Repository: notedash\n")
	assert.Contains(t, out, "Version: 1.2.0\n")
	assert.Equal(t, 7, strings.Count(out, "\n"))
}

func TestUserAgent(t *testing.T) {
	withBuild(t, "dev", "none", "unknown")
	assert.Equal(t, "notedash/dev", UserAgent())

	withBuild(t, "1.2.0", "abcdef123456", "today")
	assert.Equal(t, "notedash/1.2.0 (abcdef1)", UserAgent())
}

func TestVersionCommand(t *testing.T) {
	withBuild(t, "1.2.0", "abc", "today")

	var buf bytes.Buffer
	cmd := NewVersionCommand()
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"--short"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "1.2.0\n", buf.String())
}
