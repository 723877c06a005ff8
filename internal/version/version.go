package version

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Set with -ldflags "-X github.com/redjax/notedash/internal/version.Version=..."
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"

	RepoUrl = "https://github.com/redjax/notedash"
)

const unknown = "<unknown>"

// Build describes the running nd binary.
type Build struct {
	Program string
	Owner   string
	Repo    string
	URL     string
	Version string
	Commit  string
	Date    string
}

func Current() Build {
	program := unknown
	if exe, err := os.Executable(); err == nil {
		program = filepath.Base(exe)
	}

	owner, repo := splitRepoURL(RepoUrl)
	return Build{
		Program: program,
		Owner:   owner,
		Repo:    repo,
		URL:     RepoUrl,
		Version: Version,
		Commit:  Commit,
		Date:    Date,
	}
}

func (b Build) String() string {
	return fmt.Sprintf("notedash %s (commit %s, built %s)", b.Version, b.Commit, b.Date)
}

// WriteDetails prints one "Label: value" line per field.
func (b Build) WriteDetails(w io.Writer) error {
	rows := [][2]string{
		{"Program", b.Program},
		{"Owner", b.Owner},
		{"Repository", b.Repo},
		{"Repository URL", b.URL},
		{"Version", b.Version},
		{"Commit", b.Commit},
		{"Build Date", b.Date},
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(w, "%s: %s\n", r[0], r[1]); err != nil {
			return err
		}
	}
	return nil
}

func splitRepoURL(raw string) (owner, repo string) {
	u, err := url.Parse(raw)
	if err != nil {
		return unknown, unknown
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return unknown, unknown
	}
	return parts[0], strings.TrimSuffix(parts[1], ".git")
}

// UserAgent is sent with every Note Service request.
func UserAgent() string {
	ua := "notedash/" + Version
	if Commit != "none" && Commit != "" {
		c := Commit
		if len(c) > 7 {
			c = c[:7]
		}
		ua += " (" + c + ")"
	}
	return ua
}
