package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/redjax/notedash/internal/config"
	"github.com/redjax/notedash/internal/mockapi"
	"github.com/redjax/notedash/internal/services"
	"github.com/redjax/notedash/internal/session"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, apiURL string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		APIURL:      apiURL,
		APITimeout:  5 * time.Second,
		DataDir:     dir,
		SessionFile: filepath.Join(dir, "session.json"),
		LogFile:     filepath.Join(dir, "nd.log"),
	}
}

func newDevService(t *testing.T) (*httptest.Server, *mockapi.Store) {
	t.Helper()
	store := mockapi.NewStore()
	srv := httptest.NewServer(mockapi.NewServer(store, mockapi.Options{Secret: "test"}).Handler())
	t.Cleanup(srv.Close)
	return srv, store
}

func execute(t *testing.T, cmd *cobra.Command, stdin string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	// A nil slice makes cobra fall back to os.Args.
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestLoginListLogout(t *testing.T) {
	srv, store := newDevService(t)
	_, _, err := store.CreateUser("Ada Lovelace", "ada@example.com", "password1")
	require.NoError(t, err)

	cfg := testConfig(t, srv.URL)
	getConfig := func() *config.Config { return cfg }

	_, err = execute(t, NewNotesCmd(getConfig), "", "ls")
	assert.ErrorIs(t, err, errNotLoggedIn)

	_, err = execute(t, NewLoginCmd(getConfig), "wrong-password\n", "--email", "ada@example.com")
	require.Error(t, err)

	out, err := execute(t, NewLoginCmd(getConfig), "password1\n", "--email", "ada@example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in as ada@example.com")

	sess, err := session.Open(cfg.SessionFile)
	require.NoError(t, err)
	require.True(t, sess.Authenticated())

	svc := services.NewNotesService(cfg.APIURL, cfg.APITimeout, sess)
	_, err = svc.AddNote(context.Background(), services.NoteDraft{Title: "Plain"})
	require.NoError(t, err)
	fav, err := svc.AddNote(context.Background(), services.NoteDraft{Title: "Loved"})
	require.NoError(t, err)
	fav.IsFavorite = true
	_, err = svc.UpdateNote(context.Background(), *fav)
	require.NoError(t, err)

	out, err = execute(t, NewNotesCmd(getConfig), "", "ls", "--json", "--favorites")
	require.NoError(t, err)

	var listed []services.Note
	require.NoError(t, json.Unmarshal([]byte(out), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "Loved", listed[0].Title)

	out, err = execute(t, NewLogoutCmd(getConfig), "")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out")

	sess, err = session.Open(cfg.SessionFile)
	require.NoError(t, err)
	assert.False(t, sess.Authenticated())
}

func TestSignupAndVerify(t *testing.T) {
	srv, _ := newDevService(t)
	cfg := testConfig(t, srv.URL)
	getConfig := func() *config.Config { return cfg }

	out, err := execute(t, NewSignupCmd(getConfig), "Grace Hopper\ngrace@example.com\ncobol-rules\n")
	require.NoError(t, err)
	assert.Contains(t, out, "Registration Successful")
	assert.Contains(t, out, "Logged in as grace@example.com")

	var token string
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "Verify your email with: nd verify ") {
			token = strings.TrimPrefix(line, "Verify your email with: nd verify ")
		}
	}
	require.NotEmpty(t, token)

	out, err = execute(t, NewVerifyCmd(getConfig), "", token)
	require.NoError(t, err)
	assert.Contains(t, out, "Email verified")

	_, err = execute(t, NewVerifyCmd(getConfig), "", token)
	assert.Error(t, err)
}

func TestSignupRejectsShortPassword(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1")
	_, err := execute(t, NewSignupCmd(func() *config.Config { return cfg }), "Bob\nbob@example.com\nshort\n")
	assert.Error(t, err)
}

func TestExpiredSessionIsCleared(t *testing.T) {
	srv, _ := newDevService(t)
	cfg := testConfig(t, srv.URL)

	sess, err := session.Open(cfg.SessionFile)
	require.NoError(t, err)
	require.NoError(t, sess.Set("not-a-jwt", "x@example.com"))

	_, err = execute(t, NewNotesCmd(func() *config.Config { return cfg }), "", "ls")
	require.Error(t, err)
	assert.True(t, services.IsUnauthorized(err))

	sess, err = session.Open(cfg.SessionFile)
	require.NoError(t, err)
	assert.False(t, sess.Authenticated())
}

func TestExportImportRoundTrip(t *testing.T) {
	notes := []services.Note{
		{Title: "Pinned", Content: "top", IsPinned: true, Tags: []string{"a"}},
		{Title: "Plain", Content: "body"},
	}

	path, err := exportPath(filepath.Join(t.TempDir(), "backup"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "backup.zip"))

	n, err := writeExport(path, notes)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	read, err := readArchive(path)
	require.NoError(t, err)
	require.Len(t, read, 2)

	fake := &fakeCreator{}
	var warn bytes.Buffer
	stats, err := importNotes(context.Background(), fake, append(read, services.Note{Title: strings.Repeat("x", 300)}), &warn)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.imported)
	assert.Equal(t, 1, stats.skipped)
	assert.Contains(t, warn.String(), "skipping")
	require.Len(t, fake.added, 2)
	assert.Equal(t, "Pinned", fake.added[0].Title)
	require.Len(t, fake.updated, 1)
	assert.True(t, fake.updated[0].IsPinned)
}

func TestImportStopsOnServiceError(t *testing.T) {
	fake := &fakeCreator{err: errors.New("boom")}
	stats, err := importNotes(context.Background(), fake, []services.Note{{Title: "a"}, {Title: "b"}}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Equal(t, 0, stats.imported)
	assert.Len(t, fake.added, 1)
}

func TestServeAnnouncesAddressOnce(t *testing.T) {
	var logs bytes.Buffer
	log.SetOutput(&logs)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	cfg := testConfig(t, "")
	cfg.ServeAddr = "127.0.0.1:0"
	cfg.ServeSecret = "test"

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cmd := NewServeCmd(func() *config.Config { return cfg })
	cmd.SetContext(ctx)
	_, err := execute(t, cmd, "")
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(logs.String(), "Note Service listening on http://127.0.0.1:"))
}

func TestRenderNotesTable(t *testing.T) {
	out := renderNotesTable([]services.Note{
		{Title: "Shopping list", Tags: []string{"home", "errands"}, IsFavorite: true, CreatedOn: time.Now().Add(-2 * time.Hour)},
	}, 100)

	assert.Contains(t, out, "TITLE")
	assert.Contains(t, out, "Shopping list")
	assert.Contains(t, out, "home, errands")
	assert.Contains(t, out, "2 hours ago")
	assert.Contains(t, out, "♥")
}

func TestClip(t *testing.T) {
	assert.Equal(t, "short", clip("short", 10))
	assert.Equal(t, "abcd…", clip("abcdefgh", 5))
}

type fakeCreator struct {
	err     error
	added   []services.NoteDraft
	updated []services.Note
}

func (f *fakeCreator) AddNote(_ context.Context, draft services.NoteDraft) (*services.Note, error) {
	f.added = append(f.added, draft)
	if f.err != nil {
		return nil, f.err
	}
	return &services.Note{ID: "id", Title: draft.Title, Content: draft.Content, Tags: draft.Tags}, nil
}

func (f *fakeCreator) UpdateNote(_ context.Context, note services.Note) (*services.Note, error) {
	f.updated = append(f.updated, note)
	return &note, nil
}
