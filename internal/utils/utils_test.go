package utils

import (
	"bytes"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromptReadsOneLineAtATime(t *testing.T) {
	in := strings.NewReader("Ada Lovelace\n ada@example.com \nsecret")
	var out bytes.Buffer

	name, err := Prompt(in, &out, "Name: ")
	require.NoError(t, err)
	email, err := Prompt(in, &out, "Email: ")
	require.NoError(t, err)
	password, err := ReadPassword(in, &out, "Password: ")
	require.NoError(t, err)

	assert.Equal(t, "Ada Lovelace", name)
	assert.Equal(t, "ada@example.com", email)
	assert.Equal(t, "secret", password)
	assert.Equal(t, "Name: Email: Password: ", out.String())

	_, err = Prompt(in, &out, "More: ")
	assert.Error(t, err)
}

func TestMaxColumnLen(t *testing.T) {
	assert.Equal(t, 50, MaxColumnLen(100, 50))
	assert.Equal(t, 10, MaxColumnLen(40, 50))
}

func TestGetAppDataDir(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG layout only applies on linux")
	}

	xdg := t.TempDir()
	t.Setenv("XDG_DATA_HOME", xdg)

	dir, err := GetAppDataDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(xdg, "notedash"), dir)

	home := t.TempDir()
	t.Setenv("XDG_DATA_HOME", "")
	t.Setenv("HOME", home)

	dir, err = GetAppDataDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".local", "share", "notedash"), dir)
}
