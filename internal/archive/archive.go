// Package archive converts notes to and from a zip of Markdown files with
// YAML front matter.
package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"

	"github.com/redjax/notedash/internal/services"
	"gopkg.in/yaml.v3"
)

// Dir is the folder inside the zip that holds the notes.
const Dir = "notes"

const maxEntrySize = 1 << 20

var ErrNoClosingFence = errors.New("front matter started but no closing delimiter found")

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Marshal renders a note as Markdown with its metadata in front matter.
func Marshal(note services.Note) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("---\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(note); err != nil {
		return nil, fmt.Errorf("failed to encode front matter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode front matter: %w", err)
	}
	buf.WriteString("---\n\n")

	// Unmarshal strips exactly this newline.
	if note.Content != "" {
		buf.WriteString(note.Content)
		buf.WriteString("\n")
	}
	return buf.Bytes(), nil
}

// Unmarshal parses a Markdown document. Files without front matter become a
// note whose content is the whole file.
func Unmarshal(data []byte) (services.Note, error) {
	var note services.Note

	data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	if !bytes.HasPrefix(data, []byte("---\n")) {
		note.Content = string(data)
		return note, nil
	}

	rest := data[len("---\n"):]
	var meta, body []byte
	if bytes.HasPrefix(rest, []byte("---\n")) {
		body = rest[len("---\n"):]
	} else {
		end := bytes.Index(rest, []byte("\n---\n"))
		if end < 0 {
			if !bytes.HasSuffix(rest, []byte("\n---")) {
				return note, ErrNoClosingFence
			}
			end = len(rest) - len("\n---")
			meta = rest[:end]
		} else {
			meta, body = rest[:end], rest[end+len("\n---\n"):]
		}
	}

	if err := yaml.Unmarshal(meta, &note); err != nil {
		return note, fmt.Errorf("failed to parse front matter: %w", err)
	}

	content := strings.TrimPrefix(string(body), "\n")
	note.Content = strings.TrimSuffix(content, "\n")
	return note, nil
}

// FileName derives a stable, unique .md name for note. used tracks the
// names already handed out.
func FileName(note services.Note, used map[string]bool) string {
	base := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(note.Title), "-"), "-")
	if len(base) > 60 {
		base = strings.TrimRight(base[:60], "-")
	}
	if base == "" {
		base = "note"
	}

	name := base + ".md"
	for i := 2; used[name]; i++ {
		name = fmt.Sprintf("%s-%d.md", base, i)
	}
	used[name] = true
	return name
}

// Write stores every note under Dir in a new zip written to w and returns
// the number of files added.
func Write(w io.Writer, notes []services.Note) (int, error) {
	zw := zip.NewWriter(w)
	used := make(map[string]bool, len(notes))

	for _, note := range notes {
		data, err := Marshal(note)
		if err != nil {
			return 0, fmt.Errorf("note %q: %w", note.Title, err)
		}

		header := &zip.FileHeader{
			Name:   path.Join(Dir, FileName(note, used)),
			Method: zip.Deflate,
		}
		if !note.CreatedOn.IsZero() {
			header.Modified = note.CreatedOn
		}

		fw, err := zw.CreateHeader(header)
		if err != nil {
			return 0, fmt.Errorf("failed to create file in ZIP: %w", err)
		}
		if _, err := fw.Write(data); err != nil {
			return 0, fmt.Errorf("failed to write file to ZIP: %w", err)
		}
	}

	if err := zw.Close(); err != nil {
		return 0, fmt.Errorf("failed to finalize ZIP file: %w", err)
	}
	return len(notes), nil
}

// Read parses every .md file in the zip. Notes without a title take the
// file name.
func Read(r io.ReaderAt, size int64) ([]services.Note, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("failed to open ZIP file: %w", err)
	}

	var notes []services.Note
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || !strings.EqualFold(path.Ext(f.Name), ".md") {
			continue
		}

		data, err := readEntry(f)
		if err != nil {
			return nil, err
		}

		note, err := Unmarshal(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.Name, err)
		}
		if strings.TrimSpace(note.Title) == "" {
			note.Title = strings.TrimSuffix(path.Base(f.Name), path.Ext(f.Name))
		}
		note.Tags = services.NormalizeTags(note.Tags)
		notes = append(notes, note)
	}
	return notes, nil
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.Name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxEntrySize+1))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.Name, err)
	}
	if len(data) > maxEntrySize {
		return nil, fmt.Errorf("%s: file too large", f.Name)
	}
	return data, nil
}
