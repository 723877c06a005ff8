package services

import (
	"strings"
	"time"
)

// Note is a user-authored record as the Note Service serializes it.
type Note struct {
	ID         string    `json:"_id" yaml:"-"`
	Title      string    `json:"title" yaml:"title"`
	Content    string    `json:"content" yaml:"-"`
	Tags       []string  `json:"tags" yaml:"tags,omitempty"`
	IsPinned   bool      `json:"isPinned" yaml:"pinned,omitempty"`
	IsFavorite bool      `json:"isFavorite" yaml:"favorite,omitempty"`
	UserID     string    `json:"userId,omitempty" yaml:"-"`
	CreatedOn  time.Time `json:"createdOn" yaml:"created"`
}

// User is the profile returned by /get-user.
type User struct {
	ID         string    `json:"_id"`
	FullName   string    `json:"fullName"`
	Email      string    `json:"email"`
	IsVerified bool      `json:"isVerified"`
	CreatedOn  time.Time `json:"createdOn"`
}

// Initials returns up to two upper-case initials of the user's full name.
func (u User) Initials() string {
	var initials []rune
	for _, word := range strings.Fields(u.FullName) {
		r := []rune(word)
		initials = append(initials, []rune(strings.ToUpper(string(r[0])))...)
		if len(initials) >= 2 {
			initials = initials[:2]
			break
		}
	}
	return string(initials)
}

// NoteDraft carries the editable fields for add and edit.
type NoteDraft struct {
	Title   string   `json:"title" validate:"required,max=200"`
	Content string   `json:"content" validate:"max=20000"`
	Tags    []string `json:"tags" validate:"max=20,dive,required,max=40"`
}

// DraftOf seeds a draft from an existing note.
func DraftOf(n Note) NoteDraft {
	return NoteDraft{
		Title:   n.Title,
		Content: n.Content,
		Tags:    append([]string(nil), n.Tags...),
	}
}

// Apply copies the draft onto n, leaving every other field untouched.
func (d NoteDraft) Apply(n Note) Note {
	n.Title = d.Title
	n.Content = d.Content
	n.Tags = append([]string(nil), d.Tags...)
	return n
}

// NormalizeTags trims whitespace and leading '#', drops empties and
// duplicates, and keeps first-seen order.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(tag), "#"))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}
