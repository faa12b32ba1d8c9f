package domain

import (
	"fmt"
	"strings"
)

// SecretNote is a note fetched from the vault. Content is raw secret text
// and must never be logged.
type SecretNote struct {
	ID      string
	Content string
}

// NewSecretNote builds a note from raw tool output.
func NewSecretNote(id, raw string) SecretNote {
	return SecretNote{ID: id, Content: NormalizeContent(raw)}
}

// String hides the content.
func (n SecretNote) String() string {
	return fmt.Sprintf("note %q (%d bytes)", n.ID, len(n.Content))
}

// GoString keeps %#v from printing the content.
func (n SecretNote) GoString() string {
	return n.String()
}

// IsBlank reports whether the content holds only whitespace.
func (n SecretNote) IsBlank() bool {
	return strings.TrimSpace(n.Content) == ""
}

// NormalizeContent trims exactly one trailing newline ("\n" or "\r\n").
func NormalizeContent(raw string) string {
	if s, ok := strings.CutSuffix(raw, "\n"); ok {
		return strings.TrimSuffix(s, "\r")
	}
	return raw
}

// ValidateNoteID checks that a note identifier is usable.
func ValidateNoteID(id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrEmptyNoteID
	}
	return nil
}
