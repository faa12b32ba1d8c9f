package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeContent(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "no newline", raw: "secret", want: "secret"},
		{name: "one newline", raw: "secret\n", want: "secret"},
		{name: "crlf", raw: "secret\r\n", want: "secret"},
		{name: "only one newline trimmed", raw: "secret\n\n", want: "secret\n"},
		{name: "internal structure kept", raw: "A=1\n\nB=2\n", want: "A=1\n\nB=2"},
		{name: "trailing spaces kept", raw: "secret  \n", want: "secret  "},
		{name: "empty", raw: "", want: ""},
		{name: "just newline", raw: "\n", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeContent(tt.raw))
		})
	}
}

func TestSecretNote_FormattingHidesContent(t *testing.T) {
	note := NewSecretNote("db", "PASSWORD=hunter2\n")

	assert.Equal(t, "PASSWORD=hunter2", note.Content)
	for _, s := range []string{note.String(), fmt.Sprintf("%v", note), fmt.Sprintf("%#v", note)} {
		assert.NotContains(t, s, "hunter2")
		assert.Contains(t, s, `"db"`)
	}
}

func TestSecretNote_IsBlank(t *testing.T) {
	assert.True(t, NewSecretNote("a", " \n\t\n").IsBlank())
	assert.False(t, NewSecretNote("a", "x").IsBlank())
}

func TestValidateNoteID(t *testing.T) {
	assert.NoError(t, ValidateNoteID("my note"))
	assert.ErrorIs(t, ValidateNoteID(""), ErrEmptyNoteID)
	assert.ErrorIs(t, ValidateNoteID("   "), ErrEmptyNoteID)
}

func TestDeliveryMode(t *testing.T) {
	mode, err := TempFileMode("KUBECONFIG")
	assert.NoError(t, err)
	assert.Equal(t, DeliveryTempFile, mode.Kind)
	assert.Equal(t, "KUBECONFIG", mode.TargetVar)

	_, err = TempFileMode("")
	assert.ErrorIs(t, err, ErrEmptyVariableName)

	_, err = TempFileMode("  \t")
	assert.ErrorIs(t, err, ErrEmptyVariableName)

	_, err = TempFileMode("A=B")
	assert.ErrorIs(t, err, ErrInvalidVariableName)

	assert.NoError(t, InlineEnvMode().Validate())
	assert.Equal(t, "env", DeliveryInlineEnv.String())
	assert.Equal(t, "file", DeliveryTempFile.String())
}
