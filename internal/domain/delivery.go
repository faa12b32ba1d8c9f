package domain

import "strings"

// DeliveryKind selects how a note reaches the child process.
type DeliveryKind int

const (
	// DeliveryInlineEnv parses the note as KEY=VALUE lines.
	DeliveryInlineEnv DeliveryKind = iota
	// DeliveryTempFile writes the note to a private file and exports its path.
	DeliveryTempFile
)

func (k DeliveryKind) String() string {
	switch k {
	case DeliveryInlineEnv:
		return "env"
	case DeliveryTempFile:
		return "file"
	default:
		return "unknown"
	}
}

// DeliveryMode is chosen once per invocation from the command line.
type DeliveryMode struct {
	Kind      DeliveryKind
	TargetVar string
}

// InlineEnvMode returns the default delivery mode.
func InlineEnvMode() DeliveryMode {
	return DeliveryMode{Kind: DeliveryInlineEnv}
}

// TempFileMode returns a file delivery mode exporting the path as targetVar.
func TempFileMode(targetVar string) (DeliveryMode, error) {
	mode := DeliveryMode{Kind: DeliveryTempFile, TargetVar: targetVar}
	if err := mode.Validate(); err != nil {
		return DeliveryMode{}, err
	}
	return mode, nil
}

// Validate checks the mode without touching the filesystem.
func (m DeliveryMode) Validate() error {
	if m.Kind != DeliveryTempFile {
		return nil
	}
	return ValidateVariableName(m.TargetVar)
}

// ValidateVariableName rejects names that cannot be placed in an environment
// block. Anything else the shell would reject is still accepted.
func ValidateVariableName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyVariableName
	}
	if strings.ContainsAny(name, "=\x00") {
		return ErrInvalidVariableName
	}
	return nil
}
