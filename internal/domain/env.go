package domain

import (
	"fmt"
	"strings"
)

// EnvAssignment is a single KEY=VALUE pair destined for a child environment.
type EnvAssignment struct {
	Key   string
	Value string
}

// String renders the pair in environ form.
func (a EnvAssignment) String() string {
	return a.Key + "=" + a.Value
}

// Assignments is an ordered set of environment assignments with unique keys.
// Setting an existing key replaces its value in place, so iteration order is
// the order in which keys were first seen.
type Assignments struct {
	entries []EnvAssignment
	index   map[string]int
}

// NewAssignments builds a set from pairs, applying them in order.
func NewAssignments(pairs ...EnvAssignment) Assignments {
	var a Assignments
	for _, p := range pairs {
		a.Set(p.Key, p.Value)
	}
	return a
}

// Set adds or replaces key. Empty keys are ignored.
func (a *Assignments) Set(key, value string) {
	if key == "" {
		return
	}
	if a.index == nil {
		a.index = make(map[string]int)
	}
	if i, ok := a.index[key]; ok {
		a.entries[i].Value = value
		return
	}
	a.index[key] = len(a.entries)
	a.entries = append(a.entries, EnvAssignment{Key: key, Value: value})
}

// Get returns the value for key.
func (a Assignments) Get(key string) (string, bool) {
	i, ok := a.index[key]
	if !ok {
		return "", false
	}
	return a.entries[i].Value, true
}

// Len returns the number of distinct keys.
func (a Assignments) Len() int {
	return len(a.entries)
}

// Keys returns the keys in insertion order.
func (a Assignments) Keys() []string {
	keys := make([]string, 0, len(a.entries))
	for _, e := range a.entries {
		keys = append(keys, e.Key)
	}
	return keys
}

// Entries returns a copy of the pairs in insertion order.
func (a Assignments) Entries() []EnvAssignment {
	return append([]EnvAssignment(nil), a.entries...)
}

// Merge returns a new set holding a's pairs overridden by other's.
func (a Assignments) Merge(other Assignments) Assignments {
	merged := NewAssignments(a.entries...)
	for _, e := range other.entries {
		merged.Set(e.Key, e.Value)
	}
	return merged
}

// Environ renders the set as KEY=VALUE strings for exec.Cmd.Env.
func (a Assignments) Environ() []string {
	env := make([]string, 0, len(a.entries))
	for _, e := range a.entries {
		env = append(env, e.String())
	}
	return env
}

// AssignmentsFromEnviron parses os.Environ style entries. Entries without a
// separator are dropped. The first character never acts as the separator so
// Windows drive entries such as "=C:=C:\" keep their leading '='.
func AssignmentsFromEnviron(environ []string) Assignments {
	var a Assignments
	for _, kv := range environ {
		if kv == "" {
			continue
		}
		i := strings.Index(kv[1:], "=")
		if i < 0 {
			continue
		}
		a.Set(kv[:i+1], kv[i+2:])
	}
	return a
}

// ParseWarning reports a skipped line of note content. It never carries the
// line text because the line may hold a secret.
type ParseWarning struct {
	Line   int
	Reason string
}

func (w ParseWarning) String() string {
	return fmt.Sprintf("line %d: %s", w.Line, w.Reason)
}

// Reasons reported in ParseWarning.
const (
	ReasonMissingSeparator = "skipping line without '='"
	ReasonEmptyKey         = "skipping line with empty key"
)

// ParseEnvContent parses note content into environment assignments.
//
// Blank lines and lines whose first non-blank character is '#' are ignored.
// Other lines are split at the first '='; key and value are trimmed. Lines
// without '=' or with an empty key are skipped and reported as warnings.
// When a key repeats, the last value wins.
func ParseEnvContent(content string) (Assignments, []ParseWarning) {
	var (
		vars     Assignments
		warnings []ParseWarning
	)

	for i, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(strings.TrimSuffix(raw, "\r"))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, found := strings.Cut(line, "=")
		if !found {
			warnings = append(warnings, ParseWarning{Line: i + 1, Reason: ReasonMissingSeparator})
			continue
		}

		key = strings.TrimSpace(key)
		if key == "" {
			warnings = append(warnings, ParseWarning{Line: i + 1, Reason: ReasonEmptyKey})
			continue
		}

		vars.Set(key, strings.TrimSpace(value))
	}

	return vars, warnings
}
