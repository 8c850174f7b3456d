package config

import (
	"fmt"
	"strings"
)

// ConfigError is returned by Load when a file references unset environment
// variables or fails validation. The two groups are kept apart so config
// check can report them under their own headings.
type ConfigError struct {
	Path    string
	Missing []string // NAME, or "NAME: message" for a :? reference
	Errors  []string // "section.key: problem"
}

func (e *ConfigError) Error() string {
	if !e.HasErrors() {
		return ""
	}

	var b strings.Builder
	if e.Path != "" {
		fmt.Fprintf(&b, "config %s:\n", e.Path)
	}
	if len(e.Missing) > 0 {
		fmt.Fprintf(&b, "missing environment variables: %s\n", strings.Join(e.Missing, ", "))
	}
	if len(e.Errors) > 0 {
		b.WriteString("validation failed:\n")
		for _, msg := range e.Errors {
			fmt.Fprintf(&b, "  - %s\n", msg)
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// HasErrors reports whether either group is non-empty.
func (e *ConfigError) HasErrors() bool {
	return len(e.Missing)+len(e.Errors) > 0
}
