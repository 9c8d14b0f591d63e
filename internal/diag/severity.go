package diag

import (
	"fmt"
	"strings"
)

// Severity ranks a diagnostic; a higher value is worse.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	SevError
)

var severityNames = [...]string{
	SevInfo:    "info",
	SevWarning: "warning",
	SevError:   "error",
}

// String is the lowercase name used in JSON output and Go errors.
func (s Severity) String() string {
	if int(s) < len(severityNames) {
		return severityNames[s]
	}
	return fmt.Sprintf("severity(%d)", uint8(s))
}

// Tag is the upper-case label that heads a pretty-printed diagnostic.
func (s Severity) Tag() string { return strings.ToUpper(s.String()) }
