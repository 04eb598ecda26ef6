// Package util provides helpers for arguments received from the scripting host.
package util

import "strings"

// TrimQuotes removes leading and trailing double quotes from a string.
func TrimQuotes(s string) string {
	return strings.Trim(s, `"`)
}

// FixEscapeQuotes replaces escaped double quotes ("") with single double quotes (").
func FixEscapeQuotes(s string) string {
	return strings.ReplaceAll(s, `""`, `"`)
}

// CleanArgs returns a copy of args with surrounding quotes and whitespace
// removed and escaped quotes fixed.
func CleanArgs(args []string) []string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = FixEscapeQuotes(TrimQuotes(strings.TrimSpace(a)))
	}
	return out
}

// SplitCommand splits a "COMMAND|arg|arg" line into its command and args.
func SplitCommand(line string) (string, []string) {
	parts := strings.Split(strings.TrimSpace(line), "|")
	if len(parts) == 1 {
		return parts[0], nil
	}
	return parts[0], parts[1:]
}
