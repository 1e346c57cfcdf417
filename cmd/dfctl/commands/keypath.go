package commands

import "strings"

// parseKeyPath splits a "/"-separated CLI key argument into its segments.
func parseKeyPath(raw string) []string {
	raw = strings.Trim(raw, "/")
	return strings.Split(raw, "/")
}
