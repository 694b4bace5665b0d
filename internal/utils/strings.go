package utils

import (
	"strings"

	"github.com/PolarWolf314/vaultapi/internal/ui"
)

// SplitKeys splits a comma separated list of secret keys, trimming blanks
// and dropping empty and repeated names while keeping the first occurrence.
func SplitKeys(values ...string) []string {
	var keys []string
	seen := make(map[string]bool)
	for _, value := range values {
		for _, key := range strings.Split(value, ",") {
			key = strings.TrimSpace(key)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			keys = append(keys, key)
		}
	}
	return keys
}

// FormatKeys formats key names into a readable, comma separated string.
func FormatKeys(keys []string) string {
	formatted := make([]string, len(keys))
	for i, key := range keys {
		formatted[i] = ui.Name.Sprint(key)
	}
	return strings.Join(formatted, ", ")
}
