package command

import (
	"strings"
)

// ParsePrefix splits a message into command name and arguments when it starts
// with one of prefixes or mentions botID. The longest matching prefix wins.
func ParsePrefix(content string, prefixes []string, botID string) (prefix, name string, args []string, ok bool) {
	content = strings.TrimSpace(content)

	candidates := append([]string(nil), prefixes...)
	if botID != "" {
		candidates = append(candidates, "<@"+botID+">", "<@!"+botID+">")
	}

	for _, p := range candidates {
		if p == "" || !strings.HasPrefix(content, p) {
			continue
		}
		if len(p) > len(prefix) {
			prefix = p
		}
	}
	if prefix == "" {
		return "", "", nil, false
	}

	fields := strings.Fields(content[len(prefix):])
	if len(fields) == 0 {
		return "", "", nil, false
	}
	return prefix, strings.ToLower(fields[0]), fields[1:], true
}
