package discord

import (
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/bwmarrin/discordgo"
)

// hashDefinitions returns a digest of defs that ignores IDs, versions and the
// order of commands and options, so an unchanged set can skip the REST call.
func hashDefinitions(defs []*discordgo.ApplicationCommand) string {
	normalized := make([]map[string]any, len(defs))
	for i, d := range defs {
		normalized[i] = normalizeCommand(d)
	}
	sort.Slice(normalized, func(i, j int) bool {
		return normalized[i]["name"].(string) < normalized[j]["name"].(string)
	})

	data, _ := json.Marshal(normalized)
	return fmt.Sprintf("%x", sha1.Sum(data))
}

func normalizeCommand(c *discordgo.ApplicationCommand) map[string]any {
	obj := map[string]any{
		"name":        c.Name,
		"description": c.Description,
		"type":        c.Type,
	}
	if c.DefaultMemberPermissions != nil {
		obj["default_member_permissions"] = *c.DefaultMemberPermissions
	}
	if len(c.Options) > 0 {
		obj["options"] = normalizeOptions(c.Options)
	}
	return obj
}

func normalizeOptions(opts []*discordgo.ApplicationCommandOption) []map[string]any {
	normalized := make([]map[string]any, len(opts))
	for i, o := range opts {
		entry := map[string]any{
			"name":        o.Name,
			"description": o.Description,
			"type":        o.Type,
			"required":    o.Required,
		}
		if len(o.Choices) > 0 {
			choices := make([]map[string]any, len(o.Choices))
			for j, c := range o.Choices {
				choices[j] = map[string]any{"name": c.Name, "value": c.Value}
			}
			entry["choices"] = choices
		}
		if len(o.Options) > 0 {
			entry["options"] = normalizeOptions(o.Options)
		}
		normalized[i] = entry
	}

	sort.Slice(normalized, func(i, j int) bool {
		return normalized[i]["name"].(string) < normalized[j]["name"].(string)
	})
	return normalized
}
