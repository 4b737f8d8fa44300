package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/keshon/cmdframe/pkg/cooldown"
)

// cooldownsFile is the on-disk shape of COOLDOWNS_FILE:
//
//	commands:
//	  ping:
//	    - scope: user
//	      length: 5s
//	      usages: 3
//	      algorithm: sliding
type cooldownsFile struct {
	Commands map[string][]cooldownEntry `yaml:"commands"`
}

type cooldownEntry struct {
	Scope     string        `yaml:"scope"`
	Length    time.Duration `yaml:"length"`
	Usages    int           `yaml:"usages"`
	Algorithm string        `yaml:"algorithm"`
}

// LoadCooldowns reads and validates a cooldown overrides file. A command
// listed with an empty list has its cooldowns disabled.
func LoadCooldowns(path string) (map[string][]cooldown.Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read cooldowns file: %w", err)
	}
	return ParseCooldowns(data)
}

// ParseCooldowns decodes the YAML document in data.
func ParseCooldowns(data []byte) (map[string][]cooldown.Spec, error) {
	var file cooldownsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode cooldowns: %w", err)
	}

	out := make(map[string][]cooldown.Spec, len(file.Commands))
	for name, entries := range file.Commands {
		specs := make([]cooldown.Spec, 0, len(entries))
		for i, e := range entries {
			spec, err := e.spec()
			if err != nil {
				return nil, fmt.Errorf("cooldown %d for %q: %w", i, name, err)
			}
			specs = append(specs, spec)
		}
		out[name] = specs
	}
	return out, nil
}

func (e cooldownEntry) spec() (cooldown.Spec, error) {
	scope, err := cooldown.ParseScope(e.Scope)
	if err != nil {
		return cooldown.Spec{}, err
	}
	algo, err := cooldown.ParseAlgorithm(e.Algorithm)
	if err != nil {
		return cooldown.Spec{}, err
	}
	spec := cooldown.Spec{
		Scope:     scope,
		Length:    e.Length,
		Usages:    e.Usages,
		Algorithm: algo,
	}
	if err := spec.Validate(); err != nil {
		return cooldown.Spec{}, err
	}
	return spec, nil
}
