package sections

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	PresetTravelPackage     = "travel-package"
	PresetLeadCapture       = "lead-capture"
	PresetProductShowcase   = "product-showcase"
	PresetEventRegistration = "event-registration"
	PresetComingSoon        = "coming-soon"
)

//go:embed presets/*.yaml
var presetFiles embed.FS

// PresetNames lists the embedded presets.
func PresetNames() []string {
	entries, err := presetFiles.ReadDir("presets")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, strings.TrimSuffix(entry.Name(), path.Ext(entry.Name())))
	}
	sort.Strings(names)
	return names
}

// IsPreset reports whether name is one of the embedded presets.
func IsPreset(name string) bool {
	for _, n := range PresetNames() {
		if n == name {
			return true
		}
	}
	return false
}

// Preset returns the hydrated starting document for a template name.
// Unknown names fall back to the lead-capture preset.
func Preset(name string) (SectionMap, error) {
	doc, err := loadPreset(name)
	if err != nil && name != PresetLeadCapture {
		doc, err = loadPreset(PresetLeadCapture)
	}
	if err != nil {
		return SectionMap{}, err
	}
	return Hydrate(doc), nil
}

func loadPreset(name string) (SectionMap, error) {
	data, err := presetFiles.ReadFile("presets/" + path.Base(name) + ".yaml")
	if err != nil {
		return SectionMap{}, fmt.Errorf("preset %q: %w", name, err)
	}

	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return SectionMap{}, fmt.Errorf("preset %q: %w", name, err)
	}
	return FromRaw(raw), nil
}
