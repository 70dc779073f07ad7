// Package templates provides embedded TOML profile templates with user override support.
// Templates are loaded with resolution order:
// 1. User override: templatesDir/{profile}.toml
// 2. Embedded default: internal/templates/profiles/{profile}.toml
package templates

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed profiles/*.toml
var fs embed.FS

// ProfileTemplate holds the directive text of one generation profile
type ProfileTemplate struct {
	Profile   string `toml:"profile"`
	Role      string `toml:"role"`      // "Act as ..." line
	Mission   string `toml:"mission"`   // What the response must contain
	Directive string `toml:"directive"` // Layout and interaction requirements for content
	MinItems  int    `toml:"min_items"` // List-shaped profiles only
	MaxItems  int    `toml:"max_items"`
}

// Validate checks that the required text is present
func (t *ProfileTemplate) Validate() error {
	if strings.TrimSpace(t.Role) == "" {
		return fmt.Errorf("role is required")
	}
	if strings.TrimSpace(t.Mission) == "" {
		return fmt.Errorf("mission is required")
	}
	if t.MaxItems < t.MinItems {
		return fmt.Errorf("max_items (%d) is below min_items (%d)", t.MaxItems, t.MinItems)
	}
	return nil
}

// GetProfileTemplate loads a profile template by name with resolution order:
// 1. User override: templatesDir/{name}.toml
// 2. Embedded default
func GetProfileTemplate(name string, templatesDir string) (*ProfileTemplate, error) {
	if templatesDir != "" {
		userPath := filepath.Join(templatesDir, name+".toml")
		if data, err := os.ReadFile(userPath); err == nil {
			t, err := parseTemplate(data)
			if err != nil {
				return nil, fmt.Errorf("template override %s: %w", userPath, err)
			}
			return t, nil
		}
	}

	data, err := fs.ReadFile("profiles/" + name + ".toml")
	if err != nil {
		return nil, fmt.Errorf("template '%s' not found (checked user override and embedded)", name)
	}
	return parseTemplate(data)
}

// ListEmbeddedTemplates returns names of all embedded profile templates
func ListEmbeddedTemplates() ([]string, error) {
	entries, err := fs.ReadDir("profiles")
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if name, ok := strings.CutSuffix(entry.Name(), ".toml"); ok {
			names = append(names, name)
		}
	}
	return names, nil
}

func parseTemplate(data []byte) (*ProfileTemplate, error) {
	var t ProfileTemplate
	if err := toml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}
