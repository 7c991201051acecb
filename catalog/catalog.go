// Package catalog holds the static library of AI companion archetypes,
// indexed by realm.
package catalog

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultRealm is used when a session's realm has no template set.
const DefaultRealm = "Fantasy"

// Template is a companion archetype a roster member is instantiated from.
type Template struct {
	Name             string   `yaml:"name" json:"name"`
	Class            string   `yaml:"class" json:"class"`
	Archetype        string   `yaml:"archetype" json:"archetype"`
	Traits           []string `yaml:"traits" json:"traits"`
	Alignment        string   `yaml:"alignment" json:"alignment"`
	Background       string   `yaml:"background" json:"background"`
	Quirks           []string `yaml:"quirks" json:"quirks"`
	BaseHealth       int      `yaml:"base_health" json:"base_health"`
	BaseResource     int      `yaml:"base_resource" json:"base_resource"` // 0 = no resource pool
	PrimaryAttribute string   `yaml:"primary_attribute" json:"primary_attribute"`
}

// Catalog indexes template sets by lowercased realm name.
type Catalog struct {
	realms map[string][]Template
}

// Builtin returns the catalog of built-in template sets.
func Builtin() *Catalog {
	c := &Catalog{realms: map[string][]Template{}}
	for realm, set := range builtinTemplates {
		c.realms[strings.ToLower(realm)] = set
	}
	return c
}

// Templates returns the template set for a realm, matched
// case-insensitively. Unknown realms fall back to the DefaultRealm set.
func (c *Catalog) Templates(realm string) []Template {
	if set, ok := c.realms[strings.ToLower(realm)]; ok && len(set) > 0 {
		return set
	}
	return c.realms[strings.ToLower(DefaultRealm)]
}

// Realms returns the known realm names, sorted.
func (c *Catalog) Realms() []string {
	out := make([]string, 0, len(c.realms))
	for realm := range c.realms {
		out = append(out, realm)
	}
	sort.Strings(out)
	return out
}

// LoadFile merges realm template sets from a YAML file into the catalog.
// A realm present in the file replaces the built-in set of the same name.
func (c *Catalog) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read catalog file: %w", err)
	}
	var realms map[string][]Template
	if err := yaml.Unmarshal(data, &realms); err != nil {
		return fmt.Errorf("failed to parse catalog file: %w", err)
	}
	for realm, set := range realms {
		if len(set) == 0 {
			continue
		}
		c.realms[strings.ToLower(realm)] = set
	}
	return nil
}
