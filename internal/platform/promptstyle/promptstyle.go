package promptstyle

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

const marker = "PROMPTCRAFT_PROMPT_STYLE_V1"

//go:embed styles.yaml
var stylesYAML []byte

// Preset is one synthesis style and the guidance lines handed to the model.
type Preset struct {
	Name     string   `yaml:"name"`
	Label    string   `yaml:"label"`
	Guidance []string `yaml:"guidance"`
}

// Catalog is the parsed preset file.
type Catalog struct {
	Default string   `yaml:"default"`
	Styles  []Preset `yaml:"styles"`

	byName map[string]Preset
}

var (
	loadOnce sync.Once
	loaded   *Catalog
	loadErr  error
)

// Parse decodes a preset catalog. Names are lowercased and must be unique.
func Parse(raw []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("decode style presets: %w", err)
	}
	c.byName = make(map[string]Preset, len(c.Styles))
	for i, p := range c.Styles {
		name := strings.ToLower(strings.TrimSpace(p.Name))
		if name == "" {
			return nil, fmt.Errorf("style preset %d has no name", i)
		}
		if len(p.Guidance) == 0 {
			return nil, fmt.Errorf("style preset %q has no guidance", name)
		}
		if _, dup := c.byName[name]; dup {
			return nil, fmt.Errorf("duplicate style preset %q", name)
		}
		p.Name = name
		c.Styles[i] = p
		c.byName[name] = p
	}
	c.Default = strings.ToLower(strings.TrimSpace(c.Default))
	if _, ok := c.byName[c.Default]; !ok {
		return nil, fmt.Errorf("default style %q is not defined", c.Default)
	}
	return &c, nil
}

// Default returns the embedded catalog. It panics if the embedded file is invalid.
func Default() *Catalog {
	loadOnce.Do(func() {
		loaded, loadErr = Parse(stylesYAML)
	})
	if loadErr != nil {
		panic(loadErr)
	}
	return loaded
}

func (c *Catalog) Lookup(name string) (Preset, bool) {
	p, ok := c.byName[strings.ToLower(strings.TrimSpace(name))]
	return p, ok
}

func (c *Catalog) Names() []string {
	out := make([]string, 0, len(c.Styles))
	for _, p := range c.Styles {
		out = append(out, p.Name)
	}
	return out
}

// Instructions renders the guidance block for a style, falling back to the
// catalog default for unknown names.
func (c *Catalog) Instructions(name string) string {
	p, ok := c.Lookup(name)
	if !ok {
		p = c.byName[c.Default]
	}
	var b strings.Builder
	b.WriteString("The enhanced prompt should be:")
	for _, line := range p.Guidance {
		b.WriteString("\n- ")
		b.WriteString(strings.TrimSpace(line))
	}
	return b.String()
}

// ApplySystem prepends a short guidance block to system prompts.
// Applying it twice is a no-op.
func ApplySystem(system string, mode string) string {
	base := strings.TrimSpace(system)
	if base == "" {
		return base
	}
	if strings.Contains(base, marker) {
		return base
	}
	mode = strings.ToLower(strings.TrimSpace(mode))

	var b strings.Builder
	b.WriteString(marker)
	b.WriteString("\nFollow the system and user instructions precisely.")
	if mode == "json" {
		b.WriteString("\nReturn a single JSON object that conforms to the schema and contains no extra keys.")
		b.WriteString("\nDo not wrap the JSON in markdown or add commentary.")
	} else {
		b.WriteString("\nReturn only the requested text with no preamble or closing remarks.")
	}
	b.WriteString("\n---\n")
	b.WriteString(base)
	return strings.TrimSpace(b.String())
}
