package prompts

import (
	"embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed templates/*.yaml
var templateFS embed.FS

// Template names.
const (
	QuestionGeneration = "question_generation"
	SessionAnalysis    = "session_analysis"
)

// Template is one system/user prompt pair. Placeholders have the form {{.Name}}.
type Template struct {
	System string `yaml:"system"`
	User   string `yaml:"user"`
}

type Manager struct {
	templates map[string]Template
}

// NewManager loads every embedded template.
func NewManager() (*Manager, error) {
	m := &Manager{
		templates: make(map[string]Template),
	}

	if err := m.load(); err != nil {
		return nil, fmt.Errorf("load prompt templates: %w", err)
	}

	return m, nil
}

// Build fills the named template with vars and returns the system and user prompts.
// Unknown placeholders are left as they are.
func (m *Manager) Build(name string, vars map[string]string) (string, string, error) {
	tpl, ok := m.templates[name]
	if !ok {
		return "", "", fmt.Errorf("template %q not found", name)
	}

	return fill(tpl.System, vars), fill(tpl.User, vars), nil
}

// Names returns the loaded template names.
func (m *Manager) Names() []string {
	names := make([]string, 0, len(m.templates))
	for name := range m.templates {
		names = append(names, name)
	}
	return names
}

func (m *Manager) load() error {
	entries, err := templateFS.ReadDir("templates")
	if err != nil {
		return fmt.Errorf("read templates directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		data, err := templateFS.ReadFile("templates/" + entry.Name())
		if err != nil {
			return fmt.Errorf("read template %s: %w", entry.Name(), err)
		}

		var tpl Template
		if err := yaml.Unmarshal(data, &tpl); err != nil {
			return fmt.Errorf("parse template %s: %w", entry.Name(), err)
		}
		if strings.TrimSpace(tpl.User) == "" {
			return fmt.Errorf("template %s has no user prompt", entry.Name())
		}

		m.templates[strings.TrimSuffix(entry.Name(), ".yaml")] = Template{
			System: strings.TrimSpace(tpl.System),
			User:   strings.TrimSpace(tpl.User),
		}
	}

	return nil
}

// fill substitutes vars in a single pass, so substituted values are never
// expanded again.
func fill(text string, vars map[string]string) string {
	if len(vars) == 0 {
		return text
	}
	pairs := make([]string, 0, 2*len(vars))
	for k, v := range vars {
		pairs = append(pairs, "{{."+k+"}}", v)
	}
	return strings.NewReplacer(pairs...).Replace(text)
}
