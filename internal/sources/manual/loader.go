// Package manual loads hand-curated solution links from a YAML file.
package manual

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

var templateVar = regexp.MustCompile(`\{\{[^}]+\}\}`)

// Loader reads a solutions file from disk.
type Loader struct {
	filePath string
}

func NewLoader(filePath string) *Loader {
	return &Loader{filePath: filePath}
}

func (l *Loader) Path() string { return l.filePath }

// Load reads and parses the file.
func (l *Loader) Load() (SolutionsFile, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return SolutionsFile{}, fmt.Errorf("failed to read solutions file: %w", err)
	}

	// Files shared with Homepage-style dashboards may carry {{VAR}}
	// placeholders; they become empty strings.
	data = stripTemplateVariables(data)

	var file SolutionsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return SolutionsFile{}, fmt.Errorf("failed to parse solutions yaml: %w", err)
	}
	return file, nil
}

func stripTemplateVariables(data []byte) []byte {
	return templateVar.ReplaceAll(data, []byte(`""`))
}
