package yaml

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bnema/llm-council/internal/domain"
	yaml "gopkg.in/yaml.v3"
)

// archetypeFile accepts either a single archetype or an `archetypes` list.
type archetypeFile struct {
	archetypeEntry `yaml:",inline"`
	Archetypes     []archetypeEntry `yaml:"archetypes"`
}

type archetypeEntry struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Prompt      string `yaml:"prompt"`
}

func (e archetypeEntry) empty() bool {
	return e == archetypeEntry{}
}

func (e archetypeEntry) toDomain() (domain.Archetype, error) {
	id := strings.TrimSpace(e.ID)
	if id == "" {
		return domain.Archetype{}, errors.New("archetype id is required")
	}
	prompt := strings.TrimSpace(e.Prompt)
	if prompt == "" {
		return domain.Archetype{}, fmt.Errorf("archetype %q: prompt is required", id)
	}
	name := strings.TrimSpace(e.Name)
	if name == "" {
		name = id
	}
	return domain.Archetype{
		ID:             id,
		Name:           name,
		Description:    strings.TrimSpace(e.Description),
		PromptFragment: prompt,
	}, nil
}

// Parse decodes one YAML payload into archetypes. Unknown keys are rejected.
func Parse(data []byte) ([]domain.Archetype, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("archetype payload is empty")
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	var file archetypeFile
	if err := decoder.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode archetypes: %w", err)
	}

	entries := file.Archetypes
	if !file.archetypeEntry.empty() {
		entries = append([]archetypeEntry{file.archetypeEntry}, entries...)
	}
	if len(entries) == 0 {
		return nil, errors.New("no archetypes defined")
	}

	archetypes := make([]domain.Archetype, 0, len(entries))
	for _, entry := range entries {
		archetype, err := entry.toDomain()
		if err != nil {
			return nil, err
		}
		archetypes = append(archetypes, archetype)
	}
	return archetypes, nil
}

func LoadFile(path string) ([]domain.Archetype, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read archetype file %s: %w", path, err)
	}
	archetypes, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("archetype file %s: %w", path, err)
	}
	return archetypes, nil
}

// LoadDir reads every *.yaml and *.yml file in dir in name order. A missing
// directory yields no archetypes.
func LoadDir(dir string) ([]domain.Archetype, error) {
	trimmed := strings.TrimSpace(dir)
	if trimmed == "" {
		return nil, nil
	}

	entries, err := os.ReadDir(trimmed)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read archetypes dir %s: %w", trimmed, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !isYAMLFile(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	var archetypes []domain.Archetype
	for _, name := range names {
		loaded, err := LoadFile(filepath.Join(trimmed, name))
		if err != nil {
			return nil, err
		}
		archetypes = append(archetypes, loaded...)
	}
	return archetypes, nil
}

func isYAMLFile(name string) bool {
	lower := strings.ToLower(strings.TrimSpace(name))
	return strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml")
}
