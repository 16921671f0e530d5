package workspace

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// DescriptorName is the project descriptor file name the renderer expects at
// the workspace root.
const DescriptorName = "myst.yml"

// Descriptor is the minimal MyST project configuration declaring a single
// document as the sole content entry. Write-once, never mutated after
// creation.
type Descriptor struct {
	Version int     `yaml:"version"`
	Site    Site    `yaml:"site"`
	Project Project `yaml:"project"`
}

// Site holds the site-level template override.
type Site struct {
	Template string `yaml:"template"`
}

// Project holds the single-entry table of contents.
type Project struct {
	TOC []TOCEntry `yaml:"toc"`
}

// TOCEntry names one content file relative to the workspace root.
type TOCEntry struct {
	File string `yaml:"file"`
}

// NewDescriptor builds a descriptor with slug as the only page and the given
// site template.
func NewDescriptor(theme, slug string) Descriptor {
	return Descriptor{
		Version: 1,
		Site:    Site{Template: theme},
		Project: Project{TOC: []TOCEntry{{File: slug}}},
	}
}

// Marshal renders the descriptor as YAML.
func (d Descriptor) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("workspace: marshal descriptor: %w", err)
	}
	return data, nil
}
