package report

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// TemplateConfig defines customizable report settings loaded from a
// YAML file. It allows per-organization branding and section
// visibility without touching the templates.
type TemplateConfig struct {
	// Branding customizes company information on rendered reports.
	Branding BrandingConfig `yaml:"branding"`

	// Sections toggles individual report sections.
	Sections SectionConfig `yaml:"sections"`
}

// BrandingConfig holds organization branding information.
type BrandingConfig struct {
	// CompanyName appears in the report header.
	CompanyName string `yaml:"company_name"`

	// FooterText appears at the bottom of each report.
	FooterText string `yaml:"footer_text"`
}

// SectionConfig enables or disables specific report sections.
// The summary and detail sections are always rendered.
type SectionConfig struct {
	// NewVulnerabilities shows the new-in-window list.
	NewVulnerabilities bool `yaml:"new_vulnerabilities"`

	// ProcessGroups shows the process group aggregation table.
	ProcessGroups bool `yaml:"process_groups"`

	// Hosts shows the host aggregation table.
	Hosts bool `yaml:"hosts"`
}

// DefaultTemplateConfig returns the configuration used when no YAML
// file is supplied: all sections on, no branding.
func DefaultTemplateConfig() TemplateConfig {
	return TemplateConfig{
		Sections: SectionConfig{
			NewVulnerabilities: true,
			ProcessGroups:      true,
			Hosts:              true,
		},
	}
}

// LoadTemplateConfig reads a TemplateConfig from a YAML file.
func LoadTemplateConfig(path string) (TemplateConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return TemplateConfig{}, fmt.Errorf("read template config: %w", err)
	}
	cfg := DefaultTemplateConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return TemplateConfig{}, fmt.Errorf("parse template config %s: %w", path, err)
	}
	return cfg, nil
}
