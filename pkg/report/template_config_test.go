package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTemplateConfig_AllSectionsOn(t *testing.T) {
	cfg := DefaultTemplateConfig()
	assert.True(t, cfg.Sections.NewVulnerabilities)
	assert.True(t, cfg.Sections.ProcessGroups)
	assert.True(t, cfg.Sections.Hosts)
	assert.Empty(t, cfg.Branding.CompanyName)
}

func TestLoadTemplateConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.yaml")
	yaml := `
branding:
  company_name: Acme Corp
  footer_text: Internal use only
sections:
  new_vulnerabilities: true
  process_groups: false
  hosts: true
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := LoadTemplateConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", cfg.Branding.CompanyName)
	assert.Equal(t, "Internal use only", cfg.Branding.FooterText)
	assert.False(t, cfg.Sections.ProcessGroups)
	assert.True(t, cfg.Sections.Hosts)
}

func TestLoadTemplateConfig_Errors(t *testing.T) {
	_, err := LoadTemplateConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("branding: [not a map"), 0o644))
	_, err = LoadTemplateConfig(bad)
	assert.Error(t, err)
}
