package domain_test

import (
	"strings"
	"testing"

	"actograph/internal/modules/plugin/domain"
)

func validManifest() domain.Manifest {
	return domain.Manifest{
		Name:         "summary",
		Version:      "1.0.0",
		Binary:       "/opt/plugins/summary",
		SHA256:       strings.Repeat("ab", 32),
		Enabled:      true,
		Capabilities: []domain.Capability{domain.CapabilityRender},
	}
}

func TestManifestValidate(t *testing.T) {
	t.Parallel()
	if err := validManifest().Validate(); err != nil {
		t.Fatalf("valid manifest rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*domain.Manifest)
	}{
		{"missing name", func(m *domain.Manifest) { m.Name = "" }},
		{"missing version", func(m *domain.Manifest) { m.Version = "" }},
		{"missing binary", func(m *domain.Manifest) { m.Binary = "" }},
		{"short sha", func(m *domain.Manifest) { m.SHA256 = "abc123" }},
		{"uppercase sha", func(m *domain.Manifest) { m.SHA256 = strings.Repeat("AB", 32) }},
		{"no capabilities", func(m *domain.Manifest) { m.Capabilities = nil }},
		{"unknown capability", func(m *domain.Manifest) { m.Capabilities = []domain.Capability{"teleport"} }},
		{"duplicate capability", func(m *domain.Manifest) {
			m.Capabilities = []domain.Capability{domain.CapabilityRender, domain.CapabilityRender}
		}},
	}
	for _, tc := range cases {
		m := validManifest()
		tc.mutate(&m)
		if err := m.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
	}
}

func TestManifestHasCapability(t *testing.T) {
	t.Parallel()
	m := validManifest()
	m.Capabilities = []domain.Capability{domain.CapabilityRender, domain.CapabilityAnalyze}
	if !m.HasCapability(domain.CapabilityAnalyze) {
		t.Fatalf("expected analyze capability")
	}
	m.Capabilities = []domain.Capability{domain.CapabilityRender}
	if m.HasCapability(domain.CapabilityAnalyze) {
		t.Fatalf("unexpected analyze capability")
	}
}

func TestExecuteRequestValidate(t *testing.T) {
	t.Parallel()
	req := domain.ExecuteRequest{
		CommandID: "markdown",
		Context:   domain.ExecuteContext{WorkspacePath: "/tmp/ws", Cwd: "/tmp"},
	}
	if err := req.Validate(); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}

	req.CommandID = ""
	if err := req.Validate(); err == nil {
		t.Fatalf("expected error for missing command id")
	}

	req.CommandID = "markdown"
	req.Context.WorkspacePath = ""
	if err := req.Validate(); err == nil {
		t.Fatalf("expected error for missing workspace path")
	}
}

func TestCommandDescriptorValidate(t *testing.T) {
	t.Parallel()
	d := domain.CommandDescriptor{ID: "markdown", Kind: domain.CommandKindRender}
	if err := d.Validate(); err != nil {
		t.Fatalf("valid descriptor rejected: %v", err)
	}
	d.Kind = "explode"
	if err := d.Validate(); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
	d = domain.CommandDescriptor{Kind: domain.CommandKindAnalyze}
	if err := d.Validate(); err == nil {
		t.Fatalf("expected error for missing id")
	}
}
