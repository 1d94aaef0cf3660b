package mcp

import (
	"fmt"
	"os"
	"strings"

	"github.com/adrg/frontmatter"
)

// exemptionMeta is the optional YAML frontmatter an exemption rule file may
// carry. Only the body feeds the audit prompt; the description is logged.
type exemptionMeta struct {
	Description string `yaml:"description"`
}

// exemptionListVariable names the list variable consulted when no exemption
// file is passed to the audit tool.
const exemptionListVariable = "audit_exemptions"

// resolveExemptionRules loads the audit exemption rules, preferring an
// explicit rule file over the audit_exemptions list variable. Returns the
// empty string when neither source yields rules.
func (s *Server) resolveExemptionRules(exemptionFile string) (string, error) {
	if exemptionFile != "" {
		data, err := os.ReadFile(exemptionFile)
		if err != nil {
			return "", fmt.Errorf("failed to read exemption file %s: %w", exemptionFile, err)
		}

		var meta exemptionMeta
		body, err := frontmatter.Parse(strings.NewReader(string(data)), &meta)
		if err != nil {
			// Not valid frontmatter, treat the whole file as rules.
			return strings.TrimSpace(string(data)), nil
		}
		if meta.Description != "" {
			s.logger.Debug("Loaded exemption rules", "file", exemptionFile, "description", meta.Description)
		}
		return strings.TrimSpace(string(body)), nil
	}

	v, ok, err := s.store.ReadListVariable(exemptionListVariable)
	if err != nil {
		return "", err
	}
	if !ok || len(v.Items) == 0 {
		return "", nil
	}
	return strings.Join(v.Items, "\n"), nil
}
