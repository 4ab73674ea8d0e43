package config

import (
	"fmt"
	"strings"

	"virtualco/internal/domain"
)

const MaxDurationMonths = 60

// ValidateProject checks the setup parameters of a simulated company.
// Unknown domains are allowed and draw on the default content.
func ValidateProject(p domain.Project) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("project name is required")
	}
	if strings.TrimSpace(p.Domain) == "" {
		return fmt.Errorf("project domain is required")
	}
	if p.Duration < 1 || p.Duration > MaxDurationMonths {
		return fmt.Errorf("project duration must be between 1 and %d months, got %d", MaxDurationMonths, p.Duration)
	}
	return nil
}
