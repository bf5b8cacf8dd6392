// FILE: internal/dto/maintenance_dto.go
package dto

import (
	"strings"

	"ux-collector-be/pkg/maintenance"
)

// MaintenanceQuery carries the query string of the maintenance operation.
type MaintenanceQuery struct {
	Token    string `query:"token"`
	Prefix   string `query:"prefix" validate:"max=2048"`
	Contains string `query:"contains" validate:"max=256"`
	Dry      string `query:"dry"`
	Delete   string `query:"delete"`
	Reset    string `query:"reset"`
}

// Prefixes splits the comma separated prefix list, dropping blanks and repeats.
func (q MaintenanceQuery) Prefixes() []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range strings.Split(q.Prefix, ",") {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

// DryRun is true unless a delete was asked for (delete or reset) and dry is not set.
func (q MaintenanceQuery) DryRun() bool {
	if IsTruthy(q.Dry) {
		return true
	}
	return !IsTruthy(q.Delete) && !IsTruthy(q.Reset)
}

func IsTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes":
		return true
	}
	return false
}

type MaintenanceResponse struct {
	Store string `json:"store"`
	*maintenance.Report
}
