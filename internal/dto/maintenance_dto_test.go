package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaintenanceQuery_DryRun(t *testing.T) {
	tests := []struct {
		name string
		q    MaintenanceQuery
		want bool
	}{
		{name: "nothing set", q: MaintenanceQuery{}, want: true},
		{name: "delete", q: MaintenanceQuery{Delete: "1"}, want: false},
		{name: "reset", q: MaintenanceQuery{Reset: "YES"}, want: false},
		{name: "delete with dry", q: MaintenanceQuery{Delete: "true", Dry: "1"}, want: true},
		{name: "delete falsy", q: MaintenanceQuery{Delete: "0"}, want: true},
		{name: "delete junk", q: MaintenanceQuery{Delete: "please"}, want: true},
		{name: "dry false", q: MaintenanceQuery{Delete: "1", Dry: "false"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.q.DryRun())
		})
	}
}

func TestMaintenanceQuery_Prefixes(t *testing.T) {
	assert.Nil(t, MaintenanceQuery{}.Prefixes())
	assert.Equal(t, []string{"runs/", "legacy/"}, MaintenanceQuery{Prefix: " runs/,legacy/,,runs/"}.Prefixes())
}
