package db

import (
	"strings"
	"testing"
)

func TestClassFilter_Status(t *testing.T) {
	scheduled := "scheduled"
	tests := []struct {
		name     string
		f        ClassFilter
		wantSQL  string
		wantArgs int
	}{
		{"exact", ClassFilter{Status: &scheduled}, "WHERE status = $1", 1},
		{"with_unknown", ClassFilter{Status: &scheduled, KnownStatuses: []string{"scheduled", "completed"}},
			"WHERE (status = $1 OR status NOT IN ($2,$3))", 3},
		{"known_without_status", ClassFilter{KnownStatuses: []string{"scheduled"}}, "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args, err := tt.f.apply(psql.Select("id").From("driving_classes")).ToSql()
			if err != nil {
				t.Fatal(err)
			}
			if tt.wantSQL == "" && strings.Contains(query, "WHERE") {
				t.Fatalf("unexpected condition: %s", query)
			}
			if !strings.Contains(query, tt.wantSQL) {
				t.Fatalf("query = %s, want %s", query, tt.wantSQL)
			}
			if len(args) != tt.wantArgs {
				t.Fatalf("args = %v", args)
			}
		})
	}
}
