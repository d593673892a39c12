// ABOUTME: Tests for Drill model and Category canonicalisation.
// ABOUTME: Validates aliases resolve to one canonical category.
package models

import (
	"testing"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		input  string
		want   Category
		wantOK bool
	}{
		{"attack", CategoryAttack, true},
		{"attack_chain", CategoryAttack, true},
		{"Serve-Receive", CategoryServeReceive, true},
		{"serve receive", CategoryServeReceive, true},
		{" receive ", CategoryServeReceive, true},
		{"defence", CategoryDefense, true},
		{"setting", CategorySet, true},
		{"BLOCK", CategoryBlock, true},
		{"mixed", CategoryMixed, true},
		{"juggling", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseCategory(tt.input)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ParseCategory(%q) = %q, %v; want %q, %v", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestAllCategoriesParseToThemselves(t *testing.T) {
	for _, c := range AllCategories {
		got, ok := ParseCategory(string(c))
		if !ok || got != c {
			t.Errorf("ParseCategory(%q) = %q, %v", c, got, ok)
		}
	}
}

func TestDrillIsSummary(t *testing.T) {
	if !NewDrill(SummaryDrillName, CategoryMixed, 1).IsSummary() {
		t.Error("expected sentinel drill to be the summary drill")
	}
	if NewDrill("Serve Accuracy", CategoryServe, 2).IsSummary() {
		t.Error("expected regular drill not to be the summary drill")
	}
}
