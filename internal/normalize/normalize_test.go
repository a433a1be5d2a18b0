package normalize

import (
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "lowercase and whitespace collapse",
			in:   "  Acute   Myocardial\tInfarction  ",
			want: "acute myocardial infarction",
		},
		{
			name: "abbreviation expansion",
			in:   "Patient has HTN and DM with CAD",
			want: "patient has hypertension and diabetes mellitus with coronary artery disease",
		},
		{
			name: "abbreviations only match whole words",
			in:   "admitted with dmard therapy",
			want: "admitted with dmard therapy",
		},
		{
			name: "multiple occurrences",
			in:   "copd exacerbation, known copd",
			want: "chronic obstructive pulmonary disease exacerbation, known chronic obstructive pulmonary disease",
		},
		{
			name: "empty",
			in:   "",
			want: "",
		},
		{
			name: "whitespace only",
			in:   "   \t\n ",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"Patient has HTN and DM with CAD",
		"CHF with acute COPD exacerbation, rule out PE",
		"  GERD and   UTI follow-up ",
		"no abbreviations here at all",
		"",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestNormalize_ScenarioHTN(t *testing.T) {
	got := Normalize("Patient has HTN and DM with CAD")
	for _, want := range []string{"hypertension", "diabetes mellitus", "coronary artery disease"} {
		if !strings.Contains(got, want) {
			t.Errorf("output %q missing %q", got, want)
		}
	}
	if strings.Contains(got, "  ") {
		t.Errorf("output %q contains double spaces", got)
	}
	if got != strings.ToLower(got) {
		t.Errorf("output %q not fully lowercase", got)
	}
}
