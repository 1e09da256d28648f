package resolve

import (
	"slices"
	"strings"
	"testing"
)

func TestVariants(t *testing.T) {
	tests := []struct {
		in       string
		contains []string
	}{
		{"cats", []string{"cats", "cat"}},
		{"foxes", []string{"foxes", "fox"}},
		{"butterflies", []string{"butterflies", "butterfly"}},
		{"grey wolf", []string{"grey wolf", "gray wolf"}},
		{"Gray  Wolves!", []string{"gray wolves", "grey wolves", "gray wolve"}},
		{"Ñandú", []string{"nandu"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := Variants(tt.in)
			for _, want := range tt.contains {
				if !slices.Contains(got, want) {
					t.Errorf("Variants(%q) = %q, missing %q", tt.in, got, want)
				}
			}
		})
	}
}

func TestVariantsLengthGuards(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"bass", []string{"bass"}},
		{"moss", []string{"moss"}},
		{"ants", []string{"ants", "ant"}},
		{"bus", []string{"bus"}},
		{"flies", []string{"flies", "fli", "flie"}},
		{"grass", []string{"grass"}},
		{"cat", []string{"cat"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Variants(tt.in); !slices.Equal(got, tt.want) {
				t.Errorf("Variants(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestVariantsDedupAndEmpty(t *testing.T) {
	if got := Variants("  !!  "); got != nil {
		t.Errorf("Variants of punctuation = %q, want nil", got)
	}
	got := Variants("Grey grey")
	seen := map[string]bool{}
	for _, v := range got {
		if v == "" || seen[v] {
			t.Errorf("Variants produced empty or duplicate %q in %q", v, got)
		}
		seen[v] = true
		if strings.TrimSpace(v) != v {
			t.Errorf("variant %q not trimmed", v)
		}
	}
}
