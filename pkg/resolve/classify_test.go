package resolve

import "testing"

func TestIsScientificName(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"Panthera leo", true},
		{"  Panthera leo  ", true},
		{"Canis lupus familiaris", true},
		{"Canis lupus-familiaris", true},
		{"lion", false},
		{"panthera", false},
		{"Panthera", false},
		{"panthera leo", false},
		{"Panthera Leo", false},
		{"Canis lupus familiaris extra", false},
		{"Panthera leo 2", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := IsScientificName(tt.in); got != tt.want {
				t.Errorf("IsScientificName(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
