package main

import "testing"

func TestParseChainArg(t *testing.T) {
	tests := []struct {
		arg  string
		want []string
	}{
		{"name", []string{"name"}},
		{"name.first-name", []string{"name", "first-name"}},
		{"a.b.c", []string{"a", "b", "c"}},
		{"--pretty", nil},
		{"-", nil},
		{"", nil},
		{"a..b", nil},
		{".a", nil},
		{"a.", nil},
	}
	for _, tt := range tests {
		got, err := parseChainArg(tt.arg)
		if tt.want == nil {
			if err == nil {
				t.Errorf("parseChainArg(%q) = %v, want error", tt.arg, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseChainArg(%q): %v", tt.arg, err)
			continue
		}
		if len(got) != len(tt.want) {
			t.Errorf("parseChainArg(%q) = %v, want %v", tt.arg, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("parseChainArg(%q) = %v, want %v", tt.arg, got, tt.want)
				break
			}
		}
	}
}
