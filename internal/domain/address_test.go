package domain

import "testing"

func TestNormalizeAddress(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "Moscow, Tverskaya 1", want: "Moscow, Tverskaya 1"},
		{in: "  Moscow,   Tverskaya\t1 \n", want: "Moscow, Tverskaya 1"},
		{in: "   ", want: ""},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		if got := NormalizeAddress(tt.in); got != tt.want {
			t.Errorf("NormalizeAddress(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
