package property

import "testing"

func TestAvailabilityState(t *testing.T) {
	tests := []struct {
		state AvailabilityState
		valid bool
		label string
	}{
		{Available, true, "Available"},
		{Sold, true, "Sold"},
		{Rented, true, "Rented"},
		{"leased", false, "leased"},
		{"", false, ""},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			if got := tt.state.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
			if got := tt.state.Label(); got != tt.label {
				t.Errorf("Label() = %q, want %q", got, tt.label)
			}
		})
	}
}
