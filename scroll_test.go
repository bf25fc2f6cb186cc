package skintile

import "testing"

func TestScrollSynchronizer(t *testing.T) {
	tests := []struct {
		name     string
		selected []bool
		want     []bool
	}{
		{"first render selected", []bool{true}, []bool{true}},
		{"first render unselected", []bool{false}, []bool{false}},
		{"rising edge", []bool{false, true}, []bool{false, true}},
		{"falling edge", []bool{true, false}, []bool{true, false}},
		{"stays selected", []bool{false, true, true, true}, []bool{false, true, false, false}},
		{"reselected", []bool{true, false, true}, []bool{true, false, true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s ScrollSynchronizer
			for i, sel := range tt.selected {
				if got := s.Observe(sel); got != tt.want[i] {
					t.Errorf("Observe #%d (%v) = %v, want %v", i, sel, got, tt.want[i])
				}
			}
		})
	}
}
