package families

import (
	"math"
	"reflect"
	"testing"
)

func TestCircularDistance(t *testing.T) {
	tests := []struct {
		name     string
		a, b     float64
		expected float64
	}{
		{"identical angles", 45, 45, 0},
		{"simple difference", 10, 40, 30},
		{"wraps around north", 350, 10, 20},
		{"opposite bearings", 0, 180, 180},
		{"wrap beats direct path", 10, 200, 170},
		{"full circle is zero", 0, 360, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CircularDistance(tt.a, tt.b); math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("CircularDistance(%.0f, %.0f) = %.2f, want %.2f", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}

func TestCircularDistanceSymmetric(t *testing.T) {
	angles := []float64{0, 12.5, 90, 179.9, 180, 270, 359, 360}
	for _, a := range angles {
		for _, b := range angles {
			ab := CircularDistance(a, b)
			ba := CircularDistance(b, a)
			if math.Abs(ab-ba) > 1e-9 {
				t.Errorf("CircularDistance(%.1f, %.1f) = %.4f but reversed gives %.4f", a, b, ab, ba)
			}
		}
		if d := CircularDistance(a, a); d != 0 {
			t.Errorf("CircularDistance(%.1f, %.1f) = %.4f, want 0", a, a, d)
		}
	}
}

func TestFindFamilies(t *testing.T) {
	tests := []struct {
		name         string
		orientations []float64
		params       Params
		expected     [][]int
	}{
		{
			name:         "two close and one opposite",
			orientations: []float64{10, 12, 200},
			params:       Params{ToleranceDeg: 15, MinMembers: 2},
			expected:     [][]int{{0, 1}},
		},
		{
			name:         "no input",
			orientations: nil,
			params:       DefaultParams(),
			expected:     nil,
		},
		{
			name:         "all scattered yields nothing",
			orientations: []float64{0, 90, 180, 270},
			params:       Params{ToleranceDeg: 15, MinMembers: 2},
			expected:     nil,
		},
		{
			name:         "two separate families",
			orientations: []float64{10, 12, 14, 200, 205, 210},
			params:       Params{ToleranceDeg: 15, MinMembers: 3},
			expected:     [][]int{{0, 1, 2}, {3, 4, 5}},
		},
		{
			name:         "wraparound family across north",
			orientations: []float64{355, 5, 350, 170},
			params:       Params{ToleranceDeg: 15, MinMembers: 3},
			expected:     [][]int{{0, 1, 2}},
		},
		{
			name:         "group below minimum size is discarded",
			orientations: []float64{10, 12, 200, 202, 204},
			params:       Params{ToleranceDeg: 15, MinMembers: 3},
			expected:     [][]int{{2, 3, 4}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindFamilies(tt.orientations, tt.params)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("FindFamilies(%v) = %v, want %v", tt.orientations, got, tt.expected)
			}
		})
	}
}

func TestFindFamiliesDiscardedMembersNotRetried(t *testing.T) {
	// Index 1 (30 degrees) joins index 0's group, which is then discarded
	// for being too small. Both stay consumed: the 40-degree family formed
	// afterwards is within tolerance of index 1 but must not pick it up.
	orientations := []float64{20, 30, 40, 42, 44}
	params := Params{ToleranceDeg: 14, MinMembers: 3}

	got := FindFamilies(orientations, params)
	expected := [][]int{{2, 3, 4}}
	if !reflect.DeepEqual(got, expected) {
		t.Fatalf("FindFamilies(%v) = %v, want %v", orientations, got, expected)
	}
}

func TestFindFamiliesAccretiveMean(t *testing.T) {
	// Membership is tested against the mean distance to all current members,
	// not the seed alone: 30 is 30 degrees from the seed 0, but after 15
	// joins, the mean distance from 30 to {0, 15} is (30+15)/2 = 22.5.
	orientations := []float64{0, 15, 30}
	params := Params{ToleranceDeg: 23, MinMembers: 3}

	got := FindFamilies(orientations, params)
	expected := [][]int{{0, 1, 2}}
	if !reflect.DeepEqual(got, expected) {
		t.Fatalf("FindFamilies(%v) = %v, want %v", orientations, got, expected)
	}

	// Tighten the tolerance below the accreted mean and 30 must drop out
	params.ToleranceDeg = 20
	params.MinMembers = 2
	got = FindFamilies(orientations, params)
	expected = [][]int{{0, 1}}
	if !reflect.DeepEqual(got, expected) {
		t.Fatalf("FindFamilies(%v) with tolerance 20 = %v, want %v", orientations, got, expected)
	}
}

func TestFindFamiliesDeterministicAndDisjoint(t *testing.T) {
	orientations := []float64{10, 25, 12, 355, 180, 14, 8, 182, 179, 200}
	params := DefaultParams()

	first := FindFamilies(orientations, params)
	for i := 0; i < 10; i++ {
		again := FindFamilies(orientations, params)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differed: %v vs %v", i, again, first)
		}
	}

	seen := make(map[int]bool)
	for _, group := range first {
		if len(group) < params.MinMembers {
			t.Errorf("group %v smaller than MinMembers %d", group, params.MinMembers)
		}
		for _, idx := range group {
			if seen[idx] {
				t.Errorf("index %d appears in more than one family", idx)
			}
			seen[idx] = true
		}
	}
}

func TestDefaultParams(t *testing.T) {
	p := DefaultParams()
	if p.ToleranceDeg != 15 {
		t.Errorf("ToleranceDeg = %.1f, want 15", p.ToleranceDeg)
	}
	if p.MinMembers != 3 {
		t.Errorf("MinMembers = %d, want 3", p.MinMembers)
	}
}
