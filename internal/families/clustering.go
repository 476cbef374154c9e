// Package families groups a station's discontinuities into orientation
// families: clusters of discontinuities whose dip directions are mutually
// close under a circular (mod-360) distance metric. Each family is rescored
// with the RMR engine against the parent station's traverse length.
package families

import "math"

// Params configures family discovery.
type Params struct {
	// ToleranceDeg is the maximum mean circular distance, in degrees,
	// between a candidate discontinuity and the members already in a group.
	ToleranceDeg float64

	// MinMembers is the minimum group size for a group to be emitted as a
	// family. Smaller groups are discarded.
	MinMembers int
}

// DefaultParams returns the standard field-mapping configuration.
func DefaultParams() Params {
	return Params{
		ToleranceDeg: 15,
		MinMembers:   3,
	}
}

// CircularDistance returns the angular distance between two bearings in
// degrees, taking the shorter way around the circle. It is symmetric and
// zero for equal angles.
func CircularDistance(a, b float64) float64 {
	d := math.Abs(a - b)
	if d > 360-d {
		return 360 - d
	}
	return d
}

// FindFamilies partitions a sequence of orientations (degrees) into
// angularly coherent index groups.
//
// The algorithm is a greedy single pass and is order-dependent on purpose:
// downstream family counts and labels are meaningful to the people mapping
// the rock face, so the grouping must be reproduced exactly rather than
// replaced with a canonical clustering method. Each unvisited index seeds a
// group; every later unvisited index joins when its mean circular distance
// to the current members is within tolerance, which shifts the membership
// test for the indices examined after it. Groups below MinMembers are
// discarded but their members stay consumed and are never reconsidered.
//
// The returned groups are disjoint, each of size >= MinMembers, in discovery
// order. Indices not in any group form the recoverable complement set. The
// scan is inherently sequential; do not parallelize it.
func FindFamilies(orientations []float64, p Params) [][]int {
	visited := make([]bool, len(orientations))
	var groups [][]int

	for i := range orientations {
		if visited[i] {
			continue
		}
		group := []int{i}
		visited[i] = true

		for j := i + 1; j < len(orientations); j++ {
			if visited[j] {
				continue
			}
			var sum float64
			for _, m := range group {
				sum += CircularDistance(orientations[j], orientations[m])
			}
			if sum/float64(len(group)) <= p.ToleranceDeg {
				group = append(group, j)
				visited[j] = true
			}
		}

		if len(group) >= p.MinMembers {
			groups = append(groups, group)
		}
	}

	return groups
}
