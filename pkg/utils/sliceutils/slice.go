// The sliceutils package collects small slice helpers: order normalization for
// set-derived slices whose order is not deterministic, and a sorted set difference.
package sliceutils

import "slices"

// Sorted() returns a sorted copy of slice, leaving the original untouched.
func Sorted(slice []string) []string {
	sorted := make([]string, len(slice))
	copy(sorted, slice)
	slices.Sort(sorted)
	return sorted
}

// SortEach() sorts each of the inner slices in place and returns the outer slice.
func SortEach(outer [][]string) [][]string {
	for _, inner := range outer {
		slices.Sort(inner)
	}
	return outer
}

/*
Difference() returns the elements of slice1 that are not in slice2; in set
notation: difference = slice1 - slice2.

Time complexity O(n * logn + m * logm), where n and m are the lengths of the
slices. This is much faster than converting to sets for sizes smaller than ~10^6.
*/
func Difference(slice1, slice2 []string) []string {

	slices.Sort(slice1)
	slices.Sort(slice2)
	difference := []string{}

	i, j := 0, 0
	len1, len2 := len(slice1), len(slice2)

	// Use two pointers to compare both sorted lists
	for i < len1 && j < len2 {
		if slice1[i] < slice2[j] {
			// the element is in slice1 but not in slice2
			difference = append(difference, slice1[i])
			i++
		} else if slice1[i] > slice2[j] {
			j++
		} else {
			i++
			j++
		}
	}

	// Add all elements not traversed
	difference = append(difference, slice1[i:]...)
	return difference
}
