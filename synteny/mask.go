package synteny

import (
	"errors"
	"fmt"
	"math/bits"
)

var (
	// ErrTooManyFamilies is returned when the gene family universe exceeds
	// what a Mask (or the ordered propagation table) can hold.
	ErrTooManyFamilies = errors.New("synteny: too many gene families")

	// ErrNotSubsequence is returned when a content list does not appear in
	// the reference order (missing family, or wrong relative order).
	ErrNotSubsequence = errors.New("synteny: not a subsequence")

	// ErrOrderConflict is returned when the leaf orders are contradictory
	// and admit no common total order.
	ErrOrderConflict = errors.New("synteny: conflicting family orders")
)

// MaxFamilies bounds the family universe to the width of a Mask.
const MaxFamilies = 64

// Mask is a subsequence of a reference family order: bit i set means the
// i-th family of the order is present.
type Mask uint64

// Complete returns the mask holding all n families.
func Complete(n int) Mask {
	if n >= MaxFamilies {
		return ^Mask(0)
	}
	return Mask(1)<<n - 1
}

// Count returns the number of families present.
func (m Mask) Count() int { return bits.OnesCount64(uint64(m)) }

// ContainsAll reports whether every family of sub is present in m.
func (m Mask) ContainsAll(sub Mask) bool { return sub&^m == 0 }

// MaskOf encodes content as a subsequence of order.
//
// Errors: ErrNotSubsequence when content is not a subsequence of order,
// ErrTooManyFamilies when order exceeds MaxFamilies.
func MaskOf(content, order []string) (Mask, error) {
	if len(order) > MaxFamilies {
		return 0, fmt.Errorf("%w: %d families", ErrTooManyFamilies, len(order))
	}
	var m Mask
	ci := 0
	for i, f := range order {
		if ci == len(content) {
			break
		}
		if content[ci] == f {
			m |= 1 << i
			ci++
		}
	}
	if ci != len(content) {
		return 0, fmt.Errorf("%w: %v in order %v", ErrNotSubsequence, content, order)
	}
	return m, nil
}

// FromMask decodes a mask back into the family names of order.
func FromMask(m Mask, order []string) []string {
	out := make([]string, 0, m.Count())
	for i, f := range order {
		if m&(1<<i) != 0 {
			out = append(out, f)
		}
	}
	return out
}

// SegmentDist counts the contiguous segments of parent that are absent from
// child. With edges set, segments touching the ends of parent count too;
// otherwise only internal gaps do. Returns -1 when child is not a
// subsequence of parent.
func SegmentDist(child, parent Mask, edges bool) int {
	if !parent.ContainsAll(child) {
		return -1
	}

	inSegment := !edges
	dist := 0
	for rest := parent; rest != 0; {
		i := bits.TrailingZeros64(uint64(rest))
		rest &^= 1 << i
		if child&(1<<i) == 0 {
			if !inSegment {
				dist++
				inSegment = true
			}
		} else {
			inSegment = false
		}
	}
	if inSegment && !edges {
		dist--
	}
	return dist
}
