package pagination

import "math"

// CalculateOffset calculates the OFFSET value based on page number and limit.
// Page numbers are 1-based, so page 1 has offset 0.
//
// Formula: offset = (page - 1) * limit
//
// Examples:
//   - Page 1, Limit 10 -> Offset 0
//   - Page 2, Limit 2  -> Offset 2
//   - Page 3, Limit 10 -> Offset 20
//
// A product that does not fit in an int saturates at math.MaxInt, so a page
// far past the end stays past the end.
func CalculateOffset(page, limit int) int {
	if page <= 1 || limit <= 0 {
		return 0
	}
	if page-1 > math.MaxInt/limit {
		return math.MaxInt
	}
	return (page - 1) * limit
}

// Bounds returns the half-open slice window [start, end) for offset/limit
// over a sequence of n items. A limit of 0 means "to the end".
// Out-of-range windows collapse to an empty window at n.
//
// Examples:
//   - n 5, offset 2, limit 2 -> [2, 4)
//   - n 5, offset 4, limit 2 -> [4, 5)
//   - n 5, offset 8, limit 2 -> [5, 5)
//   - n 5, offset 0, limit 0 -> [0, 5)
func Bounds(n, offset, limit int) (start, end int) {
	if offset < 0 {
		offset = 0
	}
	if offset >= n {
		return n, n
	}
	end = n
	if limit > 0 && limit < n-offset {
		end = offset + limit
	}
	return offset, end
}
