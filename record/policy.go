package record

// Policy reports whether a may be immediately followed by b in sorted order.
// It must induce a transitive order over the keys it inspects; run detection
// and merging are undefined for policies that do not.
type Policy func(a, b Record) bool

// AscendingByMax orders records by non-decreasing maximum value.
func AscendingByMax(a, b Record) bool {
	return a.max() <= b.max()
}

// DescendingByMax orders records by non-increasing maximum value.
func DescendingByMax(a, b Record) bool {
	return a.max() >= b.max()
}

// AscendingBySize orders records by non-decreasing number of values.
func AscendingBySize(a, b Record) bool {
	return a.size <= b.size
}
