package encoder

// byteCode is one byte position's share of a chunk encoding.
type byteCode struct {
	Values []byte // one summand per operand slot
	Div    int
	Carry  bool // borrowed 0x100 from the next byte position
}

// encodeByte finds the smallest workable division count for one byte of the
// complement. With minDiv set the search is pinned to it: a hit at any other
// (necessarily larger) count returns *DivisionMismatchError so the caller can
// restart the chunk. At each count the byte is tried directly first, then
// once as value+0x100, borrowing from the next byte position, so a count
// reachable with a carry is preferred over a larger direct one. The carry
// retry is subject to the same division consistency check.
func encodeByte(value int, good GoodByteSet, minDiv, maxDiv int) (byteCode, error) {
	start := minDiv
	if start == 0 {
		start = 1
	}

	for div := start; div <= maxDiv; div++ {
		carried := false
		values, ok := checkDivision(value, div, good)
		if !ok {
			values, ok = checkDivision(value+0x100, div, good)
			carried = true
		}
		if !ok {
			continue
		}
		if minDiv != 0 && div != minDiv {
			return byteCode{}, &DivisionMismatchError{Div: div}
		}
		return byteCode{Values: values, Div: div, Carry: carried}, nil
	}
	return byteCode{}, ErrNoDivision
}
