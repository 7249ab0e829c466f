package encoder

// checkDivision reports whether value can be written as the sum of div
// allowed bytes, and returns one such decomposition. value is normally a
// byte, but may exceed 255 by 0x100 when the caller borrowed a carry from the
// next byte position. Pure and deterministic.
//
// The decomposition is floor = value/div copied into every slot, with the
// remainder absorbed by replacing the first `split` slots by allowed bytes
// summing to rem + floor*split. When split == div no floor slots remain, so
// floor itself does not need to be an allowed byte.
func checkDivision(value, div int, good GoodByteSet) ([]byte, bool) {
	floor := value / div
	rem := value % div
	if floor > 0xff {
		return nil, false
	}
	f := byte(floor)

	if rem == 0 {
		if !good.Contains(f) {
			return nil, false
		}
		out := make([]byte, div)
		for i := range out {
			out[i] = f
		}
		return out, true
	}

	candidates := good.Bytes()
	if len(candidates) == 0 {
		return nil, false
	}

	for split := 1; split <= div; split++ {
		if split < div && !good.Contains(f) {
			continue
		}
		slots := make([]byte, split)
		if pickSummands(candidates, slots, 0, 0, rem+floor*split) {
			out := make([]byte, 0, div)
			out = append(out, slots...)
			for i := split; i < div; i++ {
				out = append(out, f)
			}
			return out, true
		}
	}

	return nil, false
}

// pickSummands fills slots[idx:] with candidate bytes summing to target.
// Candidates are ascending and slots are filled in non-decreasing candidate
// order, so each multiset of summands is visited once. First match wins.
func pickSummands(candidates []byte, slots []byte, idx, from, target int) bool {
	if idx == len(slots) {
		return target == 0
	}
	left := len(slots) - idx
	maxCand := int(candidates[len(candidates)-1])
	for ci := from; ci < len(candidates); ci++ {
		v := int(candidates[ci])
		if v*left > target {
			// Every remaining slot takes a value >= v.
			break
		}
		if v+maxCand*(left-1) < target {
			continue
		}
		slots[idx] = candidates[ci]
		if pickSummands(candidates, slots, idx+1, ci, target-v) {
			return true
		}
	}
	return false
}
