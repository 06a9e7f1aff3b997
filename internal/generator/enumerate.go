package generator

import "math"

// Count returns how many candidates enumeration mode emits for the given
// length and number of suffixes. The result saturates at math.MaxInt64.
func Count(length int, fixed bool, suffixes int) int64 {
	if length <= 0 || suffixes <= 0 {
		return 0
	}
	start := 1
	if fixed {
		start = length
	}

	var total int64
	for l := start; l <= length; l++ {
		n := int64(suffixes)
		for range l {
			if n > math.MaxInt64/int64(len(AlphaNum)) {
				return math.MaxInt64
			}
			n *= int64(len(AlphaNum))
		}
		if total > math.MaxInt64-n {
			return math.MaxInt64
		}
		total += n
	}
	return total
}

// EnumerateLength emits every string of exactly length symbols from the
// AlphaNum pool, in pool order, each followed by every suffix.
// The same symbol may repeat across positions. Enumeration stops early when
// emit returns false; the return value reports whether it ran to the end.
func EnumerateLength(length int, suffixes []string, emit func(string) bool) bool {
	if length <= 0 {
		return true
	}

	// idx is an odometer over pool positions. The last position turns fastest.
	idx := make([]int, length)
	buf := make([]byte, length)
	for i := range buf {
		buf[i] = AlphaNum[0]
	}

	for {
		stem := string(buf)
		for _, suffix := range suffixes {
			if !emit(stem + suffix) {
				return false
			}
		}

		pos := length - 1
		for ; pos >= 0; pos-- {
			idx[pos]++
			if idx[pos] < len(AlphaNum) {
				buf[pos] = AlphaNum[idx[pos]]
				break
			}
			idx[pos] = 0
			buf[pos] = AlphaNum[0]
		}
		if pos < 0 {
			return true
		}
	}
}
