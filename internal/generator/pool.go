package generator

const (
	// Letters is the letter pool in emission order.
	Letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

	// Digits is the digit pool in emission order.
	Digits = "0123456789"

	// AlphaNum is the enumeration pool: letters followed by digits.
	AlphaNum = Letters + Digits
)

// Placeholder names recognized in dictionary templates.
const (
	PlaceholderAlpha    = "%ALPHA%"
	PlaceholderNumber   = "%NUMBER%"
	PlaceholderAlphaNum = "%ALPHANUM%"
	PlaceholderExt      = "%EXT%"
)

// Pools maps a placeholder token to the values it expands to.
type Pools map[string][]string

// NewPools returns the placeholder pools for a scan. %EXT% expands to the
// given suffix set.
func NewPools(suffixes []string) Pools {
	ext := make([]string, len(suffixes))
	copy(ext, suffixes)
	return Pools{
		PlaceholderAlpha:    split(Letters),
		PlaceholderNumber:   split(Digits),
		PlaceholderAlphaNum: split(AlphaNum),
		PlaceholderExt:      ext,
	}
}

// split turns an ASCII pool into one string per symbol.
func split(pool string) []string {
	out := make([]string, len(pool))
	for i := range len(pool) {
		out[i] = pool[i : i+1]
	}
	return out
}
