package utils

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
)

// ParseSize parses a byte size such as "4096", "512KB" or "1MiB".
// Decimal units (KB, MB) are powers of 1000, binary units (KiB, MiB) powers of 1024.
// The size must be positive.
func ParseSize(s string) (int64, error) {
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", s, err)
	}
	if n == 0 {
		return 0, fmt.Errorf("invalid size %q: must be positive", s)
	}
	if n > math.MaxInt64 {
		return 0, fmt.Errorf("invalid size %q: too large", s)
	}
	return int64(n), nil
}

// FormatSize formats n bytes with binary units, e.g. "1.0 MiB".
func FormatSize(n int64) string {
	if n < 0 {
		return "-" + humanize.IBytes(uint64(-n))
	}
	return humanize.IBytes(uint64(n))
}
