package utils

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ParseUint parses a non-negative decimal integer. Signs, whitespace and
// other bases are rejected. what names the value in the error.
func ParseUint(what, s string) (uint64, error) {
	if s == "" {
		return 0, fmt.Errorf("%s is empty", what)
	}
	if strings.TrimLeft(s, "0123456789") != "" {
		return 0, fmt.Errorf("%s must be a non-negative decimal integer: %q", what, s)
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, fmt.Errorf("%s is too large: %s", what, s)
		}
		return 0, fmt.Errorf("%s: %w", what, err)
	}
	return v, nil
}
