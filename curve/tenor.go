package curve

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidTenor is returned for a tenor label whose unit or numeric prefix
// cannot be parsed.
var ErrInvalidTenor = errors.New("invalid tenor format")

// ParseTenor converts tenor labels like "7D", "2W", "3M", "10Y" to year
// fractions: D/365, W/52, M/12, Y as-is.
func ParseTenor(label string) (float64, error) {
	tenor := strings.TrimSpace(strings.ToUpper(label))
	if len(tenor) < 2 {
		return 0, fmt.Errorf("ParseTenor: %w: %q", ErrInvalidTenor, label)
	}

	unit := tenor[len(tenor)-1:]
	v, err := strconv.ParseFloat(tenor[:len(tenor)-1], 64)
	if err != nil {
		return 0, fmt.Errorf("ParseTenor: %w: %q", ErrInvalidTenor, label)
	}

	switch unit {
	case "D":
		return v / 365.0, nil
	case "W":
		return v / 52.0, nil
	case "M":
		return v / 12.0, nil
	case "Y":
		return v, nil
	default:
		return 0, fmt.Errorf("ParseTenor: %w: %q", ErrInvalidTenor, label)
	}
}
