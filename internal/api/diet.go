package api

import (
	"fmt"
	"strings"
)

// Diet types accepted by the backend.
const (
	DietAll           = "all"
	DietVegan         = "vegan"
	DietKeto          = "keto"
	DietMediterranean = "mediterranean"
	DietPaleo         = "paleo"
	DietDash          = "dash"
)

// DietTypes lists every diet filter in display order.
//
//nolint:gochecknoglobals // Read-only lookup table.
var DietTypes = []string{DietAll, DietVegan, DietKeto, DietMediterranean, DietPaleo, DietDash}

// NormalizeDiet lowercases and validates a diet filter. Empty means "all".
func NormalizeDiet(diet string) (string, error) {
	d := strings.ToLower(strings.TrimSpace(diet))
	if d == "" {
		return DietAll, nil
	}
	for _, known := range DietTypes {
		if d == known {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: %q (valid: %s)", ErrInvalidDiet, diet, strings.Join(DietTypes, ", "))
}

// DietLabel returns the display label for a diet filter.
func DietLabel(diet string) string {
	switch diet {
	case "", DietAll:
		return "All"
	case DietDash:
		return "DASH"
	default:
		return strings.ToUpper(diet[:1]) + diet[1:]
	}
}
