package auth

import (
	"errors"
	"regexp"
	"strings"
)

// Accepts local (01712345678), bare-country (8801712345678) and
// international (+8801712345678) Bangladeshi mobile numbers.
var bdMobile = regexp.MustCompile(`^(?:\+?880|0)?1[3-9][0-9]{8}$`)

var ErrInvalidMobile = errors.New("invalid Bangladeshi mobile number")

// NormalizeMobile validates a Bangladeshi mobile number and rewrites it to
// the canonical +880 form used as the account key.
func NormalizeMobile(mobile string) (string, error) {
	clean := strings.NewReplacer(" ", "", "-", "").Replace(mobile)
	if !bdMobile.MatchString(clean) {
		return "", ErrInvalidMobile
	}

	switch {
	case strings.HasPrefix(clean, "+880"):
		return clean, nil
	case strings.HasPrefix(clean, "880"):
		return "+" + clean, nil
	case strings.HasPrefix(clean, "0"):
		return "+880" + clean[1:], nil
	default:
		return "+880" + clean, nil
	}
}
