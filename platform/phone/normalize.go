// Package phone normalises contact phone numbers.
package phone

import (
	"errors"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// ErrInvalidNumber is returned for input that is not a valid phone number in the region.
var ErrInvalidNumber = errors.New("invalid phone number")

// NormalizeE164 parses input relative to region (ISO 3166 alpha-2) and formats it as E.164.
// Empty input yields an empty result and no error.
func NormalizeE164(input, region string) (string, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return "", nil
	}

	number, err := phonenumbers.Parse(trimmed, strings.ToUpper(region))
	if err != nil {
		return "", ErrInvalidNumber
	}
	if !phonenumbers.IsValidNumber(number) {
		return "", ErrInvalidNumber
	}
	return phonenumbers.Format(number, phonenumbers.E164), nil
}
