package isbn

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidFormat reports an identifier that cannot be converted.
var ErrInvalidFormat = errors.New("invalid isbn format")

const (
	// Length10 is the character count of the short identifier form.
	Length10 = 10
	// Length13 is the character count of the long identifier form.
	Length13 = 13

	bookland = "978"
)

// To13 converts a 10-character identifier to its 13-character equivalent.
// The input check digit is not verified; a fresh one is computed.
func To13(isbn10 string) (string, error) {
	value := clean(isbn10)
	if len(value) != Length10 {
		return "", fmt.Errorf("%w: %q has %d characters, want %d", ErrInvalidFormat, isbn10, len(value), Length10)
	}
	body := value[:Length10-1]
	if !allDigits(body) || !validCheck10(value[Length10-1]) {
		return "", fmt.Errorf("%w: %q contains non-digit characters", ErrInvalidFormat, isbn10)
	}

	stem := bookland + body
	sum := 0
	for i := 0; i < len(stem); i++ {
		weight := 1
		if i%2 == 1 {
			weight = 3
		}
		sum += int(stem[i]-'0') * weight
	}
	check := (10 - sum%10) % 10

	out := stem + strconv.Itoa(check)
	if len(out) != Length13 {
		return "", fmt.Errorf("%w: derived %q has %d characters", ErrInvalidFormat, out, len(out))
	}
	return out, nil
}

// To10 converts a 13-character identifier to its 10-character equivalent.
// ok is false, with no error, when the prefix is not 978.
func To10(isbn13 string) (string, bool, error) {
	value := clean(isbn13)
	if len(value) != Length13 {
		return "", false, fmt.Errorf("%w: %q has %d characters, want %d", ErrInvalidFormat, isbn13, len(value), Length13)
	}
	if !allDigits(value) {
		return "", false, fmt.Errorf("%w: %q contains non-digit characters", ErrInvalidFormat, isbn13)
	}
	if !strings.HasPrefix(value, bookland) {
		return "", false, nil
	}

	body := value[len(bookland) : Length13-1]
	sum := 0
	for i := 0; i < len(body); i++ {
		sum += int(body[i]-'0') * (Length10 - i)
	}
	check := (11 - sum%11) % 11

	digit := strconv.Itoa(check)
	if check == 10 {
		digit = "X"
	}
	out := body + digit
	if len(out) != Length10 {
		return "", false, fmt.Errorf("%w: derived %q has %d characters", ErrInvalidFormat, out, len(out))
	}
	return out, true, nil
}

// Alternate returns the other form of identifier, dispatching on its length.
// ok is false when the value has no alternate form.
func Alternate(identifier string) (string, bool, error) {
	switch len(clean(identifier)) {
	case Length10:
		out, err := To13(identifier)
		if err != nil {
			return "", false, err
		}
		return out, true, nil
	case Length13:
		return To10(identifier)
	default:
		return "", false, fmt.Errorf("%w: %q has %d characters", ErrInvalidFormat, identifier, len(identifier))
	}
}

func clean(value string) string {
	return strings.ToUpper(strings.TrimSpace(value))
}

func allDigits(value string) bool {
	for i := 0; i < len(value); i++ {
		if value[i] < '0' || value[i] > '9' {
			return false
		}
	}
	return true
}

func validCheck10(c byte) bool {
	return c == 'X' || (c >= '0' && c <= '9')
}
