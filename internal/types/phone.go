package types

// PhoneDigits is the exact length of a valid phone number
const PhoneDigits = 10

// PhoneNumber is a validated string of exactly ten ASCII digits.
type PhoneNumber struct {
	value string
}

// ParsePhone validates raw and wraps it in a PhoneNumber. No separators, signs
// or whitespace are accepted.
func ParsePhone(raw string) (PhoneNumber, error) {
	if len(raw) != PhoneDigits || !allDigits(raw) {
		return PhoneNumber{}, FormatError(raw, "phone number must contain exactly 10 digits")
	}
	return PhoneNumber{value: raw}, nil
}

// String returns the digits.
func (p PhoneNumber) String() string {
	return p.value
}

// IsZero reports whether p was never successfully parsed.
func (p PhoneNumber) IsZero() bool {
	return p.value == ""
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
