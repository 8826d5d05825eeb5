package validation

// checksumModulus is the divisor for the beamer equipment check digit.
const checksumModulus = 97

// Beamer codes are four-digit equipment identifiers.
const (
	MinBeamerCode = 0
	MaxBeamerCode = 9999
)

// InBeamerCodeRange reports whether code is a valid four-digit beamer code.
func InBeamerCodeRange(code int) bool {
	return code >= MinBeamerCode && code <= MaxBeamerCode
}

// ChecksumOf returns the expected check value for a beamer code.
func ChecksumOf(code int) int {
	return code % checksumModulus
}

// ValidChecksum reports whether check equals code mod 97. The check digit is
// a secondary confirmation that the operator entered the beamer code
// correctly; it is not a security control.
func ValidChecksum(code, check int) bool {
	return check == ChecksumOf(code)
}
