package scanner

// ParseDigits parses a fixed-width field made only of ASCII digits.
// Empty fields, any non-digit byte and values overflowing uint64 are rejected.
func ParseDigits(field []byte) (uint64, bool) {
	if len(field) == 0 {
		return 0, false
	}
	var v uint64
	for _, b := range field {
		if b < '0' || b > '9' {
			return 0, false
		}
		d := uint64(b - '0')
		if v > (^uint64(0)-d)/10 {
			return 0, false
		}
		v = v*10 + d
	}
	return v, true
}

// ParseUint32Digits is ParseDigits bounded to uint32.
func ParseUint32Digits(field []byte) (uint32, bool) {
	v, ok := ParseDigits(field)
	if !ok || v > uint64(^uint32(0)) {
		return 0, false
	}
	return uint32(v), true
}

// IsASCII reports whether every byte is 7-bit.
func IsASCII(field []byte) bool {
	for _, b := range field {
		if b >= 0x80 {
			return false
		}
	}
	return true
}

func IsSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// TrimRightSpace drops trailing ASCII spaces, used for padded text fields.
func TrimRightSpace(field []byte) []byte {
	i := len(field)
	for i > 0 && IsSpace(field[i-1]) {
		i--
	}
	return field[:i]
}
