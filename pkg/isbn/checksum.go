package isbn

import (
	"strconv"
	"strings"
)

// Clean strips everything but digits from raw input. A lone x or X survives
// as the uppercase check character so ISBN-10s keep their final position.
func Clean(raw string) string {
	var b strings.Builder
	b.Grow(13)
	for _, c := range raw {
		switch {
		case c >= '0' && c <= '9':
			b.WriteRune(c)
		case c == 'x' || c == 'X':
			b.WriteByte('X')
		}
	}
	return b.String()
}

// valid13 reports whether a 13-digit sequence carries a correct EAN-13
// check digit.
func valid13(seq string) bool {
	if len(seq) != 13 {
		return false
	}
	sum := 0
	for i, c := range seq {
		d, err := strconv.Atoi(string(c))
		if err != nil {
			return false
		}
		if i%2 == 0 {
			sum += d
		} else {
			sum += d * 3
		}
	}
	return sum%10 == 0
}

// valid10 reports whether a 10-character sequence carries a correct ISBN-10
// check digit. X counts as ten and is only legal in the final position.
func valid10(seq string) bool {
	if len(seq) != 10 {
		return false
	}
	sum := 0
	for i, c := range seq {
		d := 10
		if c != 'X' {
			var err error
			d, err = strconv.Atoi(string(c))
			if err != nil {
				return false
			}
		} else if i != 9 {
			return false
		}
		sum += d * (10 - i)
	}
	return sum%11 == 0
}

// To13 converts an ISBN-10 to ISBN-13 by prepending 978 and computing the check digit.
// Returns an empty string if the input is not a valid ISBN-10.
func To13(isbn10 string) string {
	if len(isbn10) != 10 {
		return ""
	}
	base := "978" + isbn10[:9]
	sum := 0
	for i, c := range base {
		d, err := strconv.Atoi(string(c))
		if err != nil {
			return ""
		}
		if i%2 == 0 {
			sum += d
		} else {
			sum += d * 3
		}
	}
	check := (10 - sum%10) % 10
	return base + strconv.Itoa(check)
}

// To10 converts a 978-prefixed ISBN-13 to ISBN-10.
// Returns an empty string if the input is not a convertible ISBN-13.
func To10(isbn13 string) string {
	if len(isbn13) != 13 || !strings.HasPrefix(isbn13, "978") {
		return ""
	}
	base := isbn13[3:12]
	sum := 0
	for i, c := range base {
		d, err := strconv.Atoi(string(c))
		if err != nil {
			return ""
		}
		sum += d * (10 - i)
	}
	check := (11 - sum%11) % 11
	if check == 10 {
		return base + "X"
	}
	return base + strconv.Itoa(check)
}
