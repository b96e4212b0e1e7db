// Package isbn parses, validates and hyphenates International Standard Book
// Numbers. Hyphenation follows the registration group ranges published by the
// International ISBN Agency; see the ranges package for where those come from.
package isbn

import (
	"errors"
	"strconv"

	"github.com/iziplay/isbn-api/pkg/ranges"
)

var (
	// ErrInvalidLength flags input that does not clean up to 10 or 13 characters.
	ErrInvalidLength = errors.New("isbn: cleaned input is not 10 or 13 characters")
	// ErrInvalidChecksum flags a sequence whose check digit does not match.
	ErrInvalidChecksum = errors.New("isbn: check digit mismatch")
	// ErrUnassignedRange flags a checksum-valid number outside every registration range.
	ErrUnassignedRange = errors.New("isbn: no registration range assigned")
)

// An ISBN is a checksum-verified book number resolved against the
// registration ranges. The zero value is no ISBN at all; obtain one through
// Parse or one of its variants. Two ISBNs are equal exactly when their
// canonical hyphenated forms are equal, so values compare with ==.
type ISBN struct {
	agency    string
	elements  Elements
	canonical string
	gtin      int64
}

// Parse reads an ISBN from any human form: hyphenated or spaced, ISBN-10 or
// ISBN-13, with or without a label around it. ISBN-10 input is converted to
// its 978 equivalent, so both forms of the same book parse to the same value.
func Parse(raw string) (ISBN, error) {
	return ParseWith(ranges.Current(), raw)
}

// ParseWith is Parse against a specific registration table.
func ParseWith(t *ranges.Table, raw string) (ISBN, error) {
	seq := Clean(raw)
	switch len(seq) {
	case 10:
		if !valid10(seq) {
			return ISBN{}, ErrInvalidChecksum
		}
		seq = To13(seq)
	case 13:
		if !valid13(seq) {
			return ISBN{}, ErrInvalidChecksum
		}
	default:
		return ISBN{}, ErrInvalidLength
	}
	elements, group, err := decompose(t, seq)
	if err != nil {
		return ISBN{}, err
	}
	gtin, _ := strconv.ParseInt(seq, 10, 64)
	return ISBN{
		agency:    group.Agency,
		elements:  elements,
		canonical: elements.String(),
		gtin:      gtin,
	}, nil
}

// ParseGTIN reads an ISBN from its numeric GTIN-13 form.
func ParseGTIN(gtin int64) (ISBN, error) {
	return Parse(strconv.FormatInt(gtin, 10))
}

// IsValid reports whether the input carries a correct ISBN-10 or ISBN-13
// check digit. It never consults the registration table, so numbers in
// unassigned ranges still count as valid.
func IsValid(raw string) bool {
	seq := Clean(raw)
	switch len(seq) {
	case 10:
		return valid10(seq)
	case 13:
		return valid13(seq)
	}
	return false
}

// IsValidGTIN reports whether the numeric GTIN-13 form carries a correct
// check digit.
func IsValidGTIN(gtin int64) bool {
	return IsValid(strconv.FormatInt(gtin, 10))
}

// Hyphenate returns the canonical hyphenated form of any human form, or an
// empty string when the input does not parse.
func Hyphenate(raw string) string {
	i, err := Parse(raw)
	if err != nil {
		return ""
	}
	return i.canonical
}

// HyphenateGTIN returns the canonical hyphenated form of a numeric GTIN-13,
// or an empty string when it does not parse.
func HyphenateGTIN(gtin int64) string {
	i, err := ParseGTIN(gtin)
	if err != nil {
		return ""
	}
	return i.canonical
}

// Agency returns the name of the registration agency behind the number's
// group, e.g. "English language" or "France".
func (i ISBN) Agency() string {
	return i.agency
}

// Elements returns the five structural elements of the number.
func (i ISBN) Elements() Elements {
	return i.elements
}

// GTIN returns the numeric GTIN-13 form.
func (i ISBN) GTIN() int64 {
	return i.gtin
}

// ISBN10 returns the ten-character form for 978-prefixed numbers, or an
// empty string for 979 numbers and the zero value.
func (i ISBN) ISBN10() string {
	if i.gtin == 0 {
		return ""
	}
	return To10(strconv.FormatInt(i.gtin, 10))
}

// String returns the canonical hyphenated form, e.g. "978-1-4088-5589-8".
func (i ISBN) String() string {
	return i.canonical
}
