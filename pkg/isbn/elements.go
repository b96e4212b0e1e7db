package isbn

import (
	"fmt"
	"strconv"

	"github.com/iziplay/isbn-api/pkg/ranges"
)

// Elements are the five parts of a hyphenated ISBN. Registrant and
// publication are strings because their leading zeros are significant.
type Elements struct {
	Prefix      int    `json:"prefix"`
	Group       int    `json:"group"`
	Registrant  string `json:"registrant"`
	Publication string `json:"publication"`
	CheckDigit  int    `json:"checkDigit"`
}

// String renders the elements in canonical hyphenated order.
func (e Elements) String() string {
	return fmt.Sprintf("%d-%d-%s-%s-%d", e.Prefix, e.Group, e.Registrant, e.Publication, e.CheckDigit)
}

// Decompose splits a 13-digit sequence into its five elements using the
// given registration table. The group is the longest table prefix of the
// sequence and the registrant boundary comes from the group's range rules.
// The checksum is not verified here; Parse does that first.
func Decompose(t *ranges.Table, seq13 string) (Elements, error) {
	elements, _, err := decompose(t, seq13)
	return elements, err
}

func decompose(t *ranges.Table, seq13 string) (Elements, ranges.Group, error) {
	if len(seq13) != 13 {
		return Elements{}, ranges.Group{}, ErrInvalidLength
	}
	g, ok := t.Find(seq13)
	if !ok {
		return Elements{}, ranges.Group{}, ErrUnassignedRange
	}
	key := g.Key()
	remainder := seq13[len(key):12]
	registrant, ok := g.Registrant(remainder)
	if !ok {
		return Elements{}, ranges.Group{}, ErrUnassignedRange
	}
	prefix, _ := strconv.Atoi(key[:3])
	group, _ := strconv.Atoi(key[3:])
	return Elements{
		Prefix:      prefix,
		Group:       group,
		Registrant:  registrant,
		Publication: remainder[len(registrant):],
		CheckDigit:  int(seq13[12] - '0'),
	}, g, nil
}
