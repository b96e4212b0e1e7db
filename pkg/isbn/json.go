package isbn

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/danielgtaylor/huma/v2"
)

// MarshalJSON encodes the canonical hyphenated form.
func (i ISBN) MarshalJSON() ([]byte, error) {
	return json.Marshal(i.canonical)
}

// UnmarshalJSON accepts either a JSON number holding the GTIN-13 form or a
// JSON string holding any human form.
func (i *ISBN) UnmarshalJSON(data []byte) error {
	var gtin int64
	if err := json.Unmarshal(data, &gtin); err == nil {
		parsed, err := ParseGTIN(gtin)
		if err != nil {
			return fmt.Errorf("cannot decode %d as ISBN: %w", gtin, err)
		}
		*i = parsed
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.New("cannot decode ISBN: expected a string or an integer")
	}
	parsed, err := Parse(raw)
	if err != nil {
		return fmt.Errorf("cannot decode %q as ISBN: %w", raw, err)
	}
	*i = parsed
	return nil
}

// MarshalText encodes the canonical hyphenated form.
func (i ISBN) MarshalText() ([]byte, error) {
	return []byte(i.canonical), nil
}

// UnmarshalText parses any human form.
func (i *ISBN) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return fmt.Errorf("cannot decode %q as ISBN: %w", text, err)
	}
	*i = parsed
	return nil
}

// Schema declares the wire shape for OpenAPI generation: an ISBN arrives as
// a string in any human form or as the bare GTIN-13 integer, and always
// leaves as the canonical hyphenated string.
func (i ISBN) Schema(r huma.Registry) *huma.Schema {
	return &huma.Schema{
		Title:       "ISBN",
		Description: "International Standard Book Number",
		OneOf: []*huma.Schema{
			{Type: huma.TypeString, Examples: []any{"978-1-4088-5589-8"}},
			{Type: huma.TypeInteger, Examples: []any{9781408855898}},
		},
	}
}
