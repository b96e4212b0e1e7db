package ranges

import (
	"encoding/xml"
	"fmt"
)

// RangeMessage mirrors the XML document published by the International ISBN
// Agency. Only the registration group section is mapped: the EAN.UCC prefix
// rules segment the group digits themselves, which the table already encodes
// through its keys.
type RangeMessage struct {
	XMLName xml.Name       `xml:"ISBNRangeMessage"`
	Source  string         `xml:"MessageSource"`
	Serial  string         `xml:"MessageSerialNumber"`
	Date    string         `xml:"MessageDate"`
	Groups  []MessageGroup `xml:"RegistrationGroups>Group"`
}

// MessageGroup is one registration group entry of a range message.
type MessageGroup struct {
	Prefix string        `xml:"Prefix"`
	Agency string        `xml:"Agency"`
	Rules  []MessageRule `xml:"Rules>Rule"`
}

// MessageRule is one registrant rule entry of a range message.
type MessageRule struct {
	Range  string `xml:"Range"`
	Length int    `xml:"Length"`
}

// ParseRangeMessage decodes a range message XML document.
func ParseRangeMessage(data []byte) (*RangeMessage, error) {
	var m RangeMessage
	if err := xml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to decode range message: %w", err)
	}
	if len(m.Groups) == 0 {
		return nil, fmt.Errorf("range message %q contains no registration groups", m.Serial)
	}
	return &m, nil
}

// RegistrationGroups converts the message into table groups. Rules with
// length 0 mark zones the agency has not allocated yet; nothing can match
// them, so they are dropped.
func (m *RangeMessage) RegistrationGroups() ([]Group, error) {
	groups := make([]Group, 0, len(m.Groups))
	for _, mg := range m.Groups {
		g := Group{Prefix: mg.Prefix, Agency: mg.Agency}
		for _, mr := range mg.Rules {
			if mr.Length == 0 {
				continue
			}
			r, err := ParseRule(fmt.Sprintf("%s:%d", mr.Range, mr.Length))
			if err != nil {
				return nil, fmt.Errorf("group %s: %w", mg.Prefix, err)
			}
			g.Rules = append(g.Rules, r)
		}
		groups = append(groups, g)
	}
	return groups, nil
}
