// Package helpline is the directory of national farmer helplines.
package helpline

import "strings"

type Helpline struct {
	Name          string `json:"name"`
	Number        string `json:"number"`
	NumberDisplay string `json:"numberDisplay"`
}

// TelURI is the tap-to-call link for the helpline.
func (h Helpline) TelURI() string {
	return "tel:" + h.Number
}

var directory = []Helpline{
	{Name: "Kisan Call Centre", Number: "18001801551", NumberDisplay: "1800-180-1551"},
	{Name: "PM-KISAN Helpdesk", Number: "155261", NumberDisplay: "155261 / 011-24300606"},
	{Name: "Fertilizer Helpline", Number: "1800115515", NumberDisplay: "1800-11-5515"},
	{Name: "National Seeds Corporation", Number: "1800110088", NumberDisplay: "1800-11-0088"},
}

// All returns a copy of the directory.
func All() []Helpline {
	return append([]Helpline(nil), directory...)
}

// Search filters by a case-insensitive substring of the name. An empty
// query returns everything.
func Search(query string) []Helpline {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return All()
	}
	var out []Helpline
	for _, h := range directory {
		if strings.Contains(strings.ToLower(h.Name), query) {
			out = append(out, h)
		}
	}
	return out
}
