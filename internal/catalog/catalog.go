// Package catalog records what each message in the LU protocol is for: which
// layer and direction it belongs to, the discriminant it is bound to, and the
// trigger/handling/response notes an application needs to act on it. The
// codec does not consult this data.
package catalog

import (
	"sort"

	"github.com/energizer-project/lupackets/internal/layout"
)

// Direction is the side of a connection that receives a message.
type Direction string

const (
	ClientReceived Direction = "client"
	ServerReceived Direction = "server"
)

// Doc is free-form application guidance for one message.
type Doc struct {
	Trigger  string `json:"trigger,omitempty"`
	Handling string `json:"handling,omitempty"`
	Response string `json:"response,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// Entry describes one catalogued message.
type Entry struct {
	Layer        string    `json:"layer"`
	Direction    Direction `json:"direction"`
	Union        string    `json:"union"`
	Name         string    `json:"name"`
	Discriminant uint32    `json:"discriminant"`
	Width        int       `json:"width"`
	Padding      int       `json:"padding"`
	Open         bool      `json:"open"`
	Doc          Doc       `json:"doc"`
}

// Union is the read-only view of a tagged union the catalog needs.
type Union interface {
	Spec() layout.UnionSpec
	Cases() []layout.CaseInfo
	Open() bool
}

// FromUnion lists the variants of u, attaching docs by variant name.
func FromUnion(layer string, dir Direction, u Union, docs map[string]Doc) []Entry {
	spec := u.Spec()
	cases := u.Cases()
	out := make([]Entry, 0, len(cases))
	for _, c := range cases {
		out = append(out, Entry{
			Layer:        layer,
			Direction:    dir,
			Union:        spec.Name,
			Name:         c.Name,
			Discriminant: c.Disc,
			Width:        int(spec.Width),
			Padding:      spec.Padding,
			Open:         u.Open(),
			Doc:          docs[c.Name],
		})
	}
	return out
}

// Sort orders entries by layer, direction, then discriminant.
func Sort(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Layer != b.Layer {
			return a.Layer < b.Layer
		}
		if a.Direction != b.Direction {
			return a.Direction < b.Direction
		}
		return a.Discriminant < b.Discriminant
	})
}

// Find returns the entry with the given layer, direction and name.
func Find(entries []Entry, layer string, dir Direction, name string) (Entry, bool) {
	for _, e := range entries {
		if e.Layer == layer && e.Direction == dir && e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}
