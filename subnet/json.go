package subnet

import "encoding/json"

// jsonLink mirrors Link with exported fields for encoding/json.
type jsonLink struct {
	Idx uint32 `json:"idx"`
	Out uint8  `json:"out,omitempty"`
	Inv bool   `json:"inv,omitempty"`
}

// jsonEntry is one arena slot's wire representation.
type jsonEntry struct {
	Type    string     `json:"type"`
	Links   []jsonLink `json:"links,omitempty"`
	Refcnt  int32      `json:"refcnt"`
	Depth   int32      `json:"depth"`
}

// jsonSubnet is Subnet's wire representation: a MarshalJSON-based
// structural dump of an otherwise
// unexported node tree).
type jsonSubnet struct {
	NumIn   int         `json:"numIn"`
	NumOut  int         `json:"numOut"`
	Entries []jsonEntry `json:"entries"`
}

// MarshalJSON renders s as a flat, storage-order list of entries: a
// structural dump suitable for golden-file tests and cross-process
// inspection, not meant to be a stable wire protocol.
func (s *Subnet) MarshalJSON() ([]byte, error) {
	out := jsonSubnet{
		NumIn:   s.nIn,
		NumOut:  s.nOut,
		Entries: make([]jsonEntry, len(s.entries)),
	}
	for i := range s.entries {
		e := &s.entries[i]
		links := make([]jsonLink, len(e.links))
		for j, l := range e.links {
			links[j] = jsonLink{Idx: l.Idx, Out: l.Out, Inv: l.Inv}
		}
		out.Entries[i] = jsonEntry{
			Type:   s.reg.Get(e.typ).Name,
			Links:  links,
			Refcnt: e.refcnt,
			Depth:  e.depth,
		}
	}
	return json.Marshal(out)
}
