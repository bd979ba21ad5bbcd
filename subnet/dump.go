package subnet

import (
	"fmt"
	"io"
	"strings"
)

// Fprint writes a line-per-entry, storage-order dump of s to w: index, cell
// type and its fanin links, flattened from a recursive dump-the-tree idiom to a
// linear arena walk since a Subnet has no recursive structure of its own.
func (s *Subnet) Fprint(w io.Writer) error {
	for i := range s.entries {
		e := &s.entries[i]
		ct := s.reg.Get(e.typ)
		if _, err := fmt.Fprintf(w, "%4d: %-8s", i, ct.Symbol); err != nil {
			return err
		}
		for _, l := range e.links {
			if _, err := fmt.Fprintf(w, " %s", l); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "  ; refcnt=%d depth=%d\n", e.refcnt, e.depth); err != nil {
			return err
		}
	}
	return nil
}

// String renders the same dump as Fprint into a string, for use in test
// failure messages and debugging.
func (s *Subnet) String() string {
	var sb strings.Builder
	_ = s.Fprint(&sb)
	return sb.String()
}
