package track

import "github.com/unklstewy/adsb-viewer/pkg/adsb"

// Order is the display order of aircraft: most recently first-seen first.
// An identifier is inserted at the front the first time it is touched and
// never moves relative to the others afterwards, so index 0 always holds the
// newest aircraft.
type Order struct {
	// ids holds identifiers oldest first; display index i is ids[len-1-i].
	ids []adsb.IcaoID

	// seq maps an identifier to its position in ids.
	seq map[adsb.IcaoID]int
}

// NewOrder creates an empty order.
func NewOrder() *Order {
	return &Order{seq: make(map[adsb.IcaoID]int)}
}

// Touch records a contact with id and returns its display index. wasNew is
// true iff id was not present before, in which case index is 0 and every
// other identifier moved down one row.
func (o *Order) Touch(id adsb.IcaoID) (index int, wasNew bool) {
	if s, ok := o.seq[id]; ok {
		return len(o.ids) - 1 - s, false
	}
	o.seq[id] = len(o.ids)
	o.ids = append(o.ids, id)
	return 0, true
}

// Len returns the number of identifiers in the order.
func (o *Order) Len() int {
	return len(o.ids)
}

// At returns the identifier shown at display index i.
func (o *Order) At(i int) adsb.IcaoID {
	return o.ids[len(o.ids)-1-i]
}

// IDs returns the identifiers in display order.
func (o *Order) IDs() []adsb.IcaoID {
	out := make([]adsb.IcaoID, len(o.ids))
	for i := range out {
		out[i] = o.At(i)
	}
	return out
}
