package player

import "sort"

// Inventory maps item id to a positive quantity. Absent ids mean zero.
//
// Invariant: every stored quantity is >= 1.
type Inventory map[string]int

// Entry is one inventory line.
type Entry struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

// Quantity returns how many of itemID are owned.
func (inv Inventory) Quantity(itemID string) int {
	return inv[itemID]
}

// Adjust adds delta (which may be negative) to itemID and returns the new quantity.
// Entries that fall to zero or below are removed.
//
// Precondition: inv must be non-nil when delta is positive.
// Postcondition: inv[itemID] is absent or >= 1.
func (inv Inventory) Adjust(itemID string, delta int) int {
	next := inv[itemID] + delta
	if next <= 0 {
		delete(inv, itemID)
		return 0
	}
	inv[itemID] = next
	return next
}

// Entries returns the inventory sorted by item id.
func (inv Inventory) Entries() []Entry {
	out := make([]Entry, 0, len(inv))
	for id, qty := range inv {
		if qty > 0 {
			out = append(out, Entry{ItemID: id, Quantity: qty})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemID < out[j].ItemID })
	return out
}

// Scrub removes non-positive entries.
func (inv Inventory) Scrub() {
	for id, qty := range inv {
		if qty <= 0 {
			delete(inv, id)
		}
	}
}

// Clone returns an independent copy.
func (inv Inventory) Clone() Inventory {
	out := make(Inventory, len(inv))
	for id, qty := range inv {
		out[id] = qty
	}
	return out
}
