package world

import "sort"

// Inventory is a fungible item-count map. Zero counts are never stored.
type Inventory map[string]int64

func (inv Inventory) Add(item string, n int64) {
	if n == 0 {
		return
	}
	if v := inv[item] + n; v == 0 {
		delete(inv, item)
	} else {
		inv[item] = v
	}
}

// Merge adds all positions of other into inv.
func (inv Inventory) Merge(other Inventory) {
	for item, n := range other {
		inv.Add(item, n)
	}
}

func (inv Inventory) Empty() bool {
	return len(inv) == 0
}

func (inv Inventory) Clone() Inventory {
	out := make(Inventory, len(inv))
	for k, v := range inv {
		out[k] = v
	}
	return out
}

// SortedItems returns the item keys in ascending order. Any iteration
// that feeds random rolls or digests goes through this.
func (inv Inventory) SortedItems() []string {
	items := make([]string, 0, len(inv))
	for k := range inv {
		items = append(items, k)
	}
	sort.Strings(items)
	return items
}
