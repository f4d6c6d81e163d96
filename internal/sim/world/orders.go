package world

import "sort"

// OrderSide is the side of an exchange order.
type OrderSide string

const (
	// OrderBid reserves currency (quantity times price) from the owner.
	OrderBid OrderSide = "bid"
	// OrderAsk reserves item quantity inside the structure.
	OrderAsk OrderSide = "ask"
)

// Order is an open exchange order hosted by a structure.
type Order struct {
	ID          uint64
	StructureID uint64
	Account     string
	Side        OrderSide
	Item        string
	Quantity    int64
	Price       int64
}

// ReservedCoins returns the currency locked by a bid order.
func (o *Order) ReservedCoins() int64 {
	if o.Side != OrderBid {
		return 0
	}
	return o.Quantity * o.Price
}

// reservedCoinsForStructure aggregates locked currency per account over
// all open bids in the structure, in ascending account-name order.
func (w *World) reservedCoinsForStructure(structureID uint64) ([]string, map[string]int64) {
	coins := make(map[string]int64)
	for _, id := range w.sortedOrderIDs() {
		o := w.Orders[id]
		if o.StructureID != structureID {
			continue
		}
		if c := o.ReservedCoins(); c > 0 {
			coins[o.Account] += c
		}
	}
	names := make([]string, 0, len(coins))
	for n := range coins {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, coins
}

// reservedQuantitiesForStructure aggregates item quantities locked by
// open asks in the structure.
func (w *World) reservedQuantitiesForStructure(structureID uint64) Inventory {
	inv := make(Inventory)
	for _, id := range w.sortedOrderIDs() {
		o := w.Orders[id]
		if o.StructureID != structureID || o.Side != OrderAsk {
			continue
		}
		inv.Add(o.Item, o.Quantity)
	}
	return inv
}

func (w *World) deleteOrdersForStructure(structureID uint64) {
	for id, o := range w.Orders {
		if o.StructureID == structureID {
			delete(w.Orders, id)
		}
	}
}

func (w *World) sortedOrderIDs() []uint64 {
	ids := make([]uint64, 0, len(w.Orders))
	for id := range w.Orders {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
