package world

import (
	"fmt"
	"sort"

	"hexcraft.ai/internal/sim/hex"
)

// World is a single-threaded authoritative simulation. All state must
// be accessed only from the loop driving Step; there is no locking and
// no concurrency within a step.
type World struct {
	cfg Config
	Map WorldMap

	height uint64

	Units      map[uint64]*Unit
	Structures map[uint64]*Structure
	Accounts   map[string]*Account
	GroundLoot map[hex.Coord]Inventory
	Ongoings   map[uint64]*Ongoing
	Orders     map[uint64]*Order
	Regions    map[uint64]*Region

	damage *DamageLists

	nextUnitID      uint64
	nextStructureID uint64
	nextOngoingID   uint64
	nextOrderID     uint64

	// Per-step accumulators, reset at the start of every step.
	stepDrops []LootDrop
}

// New creates an empty world with the given configuration. The config
// is applied as-is; callers fill in defaults before constructing.
func New(cfg Config) *World {
	return &World{
		cfg:        cfg,
		Map:        WorldMap{RegionSize: cfg.RegionSize},
		Units:      make(map[uint64]*Unit),
		Structures: make(map[uint64]*Structure),
		Accounts:   make(map[string]*Account),
		GroundLoot: make(map[hex.Coord]Inventory),
		Ongoings:   make(map[uint64]*Ongoing),
		Orders:     make(map[uint64]*Order),
		Regions:    make(map[uint64]*Region),
		damage:     NewDamageLists(cfg.FameRetentionSteps),
	}
}

func (w *World) Config() Config            { return w.cfg }
func (w *World) Height() uint64            { return w.height }
func (w *World) DamageLists() *DamageLists { return w.damage }

// Account returns the named account, creating it with a zero balance
// if it does not exist yet.
func (w *World) Account(name string) *Account {
	a, ok := w.Accounts[name]
	if !ok {
		a = &Account{Name: name}
		w.Accounts[name] = a
	}
	return a
}

// AddUnit creates a unit and assigns it the next id.
func (w *World) AddUnit(owner string, fac Faction, pos hex.Coord, typ string, cd CombatData, regen RegenData, hp HP) *Unit {
	w.nextUnitID++
	u := &Unit{
		combatCore: newCombatCore(cd, regen, hp),
		ID:         w.nextUnitID,
		Owner:      owner,
		Fac:        fac,
		Pos:        pos,
		Type:       typ,
		Inventory:  make(Inventory),
	}
	w.Units[u.ID] = u
	w.Account(owner)
	return u
}

// AddStructure creates a structure and assigns it the next id.
func (w *World) AddStructure(owner string, fac Faction, pos hex.Coord, typ string, cd CombatData, regen RegenData, hp HP) *Structure {
	w.nextStructureID++
	s := &Structure{
		combatCore:            newCombatCore(cd, regen, hp),
		ID:                    w.nextStructureID,
		Owner:                 owner,
		Fac:                   fac,
		Pos:                   pos,
		Type:                  typ,
		AccountInventories:    make(map[string]Inventory),
		ConstructionInventory: make(Inventory),
	}
	w.Structures[s.ID] = s
	if owner != "" {
		w.Account(owner)
	}
	return s
}

// AddOngoing creates an ongoing operation and links it to its owner.
func (w *World) AddOngoing(op Ongoing) *Ongoing {
	w.nextOngoingID++
	op.ID = w.nextOngoingID
	cp := op
	w.Ongoings[cp.ID] = &cp
	if cp.UnitID != 0 {
		u, ok := w.Units[cp.UnitID]
		if !ok {
			panic(fmt.Sprintf("ongoing references missing unit %d", cp.UnitID))
		}
		u.OngoingID = cp.ID
	}
	return &cp
}

// AddOrder creates an open exchange order.
func (w *World) AddOrder(o Order) *Order {
	w.nextOrderID++
	o.ID = w.nextOrderID
	cp := o
	w.Orders[cp.ID] = &cp
	w.Account(cp.Account)
	return &cp
}

// Region returns the region with the given id, creating it on first
// access.
func (w *World) Region(id uint64) *Region {
	r, ok := w.Regions[id]
	if !ok {
		r = &Region{ID: id}
		w.Regions[id] = r
	}
	return r
}

func (w *World) sortedUnitIDs() []uint64 {
	ids := make([]uint64, 0, len(w.Units))
	for id := range w.Units {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (w *World) sortedStructureIDs() []uint64 {
	ids := make([]uint64, 0, len(w.Structures))
	for id := range w.Structures {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (w *World) sortedAccountNames() []string {
	names := make([]string, 0, len(w.Accounts))
	for n := range w.Accounts {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (w *World) sortedOngoingIDs() []uint64 {
	ids := make([]uint64, 0, len(w.Ongoings))
	for id := range w.Ongoings {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (w *World) sortedLootCoords() []hex.Coord {
	coords := make([]hex.Coord, 0, len(w.GroundLoot))
	for c := range w.GroundLoot {
		coords = append(coords, c)
	}
	sort.Slice(coords, func(i, j int) bool { return coords[i].Less(coords[j]) })
	return coords
}
