package world

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"sort"

	hexgrid "hexcraft.ai/internal/sim/hex"
)

// stateDigest hashes all combat-relevant world state. Two worlds that
// executed the same steps from the same seed must produce identical
// digests; replay verification and the determinism tests depend on it.
func (w *World) stateDigest() string {
	h := sha256.New()
	var tmp [8]byte

	digestWriteU64(h, &tmp, w.height)
	digestWriteI64(h, &tmp, w.cfg.Seed)

	w.digestStructures(h, &tmp)
	w.digestUnits(h, &tmp)
	w.digestAccounts(h, &tmp)
	w.digestLoot(h, &tmp)
	w.digestOngoings(h, &tmp)
	w.digestOrders(h, &tmp)
	w.digestRegions(h, &tmp)
	w.damage.digest(h, &tmp)

	return hex.EncodeToString(h.Sum(nil))
}

type hashWriter interface {
	Write(p []byte) (n int, err error)
}

func digestWriteU64(h hashWriter, tmp *[8]byte, v uint64) {
	binary.LittleEndian.PutUint64(tmp[:], v)
	h.Write(tmp[:])
}

func digestWriteI64(h hashWriter, tmp *[8]byte, v int64) {
	digestWriteU64(h, tmp, uint64(v))
}

func digestWriteInt(h hashWriter, tmp *[8]byte, v int) {
	digestWriteU64(h, tmp, uint64(int64(v)))
}

func digestWriteString(h hashWriter, tmp *[8]byte, s string) {
	digestWriteU64(h, tmp, uint64(len(s)))
	h.Write([]byte(s))
}

func digestWriteBool(h hashWriter, b bool) {
	if b {
		h.Write([]byte{1})
	} else {
		h.Write([]byte{0})
	}
}

func digestWriteCoord(h hashWriter, tmp *[8]byte, c hexgrid.Coord) {
	digestWriteInt(h, tmp, c.X)
	digestWriteInt(h, tmp, c.Y)
}

func digestWriteInventory(h hashWriter, tmp *[8]byte, inv Inventory) {
	items := inv.SortedItems()
	digestWriteU64(h, tmp, uint64(len(items)))
	for _, item := range items {
		digestWriteString(h, tmp, item)
		digestWriteI64(h, tmp, inv[item])
	}
}

func digestWriteHP(h hashWriter, tmp *[8]byte, hp HP) {
	digestWriteInt(h, tmp, hp.Armour)
	digestWriteInt(h, tmp, hp.Shield)
	digestWriteInt(h, tmp, hp.MilliArmour)
	digestWriteInt(h, tmp, hp.MilliShield)
}

func digestWriteEffects(h hashWriter, tmp *[8]byte, e Effects) {
	digestWriteInt(h, tmp, e.Speed)
	digestWriteInt(h, tmp, e.Range)
	digestWriteInt(h, tmp, e.HitChance)
	digestWriteInt(h, tmp, e.ShieldRegen)
	digestWriteBool(h, e.Mentecon)
}

func digestWriteCombatCore(h hashWriter, tmp *[8]byte, c *combatCore) {
	digestWriteHP(h, tmp, c.hp)
	digestWriteEffects(h, tmp, c.effects)
	digestWriteBool(h, c.friendlyTargets)
	if c.target != nil {
		digestWriteBool(h, true)
		digestWriteU64(h, tmp, uint64(c.target.Kind))
		digestWriteU64(h, tmp, c.target.ID)
	} else {
		digestWriteBool(h, false)
	}
}

func (w *World) digestStructures(h hashWriter, tmp *[8]byte) {
	ids := w.sortedStructureIDs()
	digestWriteU64(h, tmp, uint64(len(ids)))
	for _, id := range ids {
		s := w.Structures[id]
		digestWriteU64(h, tmp, s.ID)
		digestWriteString(h, tmp, s.Owner)
		digestWriteString(h, tmp, s.Type)
		digestWriteU64(h, tmp, uint64(s.Fac))
		digestWriteCoord(h, tmp, s.Pos)
		digestWriteCombatCore(h, tmp, &s.combatCore)

		names := make([]string, 0, len(s.AccountInventories))
		for n := range s.AccountInventories {
			names = append(names, n)
		}
		sort.Strings(names)
		digestWriteU64(h, tmp, uint64(len(names)))
		for _, n := range names {
			digestWriteString(h, tmp, n)
			digestWriteInventory(h, tmp, s.AccountInventories[n])
		}
		digestWriteInventory(h, tmp, s.ConstructionInventory)
	}
}

func (w *World) digestUnits(h hashWriter, tmp *[8]byte) {
	ids := w.sortedUnitIDs()
	digestWriteU64(h, tmp, uint64(len(ids)))
	for _, id := range ids {
		u := w.Units[id]
		digestWriteU64(h, tmp, u.ID)
		digestWriteString(h, tmp, u.Owner)
		digestWriteString(h, tmp, u.Type)
		digestWriteU64(h, tmp, uint64(u.Fac))
		digestWriteCoord(h, tmp, u.Pos)
		digestWriteU64(h, tmp, u.Inside)
		digestWriteU64(h, tmp, u.OngoingID)
		digestWriteString(h, tmp, u.Vehicle)
		digestWriteU64(h, tmp, uint64(len(u.Fitments)))
		for _, f := range u.Fitments {
			digestWriteString(h, tmp, f)
		}
		digestWriteInventory(h, tmp, u.Inventory)
		digestWriteCombatCore(h, tmp, &u.combatCore)
	}
}

func (w *World) digestAccounts(h hashWriter, tmp *[8]byte) {
	names := w.sortedAccountNames()
	digestWriteU64(h, tmp, uint64(len(names)))
	for _, n := range names {
		a := w.Accounts[n]
		digestWriteString(h, tmp, a.Name)
		digestWriteI64(h, tmp, a.Balance)
		digestWriteI64(h, tmp, a.Fame)
	}
}

func (w *World) digestLoot(h hashWriter, tmp *[8]byte) {
	coords := w.sortedLootCoords()
	digestWriteU64(h, tmp, uint64(len(coords)))
	for _, c := range coords {
		digestWriteCoord(h, tmp, c)
		digestWriteInventory(h, tmp, w.GroundLoot[c])
	}
}

func (w *World) digestOngoings(h hashWriter, tmp *[8]byte) {
	ids := w.sortedOngoingIDs()
	digestWriteU64(h, tmp, uint64(len(ids)))
	for _, id := range ids {
		op := w.Ongoings[id]
		digestWriteU64(h, tmp, op.ID)
		digestWriteString(h, tmp, string(op.Kind))
		digestWriteU64(h, tmp, op.UnitID)
		digestWriteU64(h, tmp, op.StructureID)
		digestWriteU64(h, tmp, op.RegionID)
		digestWriteString(h, tmp, op.OriginalType)
	}
}

func (w *World) digestOrders(h hashWriter, tmp *[8]byte) {
	ids := w.sortedOrderIDs()
	digestWriteU64(h, tmp, uint64(len(ids)))
	for _, id := range ids {
		o := w.Orders[id]
		digestWriteU64(h, tmp, o.ID)
		digestWriteU64(h, tmp, o.StructureID)
		digestWriteString(h, tmp, o.Account)
		digestWriteString(h, tmp, string(o.Side))
		digestWriteString(h, tmp, o.Item)
		digestWriteI64(h, tmp, o.Quantity)
		digestWriteI64(h, tmp, o.Price)
	}
}

func (w *World) digestRegions(h hashWriter, tmp *[8]byte) {
	ids := make([]uint64, 0, len(w.Regions))
	for id := range w.Regions {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	digestWriteU64(h, tmp, uint64(len(ids)))
	for _, id := range ids {
		r := w.Regions[id]
		digestWriteU64(h, tmp, r.ID)
		digestWriteU64(h, tmp, r.ProspectingUnit)
	}
}

// digest folds the damage lists into the state digest: fame credit
// depends on them, so replays must agree on their contents.
func (dl *DamageLists) digest(h hashWriter, tmp *[8]byte) {
	victims := make([]uint64, 0, len(dl.entries))
	for v := range dl.entries {
		victims = append(victims, v)
	}
	sort.Slice(victims, func(i, j int) bool { return victims[i] < victims[j] })

	digestWriteU64(h, tmp, uint64(len(victims)))
	for _, v := range victims {
		digestWriteU64(h, tmp, v)
		attackers := dl.Attackers(v)
		digestWriteU64(h, tmp, uint64(len(attackers)))
		for _, a := range attackers {
			digestWriteU64(h, tmp, a)
			digestWriteU64(h, tmp, dl.entries[v][a])
		}
	}
}
