package world

import "sort"

// DamageLists is the attacker ledger: for every victim unit it records
// which units damaged it recently. The kill-fame step reads it to find
// who gets credit; entries expire after the retention window.
//
// Only unit-versus-unit damage is recorded; structures take part in
// combat but not in fame.
type DamageLists struct {
	retention uint64

	// victim -> attacker -> height of the last recorded hit.
	entries map[uint64]map[uint64]uint64
}

func NewDamageLists(retentionSteps int) *DamageLists {
	return &DamageLists{
		retention: uint64(retentionSteps),
		entries:   make(map[uint64]map[uint64]uint64),
	}
}

// AddEntry records (or refreshes) an attacker→victim credit.
func (dl *DamageLists) AddEntry(victim, attacker, height uint64) {
	m, ok := dl.entries[victim]
	if !ok {
		m = make(map[uint64]uint64)
		dl.entries[victim] = m
	}
	m[attacker] = height
}

// Attackers returns the attackers on record for the victim, ascending.
func (dl *DamageLists) Attackers(victim uint64) []uint64 {
	m := dl.entries[victim]
	out := make([]uint64, 0, len(m))
	for a := range m {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Prune drops entries whose last hit fell out of the retention window
// as of the given height.
func (dl *DamageLists) Prune(height uint64) {
	if height < dl.retention {
		return
	}
	cutoff := height - dl.retention
	for victim, m := range dl.entries {
		for attacker, h := range m {
			if h <= cutoff {
				delete(m, attacker)
			}
		}
		if len(m) == 0 {
			delete(dl.entries, victim)
		}
	}
}

// RemoveUnit removes a dead unit from the ledger entirely, both as
// victim and as attacker.
func (dl *DamageLists) RemoveUnit(id uint64) {
	delete(dl.entries, id)
	for victim, m := range dl.entries {
		delete(m, id)
		if len(m) == 0 {
			delete(dl.entries, victim)
		}
	}
}
