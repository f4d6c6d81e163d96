package world

// OngoingKind enumerates the long-running operations the combat
// subsystem has to unwind when their owner dies.
type OngoingKind string

const (
	// OngoingProspection is a unit prospecting a world region. Killing
	// the unit cancels it and clears the region marker.
	OngoingProspection OngoingKind = "prospection"

	// OngoingBlueprintCopy and OngoingItemConstruction run inside a
	// structure; destroying it recovers the original item.
	OngoingBlueprintCopy    OngoingKind = "blueprint_copy"
	OngoingItemConstruction OngoingKind = "item_construction"
)

// Ongoing is one in-progress operation.
type Ongoing struct {
	ID   uint64
	Kind OngoingKind

	// UnitID or StructureID references the owner (exactly one is set).
	UnitID      uint64
	StructureID uint64

	// RegionID of the prospected region, for prospections.
	RegionID uint64

	// OriginalType is the recoverable input item for blueprint copies
	// and (optionally) item constructions.
	OriginalType string
}

// Region is a world region; combat only cares about the in-progress
// prospection marker.
type Region struct {
	ID              uint64
	ProspectingUnit uint64
}
