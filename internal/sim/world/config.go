package world

// Config carries the tunable per-world parameters. Everything here is
// consensus-relevant: all participants must run with identical values,
// and they are taken literally: a configured 0% drop chance means no
// drops. Defaults live in the tuning loader, not here.
type Config struct {
	ID   string
	Seed int64

	// Drop chances in percent.
	FitmentDropPercent            int
	StructureInventoryDropPercent int

	// Fame/attacker-ledger retention in steps, and the fame awarded to
	// each attacker of a killed unit.
	FameRetentionSteps int
	KillFame           int64

	// RegionSize is the edge length of the region tiling.
	RegionSize int
}
