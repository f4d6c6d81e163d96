package world

// Account is a player account. Only the fields combat touches live
// here: the currency balance (order refunds) and fame (kill rewards).
type Account struct {
	Name    string
	Balance int64
	Fame    int64
}
