package model

import "math"

// Players in a match. Index 0 is always this agent.
const (
	Self     = 0
	Opponent = 1
)

// Ledger tracks both currencies for both players. Amounts only change
// through TrySpend.
type Ledger struct {
	pools [2][2]float64 // [player][currency]
}

// NewLedger returns a ledger with every pool empty.
func NewLedger() *Ledger { return &Ledger{} }

// Set overwrites one pool. Used by snapshot construction only.
func (l *Ledger) Set(player int, cur Currency, amount float64) {
	if !validPool(player, cur) {
		return
	}
	l.pools[player][cur] = amount
}

// Available returns the amount left in a pool.
func (l *Ledger) Available(player int, cur Currency) float64 {
	if !validPool(player, cur) {
		return 0
	}
	return l.pools[player][cur]
}

// TrySpend spends up to requested units of unitCost each and returns how
// many were paid for: min(requested, floor(available/unitCost)). It never
// fails; an unaffordable request spends nothing. Callers rely on this to
// ask for "as many as possible" with a large requested count.
func (l *Ledger) TrySpend(player int, cur Currency, unitCost float64, requested int) int {
	if requested <= 0 || !validPool(player, cur) {
		return 0
	}
	if unitCost <= 0 {
		return requested
	}
	avail := l.pools[player][cur]
	affordable := math.Floor(avail/unitCost + 1e-9)
	if affordable <= 0 {
		return 0
	}
	spent := requested
	if float64(spent) > affordable {
		spent = int(affordable)
	}
	left := avail - float64(spent)*unitCost
	if left < 0 {
		// float rounding on fractional pools
		left = 0
	}
	l.pools[player][cur] = left
	return spent
}

// Clone returns an independent copy.
func (l *Ledger) Clone() *Ledger {
	out := *l
	return &out
}

func validPool(player int, cur Currency) bool {
	return player >= 0 && player < 2 && cur <= Bits
}
