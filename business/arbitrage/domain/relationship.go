package domain

// Relationship is a directed triangular cycle A→B→C→A across three
// tickers. Rotations of the same cycle are distinct relationships: each
// has a different home asset holding the capital.
type Relationship struct {
	ID string

	A string
	B string
	C string

	AB TradeLeg
	BC TradeLeg
	CA TradeLeg
}

// Legs returns the three legs in execution order.
func (r *Relationship) Legs() [3]TradeLeg {
	return [3]TradeLeg{r.AB, r.BC, r.CA}
}

// Symbols returns the ticker symbols the relationship touches.
func (r *Relationship) Symbols() []string {
	return []string{r.AB.Symbol, r.BC.Symbol, r.CA.Symbol}
}
