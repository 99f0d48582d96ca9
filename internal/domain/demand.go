package domain

// One city's requested delivery quantity.
//
// The time window is declared by the caller and carried through to output
// unenforced; the dispatch engine currently ignores it when scheduling.
// The unfulfilled portion during a run is simulation state owned by the
// dispatch engine, keyed by the demand's input index.
type Demand struct {
	City        string
	QuantityKg  float64
	WindowStart string // "HH:MM", informational
	WindowEnd   string // "HH:MM", informational
}
