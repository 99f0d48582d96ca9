package domain

// Road distance and travel time for one ordered location pair.
type Estimate struct {
	DistanceKm  float64
	DurationMin float64
}

// Pairwise estimates for an ordered location set.
//
// Cell indices follow Locations (supply point at index 0). Cells need not
// be numerically symmetric: remote routing may return different values per
// direction. The diagonal is zero-valued and never queried.
type DistanceMatrix struct {
	Locations []Location
	Cells     [][]Estimate
}

func (m *DistanceMatrix) At(i, j int) Estimate { return m.Cells[i][j] }

func (m *DistanceMatrix) DistanceKm(i, j int) float64 { return m.Cells[i][j].DistanceKm }

// IndexOf returns the index of the first location with the given name,
// or -1 when the name is not part of the matrix.
func (m *DistanceMatrix) IndexOf(name string) int {
	for _, loc := range m.Locations {
		if loc.Name == name {
			return loc.Index
		}
	}
	return -1
}
