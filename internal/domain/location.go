package domain

// A resolved planning location.
//
// Index is the stable identity within one planning run: it is the position
// in the resolved location list (supply point first, then demand cities in
// input order). Name is the display label carried into legs; two distinct
// places sharing a name would collide on Name but never on Index.
type Location struct {
	Index  int
	Name   string
	Coords Coordinates
}
