package domain

import "testing"

func TestPlanVehicleIDsAscending(t *testing.T) {
	p := Plan{3: nil, 1: nil, 2: nil}

	ids := p.VehicleIDs()
	want := []int{1, 2, 3}
	if len(ids) != len(want) {
		t.Fatalf("ids = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("ids = %v, want %v", ids, want)
		}
	}
}

func TestMatrixIndexOf(t *testing.T) {
	m := &DistanceMatrix{
		Locations: []Location{
			{Index: 0, Name: "Depot"},
			{Index: 1, Name: "A"},
		},
	}

	if got := m.IndexOf("A"); got != 1 {
		t.Fatalf("IndexOf(A) = %d, want 1", got)
	}
	if got := m.IndexOf("missing"); got != -1 {
		t.Fatalf("IndexOf(missing) = %d, want -1", got)
	}
}
