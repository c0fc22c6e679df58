package services

import (
	"testing"

	"deeplynx-stats/models"
)

func fptr(v float64) *float64 { return &v }

func TestAggregateSparseMetrics(t *testing.T) {
	lots := []*models.LotRecord{
		{LotID: "L1", Etc: fptr(2), EuC: fptr(4)},
		{LotID: "L2", Etc: fptr(4), B: fptr(10)},
		{LotID: "L3"},
	}

	stats := Aggregate(lots)

	if stats.TotalLots != 3 {
		t.Errorf("TotalLots: got %d, want 3", stats.TotalLots)
	}
	if stats.LotsWithValues != 2 {
		t.Errorf("LotsWithValues: got %d, want 2", stats.LotsWithValues)
	}
	if avg := stats.Etc.Average(); avg == nil || *avg != 3 {
		t.Errorf("Etc average: got %v, want 3", avg)
	}
	if avg := stats.B.Average(); avg == nil || *avg != 10 {
		t.Errorf("B average: got %v, want 10", avg)
	}
	if avg := stats.EuC.Average(); avg == nil || *avg != 4 {
		t.Errorf("EuC average: got %v, want 4", avg)
	}
}

func TestAggregateAllAbsentMetricIsNil(t *testing.T) {
	lots := []*models.LotRecord{
		{LotID: "L1", Etc: fptr(1)},
		{LotID: "L2", Etc: fptr(3)},
	}

	stats := Aggregate(lots)

	if avg := stats.B.Average(); avg != nil {
		t.Errorf("B average: got %v, want nil for all-absent metric", *avg)
	}
	if avg := stats.EuC.Average(); avg != nil {
		t.Errorf("EuC average: got %v, want nil for all-absent metric", *avg)
	}
}

func TestAggregateWithValuesNeverExceedsTotal(t *testing.T) {
	lots := []*models.LotRecord{
		{LotID: "L1", Etc: fptr(1)},
		{LotID: "L2"},
		{LotID: "L3", B: fptr(2), EuC: fptr(3)},
	}

	stats := Aggregate(lots)
	if stats.LotsWithValues > stats.TotalLots {
		t.Errorf("LotsWithValues %d > TotalLots %d", stats.LotsWithValues, stats.TotalLots)
	}
}

func TestAggregateEmptyInput(t *testing.T) {
	stats := Aggregate(nil)

	if stats.TotalLots != 0 || stats.LotsWithValues != 0 {
		t.Errorf("empty input: got totals %d/%d, want 0/0", stats.TotalLots, stats.LotsWithValues)
	}
	if stats.Etc.Average() != nil || stats.B.Average() != nil || stats.EuC.Average() != nil {
		t.Error("empty input: averages should all be nil")
	}
}

func TestAggregateOrderIndependent(t *testing.T) {
	a := []*models.LotRecord{
		{LotID: "L1", Etc: fptr(2)},
		{LotID: "L2", Etc: fptr(4)},
	}
	b := []*models.LotRecord{a[1], a[0]}

	avgA := Aggregate(a).Etc.Average()
	avgB := Aggregate(b).Etc.Average()
	if avgA == nil || avgB == nil || *avgA != *avgB {
		t.Errorf("order changed the result: %v vs %v", avgA, avgB)
	}
}
