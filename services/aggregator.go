package services

import "deeplynx-stats/models"

// Aggregate reduces a batch of LotRecords into summary statistics. For each
// metric it sums only the present values and counts them; the average is
// defined only when at least one value was seen. The reduction is commutative
// over input order, so callers are free to reorder the batch.
func Aggregate(lots []*models.LotRecord) *models.AggregateStats {
	stats := &models.AggregateStats{
		TotalLots: len(lots),
	}

	for _, lot := range lots {
		if lot.Etc != nil {
			stats.Etc.Add(*lot.Etc)
		}
		if lot.B != nil {
			stats.B.Add(*lot.B)
		}
		if lot.EuC != nil {
			stats.EuC.Add(*lot.EuC)
		}
		if lot.HasAnyValue() {
			stats.LotsWithValues++
		}
	}

	return stats
}
