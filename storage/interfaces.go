package storage

import "deeplynx-stats/models"

// LotDetailWriter is the interface for persisting per-lot metric rows.
type LotDetailWriter interface {
	WriteLots(details []models.LotDetail) error
	Close() error
}

// ReportWriter is the interface for persisting a composed report.
type ReportWriter interface {
	Write(report *models.Report) error
	Close() error
}
