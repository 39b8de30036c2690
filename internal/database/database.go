// Package database provides the data access layer.
package database

import (
	"context"

	"github.com/truthlens/truthlens/internal/models"
)

// Store defines the interface for data persistence.
type Store interface {
	// Analysis history
	SaveRecord(ctx context.Context, rec *models.AnalysisRecord) error
	GetRecord(ctx context.Context, id string) (*models.AnalysisRecord, error)
	ListRecords(ctx context.Context, kind models.AnalysisKind, limit, offset int) ([]*models.AnalysisRecord, error)

	// Request audit
	LogRequest(ctx context.Context, entry *models.RequestLog) error

	// Lifecycle
	Close() error
	Migrate() error
}
