package repository

import (
	"context"
	"time"

	"nursery/internal/model"

	"github.com/jackc/pgx/v5"
)

// PlantRepository defines the interface for plant data access operations.
type PlantRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// GetAll retrieves every plant ordered by ID.
	GetAll(ctx context.Context) ([]model.Plant, error)

	// GetByID retrieves a single plant by its ID.
	// Returns nil without error if the plant does not exist.
	GetByID(ctx context.Context, id int64) (*model.Plant, error)

	// Create inserts a plant within the provided transaction and sets its ID.
	Create(ctx context.Context, tx pgx.Tx, plant *model.Plant) error

	// Update applies changes to a plant within the provided transaction and
	// returns the stored row. Returns nil without error if the plant does not exist.
	Update(ctx context.Context, tx pgx.Tx, id int64, changes *model.PlantChanges, updatedAt time.Time) (*model.Plant, error)

	// Delete removes a plant within the provided transaction.
	// Reports false if no plant had that ID.
	Delete(ctx context.Context, tx pgx.Tx, id int64) (bool, error)
}
