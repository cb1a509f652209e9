package service

import (
	"context"

	"nursery/internal/model"
)

// PlantService defines operations for plant management.
type PlantService interface {
	// List retrieves every plant.
	List(ctx context.Context) ([]model.Plant, error)

	// GetByID retrieves a single plant by ID.
	GetByID(ctx context.Context, id int64) (*model.Plant, error)

	// Create stores a new plant, applying defaults and timestamps.
	Create(ctx context.Context, in *model.PlantInput) (*model.Plant, error)

	// Update applies a partial update to an existing plant.
	Update(ctx context.Context, id int64, changes *model.PlantChanges) (*model.Plant, error)

	// Delete removes a plant.
	Delete(ctx context.Context, id int64) error
}
