package service

import (
	"context"
	"fmt"
	"time"

	"nursery/internal/model"
	"nursery/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// Clock returns the current time.
type Clock func() time.Time

// plantService implements PlantService.
type plantService struct {
	plantRepo repository.PlantRepository
	now       Clock
	logger    zerolog.Logger
}

// NewPlantService creates a new plant service.
func NewPlantService(plantRepo repository.PlantRepository, logger zerolog.Logger) PlantService {
	return NewPlantServiceWithClock(plantRepo, time.Now, logger)
}

// NewPlantServiceWithClock creates a plant service that stamps writes using now.
func NewPlantServiceWithClock(plantRepo repository.PlantRepository, now Clock, logger zerolog.Logger) PlantService {
	return &plantService{
		plantRepo: plantRepo,
		now:       now,
		logger:    logger.With().Str("service", "plant").Logger(),
	}
}

// List retrieves every plant.
func (s *plantService) List(ctx context.Context) ([]model.Plant, error) {
	plants, err := s.plantRepo.GetAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list plants")
		return nil, fmt.Errorf("failed to list plants: %w", err)
	}

	s.logger.Debug().Int("count", len(plants)).Msg("retrieved plants")

	return plants, nil
}

// GetByID retrieves a single plant by ID.
func (s *plantService) GetByID(ctx context.Context, id int64) (*model.Plant, error) {
	plant, err := s.plantRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("plant_id", id).Msg("failed to get plant by ID")
		return nil, fmt.Errorf("failed to get plant: %w", err)
	}

	if plant == nil {
		return nil, model.ErrPlantNotFound
	}

	return plant, nil
}

// Create stores a new plant. A rejected insert is rolled back and reported as
// a write failure carrying the storage engine's message.
func (s *plantService) Create(ctx context.Context, in *model.PlantInput) (plant *model.Plant, err error) {
	tx, err := s.plantRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create plant: %w", err)
	}
	defer s.rollbackOnError(ctx, tx, &err)

	now := s.timestamp()
	plant = &model.Plant{
		Name:      in.Name,
		Image:     in.Image,
		Price:     in.Price,
		IsInStock: in.InStock(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err = s.plantRepo.Create(ctx, tx, plant); err != nil {
		s.logger.Warn().Err(err).Str("name", in.Name).Msg("plant insert rejected")
		return nil, model.NewWriteError(err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("name", in.Name).Msg("failed to commit transaction")
		return nil, model.NewWriteError(err)
	}

	s.logger.Info().
		Int64("plant_id", plant.ID).
		Str("name", plant.Name).
		Msg("plant created successfully")

	return plant, nil
}

// Update applies a partial update. An update that sets no fields returns the
// plant unchanged without writing.
func (s *plantService) Update(ctx context.Context, id int64, changes *model.PlantChanges) (plant *model.Plant, err error) {
	if changes == nil || changes.IsEmpty() {
		return s.GetByID(ctx, id)
	}

	tx, err := s.plantRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to update plant: %w", err)
	}
	defer s.rollbackOnError(ctx, tx, &err)

	plant, err = s.plantRepo.Update(ctx, tx, id, changes, s.timestamp())
	if err != nil {
		s.logger.Warn().Err(err).Int64("plant_id", id).Msg("plant update rejected")
		return nil, model.NewWriteError(err)
	}

	if plant == nil {
		err = model.ErrPlantNotFound
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Int64("plant_id", id).Msg("failed to commit transaction")
		return nil, model.NewWriteError(err)
	}

	s.logger.Info().
		Int64("plant_id", id).
		Strs("fields", changes.Fields()).
		Msg("plant updated successfully")

	return plant, nil
}

// Delete removes a plant.
func (s *plantService) Delete(ctx context.Context, id int64) (err error) {
	tx, err := s.plantRepo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete plant: %w", err)
	}
	defer s.rollbackOnError(ctx, tx, &err)

	deleted, err := s.plantRepo.Delete(ctx, tx, id)
	if err != nil {
		return fmt.Errorf("failed to delete plant: %w", err)
	}

	if !deleted {
		err = model.ErrPlantNotFound
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Int64("plant_id", id).Msg("failed to commit transaction")
		return fmt.Errorf("failed to delete plant: %w", err)
	}

	s.logger.Info().Int64("plant_id", id).Msg("plant deleted successfully")

	return nil
}

// rollbackOnError rolls tx back if the surrounding operation failed.
func (s *plantService) rollbackOnError(ctx context.Context, tx pgx.Tx, err *error) {
	if *err == nil {
		return
	}
	if rbErr := tx.Rollback(ctx); rbErr != nil {
		s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
	}
}

// timestamp returns the current time at the precision Postgres stores.
func (s *plantService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}
