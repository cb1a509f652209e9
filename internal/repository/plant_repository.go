package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"nursery/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const plantColumns = "id, name, image, price, is_in_stock, created_at, updated_at"

// plantRepository implements the PlantRepository interface using PostgreSQL.
type plantRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPlantRepository creates a new PostgreSQL-backed plant repository.
func NewPlantRepository(pool *pgxpool.Pool, logger zerolog.Logger) PlantRepository {
	return &plantRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "plant").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *plantRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// GetAll retrieves every plant ordered by ID.
func (r *plantRepository) GetAll(ctx context.Context) ([]model.Plant, error) {
	query := `SELECT ` + plantColumns + ` FROM plants ORDER BY id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query plants")
		return nil, fmt.Errorf("failed to query plants: %w", err)
	}
	defer rows.Close()

	plants := []model.Plant{}
	for rows.Next() {
		p, err := scanPlant(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan plant row")
			return nil, fmt.Errorf("failed to scan plant: %w", err)
		}
		plants = append(plants, *p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating plant rows")
		return nil, fmt.Errorf("error iterating plants: %w", err)
	}

	return plants, nil
}

// GetByID retrieves a single plant by its ID.
func (r *plantRepository) GetByID(ctx context.Context, id int64) (*model.Plant, error) {
	query := `SELECT ` + plantColumns + ` FROM plants WHERE id = $1`

	p, err := scanPlant(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Int64("plant_id", id).Msg("plant not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("plant_id", id).Msg("failed to query plant")
		return nil, fmt.Errorf("failed to query plant: %w", err)
	}

	return p, nil
}

// Create inserts a plant within the provided transaction and sets its ID.
func (r *plantRepository) Create(ctx context.Context, tx pgx.Tx, plant *model.Plant) error {
	query := `
		INSERT INTO plants (name, image, price, is_in_stock, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := tx.QueryRow(ctx, query,
		plant.Name,
		plant.Image,
		plant.Price,
		plant.IsInStock,
		plant.CreatedAt,
		plant.UpdatedAt,
	).Scan(&plant.ID)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("name", plant.Name).
			Msg("failed to create plant")
		return fmt.Errorf("failed to create plant: %w", err)
	}

	r.logger.Debug().
		Int64("plant_id", plant.ID).
		Msg("plant created successfully")

	return nil
}

// Update applies changes to a plant within the provided transaction.
func (r *plantRepository) Update(ctx context.Context, tx pgx.Tx, id int64, changes *model.PlantChanges, updatedAt time.Time) (*model.Plant, error) {
	sets, args := updateAssignments(changes)
	args = append(args, updatedAt, id)
	sets = append(sets, fmt.Sprintf("updated_at = GREATEST($%d, created_at)", len(args)-1))

	query := fmt.Sprintf(
		`UPDATE plants SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "),
		len(args),
		plantColumns,
	)

	p, err := scanPlant(tx.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Int64("plant_id", id).Msg("plant not found")
			return nil, nil
		}
		r.logger.Error().
			Err(err).
			Int64("plant_id", id).
			Strs("fields", changes.Fields()).
			Msg("failed to update plant")
		return nil, fmt.Errorf("failed to update plant: %w", err)
	}

	r.logger.Debug().
		Int64("plant_id", id).
		Strs("fields", changes.Fields()).
		Msg("plant updated successfully")

	return p, nil
}

// Delete removes a plant within the provided transaction.
func (r *plantRepository) Delete(ctx context.Context, tx pgx.Tx, id int64) (bool, error) {
	tag, err := tx.Exec(ctx, `DELETE FROM plants WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Int64("plant_id", id).Msg("failed to delete plant")
		return false, fmt.Errorf("failed to delete plant: %w", err)
	}

	if tag.RowsAffected() == 0 {
		r.logger.Debug().Int64("plant_id", id).Msg("plant not found")
		return false, nil
	}

	r.logger.Debug().Int64("plant_id", id).Msg("plant deleted successfully")

	return true, nil
}

// updateAssignments builds the SET clauses for the fields present in changes.
func updateAssignments(changes *model.PlantChanges) ([]string, []any) {
	var sets []string
	var args []any

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if changes.Name != nil {
		add("name", *changes.Name)
	}
	if changes.Image != nil {
		add("image", *changes.Image)
	}
	if changes.Price != nil {
		add("price", *changes.Price)
	}
	if changes.IsInStock != nil {
		add("is_in_stock", *changes.IsInStock)
	}

	return sets, args
}

func scanPlant(row pgx.Row) (*model.Plant, error) {
	var p model.Plant
	err := row.Scan(&p.ID, &p.Name, &p.Image, &p.Price, &p.IsInStock, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
