package catalog

import (
	"context"
	"fmt"

	"nursery/internal/model"
	"nursery/internal/service"

	"github.com/rs/zerolog"
)

// ImportResult summarises an import run.
type ImportResult struct {
	Created int
	Skipped int
}

// Importer creates plants from catalogue files through the plant service, so
// imported plants get the same defaults and timestamps as API-created ones.
type Importer struct {
	loader Loader
	plants service.PlantService
	logger zerolog.Logger
}

// NewImporter creates a new catalogue importer.
func NewImporter(loader Loader, plants service.PlantService, logger zerolog.Logger) *Importer {
	return &Importer{
		loader: loader,
		plants: plants,
		logger: logger.With().Str("component", "catalog-importer").Logger(),
	}
}

// Import loads every file in paths and creates the plants they list. Invalid
// entries, names already stored, and entries the store rejects are skipped.
// A file that cannot be read aborts the import.
func (i *Importer) Import(ctx context.Context, paths []string) (ImportResult, error) {
	var result ImportResult

	existing, err := i.plants.List(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to list existing plants: %w", err)
	}

	seen := make(map[string]struct{}, len(existing))
	for _, p := range existing {
		seen[p.Name] = struct{}{}
	}

	for _, path := range paths {
		records, err := i.loader.Load(ctx, path)
		if err != nil {
			return result, fmt.Errorf("failed to load catalogue %s: %w", path, err)
		}

		for _, rec := range records {
			created, err := i.importRecord(ctx, rec, seen)
			if err != nil {
				return result, err
			}
			if created {
				result.Created++
			} else {
				result.Skipped++
			}
		}
	}

	i.logger.Info().
		Int("files", len(paths)).
		Int("created", result.Created).
		Int("skipped", result.Skipped).
		Msg("catalogue import finished")

	return result, nil
}

func (i *Importer) importRecord(ctx context.Context, rec Record, seen map[string]struct{}) (bool, error) {
	in, err := model.ParsePlantInput(rec.Data)
	if err != nil {
		i.logger.Warn().
			Err(err).
			Str("source", rec.Source).
			Int("line", rec.Line).
			Msg("skipping invalid catalogue entry")
		return false, nil
	}

	if _, dup := seen[in.Name]; dup {
		i.logger.Debug().
			Str("name", in.Name).
			Str("source", rec.Source).
			Int("line", rec.Line).
			Msg("skipping duplicate plant")
		return false, nil
	}

	if _, err := i.plants.Create(ctx, in); err != nil {
		if model.ErrorCode(err) != model.ErrCodeWriteFailed {
			return false, fmt.Errorf("failed to import %s line %d: %w", rec.Source, rec.Line, err)
		}
		i.logger.Warn().
			Err(err).
			Str("name", in.Name).
			Str("source", rec.Source).
			Int("line", rec.Line).
			Msg("catalogue entry rejected by store")
		return false, nil
	}

	seen[in.Name] = struct{}{}
	return true, nil
}
