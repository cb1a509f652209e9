package catalog

import (
	"context"
	"errors"
	"testing"

	"nursery/internal/model"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockPlantService is a mock implementation of service.PlantService.
type MockPlantService struct {
	mock.Mock
}

func (m *MockPlantService) List(ctx context.Context) ([]model.Plant, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Plant), args.Error(1)
}

func (m *MockPlantService) GetByID(ctx context.Context, id int64) (*model.Plant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Plant), args.Error(1)
}

func (m *MockPlantService) Create(ctx context.Context, in *model.PlantInput) (*model.Plant, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Plant), args.Error(1)
}

func (m *MockPlantService) Update(ctx context.Context, id int64, changes *model.PlantChanges) (*model.Plant, error) {
	args := m.Called(ctx, id, changes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Plant), args.Error(1)
}

func (m *MockPlantService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func staticLoader(records map[string][]Record) Loader {
	return &mockLoader{
		loadFunc: func(ctx context.Context, path string) ([]Record, error) {
			recs, ok := records[path]
			if !ok {
				return nil, errors.New("no such catalogue")
			}
			return recs, nil
		},
	}
}

func record(line int, data string) Record {
	return Record{Source: "plants.jsonl.gz", Line: line, Data: []byte(data)}
}

func named(name string) any {
	return mock.MatchedBy(func(in *model.PlantInput) bool { return in.Name == name })
}

func TestImporter_Import_CreatesAndSkips(t *testing.T) {
	ctx := context.Background()
	plants := new(MockPlantService)

	loader := staticLoader(map[string][]Record{
		"a.gz": {
			record(1, `{"name":"Fern","image":"fern.jpg","price":9.99}`),
			record(2, `{"name":"Aloe","image":"aloe.jpg"}`),
			record(3, `{"name":"Rose","image":"rose.jpg","price":3}`),
			record(4, `not json`),
		},
		"b.gz": {
			record(1, `{"name":"Fern","image":"other.jpg","price":1}`),
			record(2, `{"name":"Cactus","image":"cactus.jpg","price":"cheap"}`),
			record(3, `{"name":"Basil","image":"basil.jpg","price":2.5,"is_in_stock":false}`),
		},
	})

	plants.On("List", ctx).Return([]model.Plant{{ID: 1, Name: "Rose"}}, nil)
	plants.On("Create", ctx, named("Fern")).Return(&model.Plant{ID: 2, Name: "Fern"}, nil).Once()
	plants.On("Create", ctx, mock.MatchedBy(func(in *model.PlantInput) bool {
		return in.Name == "Basil" && !in.InStock()
	})).Return(&model.Plant{ID: 3, Name: "Basil"}, nil).Once()

	importer := NewImporter(loader, plants, zerolog.Nop())

	result, err := importer.Import(ctx, []string{"a.gz", "b.gz"})

	require.NoError(t, err)
	assert.Equal(t, ImportResult{Created: 2, Skipped: 5}, result)
	plants.AssertExpectations(t)
	plants.AssertNumberOfCalls(t, "Create", 2)
}

func TestImporter_Import_WriteFailureSkipped(t *testing.T) {
	ctx := context.Background()
	plants := new(MockPlantService)

	loader := staticLoader(map[string][]Record{
		"a.gz": {
			record(1, `{"name":"Fern","image":"","price":1}`),
			record(2, `{"name":"Ivy","image":"ivy.jpg","price":1}`),
		},
	})

	pgErr := &pgconn.PgError{Code: "23514", Message: `new row for relation "plants" violates check constraint "plants_image_check"`}

	plants.On("List", ctx).Return([]model.Plant{}, nil)
	plants.On("Create", ctx, named("Fern")).Return(nil, model.NewWriteError(pgErr))
	plants.On("Create", ctx, named("Ivy")).Return(&model.Plant{ID: 1, Name: "Ivy"}, nil)

	importer := NewImporter(loader, plants, zerolog.Nop())

	result, err := importer.Import(ctx, []string{"a.gz"})

	require.NoError(t, err)
	assert.Equal(t, ImportResult{Created: 1, Skipped: 1}, result)
	plants.AssertExpectations(t)
}

func TestImporter_Import_Errors(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		paths      []string
		setupMock  func(*MockPlantService)
		wantResult ImportResult
		errMatch   string
	}{
		{
			name:  "List fails",
			paths: []string{"a.gz"},
			setupMock: func(m *MockPlantService) {
				m.On("List", ctx).Return(nil, errors.New("connection refused"))
			},
			errMatch: "failed to list existing plants",
		},
		{
			name:  "Missing catalogue aborts",
			paths: []string{"a.gz", "missing.gz"},
			setupMock: func(m *MockPlantService) {
				m.On("List", ctx).Return([]model.Plant{}, nil)
				m.On("Create", ctx, named("Fern")).Return(&model.Plant{ID: 1, Name: "Fern"}, nil)
			},
			wantResult: ImportResult{Created: 1},
			errMatch:   "failed to load catalogue missing.gz",
		},
		{
			name:  "Unexpected create error aborts",
			paths: []string{"a.gz"},
			setupMock: func(m *MockPlantService) {
				m.On("List", ctx).Return([]model.Plant{}, nil)
				m.On("Create", ctx, named("Fern")).Return(nil, errors.New("failed to begin transaction"))
			},
			errMatch: "failed to import plants.jsonl.gz line 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plants := new(MockPlantService)
			tt.setupMock(plants)

			loader := staticLoader(map[string][]Record{
				"a.gz": {record(1, `{"name":"Fern","image":"fern.jpg","price":9.99}`)},
			})
			importer := NewImporter(loader, plants, zerolog.Nop())

			result, err := importer.Import(ctx, tt.paths)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMatch)
			assert.Equal(t, tt.wantResult, result)
			plants.AssertExpectations(t)
		})
	}
}
