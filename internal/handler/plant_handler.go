package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"nursery/internal/model"
	"nursery/internal/service"

	"github.com/rs/zerolog"
)

// maxBodyBytes caps request bodies accepted by the plant endpoints.
const maxBodyBytes = 1 << 20

// PlantHandler handles plant-related HTTP requests.
type PlantHandler struct {
	service service.PlantService
	logger  zerolog.Logger
}

// NewPlantHandler creates a new plant handler.
func NewPlantHandler(service service.PlantService, logger zerolog.Logger) *PlantHandler {
	return &PlantHandler{
		service: service,
		logger:  logger.With().Str("handler", "plant").Logger(),
	}
}

// List handles GET /plants requests.
func (h *PlantHandler) List(w http.ResponseWriter, r *http.Request) {
	plants, err := h.service.List(r.Context())
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.SerializePlants(plants))
}

// Get handles GET /plants/{id} requests.
func (h *PlantHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := plantID(r)
	if !ok {
		writeDomainError(w, model.ErrPlantNotFound, h.logger)
		return
	}

	plant, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, plant.Serialize())
}

// Create handles POST /plants requests.
func (h *PlantHandler) Create(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), h.logger)
		return
	}

	in, err := model.ParsePlantInput(body)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	plant, err := h.service.Create(r.Context(), in)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, plant.Serialize())
}

// Update handles PATCH /plants/{id} requests.
func (h *PlantHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := plantID(r)
	if !ok {
		writeDomainError(w, model.ErrPlantNotFound, h.logger)
		return
	}

	body, err := readBody(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), h.logger)
		return
	}

	changes, err := model.ParsePlantChanges(body)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	plant, err := h.service.Update(r.Context(), id, changes)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, plant.Serialize())
}

// Delete handles DELETE /plants/{id} requests.
func (h *PlantHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := plantID(r)
	if !ok {
		writeDomainError(w, model.ErrPlantNotFound, h.logger)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// plantID extracts the {id} path segment. Only positive integers name a plant.
func plantID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, errors.New("request body too large")
		}
		return nil, errors.New("failed to read request body")
	}
	return body, nil
}
