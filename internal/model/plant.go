package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"sort"
	"time"
)

// TimestampFormat is the ISO-8601 layout used for timestamps on the wire.
const TimestampFormat = time.RFC3339Nano

// Plant represents a nursery product listing.
type Plant struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	Image     string    `db:"image"`
	Price     float64   `db:"price"`
	IsInStock bool      `db:"is_in_stock"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// PlantView is the external representation of a Plant.
type PlantView struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Image     string  `json:"image"`
	Price     float64 `json:"price"`
	IsInStock bool    `json:"is_in_stock"`
	CreatedAt *string `json:"created_at"`
	UpdatedAt *string `json:"updated_at"`
}

// Serialize converts the plant to its wire representation. Unset timestamps
// are rendered as null.
func (p *Plant) Serialize() PlantView {
	return PlantView{
		ID:        p.ID,
		Name:      p.Name,
		Image:     p.Image,
		Price:     p.Price,
		IsInStock: p.IsInStock,
		CreatedAt: formatTimestamp(p.CreatedAt),
		UpdatedAt: formatTimestamp(p.UpdatedAt),
	}
}

// SerializePlants converts a list of plants, never returning nil.
func SerializePlants(plants []Plant) []PlantView {
	views := make([]PlantView, 0, len(plants))
	for i := range plants {
		views = append(views, plants[i].Serialize())
	}
	return views
}

func formatTimestamp(t time.Time) *string {
	if t.IsZero() {
		return nil
	}
	s := t.UTC().Format(TimestampFormat)
	return &s
}

// PlantInput carries the fields accepted when creating a plant.
type PlantInput struct {
	Name      string
	Image     string
	Price     float64
	IsInStock *bool
}

// InStock returns the requested stock flag, defaulting to true.
func (in *PlantInput) InStock() bool {
	if in.IsInStock == nil {
		return true
	}
	return *in.IsInStock
}

// PlantChanges carries a partial update. Nil fields are left untouched.
type PlantChanges struct {
	Name      *string
	Image     *string
	Price     *float64
	IsInStock *bool
}

// IsEmpty reports whether the update changes nothing.
func (c *PlantChanges) IsEmpty() bool {
	return c.Name == nil && c.Image == nil && c.Price == nil && c.IsInStock == nil
}

// Fields returns the names of the fields set on c, sorted.
func (c *PlantChanges) Fields() []string {
	var fields []string
	if c.Name != nil {
		fields = append(fields, "name")
	}
	if c.Image != nil {
		fields = append(fields, "image")
	}
	if c.Price != nil {
		fields = append(fields, "price")
	}
	if c.IsInStock != nil {
		fields = append(fields, "is_in_stock")
	}
	sort.Strings(fields)
	return fields
}

// fieldSetter decodes one JSON value onto a PlantChanges field.
type fieldSetter func(c *PlantChanges, raw json.RawMessage) error

// updatableFields lists the client-settable plant attributes. id, created_at
// and updated_at are managed by the store and are not settable.
var updatableFields = map[string]fieldSetter{
	"name": func(c *PlantChanges, raw json.RawMessage) error {
		v, err := decodeRequired[string]("name", raw)
		c.Name = v
		return err
	},
	"image": func(c *PlantChanges, raw json.RawMessage) error {
		v, err := decodeRequired[string]("image", raw)
		c.Image = v
		return err
	},
	"price": func(c *PlantChanges, raw json.RawMessage) error {
		v, err := decodeRequired[float64]("price", raw)
		c.Price = v
		return err
	},
	"is_in_stock": func(c *PlantChanges, raw json.RawMessage) error {
		v, err := decodeRequired[bool]("is_in_stock", raw)
		c.IsInStock = v
		return err
	},
}

// requiredFields must be present in a create request.
var requiredFields = []string{"name", "image", "price"}

// ParsePlantInput decodes a create request body. Only the presence of name,
// image and price is checked; values must still fit their column types.
func ParsePlantInput(body []byte) (*PlantInput, error) {
	fields, err := decodeObject(body)
	if err != nil {
		return nil, err
	}
	return PlantInputFromFields(fields)
}

// PlantInputFromFields builds a PlantInput from an already split JSON object.
func PlantInputFromFields(fields map[string]json.RawMessage) (*PlantInput, error) {
	if fields == nil {
		return nil, ErrMissingFields
	}
	for _, key := range requiredFields {
		if _, ok := fields[key]; !ok {
			return nil, ErrMissingFields
		}
	}

	var changes PlantChanges
	for _, key := range requiredFields {
		if err := updatableFields[key](&changes, fields[key]); err != nil {
			return nil, err
		}
	}

	in := &PlantInput{
		Name:  *changes.Name,
		Image: *changes.Image,
		Price: *changes.Price,
	}

	if raw, ok := fields["is_in_stock"]; ok && !isNull(raw) {
		if err := updatableFields["is_in_stock"](&changes, raw); err != nil {
			return nil, err
		}
		in.IsInStock = changes.IsInStock
	}

	return in, nil
}

// ParsePlantChanges decodes a partial update body. Keys that do not name an
// updatable attribute are ignored.
func ParsePlantChanges(body []byte) (*PlantChanges, error) {
	fields, err := decodeObject(body)
	if err != nil {
		return nil, err
	}
	if fields == nil {
		return nil, ErrInvalidJSON
	}

	var changes PlantChanges
	for key, raw := range fields {
		set, ok := updatableFields[key]
		if !ok {
			continue
		}
		if err := set(&changes, raw); err != nil {
			return nil, err
		}
	}
	return &changes, nil
}

// decodeObject splits a JSON object into its members. A body that is valid
// JSON but not an object yields a nil map.
func decodeObject(body []byte) (map[string]json.RawMessage, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, nil
		}
		return nil, ErrInvalidJSON
	}
	return fields, nil
}

func decodeRequired[T any](field string, raw json.RawMessage) (*T, error) {
	if isNull(raw) {
		return nil, NewInvalidFieldError(field, errors.New("must not be null"))
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, NewInvalidFieldError(field, err)
	}
	return &v, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
