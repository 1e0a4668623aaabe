package persistence

import (
	"database/sql"
	"time"

	"github.com/felixgeelhaar/gymstore/internal/catalog/domain"
	sharedDomain "github.com/felixgeelhaar/gymstore/internal/shared/domain"
	"github.com/google/uuid"
)

func nullableUUID(id *uuid.UUID) sql.NullString {
	if id == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: id.String(), Valid: true}
}

func parseNullableUUID(s sql.NullString) (*uuid.UUID, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	id, err := uuid.Parse(s.String)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func moneyParam(m sharedDomain.Money) string {
	return m.Decimal().String()
}

var timeNow = func() time.Time { return time.Now().UTC() }

// productFields is a scanned products row.
type productFields struct {
	id                   uuid.UUID
	name, description    string
	stock                int
	price                sharedDomain.Money
	categoryID           *uuid.UUID
	createdAt, updatedAt time.Time
}

func (f productFields) toDomain(images []*domain.Image) *domain.Product {
	return domain.RehydrateProduct(f.id, f.name, f.description, f.stock, f.price, f.categoryID, images, f.createdAt, f.updatedAt)
}

// imageRow represents a database row for product images.
type imageRow struct {
	ID        uuid.UUID
	ProductID uuid.UUID
	URL       string
	Position  int
	CreatedAt time.Time
}

// categoryRow represents a database row for categories.
type categoryRow struct {
	ID          uuid.UUID
	Name        string
	Slug        string
	Description string
	ImageURL    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// planRow represents a database row for store subscriptions.
type planRow struct {
	ID           uuid.UUID
	Name         string
	Description  string
	ImageURL     string
	PlanType     string
	DurationDays int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
