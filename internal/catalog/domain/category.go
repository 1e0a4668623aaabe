package domain

import (
	"strings"
	"time"

	sharedDomain "github.com/felixgeelhaar/gymstore/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// Category groups products.
type Category struct {
	sharedDomain.BaseEntity
	name        string
	slug        string
	description string
	imageURL    string
}

// NewCategory creates a category; the slug is derived from the name.
func NewCategory(name, description, imageURL string) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrCategoryEmptyName
	}
	return &Category{
		BaseEntity:  sharedDomain.NewBaseEntity(),
		name:        name,
		slug:        slug.Make(name),
		description: strings.TrimSpace(description),
		imageURL:    strings.TrimSpace(imageURL),
	}, nil
}

// RehydrateCategory recreates a category from persisted state.
func RehydrateCategory(id uuid.UUID, name, slugValue, description, imageURL string, createdAt, updatedAt time.Time) *Category {
	return &Category{
		BaseEntity:  sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt),
		name:        name,
		slug:        slugValue,
		description: description,
		imageURL:    imageURL,
	}
}

func (c *Category) Name() string        { return c.name }
func (c *Category) Slug() string        { return c.slug }
func (c *Category) Description() string { return c.description }
func (c *Category) ImageURL() string    { return c.imageURL }
