package queries

import (
	"time"

	"github.com/felixgeelhaar/gymstore/internal/catalog/domain"
	sharedDomain "github.com/felixgeelhaar/gymstore/internal/shared/domain"
	"github.com/google/uuid"
)

// ProductDTO is the read model of a product.
type ProductDTO struct {
	ID          uuid.UUID          `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Stock       int                `json:"stock"`
	Price       sharedDomain.Money `json:"price"`
	CategoryID  *uuid.UUID         `json:"categoryId,omitempty"`
	Images      []ImageDTO         `json:"images"`
}

// ImageDTO is the read model of a product image.
type ImageDTO struct {
	ID  uuid.UUID `json:"id"`
	URL string    `json:"url"`
}

// CategoryDTO is the read model of a category.
type CategoryDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	ImageURL    string    `json:"imageUrl"`
}

// PlanDTO is the read model of a store subscription.
type PlanDTO struct {
	ID           uuid.UUID          `json:"id"`
	Name         string             `json:"name"`
	Price        sharedDomain.Money `json:"price"`
	Description  string             `json:"description"`
	ImageURL     string             `json:"imageUrl"`
	PlanType     string             `json:"planType"`
	DurationDays int                `json:"durationDays"`
	CreatedAt    time.Time          `json:"createdAt"`
}

func ToProductDTO(p *domain.Product) ProductDTO {
	images := make([]ImageDTO, 0, len(p.Images()))
	for _, img := range p.Images() {
		images = append(images, ImageDTO{ID: img.ID(), URL: img.URL()})
	}
	return ProductDTO{
		ID:          p.ID(),
		Name:        p.Name(),
		Description: p.Description(),
		Stock:       p.Stock(),
		Price:       p.Price().Round(),
		CategoryID:  p.CategoryID(),
		Images:      images,
	}
}

func ToCategoryDTO(c *domain.Category) CategoryDTO {
	return CategoryDTO{
		ID:          c.ID(),
		Name:        c.Name(),
		Slug:        c.Slug(),
		Description: c.Description(),
		ImageURL:    c.ImageURL(),
	}
}

func ToPlanDTO(p *domain.Plan) PlanDTO {
	return PlanDTO{
		ID:           p.ID(),
		Name:         p.Name(),
		Price:        p.Price().Round(),
		Description:  p.Description(),
		ImageURL:     p.ImageURL(),
		PlanType:     p.PlanType(),
		DurationDays: p.DurationDays(),
		CreatedAt:    p.CreatedAt(),
	}
}
