package domain

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	sharedDomain "github.com/felixgeelhaar/gymstore/internal/shared/domain"
	"github.com/google/uuid"
)

// MaxQuantity bounds a single stock movement to what the stock column holds.
const MaxQuantity = math.MaxInt32

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrProductEmptyName  = errors.New("product name cannot be empty")
	ErrNegativeStock     = errors.New("stock cannot be negative")
	ErrNegativePrice     = errors.New("price cannot be negative")
	ErrInvalidQuantity   = errors.New("quantity must be between 1 and 2147483647")
	ErrNotEnoughStock    = errors.New("not enough stock")
	ErrImageEmptyURL     = errors.New("image url cannot be empty")
	ErrCategoryNotFound  = errors.New("category not found")
	ErrCategoryEmptyName = errors.New("category name cannot be empty")
	ErrCategoryExists    = errors.New("category already exists")
)

// InsufficientStockError reports the stock left when a reservation could
// not be satisfied. It matches ErrNotEnoughStock with errors.Is.
type InsufficientStockError struct {
	ProductID   uuid.UUID
	ProductName string
	Requested   int
	Remaining   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Only left %d unit(s) of %s", e.Remaining, e.ProductName)
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrNotEnoughStock
}

// Product is a sellable catalog item with a stock count.
type Product struct {
	sharedDomain.BaseAggregateRoot
	name        string
	description string
	stock       int
	price       sharedDomain.Money
	categoryID  *uuid.UUID
	images      []*Image
}

// NewProduct creates a product.
func NewProduct(name, description string, stock int, price sharedDomain.Money, categoryID *uuid.UUID) (*Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrProductEmptyName
	}
	if stock < 0 {
		return nil, ErrNegativeStock
	}
	if stock > MaxQuantity {
		return nil, ErrInvalidQuantity
	}
	if price.IsNegative() {
		return nil, ErrNegativePrice
	}

	p := &Product{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(),
		name:              name,
		description:       strings.TrimSpace(description),
		stock:             stock,
		price:             price,
		categoryID:        categoryID,
	}
	p.AddDomainEvent(NewProductCreated(p))
	return p, nil
}

func (p *Product) Name() string              { return p.name }
func (p *Product) Description() string       { return p.description }
func (p *Product) Stock() int                { return p.stock }
func (p *Product) Price() sharedDomain.Money { return p.price }
func (p *Product) CategoryID() *uuid.UUID    { return p.categoryID }
func (p *Product) Images() []*Image          { return p.images }

// Subtotal is price times quantity, unrounded.
func (p *Product) Subtotal(quantity int) sharedDomain.Money {
	return p.price.Times(quantity)
}

// CanReserve reports whether quantity units are in stock.
func (p *Product) CanReserve(quantity int) bool {
	return quantity > 0 && p.stock >= quantity
}

// Reserved reflects a stock decrement already applied in storage.
func (p *Product) Reserved(quantity int) {
	p.stock -= quantity
	p.Touch()
}

// Restock adds units to the stock.
func (p *Product) Restock(quantity int) error {
	if !ValidQuantity(quantity) || p.stock > MaxQuantity-quantity {
		return ErrInvalidQuantity
	}
	p.stock += quantity
	p.Touch()
	p.AddDomainEvent(NewProductRestocked(p, quantity))
	return nil
}

// AddImage attaches an image at the next position.
func (p *Product) AddImage(url string) (*Image, error) {
	img, err := NewImage(p.ID(), url, len(p.images))
	if err != nil {
		return nil, err
	}
	p.images = append(p.images, img)
	p.Touch()
	return img, nil
}

// RehydrateProduct recreates a product from persisted state without events.
func RehydrateProduct(
	id uuid.UUID,
	name, description string,
	stock int,
	price sharedDomain.Money,
	categoryID *uuid.UUID,
	images []*Image,
	createdAt, updatedAt time.Time,
) *Product {
	entity := sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt)
	return &Product{
		BaseAggregateRoot: sharedDomain.RehydrateBaseAggregateRoot(entity, 0),
		name:              name,
		description:       description,
		stock:             stock,
		price:             price,
		categoryID:        categoryID,
		images:            images,
	}
}

// Image is a product picture. The file itself lives in external storage.
type Image struct {
	id        uuid.UUID
	productID uuid.UUID
	url       string
	position  int
	createdAt time.Time
}

// NewImage creates an image for a product.
func NewImage(productID uuid.UUID, url string, position int) (*Image, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, ErrImageEmptyURL
	}
	return &Image{
		id:        uuid.New(),
		productID: productID,
		url:       url,
		position:  position,
		createdAt: time.Now().UTC(),
	}, nil
}

// RehydrateImage recreates an image from persisted state.
func RehydrateImage(id, productID uuid.UUID, url string, position int, createdAt time.Time) *Image {
	return &Image{id: id, productID: productID, url: url, position: position, createdAt: createdAt}
}

func (i *Image) ID() uuid.UUID        { return i.id }
func (i *Image) ProductID() uuid.UUID { return i.productID }
func (i *Image) URL() string          { return i.url }
func (i *Image) Position() int        { return i.position }
func (i *Image) CreatedAt() time.Time { return i.createdAt }

// ValidQuantity reports whether quantity is a usable stock movement.
func ValidQuantity(quantity int) bool {
	return quantity > 0 && quantity <= MaxQuantity
}
