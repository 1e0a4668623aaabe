package api

import (
	"net/http"
	"strconv"

	catalogCommands "github.com/felixgeelhaar/gymstore/internal/catalog/application/commands"
	catalogQueries "github.com/felixgeelhaar/gymstore/internal/catalog/application/queries"
	sharedDomain "github.com/felixgeelhaar/gymstore/internal/shared/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type createProductRequest struct {
	Name        string             `json:"name" binding:"required"`
	Description string             `json:"description"`
	Stock       int                `json:"stock" binding:"gte=0"`
	Price       sharedDomain.Money `json:"price"`
	CategoryID  *uuid.UUID         `json:"categoryId"`
	ImageURLs   []string           `json:"imageUrls" binding:"dive,url"`
}

type restockRequest struct {
	Quantity int `json:"quantity" binding:"required,gt=0"`
}

type stockResponse struct {
	ProductID uuid.UUID `json:"productId"`
	Stock     int       `json:"stock"`
}

type addImageRequest struct {
	URL string `json:"url" binding:"required,url"`
}

type createCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
}

type createPlanRequest struct {
	Name         string             `json:"name" binding:"required"`
	Price        sharedDomain.Money `json:"price"`
	Description  string             `json:"description"`
	ImageURL     string             `json:"imageUrl"`
	PlanType     string             `json:"planType"`
	DurationDays int                `json:"durationDays" binding:"required,gt=0"`
}

func (s *Server) listProducts(c *gin.Context) {
	query := catalogQueries.ListProductsQuery{InStock: c.Query("inStock") == "true"}
	if raw := c.Query("categoryId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			badRequest(c, "invalid categoryId")
			return
		}
		query.CategoryID = &id
	}
	var err error
	if query.Limit, err = intQuery(c, "limit"); err != nil {
		badRequest(c, "invalid limit")
		return
	}
	if query.Offset, err = intQuery(c, "offset"); err != nil {
		badRequest(c, "invalid offset")
		return
	}

	dtos, err := s.container.ListProductsHandler.Handle(c.Request.Context(), query)
	if err != nil {
		s.respondError(c, "list products", err)
		return
	}
	c.JSON(http.StatusOK, dtos)
}

func (s *Server) getProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	dto, err := s.container.GetProductHandler.Handle(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, "get product", err)
		return
	}
	c.JSON(http.StatusOK, dto)
}

func (s *Server) createProduct(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	result, err := s.container.CreateProductHandler.Handle(ctx, catalogCommands.CreateProductCommand{
		ActorID:     principalFrom(c).User.ID(),
		Name:        req.Name,
		Description: req.Description,
		Stock:       req.Stock,
		Price:       req.Price,
		CategoryID:  req.CategoryID,
		ImageURLs:   req.ImageURLs,
	})
	if err != nil {
		s.respondError(c, "create product", err)
		return
	}
	dto, err := s.container.GetProductHandler.Handle(ctx, result.ProductID)
	if err != nil {
		s.respondError(c, "get product", err)
		return
	}
	c.JSON(http.StatusCreated, dto)
}

func (s *Server) restockProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req restockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	stock, err := s.container.RestockProductHandler.Handle(c.Request.Context(), catalogCommands.RestockProductCommand{
		ActorID:   principalFrom(c).User.ID(),
		ProductID: id,
		Quantity:  req.Quantity,
	})
	if err != nil {
		s.respondError(c, "restock product", err)
		return
	}
	c.JSON(http.StatusOK, stockResponse{ProductID: id, Stock: stock})
}

func (s *Server) addProductImage(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req addImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	img, err := s.container.AddProductImageHandler.Handle(c.Request.Context(), catalogCommands.AddProductImageCommand{
		ProductID: id,
		URL:       req.URL,
	})
	if err != nil {
		s.respondError(c, "add product image", err)
		return
	}
	c.JSON(http.StatusCreated, catalogQueries.ImageDTO{ID: img.ID(), URL: img.URL()})
}

func (s *Server) listCategories(c *gin.Context) {
	dtos, err := s.container.ListCategoriesHandler.Handle(c.Request.Context())
	if err != nil {
		s.respondError(c, "list categories", err)
		return
	}
	c.JSON(http.StatusOK, dtos)
}

func (s *Server) createCategory(c *gin.Context) {
	var req createCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	category, err := s.container.CreateCategoryHandler.Handle(c.Request.Context(), catalogCommands.CreateCategoryCommand{
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		s.respondError(c, "create category", err)
		return
	}
	c.JSON(http.StatusCreated, catalogQueries.ToCategoryDTO(category))
}

func (s *Server) listPlans(c *gin.Context) {
	dtos, err := s.container.ListPlansHandler.Handle(c.Request.Context())
	if err != nil {
		s.respondError(c, "list store subscriptions", err)
		return
	}
	c.JSON(http.StatusOK, dtos)
}

func (s *Server) getPlan(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	dto, err := s.container.GetPlanHandler.Handle(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, "get store subscription", err)
		return
	}
	c.JSON(http.StatusOK, dto)
}

func (s *Server) createPlan(c *gin.Context) {
	var req createPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	plan, err := s.container.CreatePlanHandler.Handle(c.Request.Context(), catalogCommands.CreatePlanCommand{
		Name:         req.Name,
		Price:        req.Price,
		Description:  req.Description,
		ImageURL:     req.ImageURL,
		PlanType:     req.PlanType,
		DurationDays: req.DurationDays,
	})
	if err != nil {
		s.respondError(c, "create store subscription", err)
		return
	}
	c.JSON(http.StatusCreated, catalogQueries.ToPlanDTO(plan))
}

func intQuery(c *gin.Context, name string) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
