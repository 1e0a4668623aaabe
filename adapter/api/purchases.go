package api

import (
	"net/http"

	purchaseCommands "github.com/felixgeelhaar/gymstore/internal/purchasing/application/commands"
	purchaseQueries "github.com/felixgeelhaar/gymstore/internal/purchasing/application/queries"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type createPurchaseRequest struct {
	StoreSubscriptionID *uuid.UUID              `json:"storeSubscriptionId"`
	PurchaseDetails     []purchaseDetailRequest `json:"purchaseDetails" binding:"dive"`
	CouponsIDs          []uuid.UUID             `json:"couponsIds"`
}

type purchaseDetailRequest struct {
	ProductID uuid.UUID `json:"productId" binding:"required"`
	Quantity  int       `json:"quantity"`
}

func (s *Server) createPurchase(c *gin.Context) {
	var req createPurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	cmd := purchaseCommands.CreatePurchaseCommand{
		AccountID: principalFrom(c).Account.ID(),
		PlanID:    req.StoreSubscriptionID,
		CouponIDs: req.CouponsIDs,
	}
	for _, d := range req.PurchaseDetails {
		cmd.Lines = append(cmd.Lines, purchaseCommands.PurchaseLine{ProductID: d.ProductID, Quantity: d.Quantity})
	}

	result, err := s.container.CreatePurchaseHandler.Handle(c.Request.Context(), cmd)
	if err != nil {
		s.respondError(c, "create purchase", err)
		return
	}
	c.JSON(http.StatusCreated, purchaseQueries.ToPurchaseDTO(result.Purchase).WithIssuedCoupon(result.CouponIssued))
}

func (s *Server) getPurchase(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	principal := principalFrom(c)
	dto, err := s.container.GetPurchaseHandler.Handle(c.Request.Context(), purchaseQueries.GetPurchaseQuery{
		PurchaseID:      id,
		CallerAccountID: principal.Account.ID(),
		CallerIsAdmin:   principal.IsAdmin(),
	})
	if err != nil {
		s.respondError(c, "get purchase", err)
		return
	}
	c.JSON(http.StatusOK, dto)
}

func (s *Server) listAccountPurchases(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	principal := principalFrom(c)
	dtos, err := s.container.ListAccountPurchasesHandler.Handle(c.Request.Context(), purchaseQueries.ListAccountPurchasesQuery{
		AccountID:       id,
		CallerAccountID: principal.Account.ID(),
		CallerIsAdmin:   principal.IsAdmin(),
	})
	if err != nil {
		s.respondError(c, "list purchases", err)
		return
	}
	c.JSON(http.StatusOK, dtos)
}

// pathID parses the :id route parameter, answering 400 when malformed.
func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}
