package api

import (
	"net/http"

	accountCommands "github.com/felixgeelhaar/gymstore/internal/accounts/application/commands"
	loyaltyQueries "github.com/felixgeelhaar/gymstore/internal/loyalty/application/queries"
	membershipCommands "github.com/felixgeelhaar/gymstore/internal/membership/application/commands"
	sharedDomain "github.com/felixgeelhaar/gymstore/internal/shared/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type topUpRequest struct {
	Amount sharedDomain.Money `json:"amount"`
}

type creditResponse struct {
	AccountID     uuid.UUID          `json:"accountId"`
	CreditBalance sharedDomain.Money `json:"creditBalance"`
}

type autoRenewalRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

func (s *Server) getCurrentAccount(c *gin.Context) {
	dto, err := s.container.GetAccountHandler.ByID(c.Request.Context(), principalFrom(c).Account.ID())
	if err != nil {
		s.respondError(c, "get account", err)
		return
	}
	c.JSON(http.StatusOK, dto)
}

func (s *Server) topUpCredit(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req topUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	balance, err := s.container.TopUpCreditHandler.Handle(c.Request.Context(), accountCommands.TopUpCreditCommand{
		ActorID:   principalFrom(c).User.ID(),
		AccountID: id,
		Amount:    req.Amount,
	})
	if err != nil {
		s.respondError(c, "top up credit", err)
		return
	}
	c.JSON(http.StatusOK, creditResponse{AccountID: id, CreditBalance: balance})
}

func (s *Server) listCoupons(c *gin.Context) {
	dtos, err := s.container.ListAccountCouponsHandler.Handle(c.Request.Context(), principalFrom(c).Account.ID())
	if err != nil {
		s.respondError(c, "list coupons", err)
		return
	}
	c.JSON(http.StatusOK, dtos)
}

func (s *Server) getCoupon(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	principal := principalFrom(c)
	dto, err := s.container.GetCouponHandler.Handle(c.Request.Context(), loyaltyQueries.GetCouponQuery{
		CouponID:        id,
		CallerAccountID: principal.Account.ID(),
		CallerIsAdmin:   principal.IsAdmin(),
	})
	if err != nil {
		s.respondError(c, "get coupon", err)
		return
	}
	c.JSON(http.StatusOK, dto)
}

func (s *Server) getSubscription(c *gin.Context) {
	dto, err := s.container.GetSubscriptionHandler.Handle(c.Request.Context(), principalFrom(c).Account.ID())
	if err != nil {
		s.respondError(c, "get subscription", err)
		return
	}
	c.JSON(http.StatusOK, dto)
}

func (s *Server) setAutoRenewal(c *gin.Context) {
	var req autoRenewalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	accountID := principalFrom(c).Account.ID()
	if _, err := s.container.SetAutoRenewalHandler.Handle(c.Request.Context(), membershipCommands.SetAutoRenewalCommand{
		AccountID: accountID,
		Enabled:   *req.Enabled,
	}); err != nil {
		s.respondError(c, "set auto renewal", err)
		return
	}
	s.getSubscription(c)
}
