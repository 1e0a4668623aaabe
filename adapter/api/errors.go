package api

import (
	"errors"
	"fmt"
	"net/http"

	accountDomain "github.com/felixgeelhaar/gymstore/internal/accounts/domain"
	catalogDomain "github.com/felixgeelhaar/gymstore/internal/catalog/domain"
	loyaltyDomain "github.com/felixgeelhaar/gymstore/internal/loyalty/domain"
	membershipDomain "github.com/felixgeelhaar/gymstore/internal/membership/domain"
	purchasingDomain "github.com/felixgeelhaar/gymstore/internal/purchasing/domain"
	sharedDomain "github.com/felixgeelhaar/gymstore/internal/shared/domain"
	"github.com/gin-gonic/gin"
)

// APIError represents an API error.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type errorBody struct {
	Error *APIError `json:"error"`
}

var (
	errUnauthenticated = &APIError{Status: http.StatusUnauthorized, Code: "unauthorized", Message: "missing or invalid bearer token"}
	errAdminOnly       = &APIError{Status: http.StatusForbidden, Code: "forbidden", Message: "admin role required"}
)

type errorMapping struct {
	target error
	status int
	code   string
}

// errorMappings is checked in order; the first match wins.
var errorMappings = []errorMapping{
	{sharedDomain.ErrForbidden, http.StatusForbidden, "forbidden"},
	{accountDomain.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},

	{catalogDomain.ErrProductNotFound, http.StatusNotFound, "product_not_found"},
	{catalogDomain.ErrCategoryNotFound, http.StatusNotFound, "category_not_found"},
	{catalogDomain.ErrPlanNotFound, http.StatusNotFound, "store_subscription_not_found"},
	{loyaltyDomain.ErrCouponNotFound, http.StatusNotFound, "coupon_not_found"},
	{accountDomain.ErrAccountNotFound, http.StatusNotFound, "account_not_found"},
	{accountDomain.ErrUserNotFound, http.StatusNotFound, "user_not_found"},
	{purchasingDomain.ErrPurchaseNotFound, http.StatusNotFound, "purchase_not_found"},
	{membershipDomain.ErrSubscriptionNotFound, http.StatusNotFound, "subscription_not_found"},

	{catalogDomain.ErrNotEnoughStock, http.StatusConflict, "not_enough_stock"},
	{accountDomain.ErrInsufficientCredit, http.StatusConflict, "insufficient_credit"},
	{purchasingDomain.ErrCouponDiscountExceeded, http.StatusConflict, "discount_exceeded"},
	{loyaltyDomain.ErrCouponAlreadySpent, http.StatusConflict, "coupon_already_spent"},
	{loyaltyDomain.ErrCouponExpired, http.StatusConflict, "coupon_expired"},
	{sharedDomain.ErrConcurrentModification, http.StatusConflict, "concurrent_modification"},
	{accountDomain.ErrAccountExists, http.StatusConflict, "account_exists"},
	{catalogDomain.ErrCategoryExists, http.StatusConflict, "category_exists"},

	{purchasingDomain.ErrEmptyPurchase, http.StatusBadRequest, "empty_purchase"},
	{purchasingDomain.ErrDuplicateCoupon, http.StatusBadRequest, "duplicate_coupon"},
	{catalogDomain.ErrInvalidQuantity, http.StatusBadRequest, "invalid_quantity"},
	{catalogDomain.ErrProductEmptyName, http.StatusBadRequest, "invalid_request"},
	{catalogDomain.ErrNegativeStock, http.StatusBadRequest, "invalid_request"},
	{catalogDomain.ErrNegativePrice, http.StatusBadRequest, "invalid_request"},
	{catalogDomain.ErrImageEmptyURL, http.StatusBadRequest, "invalid_request"},
	{catalogDomain.ErrCategoryEmptyName, http.StatusBadRequest, "invalid_request"},
	{catalogDomain.ErrPlanEmptyName, http.StatusBadRequest, "invalid_request"},
	{catalogDomain.ErrPlanInvalidDuration, http.StatusBadRequest, "invalid_request"},
	{accountDomain.ErrNonPositiveAmount, http.StatusBadRequest, "invalid_amount"},
	{sharedDomain.ErrInvalidAmount, http.StatusBadRequest, "invalid_amount"},
}

// toAPIError maps a domain error to its HTTP representation. Unknown errors
// yield nil and are reported as internal.
func toAPIError(err error) *APIError {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return &APIError{Status: m.status, Code: m.code, Message: err.Error()}
		}
	}
	return nil
}

// respondError writes the mapped error, logging unmapped ones with the
// request context.
func (s *Server) respondError(c *gin.Context, op string, err error) {
	if apiErr := toAPIError(err); apiErr != nil {
		abortWithError(c, apiErr)
		return
	}
	s.abortInternal(c, op+" failed", err)
}

func badRequest(c *gin.Context, msg string) {
	abortWithError(c, &APIError{Status: http.StatusBadRequest, Code: "invalid_request", Message: msg})
}
