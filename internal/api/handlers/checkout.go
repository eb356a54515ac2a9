package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/api/middleware"
	"github.com/jafarshop/storefront/internal/checkout"
	"github.com/jafarshop/storefront/internal/domain"
)

// StartCheckoutRequest opens a checkout session for a cart
type StartCheckoutRequest struct {
	Items []domain.CartItem `json:"items"`
}

// SessionResponse is the client's view of a checkout session
type SessionResponse struct {
	ID          string                    `json:"id"`
	Step        domain.Step               `json:"step"`
	Form        checkout.Form             `json:"form"`
	Items       []domain.CartItem         `json:"items"`
	ItemCount   int                       `json:"itemCount"`
	Errors      checkout.ValidationErrors `json:"errors"`
	Totals      TotalsResponse            `json:"totals"`
	OrderID     string                    `json:"orderId,omitempty"`
	RedirectURL string                    `json:"redirectUrl,omitempty"`
}

// TotalsResponse renders money with two decimals
type TotalsResponse struct {
	Subtotal string `json:"subtotal"`
	Shipping string `json:"shipping"`
	Tax      string `json:"tax"`
	Total    string `json:"total"`
}

// SubmitResponse is returned once an order has been placed
type SubmitResponse struct {
	OrderID     string         `json:"orderId"`
	RedirectURL string         `json:"redirectUrl"`
	Totals      TotalsResponse `json:"totals"`
	Duplicate   bool           `json:"duplicate,omitempty"`
}

func newTotalsResponse(t domain.Totals) TotalsResponse {
	return TotalsResponse{
		Subtotal: t.Subtotal.StringFixed(2),
		Shipping: t.Shipping.StringFixed(2),
		Tax:      t.Tax.StringFixed(2),
		Total:    t.Total.StringFixed(2),
	}
}

func newSessionResponse(flow *checkout.Flow, s *checkout.Session) SessionResponse {
	form := s.Form
	form.CardNumber = checkout.MaskCardNumber(form.CardNumber)
	form.CVC = ""

	resp := SessionResponse{
		ID:        s.ID,
		Step:      s.Step,
		Form:      form,
		Items:     s.Items,
		ItemCount: checkout.ItemCount(s.Items),
		Errors:    s.Errors,
		Totals:    newTotalsResponse(flow.Totals(s)),
		OrderID:   s.OrderID,
	}
	if resp.Errors == nil {
		resp.Errors = checkout.ValidationErrors{}
	}
	if s.OrderID != "" {
		resp.RedirectURL = checkout.OrderPath(s.OrderID)
	}
	return resp
}

// HandleStartCheckout handles POST /v1/checkout/sessions
func HandleStartCheckout(flow *checkout.Flow, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req StartCheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequestBody(c, err)
			return
		}

		session, err := flow.Start(c.Request.Context(), middleware.CurrentUser(c), req.Items)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusCreated, newSessionResponse(flow, session))
	}
}

// HandleGetCheckout handles GET /v1/checkout/sessions/:id
func HandleGetCheckout(flow *checkout.Flow, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := flow.Get(c.Request.Context(), c.Param("id"), middleware.CurrentUser(c))
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, newSessionResponse(flow, session))
	}
}

// HandleUpdateCheckout handles PATCH /v1/checkout/sessions/:id
func HandleUpdateCheckout(flow *checkout.Flow, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var patch checkout.FormPatch
		if err := c.ShouldBindJSON(&patch); err != nil {
			badRequestBody(c, err)
			return
		}

		session, err := flow.Update(c.Request.Context(), c.Param("id"), middleware.CurrentUser(c), patch)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, newSessionResponse(flow, session))
	}
}

// HandleAdvanceCheckout handles POST /v1/checkout/sessions/:id/advance
func HandleAdvanceCheckout(flow *checkout.Flow, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := flow.Advance(c.Request.Context(), c.Param("id"), middleware.CurrentUser(c))
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, newSessionResponse(flow, session))
	}
}

// HandleBackCheckout handles POST /v1/checkout/sessions/:id/back
func HandleBackCheckout(flow *checkout.Flow, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := flow.Back(c.Request.Context(), c.Param("id"), middleware.CurrentUser(c))
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, newSessionResponse(flow, session))
	}
}

// HandleSubmitCheckout handles POST /v1/checkout/sessions/:id/submit
func HandleSubmitCheckout(flow *checkout.Flow, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := flow.Submit(c.Request.Context(), c.Param("id"), middleware.CurrentUser(c))
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, SubmitResponse{
			OrderID:     result.OrderID,
			RedirectURL: result.RedirectURL,
			Totals:      newTotalsResponse(result.Totals),
			Duplicate:   result.Duplicate,
		})
	}
}
