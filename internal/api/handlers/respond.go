package handlers

import (
	"context"
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/checkout"
	"github.com/jafarshop/storefront/pkg/errors"
)

// respondError maps the typed errors of the service onto HTTP responses
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	var (
		validation  *errors.ValidationError
		payment     *errors.PaymentError
		persistence *errors.PersistenceError
		notFound    *errors.ErrNotFound
		locked      *errors.ErrSessionLocked
		transition  *errors.ErrInvalidStateTransition
		unauth      *errors.ErrUnauthorized
	)

	switch {
	case stderrors.As(err, &validation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  "validation failed",
			"step":   validation.Step,
			"fields": validation.Fields,
		})
	case stderrors.As(err, &payment):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": payment.Message, "kind": "payment"})
	case stderrors.As(err, &persistence):
		c.JSON(http.StatusBadGateway, gin.H{"error": checkout.PersistenceFailedMessage, "kind": "persistence"})
	case stderrors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFound.Resource + " not found"})
	case stderrors.As(err, &locked):
		c.JSON(http.StatusConflict, gin.H{"error": "submission in progress"})
	case stderrors.As(err, &transition):
		c.JSON(http.StatusBadRequest, gin.H{"error": transition.Error()})
	case stderrors.As(err, &unauth):
		c.JSON(http.StatusUnauthorized, gin.H{"error": unauth.Message})
	case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
		logger.Warn("Request cancelled", zap.String("path", c.Request.URL.Path), zap.Error(err))
		c.JSON(http.StatusRequestTimeout, gin.H{"error": "request cancelled"})
	default:
		logger.Error("Request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func badRequestBody(c *gin.Context, err error) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"error":   "validation failed",
		"details": err.Error(),
	})
}
