package handlers

import (
	"context"
	"errors"
	"net/http"

	"loanbook-worker/internal/pkg/models"
	"loanbook-worker/internal/pkg/store/impl/loans"

	"github.com/gin-gonic/gin"
)

// LoanStatusServiceInterface is what the handler needs from the loan
// status service.
type LoanStatusServiceInterface interface {
	GetLoanStatus(ctx context.Context, loanID string) (*models.LoanStatus, error)
}

type LoanStatusHandler struct {
	service LoanStatusServiceInterface
}

func NewLoanStatusHandler(service LoanStatusServiceInterface) *LoanStatusHandler {
	return &LoanStatusHandler{service: service}
}

// GetLoanStatus evaluates the loan's payoff state on demand. Broken
// loan records come back as 422 so the UI can surface the data problem
// instead of a misleading balance.
func (h *LoanStatusHandler) GetLoanStatus(c *gin.Context) {
	loanID := c.Param("id")

	status, err := h.service.GetLoanStatus(c.Request.Context(), loanID)
	if err != nil {
		var configErr *models.ConfigurationError
		switch {
		case errors.Is(err, loans.ErrLoanNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "loan not found"})
		case errors.As(err, &configErr):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": configErr.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, status)
}
