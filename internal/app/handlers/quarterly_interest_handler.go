package handlers

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"loanbook-worker/internal/pkg/config"
	"loanbook-worker/internal/pkg/consts"
	"loanbook-worker/internal/pkg/log_messages"
	"loanbook-worker/internal/pkg/logger"
	"loanbook-worker/internal/service/interest"

	"github.com/gin-gonic/gin"
)

type QuarterlyInterestHandler struct {
	service        interest.QuarterlyInterestServiceInterface
	interestConfig config.InterestConfig
}

func NewQuarterlyInterestHandler(service interest.QuarterlyInterestServiceInterface,
	interestConfig config.InterestConfig) *QuarterlyInterestHandler {
	return &QuarterlyInterestHandler{
		service:        service,
		interestConfig: interestConfig,
	}
}

// TriggerQuarterlyInterest authenticates the caller and runs the batch.
// A completed run always answers 200, even when some customers failed;
// the per-customer outcomes are in the body. Only a run that could not
// start at all is a 500.
func (h *QuarterlyInterestHandler) TriggerQuarterlyInterest(c *gin.Context) {
	if !h.authorize(c) {
		return
	}

	result, err := h.service.RunQuarterlyInterest(c.Request.Context(), time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// authorize enforces the shared-secret bearer credential. An unset
// secret in production disables the endpoint entirely rather than
// letting the job run unauthenticated.
func (h *QuarterlyInterestHandler) authorize(c *gin.Context) bool {
	secret := h.interestConfig.TriggerSecret
	if secret == "" {
		if h.interestConfig.Environment == consts.EnvironmentProduction {
			logger.CtxError(c.Request.Context(), log_messages.ErrorMissingTriggerSecret, nil)
			c.JSON(http.StatusInternalServerError,
				gin.H{"error": log_messages.TriggerSecretMissingResponse})
			return false
		}
		return true
	}

	credential := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	if credential == "" ||
		subtle.ConstantTimeCompare([]byte(credential), []byte(secret)) != 1 {
		logger.CtxWarn(c.Request.Context(), log_messages.ErrorUnauthorizedTrigger)
		c.JSON(http.StatusUnauthorized,
			gin.H{"error": log_messages.UnauthorizedTriggerResponse})
		return false
	}
	return true
}
