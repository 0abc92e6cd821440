package interfaces

import (
	"context"

	"loanbook-worker/internal/pkg/models"
)

type NotificationsRepoInterface interface {
	Insert(ctx context.Context, notification models.Notification) error
}
