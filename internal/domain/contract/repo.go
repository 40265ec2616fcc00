package contract

import (
	"context"
	"time"

	"github.com/dpavluk/slack-lesson-bot/internal/domain/entity"
)

// DataManager aggregates all repository interfaces
type DataManager interface {
	WithTransaction(ctx context.Context, fn func(dm DataManager) error) error
	Delivery() DeliveryRepo
}

// DeliveryRepo defines the contract for the delivery history repository
type DeliveryRepo interface {
	Create(delivery *entity.Delivery) error
	MarkRetracted(id int64, at time.Time) error
	MarkFailed(id int64, detail string) error
	// CloseOpen marks every still-posted delivery for the channel as
	// abandoned and returns how many rows were affected.
	CloseOpen(channelID, detail string) (int64, error)
	GetRecent(limit int) ([]*entity.Delivery, error)
}
