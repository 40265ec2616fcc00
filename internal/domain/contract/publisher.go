package contract

import (
	"github.com/dpavluk/slack-lesson-bot/internal/domain/entity"
)

// Publisher posts and removes lesson announcements in the channel.
// This allows mocking in tests while keeping the real implementation simple.
type Publisher interface {
	// Send posts the announcement and returns the delivery identifier used
	// later to delete it.
	Send(subject entity.SubjectEntry, channelID string) (string, error)

	// Delete removes a previously posted announcement.
	Delete(deliveryID, channelID string) error
}
