package slackbot

import (
	"fmt"
	"strings"

	"github.com/slack-go/slack"

	"github.com/dpavluk/slack-lesson-bot/internal/domain/entity"
)

// API is the slice of the Slack web API the publisher needs.
// This allows mocking in tests while keeping the real implementation simple.
type API interface {
	PostMessage(channelID string, options ...slack.MsgOption) (string, string, error)
	DeleteMessage(channelID, messageTimestamp string) (string, string, error)
}

// Publisher posts lesson announcements to a Slack channel and deletes them
// by message timestamp. Implements contract.Publisher.
type Publisher struct {
	client API
}

func New(client API) *Publisher {
	return &Publisher{client: client}
}

// Send posts the announcement and returns its message timestamp.
func (p *Publisher) Send(subject entity.SubjectEntry, channelID string) (string, error) {
	options := []slack.MsgOption{
		slack.MsgOptionText(caption(subject), false),
		slack.MsgOptionAsUser(false),
	}
	if subject.ImageURL != "" {
		options = append(options, slack.MsgOptionAttachments(slack.Attachment{
			Title:    subject.Name,
			ImageURL: subject.ImageURL,
		}))
	}

	_, timestamp, err := p.client.PostMessage(channelID, options...)
	if err != nil {
		return "", fmt.Errorf("failed to post message: %w", err)
	}
	return timestamp, nil
}

// Delete removes a previously posted announcement.
func (p *Publisher) Delete(deliveryID, channelID string) error {
	if _, _, err := p.client.DeleteMessage(channelID, deliveryID); err != nil {
		return fmt.Errorf("failed to delete message %s: %w", deliveryID, err)
	}
	return nil
}

// caption renders the message text: the subject name followed by each
// reference link on its own line.
func caption(subject entity.SubjectEntry) string {
	if len(subject.Links) == 0 {
		return subject.Name
	}
	return subject.Name + "\n" + strings.Join(subject.Links, "\n")
}
