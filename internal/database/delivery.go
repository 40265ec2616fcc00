package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dpavluk/slack-lesson-bot/internal/domain/contract"
	"github.com/dpavluk/slack-lesson-bot/internal/domain/entity"
)

type deliveryRepo struct {
	db dbConn
}

func newDeliveryRepo(db dbConn) contract.DeliveryRepo {
	return &deliveryRepo{db: db}
}

func (r *deliveryRepo) Create(delivery *entity.Delivery) error {
	query := `
		INSERT INTO deliveries (message_ts, channel_id, subject, slot_index, status, detail, posted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.Exec(query,
		delivery.MessageTS,
		delivery.ChannelID,
		delivery.Subject,
		delivery.SlotIndex,
		delivery.Status,
		delivery.Detail,
		delivery.PostedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create delivery: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	delivery.ID = id
	return nil
}

func (r *deliveryRepo) MarkRetracted(id int64, at time.Time) error {
	query := `
		UPDATE deliveries SET
			status = ?,
			retracted_at = ?
		WHERE id = ?
	`

	if _, err := r.db.Exec(query, entity.DeliveryRetracted, at, id); err != nil {
		return fmt.Errorf("failed to mark delivery retracted: %w", err)
	}
	return nil
}

func (r *deliveryRepo) MarkFailed(id int64, detail string) error {
	query := `
		UPDATE deliveries SET
			status = ?,
			detail = ?
		WHERE id = ?
	`

	if _, err := r.db.Exec(query, entity.DeliveryFailed, detail, id); err != nil {
		return fmt.Errorf("failed to mark delivery failed: %w", err)
	}
	return nil
}

func (r *deliveryRepo) CloseOpen(channelID, detail string) (int64, error) {
	query := `
		UPDATE deliveries SET
			status = ?,
			detail = ?
		WHERE channel_id = ? AND status = ?
	`

	result, err := r.db.Exec(query, entity.DeliveryAbandoned, detail, channelID, entity.DeliveryPosted)
	if err != nil {
		return 0, fmt.Errorf("failed to close open deliveries: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return affected, nil
}

func (r *deliveryRepo) GetRecent(limit int) ([]*entity.Delivery, error) {
	query := `
		SELECT id, message_ts, channel_id, subject, slot_index, status, detail,
			posted_at, retracted_at, created_at
		FROM deliveries
		ORDER BY id DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent deliveries: %w", err)
	}
	defer rows.Close()

	var deliveries []*entity.Delivery
	for rows.Next() {
		delivery := &entity.Delivery{}
		var retractedAt sql.NullTime
		err := rows.Scan(
			&delivery.ID,
			&delivery.MessageTS,
			&delivery.ChannelID,
			&delivery.Subject,
			&delivery.SlotIndex,
			&delivery.Status,
			&delivery.Detail,
			&delivery.PostedAt,
			&retractedAt,
			&delivery.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan delivery: %w", err)
		}
		if retractedAt.Valid {
			delivery.RetractedAt = &retractedAt.Time
		}
		deliveries = append(deliveries, delivery)
	}

	return deliveries, rows.Err()
}
