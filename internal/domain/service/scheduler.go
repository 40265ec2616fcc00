package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/dpavluk/slack-lesson-bot/internal/domain"
	"github.com/dpavluk/slack-lesson-bot/internal/domain/contract"
	"github.com/dpavluk/slack-lesson-bot/internal/domain/entity"
	"github.com/dpavluk/slack-lesson-bot/internal/metrics"
)

// SchedulerConfig carries the settings the scheduling loop needs, resolved
// from the configuration file before the loop starts.
type SchedulerConfig struct {
	ChannelID          string
	NumberOfPeriods    int
	PeriodDurationDays int
	AnchorDate         time.Time
	ReloadTime         entity.ClockTime
	// SkipOnDeliveryError makes a failed send or delete skip the slot
	// instead of ending the run.
	SkipOnDeliveryError bool
}

type scheduler struct {
	cfg       SchedulerConfig
	store     *TimetableStore
	publisher contract.Publisher
	dm        contract.DataManager
	sink      metrics.Sink
	log       zerolog.Logger

	// Injection points for tests; real time in production.
	now       func() time.Time
	waitUntil func(ctx context.Context, target time.Time) error
}

func newScheduler(cfg SchedulerConfig, store *TimetableStore, publisher contract.Publisher, dm contract.DataManager, sink metrics.Sink, log zerolog.Logger) *scheduler {
	return &scheduler{
		cfg:       cfg,
		store:     store,
		publisher: publisher,
		dm:        dm,
		sink:      sink,
		log:       log,
		now:       time.Now,
		waitUntil: waitUntil,
	}
}

// Run drives the publish/retract loop until the context is canceled or a
// fatal failure occurs. The very first rebuild must succeed; afterwards a
// failed daily rebuild keeps the previous schedule and is retried at the
// next reload instant.
func (s *scheduler) Run(ctx context.Context) error {
	if err := s.rebuild(); err != nil {
		return fmt.Errorf("initial schedule load: %w", err)
	}

	for {
		if err := s.runDay(ctx); err != nil {
			return err
		}

		wake := s.nextReload(s.now())
		s.log.Info().Time("wake", wake).Msg("no further lessons today, waiting for daily reload")
		if err := s.waitUntil(ctx, wake); err != nil {
			return err
		}

		if err := s.rebuild(); err != nil {
			s.log.Error().Err(err).Msg("daily rebuild failed, keeping previous schedule")
		}
	}
}

// runDay publishes and retracts every remaining slot of the current day,
// strictly in start-time order with at most one delivery in flight.
func (s *scheduler) runDay(ctx context.Context) error {
	next := 0
	for {
		idx := s.store.NextSlotIndexFrom(s.now(), next)
		if idx < 0 {
			return nil
		}

		slot := s.store.Slot(idx)
		if err := s.waitUntil(ctx, slot.Start); err != nil {
			return err
		}
		if err := s.deliver(ctx, slot); err != nil {
			return err
		}
		next = idx + 1
	}
}

// deliver runs one publish/retract cycle for the slot.
func (s *scheduler) deliver(ctx context.Context, slot entity.LessonSlot) error {
	subject, ok := s.store.FindSubject(slot.Subject)
	if !ok {
		s.sink.RecordLookupMiss()
		s.log.Error().Int("slot", slot.Index).Str("subject", slot.Subject).Msg("subject not found in catalog, skipping slot")
		return nil
	}

	messageTS, err := s.publisher.Send(subject, s.cfg.ChannelID)
	if err != nil {
		s.sink.RecordDelivery(entity.DeliveryFailed)
		s.log.Error().Err(err).Int("slot", slot.Index).Str("subject", slot.Subject).Msg("failed to post announcement")
		return s.deliveryFailure(fmt.Errorf("post announcement for %q: %w", slot.Subject, err))
	}

	delivery := &entity.Delivery{
		MessageTS: messageTS,
		ChannelID: s.cfg.ChannelID,
		Subject:   slot.Subject,
		SlotIndex: slot.Index,
		Status:    entity.DeliveryPosted,
		PostedAt:  s.now(),
	}
	s.recordPosted(ctx, delivery)
	s.sink.RecordDelivery(entity.DeliveryPosted)
	s.log.Info().Str("message_ts", messageTS).Int("slot", slot.Index).Str("subject", slot.Subject).Msg("announcement posted")

	if err := s.waitUntil(ctx, slot.End); err != nil {
		return err
	}

	if err := s.publisher.Delete(messageTS, s.cfg.ChannelID); err != nil {
		s.markFailed(delivery, err)
		s.sink.RecordDelivery(entity.DeliveryFailed)
		s.log.Error().Err(err).Str("message_ts", messageTS).Str("subject", slot.Subject).Msg("failed to delete announcement")
		return s.deliveryFailure(fmt.Errorf("delete announcement %s: %w", messageTS, err))
	}

	s.markRetracted(delivery)
	s.sink.RecordDelivery(entity.DeliveryRetracted)
	s.log.Info().Str("message_ts", messageTS).Str("subject", slot.Subject).Msg("announcement retracted")
	return nil
}

// rebuild recomputes the rotation period and reloads the timetable store for
// the weekday of the moment it runs.
func (s *scheduler) rebuild() error {
	now := s.now()

	period, err := ComputePeriod(s.cfg.NumberOfPeriods, s.cfg.PeriodDurationDays, s.cfg.AnchorDate, now)
	if err != nil {
		s.sink.RecordRebuild(false)
		return err
	}

	if err := s.store.Rebuild(period, now); err != nil {
		s.sink.RecordRebuild(false)
		return err
	}

	s.sink.RecordRebuild(true)
	s.log.Info().
		Int("period", period).
		Str("weekday", domain.WeekdayNames[domain.ScheduleWeekday(now.Weekday())]).
		Int("slots", len(s.store.Slots())).
		Msg("schedule rebuilt")
	return nil
}

// nextReload returns the next daily reload instant: today if still ahead,
// otherwise tomorrow.
func (s *scheduler) nextReload(now time.Time) time.Time {
	next := s.cfg.ReloadTime.On(now)
	if !next.After(now) {
		next = s.cfg.ReloadTime.On(now.AddDate(0, 0, 1))
	}
	return next
}

// deliveryFailure applies the configured delivery-error policy: nil skips
// the slot, non-nil ends the run.
func (s *scheduler) deliveryFailure(err error) error {
	if s.cfg.SkipOnDeliveryError {
		return nil
	}
	return err
}

// recordPosted writes the history row for a fresh delivery, closing out any
// still-open row left behind by an earlier run in the same transaction.
// History is observability only, so failures are logged and swallowed.
func (s *scheduler) recordPosted(ctx context.Context, delivery *entity.Delivery) {
	err := s.dm.WithTransaction(ctx, func(tx contract.DataManager) error {
		closed, err := tx.Delivery().CloseOpen(delivery.ChannelID, "superseded by a newer announcement")
		if err != nil {
			return fmt.Errorf("close open deliveries: %w", err)
		}
		if closed > 0 {
			s.log.Warn().Int64("count", closed).Msg("abandoned deliveries from a previous run")
		}
		if err := tx.Delivery().Create(delivery); err != nil {
			return fmt.Errorf("create delivery: %w", err)
		}
		return nil
	})
	if err != nil {
		s.log.Error().Err(err).Str("message_ts", delivery.MessageTS).Msg("failed to record delivery in history")
	}
}

func (s *scheduler) markRetracted(delivery *entity.Delivery) {
	if delivery.ID == 0 {
		return
	}
	if err := s.dm.Delivery().MarkRetracted(delivery.ID, s.now()); err != nil {
		s.log.Error().Err(err).Int64("delivery_id", delivery.ID).Msg("failed to mark delivery retracted")
	}
}

func (s *scheduler) markFailed(delivery *entity.Delivery, cause error) {
	if delivery.ID == 0 {
		return
	}
	if err := s.dm.Delivery().MarkFailed(delivery.ID, cause.Error()); err != nil {
		s.log.Error().Err(err).Int64("delivery_id", delivery.ID).Msg("failed to mark delivery failed")
	}
}

// waitUntil blocks until the target instant or context cancellation. A
// target already in the past proceeds immediately.
func waitUntil(ctx context.Context, target time.Time) error {
	d := time.Until(target)
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
