package service

import (
	"github.com/rs/zerolog"

	"github.com/dpavluk/slack-lesson-bot/internal/domain/contract"
	"github.com/dpavluk/slack-lesson-bot/internal/metrics"
)

type Instance struct {
	Store     *TimetableStore
	Scheduler *scheduler
}

// NewInstance wires the timetable store and the scheduling loop. Paths are
// the three data sources consumed at every rebuild; the period path may
// contain the rotation-period placeholder.
func NewInstance(cfg SchedulerConfig, loader contract.DataLoader, publisher contract.Publisher, dm contract.DataManager, sink metrics.Sink, log zerolog.Logger, subjectsPath, periodPath, timetablePath string) *Instance {
	store := NewTimetableStore(loader, subjectsPath, periodPath, timetablePath)

	return &Instance{
		Store:     store,
		Scheduler: newScheduler(cfg, store, publisher, dm, sink, log),
	}
}
