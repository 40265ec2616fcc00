package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/slack-go/slack"

	"github.com/dpavluk/slack-lesson-bot/internal/config"
	"github.com/dpavluk/slack-lesson-bot/internal/database"
	"github.com/dpavluk/slack-lesson-bot/internal/domain/service"
	"github.com/dpavluk/slack-lesson-bot/internal/loader"
	"github.com/dpavluk/slack-lesson-bot/internal/logger"
	"github.com/dpavluk/slack-lesson-bot/internal/metrics"
	"github.com/dpavluk/slack-lesson-bot/internal/slackbot"
	migrator "github.com/dpavluk/slack-lesson-bot/migrator/sqlite"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	flag.Parse()

	log := logger.New("bot")

	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Both were validated by config.Load.
	anchor, _ := cfg.Rotation.AnchorDate()
	reload, _ := cfg.Schedule.ReloadClock()

	db, err := database.New(cfg.Database.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer db.Close()

	if err := migrator.Migrate(db.DB()); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var sink metrics.Sink = metrics.NopSink{}
	if cfg.Metrics.Enabled {
		promSink, err := metrics.NewPromSink(nil)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to register metrics")
		}
		sink = promSink
		go func() {
			if err := metrics.StartServer(ctx, cfg.Metrics.Addr, log); err != nil {
				log.Error().Err(err).Msg("metrics server failed")
			}
		}()
	}

	publisher := slackbot.New(slack.New(cfg.Slack.BotToken))

	svc := service.NewInstance(
		service.SchedulerConfig{
			ChannelID:           cfg.Slack.ChannelID,
			NumberOfPeriods:     cfg.Rotation.NumberOfPeriods,
			PeriodDurationDays:  cfg.Rotation.PeriodDurationDays,
			AnchorDate:          anchor,
			ReloadTime:          reload,
			SkipOnDeliveryError: cfg.Schedule.OnDeliveryError == config.PolicySkip,
		},
		loader.New(),
		publisher,
		database.NewInstance(db),
		sink,
		log,
		cfg.Files.Subjects,
		cfg.Files.Period,
		cfg.Files.Timetable,
	)

	log.Info().Str("channel", cfg.Slack.ChannelID).Msg("lesson bot starting")

	if err := svc.Scheduler.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			log.Info().Msg("lesson bot stopped")
			return
		}
		log.Fatal().Err(err).Msg("scheduler stopped")
	}
}
