package container

import (
	"io"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"pi-vision/config"
	telegram "pi-vision/internal/api"
	app "pi-vision/internal/application"
	"pi-vision/internal/domain/entity"
	"pi-vision/internal/domain/port"
	"pi-vision/internal/infrastructure/journal"
	"pi-vision/internal/infrastructure/storage"
	"pi-vision/internal/infrastructure/vision"
)

type Container struct {
	Config    *config.Config
	Logger    *zap.Logger
	Clock     clock.Clock
	Profiles  *app.ProfileService
	Detection *app.DetectionService
	Detector  port.ObjectDetector
	Journal   port.DetectionJournal
	Notifier  port.Notifier

	// Preset и Sequence выбранный набор профилей и его рабочий список.
	Preset   string
	Sequence []entity.Phase

	closers []io.Closer
}

// New собирает сервисы приложения по конфигурации.
func New(cfg *config.Config, logger *zap.Logger) (*Container, error) {
	set, err := LoadProfileSet(cfg)
	if err != nil {
		return nil, err
	}

	profiles := app.NewProfileService(storage.NewMemoryProfileRepository())
	if err := profiles.Seed(set.Colors, set.Classes); err != nil {
		return nil, errors.Wrap(err, "seed profiles")
	}

	detector := vision.NewGoCVDetector()
	c := &Container{
		Config:    cfg,
		Logger:    logger,
		Clock:     clock.New(),
		Profiles:  profiles,
		Detection: app.NewDetectionService(profiles, detector),
		Detector:  detector,
		Journal:   journal.Noop{},
		Preset:    set.Name,
		Sequence:  set.Sequence,
	}

	if cfg.JournalPath != "" {
		j, err := journal.Open(cfg.JournalPath, c.Clock)
		if err != nil {
			return nil, err
		}
		c.Journal = j
		c.closers = append(c.closers, j)
		logger.Info("journal enabled", zap.String("path", cfg.JournalPath))
	}

	if cfg.TelegramEnabled() {
		n, err := telegram.NewNotifier(cfg.TelegramToken, cfg.TelegramChatID, logger.Named("telegram"))
		if err != nil {
			// Без уведомлений прогон всё равно полезен.
			logger.Warn("telegram disabled", zap.Error(err))
		} else {
			c.Notifier = n
		}
	}

	return c, nil
}

// LoadProfileSet берёт встроенный набор и накладывает поверх файл профилей, если он задан.
func LoadProfileSet(cfg *config.Config) (config.ProfileSet, error) {
	set, err := config.Preset(cfg.ProfilePreset, cfg.FramesPerState)
	if err != nil {
		return config.ProfileSet{}, err
	}
	if cfg.ProfilesFile == "" {
		return set, nil
	}
	file, err := config.LoadProfiles(cfg.ProfilesFile)
	if err != nil {
		return config.ProfileSet{}, err
	}
	return set.Merge(file), nil
}

// Cycle создаёт сервис перебора для конкретных источника и приёмника кадров.
func (c *Container) Cycle(source port.FrameSource, sink port.FrameSink) *app.CycleService {
	return app.NewCycleService(app.CycleDeps{
		Profiles: c.Profiles,
		Detector: c.Detector,
		Source:   source,
		Sink:     sink,
		Journal:  c.Journal,
		Notifier: c.Notifier,
		Clock:    c.Clock,
		Logger:   c.Logger.Named("cycle"),
	})
}

func (c *Container) Record(source port.FrameSource, sink port.FrameSink) *app.RecordService {
	return app.NewRecordService(source, sink, c.Clock, c.Logger.Named("record"))
}

func (c *Container) Depth(sensor port.DepthSensor) *app.DepthService {
	return app.NewDepthService(sensor, c.Config.TofInterval, c.Clock, c.Logger.Named("tof"))
}

// Close освобождает ресурсы, открытые в New.
func (c *Container) Close() error {
	var errs error
	for _, cl := range c.closers {
		errs = multierr.Append(errs, cl.Close())
	}
	c.closers = nil
	return errs
}

// NewLogger создаёт консольный логгер с уровнем level (debug, info, warn, error).
func NewLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, errors.Wrapf(err, "log level %q", level)
	}
	cfg := zap.Config{
		Level:    lvl,
		Encoding: "console",
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "ts",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "caller",
			FunctionKey:    zapcore.OmitKey,
			MessageKey:     "msg",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.CapitalColorLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
		DisableStacktrace: true,
		OutputPaths:       []string{"stderr"},
		ErrorOutputPaths:  []string{"stderr"},
	}
	return cfg.Build()
}
