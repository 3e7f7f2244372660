package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"
)

type Config struct {
	FrameWidth     int
	FrameHeight    int
	CameraFPS      float64
	CameraDevice   int
	VideoDir       string
	VideoFPS       float64
	VideoCodec     string
	FramesPerState int
	RecordDuration time.Duration
	ProfilePreset  string
	ProfilesFile   string
	JournalPath    string
	TofBus         string
	TofAddress     uint16
	TofInterval    time.Duration
	LogLevel       string
	TelegramToken  string
	TelegramChatID int64
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	var errs error
	cfg := &Config{
		FrameWidth:     getEnvAsInt("FRAME_WIDTH", 1280, &errs),
		FrameHeight:    getEnvAsInt("FRAME_HEIGHT", 720, &errs),
		CameraFPS:      getEnvAsFloat("CAMERA_FPS", 80, &errs),
		CameraDevice:   getEnvAsInt("CAMERA_DEVICE", 0, &errs),
		VideoDir:       getEnv("VIDEO_DIR", "media/videos"),
		VideoFPS:       getEnvAsFloat("VIDEO_FPS", 30, &errs),
		VideoCodec:     getEnv("VIDEO_CODEC", "mp4v"),
		FramesPerState: getEnvAsInt("FRAMES_PER_STATE", 75, &errs),
		RecordDuration: getEnvAsDuration("RECORD_DURATION", 5*time.Second, &errs),
		ProfilePreset:  getEnv("PROFILE_PRESET", PresetCycle),
		ProfilesFile:   os.Getenv("PROFILES_FILE"),
		JournalPath:    os.Getenv("JOURNAL_PATH"),
		TofBus:         getEnv("TOF_BUS", "1"),
		TofAddress:     uint16(getEnvAsUint("TOF_ADDRESS", 0x33, 16, &errs)),
		TofInterval:    getEnvAsDuration("TOF_INTERVAL", 100*time.Millisecond, &errs),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		TelegramToken:  os.Getenv("TELEGRAM_TOKEN"),
		TelegramChatID: int64(getEnvAsInt("TELEGRAM_CHAT_ID", 0, &errs)),
	}
	if errs != nil {
		return nil, errs
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate собирает все ошибки конфигурации сразу.
func (c *Config) Validate() error {
	var errs error
	if c.FrameWidth <= 0 || c.FrameHeight <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("frame size must be positive, got %dx%d", c.FrameWidth, c.FrameHeight))
	}
	if c.VideoFPS <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("VIDEO_FPS must be positive, got %v", c.VideoFPS))
	}
	if len(c.VideoCodec) != 4 {
		errs = multierr.Append(errs, fmt.Errorf("VIDEO_CODEC must be a fourcc, got %q", c.VideoCodec))
	}
	if c.FramesPerState <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("FRAMES_PER_STATE must be positive, got %d", c.FramesPerState))
	}
	if c.RecordDuration <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("RECORD_DURATION must be positive, got %s", c.RecordDuration))
	}
	if c.TofInterval <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("TOF_INTERVAL must be positive, got %s", c.TofInterval))
	}
	if c.TofAddress > 0x7f {
		errs = multierr.Append(errs, fmt.Errorf("TOF_ADDRESS must be a 7-bit address, got %#x", c.TofAddress))
	}
	if c.TelegramToken != "" && c.TelegramChatID == 0 {
		errs = multierr.Append(errs, fmt.Errorf("TELEGRAM_CHAT_ID is required when TELEGRAM_TOKEN is set"))
	}
	return errs
}

// TelegramEnabled сообщает, настроены ли уведомления.
func (c *Config) TelegramEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChatID != 0
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int, errs *error) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		*errs = multierr.Append(*errs, fmt.Errorf("%s: %w", key, err))
		return defaultValue
	}
	return n
}

func getEnvAsUint(key string, defaultValue uint64, bits int, errs *error) uint64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.ParseUint(value, 0, bits)
	if err != nil {
		*errs = multierr.Append(*errs, fmt.Errorf("%s: %w", key, err))
		return defaultValue
	}
	return n
}

func getEnvAsFloat(key string, defaultValue float64, errs *error) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		*errs = multierr.Append(*errs, fmt.Errorf("%s: %w", key, err))
		return defaultValue
	}
	return f
}

func getEnvAsDuration(key string, defaultValue time.Duration, errs *error) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		*errs = multierr.Append(*errs, fmt.Errorf("%s: %w", key, err))
		return defaultValue
	}
	return d
}
