package telegram

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"pi-vision/internal/domain/entity"
	"pi-vision/internal/domain/port"
	"pi-vision/internal/infrastructure/media"
)

const (
	msgRunDone      = "✅ Прогон #%d (%s) завершён"
	msgRunTotals    = "Кадров: %d, детекций: %d, %.1f FPS, %s"
	msgPhaseLine    = "• %s %s: кадров %d, с объектами %d, детекций %d"
	msgPhaseLargest = ", крупнейший %.0f px² в (%d, %d)"
	msgNoPhases     = "Шагов не было."
	msgSnapshot     = "📸 Последний кадр с детекциями"

	snapshotQuality = 85
)

// Notifier отправляет итоги прогона в Telegram-чат оператора
type Notifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
	logger *zap.Logger
}

// NewNotifier авторизуется по токену и создаёт уведомитель
func NewNotifier(token string, chatID int64, logger *zap.Logger) (*Notifier, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, errors.Wrap(err, "telegram auth")
	}
	return NewNotifierWithAPI(api, chatID, logger), nil
}

// NewNotifierWithAPI создаёт уведомитель поверх готового клиента
func NewNotifierWithAPI(api *tgbotapi.BotAPI, chatID int64, logger *zap.Logger) *Notifier {
	logger.Info("telegram notifier ready", zap.String("account", api.Self.UserName), zap.Int64("chat_id", chatID))
	return &Notifier{api: api, chatID: chatID, logger: logger}
}

// Notify отправляет сводку и, если есть, снимок аннотированного кадра
func (n *Notifier) Notify(ctx context.Context, report entity.RunReport, snapshot *entity.Frame) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := n.api.Send(tgbotapi.NewMessage(n.chatID, FormatReport(report))); err != nil {
		return errors.Wrap(err, "send report")
	}

	if snapshot == nil {
		return nil
	}
	data, err := media.EncodeJPEG(*snapshot, snapshotQuality)
	if err != nil {
		return errors.Wrap(err, "encode snapshot")
	}
	photo := tgbotapi.NewPhoto(n.chatID, tgbotapi.FileBytes{Name: "snapshot.jpg", Bytes: data})
	photo.Caption = msgSnapshot
	if _, err := n.api.Send(photo); err != nil {
		return errors.Wrap(err, "send snapshot")
	}

	n.logger.Debug("snapshot sent", zap.Int("bytes", len(data)))
	return nil
}

// FormatReport собирает текст сводки прогона
func FormatReport(report entity.RunReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, msgRunDone, report.RunID, report.Preset)
	b.WriteString("\n")
	fmt.Fprintf(&b, msgRunTotals, report.Frames, report.Detections(), report.FPS(), report.Elapsed.Round(time.Millisecond))

	if len(report.Phases) == 0 {
		b.WriteString("\n" + msgNoPhases)
		return b.String()
	}
	for _, p := range report.Phases {
		b.WriteString("\n")
		fmt.Fprintf(&b, msgPhaseLine, p.Phase.Color, p.Phase.Class, p.Frames, p.FramesWithHits, p.Detections)
		if p.Largest != nil {
			x, y := p.Largest.Center()
			fmt.Fprintf(&b, msgPhaseLargest, p.Largest.Area, x, y)
		}
	}
	return b.String()
}

var _ port.Notifier = (*Notifier)(nil)
