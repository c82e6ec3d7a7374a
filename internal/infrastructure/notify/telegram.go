package notify

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/valyala/bytebufferpool"

	"github.com/riskibarqy/cricket-fantasy/internal/platform/logging"
	"github.com/riskibarqy/cricket-fantasy/internal/usecase"
)

// Telegram rejects messages above 4096 characters.
const maxMessageLength = 4000

type TelegramConfig struct {
	Token  string
	ChatID int64
	// APIEndpoint is a tgbotapi format string; empty means the public API.
	APIEndpoint string
	HTTPClient  *http.Client
	Timeout     time.Duration
}

// TelegramNotifier posts a sync report to one chat. The bot handle is created
// on first use so a misconfigured token does not block startup.
type TelegramNotifier struct {
	cfg    TelegramConfig
	logger *logging.Logger

	mu  sync.Mutex
	bot *tgbotapi.BotAPI
}

var _ usecase.SyncNotifier = (*TelegramNotifier)(nil)

func NewTelegramNotifier(cfg TelegramConfig, logger *logging.Logger) *TelegramNotifier {
	if logger == nil {
		logger = logging.Default()
	}
	if strings.TrimSpace(cfg.APIEndpoint) == "" {
		cfg.APIEndpoint = tgbotapi.APIEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &TelegramNotifier{cfg: cfg, logger: logger}
}

func (n *TelegramNotifier) NotifySync(ctx context.Context, result usecase.SyncResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	bot, err := n.client()
	if err != nil {
		return err
	}

	for _, chunk := range splitMessage(FormatSyncReport(result), maxMessageLength) {
		if err := ctx.Err(); err != nil {
			return err
		}
		msg := tgbotapi.NewMessage(n.cfg.ChatID, chunk)
		msg.DisableWebPagePreview = true
		if _, err := bot.Send(msg); err != nil {
			return fmt.Errorf("send telegram message chat=%d: %w", n.cfg.ChatID, err)
		}
	}

	n.logger.DebugContext(ctx, "sync report sent", "chat_id", n.cfg.ChatID, "processed", result.Processed)
	return nil
}

func (n *TelegramNotifier) client() (*tgbotapi.BotAPI, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.bot != nil {
		return n.bot, nil
	}
	if strings.TrimSpace(n.cfg.Token) == "" || n.cfg.ChatID == 0 {
		return nil, fmt.Errorf("telegram notifier requires token and chat id")
	}

	bot, err := tgbotapi.NewBotAPIWithClient(n.cfg.Token, n.cfg.APIEndpoint, n.cfg.HTTPClient)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	n.logger.Info("telegram notifier ready", "bot", bot.Self.UserName)
	n.bot = bot
	return bot, nil
}

// FormatSyncReport renders a plain-text summary of one sync run.
func FormatSyncReport(result usecase.SyncResult) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	switch {
	case result.Error != "":
		_, _ = buf.WriteString("Cricket sync FAILED\n")
	case result.DryRun:
		_, _ = buf.WriteString("Cricket sync finished (dry run)\n")
	default:
		_, _ = buf.WriteString("Cricket sync finished\n")
	}

	_, _ = fmt.Fprintf(buf, "Processed: %d\n", result.Processed)
	if result.Boundary != nil {
		_, _ = fmt.Fprintf(buf, "Boundary: %s\n", result.Boundary.UTC().Format(time.RFC3339))
	} else {
		_, _ = buf.WriteString("Boundary: none\n")
	}

	for _, item := range result.Matches {
		name := item.Name
		if name == "" {
			name = item.MatchID
		}
		_, _ = fmt.Fprintf(buf, "- %s (%s): %d players, %d teams\n",
			name, item.StartTime.UTC().Format("2006-01-02"), item.Players, item.Teams)
	}

	if result.Error != "" {
		_, _ = fmt.Fprintf(buf, "Error: %s\n", result.Error)
	}

	return strings.TrimRight(buf.String(), "\n")
}

func splitMessage(text string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}

	var (
		out     []string
		current strings.Builder
	)
	for _, line := range strings.Split(text, "\n") {
		for len(line) > limit {
			if current.Len() > 0 {
				out = append(out, current.String())
				current.Reset()
			}
			out = append(out, line[:limit])
			line = line[limit:]
		}
		if current.Len() > 0 && current.Len()+1+len(line) > limit {
			out = append(out, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteByte('\n')
		}
		current.WriteString(line)
	}
	if current.Len() > 0 {
		out = append(out, current.String())
	}
	return out
}
