package telegram

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"propertylens/internal/models"
)

// DefaultAPIURL is the public Bot API endpoint.
const DefaultAPIURL = "https://api.telegram.org"

var (
	ErrMissingBotToken = errors.New("Telegram bot token is not configured")
	ErrMissingChatID   = errors.New("Telegram chat ID is not configured")
)

type Service struct {
	logger *logrus.Logger
	client *http.Client
	apiURL string

	mu     sync.RWMutex
	config *models.TelegramConfig
}

// NewService creates a notifier posting to apiURL. A nil client gets a 10s timeout.
func NewService(apiURL string, client *http.Client, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if client == nil {
		client = &http.Client{
			Timeout: 10 * time.Second,
		}
	}
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	return &Service{
		logger: logger,
		client: client,
		apiURL: strings.TrimRight(apiURL, "/"),
	}
}

func (s *Service) UpdateConfig(config *models.TelegramConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = config
}

// Enabled reports whether a configuration is loaded and switched on.
func (s *Service) Enabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config != nil && s.config.IsEnabled
}

func (s *Service) currentConfig() *models.TelegramConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

// SendMessage sends a message to the configured Telegram chat
func (s *Service) SendMessage(message string) error {
	config := s.currentConfig()
	if config == nil || !config.IsEnabled {
		return nil
	}

	if config.BotToken == "" {
		return ErrMissingBotToken
	}

	if config.ChatID == "" {
		return ErrMissingChatID
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", s.apiURL, config.BotToken)
	payload := map[string]interface{}{
		"chat_id":    config.ChatID,
		"text":       message,
		"parse_mode": "HTML",
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal message payload: %w", err)
	}

	resp, err := s.client.Post(url, "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to send message to Telegram API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return errors.New("invalid bot token - please check your token from @BotFather")
		case http.StatusBadRequest:
			return fmt.Errorf("invalid chat ID or message format: %s", string(body))
		case http.StatusForbidden:
			return errors.New("bot was blocked by the user or chat")
		case http.StatusNotFound:
			return errors.New("bot not found - please check your token from @BotFather")
		default:
			return fmt.Errorf("Telegram API error (status %d): %s", resp.StatusCode, string(body))
		}
	}

	return nil
}

// NotifyAnalysis sends a message for record when the configured filters allow it.
// It reports whether a message was sent.
func (s *Service) NotifyAnalysis(record *models.AnalysisRecord) (bool, error) {
	config := s.currentConfig()
	if config == nil || !config.IsEnabled || record == nil {
		return false, nil
	}

	if !config.Filters.IsAnalysisAllowed(record.Analysis) {
		s.logger.WithFields(logrus.Fields{
			"id":      record.ID,
			"verdict": record.Analysis.Verdict,
		}).Debug("Analysis filtered out of notifications")
		return false, nil
	}

	if err := s.SendMessage(FormatAnalysis(record)); err != nil {
		return false, err
	}
	return true, nil
}

// FormatAnalysis renders the HTML message body for record.
func FormatAnalysis(record *models.AnalysisRecord) string {
	analysis := record.Analysis
	fin := analysis.Financials

	address := record.Property.DisplayAddress()
	if address == "" {
		address = "Unknown address"
	}

	title := fmt.Sprintf("<b>%s</b>", html.EscapeString(string(analysis.Verdict)))
	if analysis.Verdict == models.VerdictStrongBuy {
		title = "<b>🔥 Strong Buy found!</b>"
	}

	message := fmt.Sprintf(
		"%s\n\n"+
			"🏠 %s\n"+
			"💰 $%s\n"+
			"💵 Cash flow: $%s/mo\n"+
			"📈 Cap rate: %.2f%%\n"+
			"📊 CoC return: %.2f%%\n"+
			"⭐ Score: %d/10",
		title,
		html.EscapeString(address),
		thousands(fin.PurchasePrice),
		thousands(fin.CashFlow.Monthly),
		fin.CapRate,
		fin.CoCReturn,
		analysis.Score,
	)

	if n := len(analysis.RedFlags); n > 0 {
		message += fmt.Sprintf("\n\n⚠️ %d red flag(s)", n)
	}
	return message
}

// thousands formats v rounded to whole units with comma separators.
func thousands(v float64) string {
	n := int64(v + 0.5)
	if v < 0 {
		n = int64(v - 0.5)
	}
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}

	digits := fmt.Sprintf("%d", n)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + b.String()
}
