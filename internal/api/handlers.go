package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"propertylens/config"
	"propertylens/internal/analyzer"
	"propertylens/internal/database"
	"propertylens/internal/export"
	"propertylens/internal/extractor"
	"propertylens/internal/models"
	"propertylens/internal/queue"
	"propertylens/internal/telegram"
)

type Handler struct {
	db              *database.Database
	logger          *logrus.Logger
	config          *config.Config
	extractor       *extractor.Extractor
	analyzer        *analyzer.Analyzer
	queue           *queue.AnalysisQueue
	telegramService *telegram.Service
	now             func() time.Time
}

// ExtractRequest carries assistant output as plain text or HTML.
type ExtractRequest struct {
	Text string `json:"text"`
	HTML string `json:"html"`
}

// AnalyzeRequest accepts text, HTML or already structured attributes.
// Preferences default to the stored profile.
type AnalyzeRequest struct {
	Text        string                     `json:"text"`
	HTML        string                     `json:"html"`
	Property    *models.PropertyAttributes `json:"property"`
	Preferences json.RawMessage            `json:"preferences"`
	Source      string                     `json:"source"`
}

// AnalyzeResponse is returned by POST /api/analyze.
type AnalyzeResponse struct {
	ID       string                    `json:"id"`
	Property models.PropertyAttributes `json:"property"`
	Found    []models.Field            `json:"found"`
	Analysis models.FinancialAnalysis  `json:"analysis"`
}

// NewHandler wires the handler. analysisQueue may be nil, in which case
// analyses are written to the database directly.
func NewHandler(db *database.Database, analysisQueue *queue.AnalysisQueue, cfg *config.Config, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	// Initialize the telegram service
	telegramService := telegram.NewService(cfg.Telegram.APIURL, nil, logger)

	// Load existing Telegram configuration
	if tgConfig, err := db.GetTelegramConfig(); err != nil {
		logger.WithError(err).Error("Failed to load Telegram config")
	} else if tgConfig != nil {
		telegramService.UpdateConfig(tgConfig)
	}

	return &Handler{
		db:              db,
		logger:          logger,
		config:          cfg,
		extractor:       extractor.New(logger),
		analyzer:        analyzer.New(logger),
		queue:           analysisQueue,
		telegramService: telegramService,
		now:             time.Now,
	}
}

// Extract runs field extraction only; nothing is stored.
func (h *Handler) Extract(c *gin.Context) {
	var req ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Error("Invalid request body")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	text, err := requestText(req.Text, req.HTML)
	if err != nil {
		h.logger.WithError(err).Error("Failed to read HTML")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse HTML"})
		return
	}
	if strings.TrimSpace(text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text or html is required"})
		return
	}

	c.JSON(http.StatusOK, h.extractor.Extract(text))
}

func (h *Handler) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Error("Invalid request body")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	text, err := requestText(req.Text, req.HTML)
	if err != nil {
		h.logger.WithError(err).Error("Failed to read HTML")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse HTML"})
		return
	}

	var attrs models.PropertyAttributes
	var found []models.Field
	switch {
	case req.Property != nil:
		attrs = extractor.Clean(*req.Property)
		found = extractor.FoundFields(attrs)
	case strings.TrimSpace(text) != "":
		extraction := h.extractor.Extract(text)
		attrs = extraction.Attributes
		found = extraction.Found
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "text, html or property is required"})
		return
	}

	prefs, ok := h.preferences(c, req.Preferences)
	if !ok {
		return
	}

	// The analysed text feeds the keyword checks but is stored once, as SourceText.
	input := attrs
	if req.Property == nil {
		input.Description = models.String(text)
	}
	analysis := h.analyzer.Analyze(input, prefs)

	if attrs.Description != nil {
		description, _ := database.TruncateText(*attrs.Description, h.config.Storage.MaxTextBytes)
		attrs.Description = models.String(description)
	}

	source := req.Source
	if source == "" {
		source = "api"
	}
	record := models.NewAnalysisRecord(uuid.New().String(), source, attrs, analysis)
	record.CreatedAt = h.now().UTC()
	record.SourceText, record.Truncated = database.TruncateText(text, h.config.Storage.MaxTextBytes)
	if record.Truncated {
		h.logger.WithFields(logrus.Fields{
			"id":     record.ID,
			"length": len(text),
		}).Info("Source text truncated for storage")
	}

	if err := h.persist(record); err != nil {
		h.logger.WithError(err).Error("Failed to save analysis")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save analysis"})
		return
	}

	h.notify(record)

	c.JSON(http.StatusOK, AnalyzeResponse{
		ID:       record.ID,
		Property: attrs,
		Found:    found,
		Analysis: analysis,
	})
}

// preferences resolves the request profile. Keys the request leaves out keep
// the stored profile's values, or the defaults when nothing is stored.
func (h *Handler) preferences(c *gin.Context, requested json.RawMessage) (models.InvestmentPreferences, bool) {
	prefs, err := h.db.GetPreferences()
	if err != nil {
		h.logger.WithError(err).Warn("Failed to load stored preferences, using defaults")
		prefs = models.DefaultPreferences()
	}

	requested = bytes.TrimSpace(requested)
	if len(requested) == 0 || bytes.Equal(requested, []byte("null")) {
		return prefs, true
	}

	if err := json.Unmarshal(requested, &prefs); err != nil {
		h.logger.WithError(err).Error("Invalid preferences")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid preferences"})
		return models.InvestmentPreferences{}, false
	}
	if err := config.ValidatePreferences(prefs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return models.InvestmentPreferences{}, false
	}
	return prefs, true
}

// persist queues the record for the batch processor, saving it directly
// when the queue cannot take it.
func (h *Handler) persist(record *models.AnalysisRecord) error {
	batch := []*models.AnalysisRecord{record}
	if h.queue != nil {
		err := h.queue.Push(batch)
		if err == nil {
			return nil
		}
		if !errors.Is(err, queue.ErrQueueFull) && !errors.Is(err, queue.ErrQueueClosed) {
			return err
		}
		h.logger.WithError(err).Warn("Queue unavailable, saving analysis directly")
	}
	return h.db.SaveAnalyses(batch)
}

func (h *Handler) notify(record *models.AnalysisRecord) {
	if !h.telegramService.Enabled() {
		return
	}
	sent, err := h.telegramService.NotifyAnalysis(record)
	if err != nil {
		h.logger.WithError(err).WithField("id", record.ID).Error("Failed to send Telegram notification")
		return
	}
	if sent {
		h.logger.WithField("id", record.ID).Info("Sent Telegram notification")
	}
}

func (h *Handler) ListAnalyses(c *gin.Context) {
	verdict := models.Verdict(c.Query("verdict"))
	if verdict != "" && !verdict.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown verdict"})
		return
	}

	limitStr := c.DefaultQuery("limit", strconv.Itoa(database.DefaultListLimit))
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 {
		limit = database.DefaultListLimit
	}

	records, err := h.db.ListAnalyses(database.AnalysisFilter{Verdict: verdict, Limit: limit})
	if err != nil {
		h.logger.WithError(err).Error("Failed to list analyses")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list analyses"})
		return
	}

	c.JSON(http.StatusOK, records)
}

func (h *Handler) GetAnalysis(c *gin.Context) {
	record, err := h.db.GetAnalysis(c.Param("id"))
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Analysis not found"})
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to get analysis")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get analysis"})
		return
	}

	c.JSON(http.StatusOK, record)
}

func (h *Handler) DeleteAnalysis(c *gin.Context) {
	err := h.db.DeleteAnalysis(c.Param("id"))
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Analysis not found"})
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to delete analysis")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete analysis"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Analysis deleted"})
}

func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.db.GetStats()
	if err != nil {
		h.logger.WithError(err).Error("Failed to get analysis stats")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get analysis stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *Handler) Export(c *gin.Context) {
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	records, err := h.db.AllAnalyses()
	if err != nil {
		h.logger.WithError(err).Error("Failed to load analyses for export")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export analyses"})
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, format, records); err != nil {
		h.logger.WithError(err).Error("Failed to encode export")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export analyses"})
		return
	}

	c.Header("Content-Disposition", "attachment; filename=analyses."+string(format))
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

func (h *Handler) GetPreferences(c *gin.Context) {
	prefs, err := h.db.GetPreferences()
	if err != nil {
		h.logger.WithError(err).Error("Failed to get preferences")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get preferences"})
		return
	}

	c.JSON(http.StatusOK, prefs)
}

// UpdatePreferences replaces the stored profile. Keys missing from the body
// keep their documented defaults.
func (h *Handler) UpdatePreferences(c *gin.Context) {
	prefs := models.DefaultPreferences()
	if err := c.ShouldBindJSON(&prefs); err != nil {
		h.logger.WithError(err).Error("Invalid request body")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := config.ValidatePreferences(prefs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.db.SavePreferences(prefs); err != nil {
		h.logger.WithError(err).Error("Failed to save preferences")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save preferences"})
		return
	}

	c.JSON(http.StatusOK, prefs)
}

// GetTelegramConfig returns the current Telegram configuration
func (h *Handler) GetTelegramConfig(c *gin.Context) {
	tgConfig, err := h.db.GetTelegramConfig()
	if err != nil {
		h.logger.WithError(err).Error("Failed to get Telegram config")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get Telegram config"})
		return
	}

	if tgConfig == nil {
		c.JSON(http.StatusOK, gin.H{
			"is_enabled": false,
			"chat_id":    "",
			"bot_token":  "",
		})
		return
	}

	// Don't send the full bot token back to the client
	tgConfig.BotToken = maskToken(tgConfig.BotToken)
	c.JSON(http.StatusOK, tgConfig)
}

// UpdateTelegramConfig updates the Telegram configuration
func (h *Handler) UpdateTelegramConfig(c *gin.Context) {
	var request models.TelegramConfigRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.logger.WithError(err).Error("Invalid request body")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	// Basic validation
	if len(request.BotToken) < 20 || !strings.Contains(request.BotToken, ":") {
		h.logger.Error("Invalid bot token format")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bot token format. Please check your bot token from @BotFather"})
		return
	}

	if request.ChatID == "" {
		h.logger.Error("Chat ID is required")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Chat ID is required"})
		return
	}

	// Test the Telegram configuration before saving
	testService := telegram.NewService(h.config.Telegram.APIURL, nil, h.logger)
	testService.UpdateConfig(&models.TelegramConfig{
		BotToken:  request.BotToken,
		ChatID:    request.ChatID,
		IsEnabled: true,
	})

	testMessage := "🔔 Test notification from PropertyLens\n\nIf you see this message, your Telegram configuration is working correctly!"
	if err := testService.SendMessage(testMessage); err != nil {
		h.logger.WithError(err).Error("Failed to send test message")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.db.UpdateTelegramConfig(&request); err != nil {
		h.logger.WithError(err).Error("Failed to update Telegram config")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save configuration to database"})
		return
	}

	// Update the service configuration
	if tgConfig, err := h.db.GetTelegramConfig(); err == nil && tgConfig != nil {
		h.telegramService.UpdateConfig(tgConfig)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Telegram configuration updated successfully"})
}

// TestTelegramConfig sends a sample analysis notification with the stored configuration
func (h *Handler) TestTelegramConfig(c *gin.Context) {
	tgConfig, err := h.db.GetTelegramConfig()
	if err != nil {
		h.logger.WithError(err).Error("Failed to get Telegram config")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get Telegram configuration"})
		return
	}

	if tgConfig == nil || !tgConfig.IsEnabled {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Telegram is not configured or is disabled"})
		return
	}

	sample := sampleProperty()
	record := models.NewAnalysisRecord("test", "test", sample, h.analyzer.Analyze(sample, models.DefaultPreferences()))

	testService := telegram.NewService(h.config.Telegram.APIURL, nil, h.logger)
	testService.UpdateConfig(tgConfig)
	if err := testService.SendMessage(telegram.FormatAnalysis(record)); err != nil {
		h.logger.WithError(err).Error("Failed to send test notification")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Test notification sent successfully"})
}

func sampleProperty() models.PropertyAttributes {
	return models.PropertyAttributes{
		Price:                 models.Float(185000),
		Bedrooms:              models.Float(3),
		Bathrooms:             models.Float(2),
		SquareFeet:            models.Int(1450),
		YearBuilt:             models.Int(1998),
		PropertyType:          models.String("Single Family"),
		Address:               models.String("123 Test Street, Springfield, IL 62704"),
		EstimatedRentalIncome: models.Float(2100),
	}
}

func maskToken(token string) string {
	if len(token) <= 4 {
		return "••••"
	}
	return "••••" + token[len(token)-4:]
}

// requestText prefers plain text and falls back to the visible text of html.
func requestText(text, html string) (string, error) {
	if strings.TrimSpace(text) != "" || strings.TrimSpace(html) == "" {
		return text, nil
	}
	return htmlToText(html)
}

// blockElements end a line when HTML is flattened to text.
const blockElements = "p, div, li, br, tr, h1, h2, h3, h4, h5, h6, section, article, blockquote, pre"

func htmlToText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}

	doc.Find("script, style, noscript").Remove()
	doc.Find(blockElements).Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})

	return strings.TrimSpace(doc.Text()), nil
}
