package handlers

import (
	"context"
	"net/http"
	"strings"

	"productposts/internal/importer"
	"productposts/internal/logger"
	"productposts/internal/models"
	"productposts/internal/repository"

	"github.com/gin-gonic/gin"
)

// KeyValidator reports whether a Diffbot token is usable.
type KeyValidator func(ctx context.Context, token string) bool

type SettingsHandler struct {
	settings    repository.SettingRepository
	validateKey KeyValidator
	logger      *logger.Logger
}

func NewSettingsHandler(settings repository.SettingRepository, validateKey KeyValidator, logger *logger.Logger) *SettingsHandler {
	return &SettingsHandler{
		settings:    settings,
		validateKey: validateKey,
		logger:      logger,
	}
}

type updateSettingsRequest struct {
	APIKey string `json:"apikey" form:"apikey"`
}

func (h *SettingsHandler) Get(c *gin.Context) {
	key, err := h.settings.GetValue(c.Request.Context(), models.SettingAPIKey)
	if err != nil {
		h.logger.Error("Failed to read settings: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read settings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"configured": key != "",
		"apikey":     maskKey(key),
	})
}

func (h *SettingsHandler) Update(c *gin.Context) {
	var req updateSettingsRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	key := strings.TrimSpace(req.APIKey)

	if !h.validateKey(c.Request.Context(), key) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status":  importer.StatusInvalidKey,
			"notice":  importer.Notice(importer.StatusInvalidKey),
			"message": importer.Message(importer.StatusInvalidKey),
		})
		return
	}

	if err := h.settings.SetValue(c.Request.Context(), models.SettingAPIKey, key); err != nil {
		h.logger.Error("Failed to store API key: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save settings"})
		return
	}

	h.logger.Info("Diffbot API key updated")
	c.JSON(http.StatusOK, gin.H{"status": "", "apikey": maskKey(key)})
}

func (h *SettingsHandler) Delete(c *gin.Context) {
	if err := h.settings.Delete(c.Request.Context(), models.SettingAPIKey); err != nil {
		h.logger.Error("Failed to delete API key: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete settings"})
		return
	}
	c.Status(http.StatusNoContent)
}

// maskKey keeps the last four characters visible.
func maskKey(key string) string {
	runes := []rune(key)
	if len(runes) <= 4 {
		return strings.Repeat("*", len(runes))
	}
	return strings.Repeat("*", len(runes)-4) + string(runes[len(runes)-4:])
}
