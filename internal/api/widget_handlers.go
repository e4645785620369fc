package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"widgetchat/internal/service/assistant"
	"widgetchat/internal/service/dispatch"
)

func (h *Handler) listWidgetTypes(c *gin.Context) {
	c.JSON(http.StatusOK, h.assistant.Registry().Types())
}

func (h *Handler) defaultWidgetConfig(c *gin.Context) {
	cfg := h.assistant.Registry().DefaultConfig(c.Param("widget_type"))
	if cfg == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Widget type not found"})
		return
	}
	c.JSON(http.StatusOK, cfg)
}

func (h *Handler) validateWidgetConfig(c *gin.Context) {
	var cfg map[string]any
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": h.assistant.Registry().Validate(c.Param("widget_type"), cfg)})
}

type widgetConfigRequest struct {
	WidgetType string         `json:"widget_type"`
	UserID     *string        `json:"user_id"`
	Config     map[string]any `json:"config"`
}

func (h *Handler) createWidgetConfig(c *gin.Context) {
	var req widgetConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	record, err := h.assistant.CreateWidgetConfig(c.Request.Context(), req.WidgetType, req.UserID, req.Config)
	if err != nil {
		if errors.Is(err, assistant.ErrInvalidConfig) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid widget configuration"})
			return
		}
		h.internalError(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

func (h *Handler) listWidgetConfigs(c *gin.Context) {
	configs, err := h.assistant.ListWidgetConfigs(c.Request.Context(),
		strings.TrimSpace(c.Query("user_id")), strings.TrimSpace(c.Query("widget_type")))
	if err != nil {
		h.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, configs)
}

func (h *Handler) getWidgetConfig(c *gin.Context) {
	id, ok := parseID(c, "config")
	if !ok {
		return
	}
	record, err := h.assistant.GetWidgetConfig(c.Request.Context(), id)
	if err != nil {
		h.notFoundOr(c, err, "Widget configuration")
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *Handler) updateWidgetConfig(c *gin.Context) {
	id, ok := parseID(c, "config")
	if !ok {
		return
	}
	var cfg map[string]any
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	// a full create-style body is accepted as well as a bare config object
	if inner, ok := cfg["config"].(map[string]any); ok {
		cfg = inner
	}
	record, err := h.assistant.UpdateWidgetConfig(c.Request.Context(), id, cfg)
	if err != nil {
		if errors.Is(err, assistant.ErrInvalidConfig) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid widget configuration"})
			return
		}
		h.notFoundOr(c, err, "Widget configuration")
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *Handler) deleteWidgetConfig(c *gin.Context) {
	id, ok := parseID(c, "config")
	if !ok {
		return
	}
	if err := h.assistant.DeleteWidgetConfig(c.Request.Context(), id); err != nil {
		h.notFoundOr(c, err, "Widget configuration")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Widget configuration deleted successfully"})
}

type widgetDataRequest struct {
	WidgetType string         `json:"widget_type"`
	Params     map[string]any `json:"params"`
}

func (h *Handler) widgetData(c *gin.Context) {
	var req widgetDataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	result, err := h.assistant.WidgetData(c.Request.Context(), req.WidgetType, req.Params)
	if err != nil {
		if errors.Is(err, dispatch.ErrUnknownWidgetType) {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Unknown widget type: %s", req.WidgetType)})
			return
		}
		h.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type refreshRequest struct {
	WidgetType   string `json:"widget_type"`
	WidgetID     string `json:"widget_id"`
	ForceRefresh bool   `json:"force_refresh"`
}

func (h *Handler) refreshWidget(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.WidgetType) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "widget_type is required"})
		return
	}
	cleared, err := h.assistant.RefreshWidget(c.Request.Context(), req.WidgetType, req.ForceRefresh)
	if err != nil {
		if errors.Is(err, dispatch.ErrUnknownWidgetType) {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Unknown widget type: %s", req.WidgetType)})
			return
		}
		h.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Widget refresh requested", "cleared": cleared})
}

func (h *Handler) clearWidgetCache(c *gin.Context) {
	deleted, err := h.assistant.ClearCache(c.Request.Context(), strings.TrimSpace(c.Query("widget_type")))
	if err != nil {
		h.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Cleared %d cache entries", deleted),
		"deleted": deleted,
	})
}
