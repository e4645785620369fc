package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"widgetchat/internal/models"
	"widgetchat/internal/service/assistant"
)

const Version = "1.0.0"

// Handler wires HTTP routes to the assistant service.
type Handler struct {
	assistant *assistant.Service
	debug     bool
}

// NewHandler constructs a Handler instance. In debug mode 500 responses carry
// the underlying error.
func NewHandler(service *assistant.Service, debug bool) *Handler {
	return &Handler{assistant: service, debug: debug}
}

// RegisterRoutes attaches all HTTP routes to the router.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.GET("/", h.root)
	router.GET("/health", h.health)

	api := router.Group("/api/v1")
	chat := api.Group("/chat")
	chat.POST("/sessions", h.createSession)
	chat.GET("/sessions", h.listSessions)
	chat.GET("/sessions/:id", h.getSession)
	chat.PATCH("/sessions/:id", h.renameSession)
	chat.GET("/sessions/:id/messages", h.getSessionMessages)
	chat.DELETE("/sessions/:id", h.deleteSession)
	chat.POST("/message", h.sendMessage)

	w := api.Group("/widgets")
	w.GET("/types", h.listWidgetTypes)
	w.GET("/types/:widget_type/config", h.defaultWidgetConfig)
	w.POST("/types/:widget_type/validate", h.validateWidgetConfig)
	w.POST("/config", h.createWidgetConfig)
	w.GET("/config", h.listWidgetConfigs)
	w.GET("/config/:id", h.getWidgetConfig)
	w.PUT("/config/:id", h.updateWidgetConfig)
	w.DELETE("/config/:id", h.deleteWidgetConfig)
	w.POST("/data", h.widgetData)
	w.POST("/refresh", h.refreshWidget)
	w.DELETE("/cache", h.clearWidgetCache)
}

// Recovery turns panics into the same 500 body as handler failures.
func (h *Handler) Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		h.internalError(c, fmt.Errorf("panic: %v", recovered))
	})
}

func (h *Handler) internalError(c *gin.Context, err error) {
	log.Printf("%s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	body := gin.H{"error": "Internal server error"}
	if h.debug {
		body["detail"] = err.Error()
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, body)
}

// notFoundOr writes 404 for missing records and 500 otherwise.
func (h *Handler) notFoundOr(c *gin.Context, err error, what string) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": what + " not found"})
		return
	}
	h.internalError(c, err)
}

func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name + " id"})
		return 0, false
	}
	return id, true
}

func (h *Handler) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "AI Widget Chat API", "version": Version})
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "version": Version})
}

type createSessionRequest struct {
	UserID string  `json:"user_id"`
	Title  *string `json:"title"`
}

func (h *Handler) createSession(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	session, err := h.assistant.CreateSession(c.Request.Context(), req.UserID, req.Title)
	if err != nil {
		h.internalError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

func (h *Handler) listSessions(c *gin.Context) {
	sessions, err := h.assistant.ListSessions(c.Request.Context(), strings.TrimSpace(c.Query("user_id")))
	if err != nil {
		h.internalError(c, err)
		return
	}
	if sessions == nil {
		sessions = make([]models.ChatSession, 0)
	}
	c.JSON(http.StatusOK, sessions)
}

func (h *Handler) getSession(c *gin.Context) {
	sessionID, ok := parseID(c, "session")
	if !ok {
		return
	}
	session, err := h.assistant.GetSession(c.Request.Context(), sessionID)
	if err != nil {
		h.notFoundOr(c, err, "Chat session")
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *Handler) renameSession(c *gin.Context) {
	sessionID, ok := parseID(c, "session")
	if !ok {
		return
	}
	var req struct {
		Title string `json:"title"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	session, err := h.assistant.UpdateSessionTitle(c.Request.Context(), sessionID, req.Title)
	if err != nil {
		if errors.Is(err, assistant.ErrEmptyTitle) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.notFoundOr(c, err, "Chat session")
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *Handler) getSessionMessages(c *gin.Context) {
	sessionID, ok := parseID(c, "session")
	if !ok {
		return
	}
	_, messages, err := h.assistant.GetSessionWithMessages(c.Request.Context(), sessionID)
	if err != nil {
		h.notFoundOr(c, err, "Chat session")
		return
	}
	c.JSON(http.StatusOK, messages)
}

func (h *Handler) deleteSession(c *gin.Context) {
	sessionID, ok := parseID(c, "session")
	if !ok {
		return
	}
	if err := h.assistant.DeleteSession(c.Request.Context(), sessionID); err != nil {
		h.notFoundOr(c, err, "Chat session")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Chat session deleted successfully"})
}

type sendMessageRequest struct {
	Message   string `json:"message"`
	SessionID *int64 `json:"session_id"`
	UserID    string `json:"user_id"`
}

func (h *Handler) sendMessage(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	result, err := h.assistant.SendMessage(c.Request.Context(), assistant.SendMessageRequest{
		Content:   req.Message,
		SessionID: req.SessionID,
		UserID:    req.UserID,
	})
	if err != nil {
		if errors.Is(err, assistant.ErrEmptyMessage) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.notFoundOr(c, err, "Chat session")
		return
	}
	c.JSON(http.StatusOK, result)
}
