package assistant

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"widgetchat/internal/models"
	"widgetchat/internal/redis"
	"widgetchat/internal/service/ai"
	"widgetchat/internal/widgets"
)

var (
	ErrEmptyMessage  = errors.New("message cannot be empty")
	ErrEmptyTitle    = errors.New("title cannot be empty")
	ErrInvalidConfig = errors.New("invalid widget configuration")
)

// MessageProcessor produces the assistant reply for a user message.
type MessageProcessor interface {
	Process(ctx context.Context, text string, history []*models.Message) *ai.Result
}

// WidgetGenerator builds a widget of a type from request params.
type WidgetGenerator interface {
	Generate(ctx context.Context, widgetType string, params map[string]any) (*widgets.Widget, error)
}

// Service handles chat sessions, widget configs and the widget cache.
type Service struct {
	db        *gorm.DB
	processor MessageProcessor
	generator WidgetGenerator
	registry  *widgets.Registry
	cache     *redis.Client
	now       func() time.Time
}

// NewService builds the assistant service. cache may be nil.
func NewService(db *gorm.DB, processor MessageProcessor, generator WidgetGenerator, registry *widgets.Registry, cache *redis.Client) *Service {
	if registry == nil {
		registry = widgets.DefaultRegistry()
	}
	return &Service{
		db:        db,
		processor: processor,
		generator: generator,
		registry:  registry,
		cache:     cache,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) Registry() *widgets.Registry {
	return s.registry
}
