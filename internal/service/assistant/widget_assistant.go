package assistant

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"widgetchat/internal/models"
	"widgetchat/internal/redis"
	"widgetchat/internal/service/dispatch"
	"widgetchat/internal/widgets"
)

const redisKeyPrefix = "widget:"

type WidgetDataResult struct {
	WidgetData *widgets.Widget `json:"widget_data"`
	Cached     bool            `json:"cached"`
	ExpiresAt  time.Time       `json:"expires_at"`
}

// cachedWidget is the redis value for one cache entry.
type cachedWidget struct {
	Widget    *widgets.Widget `json:"widget"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// CreateWidgetConfig stores a validated config for a widget type.
func (s *Service) CreateWidgetConfig(ctx context.Context, widgetType string, userID *string, cfg map[string]any) (*models.WidgetConfig, error) {
	if !s.registry.Validate(widgetType, cfg) {
		return nil, ErrInvalidConfig
	}
	raw, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	now := s.now()
	record := &models.WidgetConfig{
		WidgetType: widgetType,
		UserID:     userID,
		Config:     datatypes.JSON(raw),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, fmt.Errorf("create widget config: %w", err)
	}
	return record, nil
}

// ListWidgetConfigs filters by user and type when given, newest first.
func (s *Service) ListWidgetConfigs(ctx context.Context, userID, widgetType string) ([]models.WidgetConfig, error) {
	q := s.db.WithContext(ctx).Model(&models.WidgetConfig{})
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	if widgetType != "" {
		q = q.Where("widget_type = ?", widgetType)
	}
	configs := []models.WidgetConfig{}
	if err := q.Order("updated_at DESC").Order("id DESC").Find(&configs).Error; err != nil {
		return nil, fmt.Errorf("list widget configs: %w", err)
	}
	return configs, nil
}

func (s *Service) GetWidgetConfig(ctx context.Context, id int64) (*models.WidgetConfig, error) {
	var record models.WidgetConfig
	if err := s.db.WithContext(ctx).First(&record, id).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// UpdateWidgetConfig replaces the config after validating it against the
// stored widget type.
func (s *Service) UpdateWidgetConfig(ctx context.Context, id int64, cfg map[string]any) (*models.WidgetConfig, error) {
	record, err := s.GetWidgetConfig(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.registry.Validate(record.WidgetType, cfg) {
		return nil, ErrInvalidConfig
	}
	raw, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	record.Config = datatypes.JSON(raw)
	record.UpdatedAt = s.now()
	if err := s.db.WithContext(ctx).Save(record).Error; err != nil {
		return nil, fmt.Errorf("update widget config: %w", err)
	}
	return record, nil
}

func (s *Service) DeleteWidgetConfig(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&models.WidgetConfig{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete widget config: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CacheKey is "<type>:<sha256 of params as JSON>". Map keys marshal sorted,
// so equal params always share a key.
func CacheKey(widgetType string, params map[string]any) (string, error) {
	if params == nil {
		params = map[string]any{}
	}
	raw, err := json.Marshal(params)
	if err != nil {
		return "", fmt.Errorf("encode params: %w", err)
	}
	sum := sha256.Sum256(raw)
	return widgetType + ":" + hex.EncodeToString(sum[:]), nil
}

// WidgetData returns a cached widget when a live entry exists, otherwise
// generates and caches a new one until now + the type's refresh interval.
func (s *Service) WidgetData(ctx context.Context, widgetType string, params map[string]any) (*WidgetDataResult, error) {
	if _, ok := s.registry.Lookup(widgetType); !ok || !dispatch.Supports(widgetType) {
		return nil, fmt.Errorf("%w: %s", dispatch.ErrUnknownWidgetType, widgetType)
	}
	key, err := CacheKey(widgetType, params)
	if err != nil {
		return nil, err
	}
	now := s.now()

	if hit := s.redisLookup(ctx, key, now); hit != nil {
		return hit, nil
	}
	if hit, err := s.dbLookup(ctx, widgetType, key, now); err != nil {
		return nil, err
	} else if hit != nil {
		s.redisStore(ctx, key, hit.WidgetData, hit.ExpiresAt, now)
		return hit, nil
	}

	w, err := s.generator.Generate(ctx, widgetType, params)
	if err != nil {
		return nil, err
	}
	expiresAt := now.Add(s.registry.RefreshInterval(widgetType))
	result := &WidgetDataResult{WidgetData: w, ExpiresAt: expiresAt}
	if w.Metadata.Source == widgets.SourceError {
		return result, nil
	}

	raw, err := json.Marshal(w)
	if err != nil {
		return nil, fmt.Errorf("encode widget: %w", err)
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("widget_type = ? AND cache_key = ?", widgetType, key).Delete(&models.WidgetCache{}).Error; err != nil {
			return err
		}
		return tx.Create(&models.WidgetCache{
			WidgetType: widgetType,
			CacheKey:   key,
			Data:       datatypes.JSON(raw),
			CreatedAt:  now,
			ExpiresAt:  expiresAt,
		}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("store widget cache: %w", err)
	}
	s.redisStore(ctx, key, w, expiresAt, now)
	return result, nil
}

func (s *Service) dbLookup(ctx context.Context, widgetType, key string, now time.Time) (*WidgetDataResult, error) {
	var row models.WidgetCache
	err := s.db.WithContext(ctx).
		Where("widget_type = ? AND cache_key = ? AND expires_at > ?", widgetType, key, now).
		Order("expires_at DESC").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup widget cache: %w", err)
	}
	var w widgets.Widget
	if err := json.Unmarshal(row.Data, &w); err != nil {
		log.Printf("decode widget cache %d: %v", row.ID, err)
		return nil, nil
	}
	return &WidgetDataResult{WidgetData: &w, Cached: true, ExpiresAt: row.ExpiresAt}, nil
}

func (s *Service) redisLookup(ctx context.Context, key string, now time.Time) *WidgetDataResult {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, redisKeyPrefix+key)
	if err != nil {
		if !errors.Is(err, redis.ErrCacheMiss) {
			log.Printf("redis get %s: %v", key, err)
		}
		return nil
	}
	var entry cachedWidget
	if err := json.Unmarshal([]byte(raw), &entry); err != nil || entry.Widget == nil {
		log.Printf("decode redis widget %s: %v", key, err)
		return nil
	}
	if !entry.ExpiresAt.After(now) {
		return nil
	}
	return &WidgetDataResult{WidgetData: entry.Widget, Cached: true, ExpiresAt: entry.ExpiresAt}
}

func (s *Service) redisStore(ctx context.Context, key string, w *widgets.Widget, expiresAt, now time.Time) {
	if s.cache == nil {
		return
	}
	ttl := expiresAt.Sub(now)
	if ttl <= 0 {
		return
	}
	raw, err := json.Marshal(cachedWidget{Widget: w, ExpiresAt: expiresAt})
	if err != nil {
		log.Printf("encode redis widget %s: %v", key, err)
		return
	}
	if err := s.cache.Set(ctx, redisKeyPrefix+key, raw, ttl); err != nil {
		log.Printf("redis set %s: %v", key, err)
	}
}

// RefreshWidget drops the cached entries of a type when force is set, so the
// next WidgetData call regenerates. It returns the number of rows cleared.
func (s *Service) RefreshWidget(ctx context.Context, widgetType string, force bool) (int64, error) {
	if _, ok := s.registry.Lookup(widgetType); !ok {
		return 0, fmt.Errorf("%w: %s", dispatch.ErrUnknownWidgetType, widgetType)
	}
	if !force {
		return 0, nil
	}
	return s.ClearCache(ctx, widgetType)
}

// ClearCache deletes cached widgets of one type, or all when widgetType is
// empty, and returns the number of database rows removed.
func (s *Service) ClearCache(ctx context.Context, widgetType string) (int64, error) {
	q := s.db.WithContext(ctx)
	pattern := redisKeyPrefix + "*"
	if widgetType != "" {
		q = q.Where("widget_type = ?", widgetType)
		pattern = redisKeyPrefix + widgetType + ":*"
	} else {
		q = q.Session(&gorm.Session{AllowGlobalUpdate: true})
	}
	res := q.Delete(&models.WidgetCache{})
	if res.Error != nil {
		return 0, fmt.Errorf("clear widget cache: %w", res.Error)
	}
	if s.cache != nil {
		if _, err := s.cache.DelPattern(ctx, pattern); err != nil {
			log.Printf("redis clear %s: %v", pattern, err)
		}
	}
	return res.RowsAffected, nil
}
