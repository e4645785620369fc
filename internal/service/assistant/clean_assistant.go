package assistant

import (
	"context"
	"fmt"
	"log"
	"time"

	"widgetchat/internal/models"
)

const DefaultCachePurgeInterval = time.Hour

// StartCachePurger deletes expired widget cache rows every interval until ctx
// is cancelled.
func (s *Service) StartCachePurger(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultCachePurgeInterval
	}
	go s.purgeLoop(ctx, interval)
}

func (s *Service) purgeLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.PurgeExpiredCache(ctx)
			if err != nil {
				log.Printf("purge widget cache error: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("purged %d expired widget cache entries", n)
			}
		}
	}
}

// PurgeExpiredCache removes rows whose expires_at has passed. Redis entries
// expire on their own TTL.
func (s *Service) PurgeExpiredCache(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).Where("expires_at <= ?", s.now()).Delete(&models.WidgetCache{})
	if res.Error != nil {
		return 0, fmt.Errorf("purge widget cache: %w", res.Error)
	}
	return res.RowsAffected, nil
}
