package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"widgetchat/internal/models"
	"widgetchat/internal/widgets"
)

// CreateSession inserts a new session for the given user and returns the record.
func (s *Service) CreateSession(ctx context.Context, userID string, title *string) (*models.ChatSession, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		userID = models.DefaultUserID
	}
	now := s.now()
	session := &models.ChatSession{UserID: userID, Title: title, CreatedAt: now, UpdatedAt: now}
	if err := s.db.WithContext(ctx).Create(session).Error; err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return session, nil
}

// ListSessions returns all sessions for a user ordered by last activity.
func (s *Service) ListSessions(ctx context.Context, userID string) ([]models.ChatSession, error) {
	if userID == "" {
		userID = models.DefaultUserID
	}
	sessions := []models.ChatSession{}
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").Order("id DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

// GetSession returns gorm.ErrRecordNotFound for an unknown id.
func (s *Service) GetSession(ctx context.Context, sessionID int64) (*models.ChatSession, error) {
	var session models.ChatSession
	if err := s.db.WithContext(ctx).First(&session, sessionID).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// ListMessages returns the session's messages oldest first.
func (s *Service) ListMessages(ctx context.Context, sessionID int64) ([]models.Message, error) {
	messages := []models.Message{}
	err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC").Order("id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return messages, nil
}

// GetSessionWithMessages returns one session and its ordered messages.
func (s *Service) GetSessionWithMessages(ctx context.Context, sessionID int64) (*models.ChatSession, []models.Message, error) {
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	messages, err := s.ListMessages(ctx, sessionID)
	if err != nil {
		return session, nil, err
	}
	return session, messages, nil
}

// AddMessage stores a new message and updates the session's updated_at timestamp.
// A nil widget list is stored as NULL.
func (s *Service) AddMessage(ctx context.Context, sessionID int64, role models.Role, content string, ws []*widgets.Widget) (*models.Message, error) {
	msg := &models.Message{SessionID: sessionID, Role: role, Content: content}
	if ws != nil {
		raw, err := json.Marshal(ws)
		if err != nil {
			return nil, fmt.Errorf("encode widgets: %w", err)
		}
		msg.Widgets = datatypes.JSON(raw)
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := s.now()
		msg.CreatedAt = now
		if err := tx.Create(msg).Error; err != nil {
			return fmt.Errorf("insert message: %w", err)
		}
		res := tx.Model(&models.ChatSession{}).Where("id = ?", sessionID).Update("updated_at", now)
		if res.Error != nil {
			return fmt.Errorf("touch session: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return msg, nil
}

// DeleteSession removes a session and all related messages.
func (s *Service) DeleteSession(ctx context.Context, sessionID int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var session models.ChatSession
		if err := tx.Select("id").First(&session, sessionID).Error; err != nil {
			return err
		}
		if err := tx.Where("session_id = ?", sessionID).Delete(&models.Message{}).Error; err != nil {
			return fmt.Errorf("delete messages: %w", err)
		}
		if err := tx.Delete(&models.ChatSession{}, sessionID).Error; err != nil {
			return fmt.Errorf("delete session: %w", err)
		}
		return nil
	})
}

// UpdateSessionTitle renames a session.
func (s *Service) UpdateSessionTitle(ctx context.Context, sessionID int64, title string) (*models.ChatSession, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	res := s.db.WithContext(ctx).Model(&models.ChatSession{}).
		Where("id = ?", sessionID).
		Updates(map[string]any{"title": title, "updated_at": s.now()})
	if res.Error != nil {
		return nil, fmt.Errorf("update session title: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return s.GetSession(ctx, sessionID)
}
