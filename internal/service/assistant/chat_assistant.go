package assistant

import (
	"context"
	"fmt"
	"log"
	"strings"

	"widgetchat/internal/models"
	"widgetchat/internal/widgets"
)

const sessionTitleLength = 50

type SendMessageRequest struct {
	Content   string
	SessionID *int64
	UserID    string
}

type SendMessageResult struct {
	UserMessage      *models.Message   `json:"user_message"`
	AssistantMessage *models.Message   `json:"assistant_message"`
	SessionID        int64             `json:"session_id"`
	Widgets          []*widgets.Widget `json:"widgets"`
}

// SendMessage stores the user message, asks the processor for a reply and
// stores that reply with its widgets. Without a session id a new session is
// opened, titled after the message.
func (s *Service) SendMessage(ctx context.Context, req SendMessageRequest) (*SendMessageResult, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrEmptyMessage
	}

	var session *models.ChatSession
	var err error
	if req.SessionID != nil {
		session, err = s.GetSession(ctx, *req.SessionID)
		if err != nil {
			return nil, err
		}
	} else {
		title := sessionTitle(content)
		session, err = s.CreateSession(ctx, req.UserID, &title)
		if err != nil {
			return nil, err
		}
	}

	history, err := s.ListMessages(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	userMsg, err := s.AddMessage(ctx, session.ID, models.RoleUser, content, nil)
	if err != nil {
		return nil, fmt.Errorf("save user message: %w", err)
	}

	prior := make([]*models.Message, 0, len(history))
	for i := range history {
		prior = append(prior, &history[i])
	}
	reply := s.processor.Process(ctx, content, prior)
	if reply.Widgets == nil {
		reply.Widgets = []*widgets.Widget{}
	}

	assistantMsg, err := s.AddMessage(ctx, session.ID, models.RoleAssistant, reply.Content, reply.Widgets)
	if err != nil {
		return nil, fmt.Errorf("save assistant message: %w", err)
	}
	log.Printf("session %d: reply with %d widget(s)", session.ID, len(reply.Widgets))

	return &SendMessageResult{
		UserMessage:      userMsg,
		AssistantMessage: assistantMsg,
		SessionID:        session.ID,
		Widgets:          reply.Widgets,
	}, nil
}

// sessionTitle keeps the first 50 characters of the opening message.
func sessionTitle(content string) string {
	runes := []rune(content)
	if len(runes) <= sessionTitleLength {
		return content
	}
	return string(runes[:sessionTitleLength]) + "..."
}
