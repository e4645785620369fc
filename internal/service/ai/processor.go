package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"widgetchat/internal/models"
	"widgetchat/internal/service/intent"
	"widgetchat/internal/widgets"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

const (
	historyWindow        = 5
	defaultMaxWidgets    = 5
	maxToolResultLength  = 4000
	errorReplyPrefix     = "I apologize, but I encountered an error processing your request: "
	widgetLimitToolReply = `{"error":"widget limit reached"}`
)

// Executor runs a named function and returns the widget it produced.
type Executor interface {
	Execute(ctx context.Context, name string, args map[string]any) (*widgets.Widget, error)
}

// Result is the assistant reply to one user message.
type Result struct {
	Content string
	Widgets []*widgets.Widget
}

// Processor answers user messages, letting the model pick functions that
// render widgets. Without a model it falls back to keyword dispatch.
type Processor struct {
	model      model.ToolCallingChatModel
	executor   Executor
	menu       *Menu
	maxWidgets int
}

// NewProcessor binds the function menu to chatModel. chatModel may be nil.
func NewProcessor(chatModel model.ToolCallingChatModel, executor Executor, maxWidgets int) (*Processor, error) {
	menu, err := DefaultMenu()
	if err != nil {
		return nil, err
	}
	if maxWidgets <= 0 {
		maxWidgets = defaultMaxWidgets
	}
	p := &Processor{executor: executor, menu: menu, maxWidgets: maxWidgets}
	if chatModel != nil {
		bound, err := chatModel.WithTools(menu.Tools())
		if err != nil {
			return nil, fmt.Errorf("bind tools: %w", err)
		}
		p.model = bound
	}
	return p, nil
}

// HasModel reports whether replies come from an LLM.
func (p *Processor) HasModel() bool {
	return p.model != nil
}

// Process produces the assistant reply for text given prior history (oldest
// first). Model failures become an apology reply; they are not returned.
func (p *Processor) Process(ctx context.Context, text string, history []*models.Message) *Result {
	if p.model == nil {
		return p.fallback(ctx, text)
	}

	messages := make([]*schema.Message, 0, historyWindow+2)
	if p.menu.SystemPrompt != "" {
		messages = append(messages, schema.SystemMessage(p.menu.SystemPrompt))
	}
	messages = append(messages, convertHistory(history)...)
	messages = append(messages, schema.UserMessage(text))

	reply, err := p.model.Generate(ctx, messages)
	if err != nil {
		log.Printf("[Processor.Process] generate: %v", err)
		return &Result{Content: errorReplyPrefix + err.Error(), Widgets: []*widgets.Widget{}}
	}

	result := &Result{Content: reply.Content, Widgets: []*widgets.Widget{}}
	if len(reply.ToolCalls) > 0 {
		toolMessages := p.runToolCalls(ctx, reply.ToolCalls, result)
		messages = append(messages, reply)
		messages = append(messages, toolMessages...)
		result.Content = p.summarize(ctx, messages, result.Widgets)
	}

	if len(result.Widgets) == 0 && intent.ShouldCreateWidget(text) {
		if w := p.detectWidget(ctx, text); w != nil {
			result.Widgets = append(result.Widgets, w)
		}
	}
	return result
}

// runToolCalls executes each call, appending widgets to result, and returns
// one tool message per call.
func (p *Processor) runToolCalls(ctx context.Context, calls []schema.ToolCall, result *Result) []*schema.Message {
	out := make([]*schema.Message, 0, len(calls))
	for _, call := range calls {
		if len(result.Widgets) >= p.maxWidgets {
			out = append(out, schema.ToolMessage(widgetLimitToolReply, call.ID))
			continue
		}
		args := map[string]any{}
		if raw := strings.TrimSpace(call.Function.Arguments); raw != "" {
			if err := json.Unmarshal([]byte(raw), &args); err != nil {
				log.Printf("[Processor.runToolCalls] decode arguments for %s: %v", call.Function.Name, err)
				out = append(out, schema.ToolMessage(toolError(err), call.ID))
				continue
			}
		}
		w, err := p.executor.Execute(ctx, call.Function.Name, args)
		if err != nil || w == nil {
			log.Printf("[Processor.runToolCalls] execute %s: %v", call.Function.Name, err)
			out = append(out, schema.ToolMessage(toolError(err), call.ID))
			continue
		}
		result.Widgets = append(result.Widgets, w)
		out = append(out, schema.ToolMessage(toolResult(w), call.ID))
	}
	return out
}

// summarize asks the model for a final reply after tools ran. If that fails
// the reply is built from widget titles.
func (p *Processor) summarize(ctx context.Context, messages []*schema.Message, ws []*widgets.Widget) string {
	final, err := p.model.Generate(ctx, messages)
	if err != nil {
		log.Printf("[Processor.summarize] generate: %v", err)
	} else if content := strings.TrimSpace(final.Content); content != "" {
		return content
	}
	return titlesReply(ws)
}

func (p *Processor) fallback(ctx context.Context, text string) *Result {
	result := &Result{Widgets: []*widgets.Widget{}}
	if w := p.detectWidget(ctx, text); w != nil {
		result.Widgets = append(result.Widgets, w)
		result.Content = titlesReply(result.Widgets)
		return result
	}
	result.Content = fmt.Sprintf("Hello! I received your message: '%s'. I can help with weather, stocks, news, "+
		"the time and your banking information. Configure an LLM provider to enable full conversations.", text)
	return result
}

func (p *Processor) detectWidget(ctx context.Context, text string) *widgets.Widget {
	call, ok := intent.Detect(text)
	if !ok {
		return nil
	}
	w, err := p.executor.Execute(ctx, call.Name, call.Args)
	if err != nil {
		log.Printf("[Processor.detectWidget] execute %s: %v", call.Name, err)
		return nil
	}
	return w
}

func convertHistory(history []*models.Message) []*schema.Message {
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}
	messages := make([]*schema.Message, 0, len(history))
	for _, msg := range history {
		if msg == nil || msg.Content == "" {
			continue
		}
		var role schema.RoleType
		switch msg.Role {
		case models.RoleAssistant:
			role = schema.Assistant
		case models.RoleSystem:
			role = schema.System
		default:
			role = schema.User
		}
		messages = append(messages, &schema.Message{Role: role, Content: msg.Content})
	}
	return messages
}

func toolResult(w *widgets.Widget) string {
	payload, err := json.Marshal(map[string]any{
		"type":   w.Type,
		"title":  w.Title,
		"source": w.Metadata.Source,
		"data":   w.Data,
	})
	if err != nil {
		return fmt.Sprintf(`{"type":%q,"title":%q}`, w.Type, w.Title)
	}
	if len(payload) > maxToolResultLength {
		return string(payload[:maxToolResultLength])
	}
	return string(payload)
}

func toolError(err error) string {
	msg := "function returned no widget"
	if err != nil {
		msg = err.Error()
	}
	payload, _ := json.Marshal(map[string]string{"error": msg})
	return string(payload)
}

func titlesReply(ws []*widgets.Widget) string {
	if len(ws) == 0 {
		return "I couldn't retrieve that information right now. Please try again."
	}
	titles := make([]string, 0, len(ws))
	for _, w := range ws {
		titles = append(titles, w.Title)
	}
	return "Here is what I found: " + strings.Join(titles, ", ") + "."
}
