package ai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"widgetchat/internal/config"
	"widgetchat/internal/models"
	"widgetchat/internal/service/dispatch"
	"widgetchat/internal/service/intent"
	"widgetchat/internal/widgets"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

type fakeModel struct {
	replies []*schema.Message
	errs    []error
	calls   [][]*schema.Message
	tools   []*schema.ToolInfo
}

func (f *fakeModel) Generate(_ context.Context, in []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	f.calls = append(f.calls, in)
	i := len(f.calls) - 1
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	if i < len(f.replies) {
		return f.replies[i], nil
	}
	return schema.AssistantMessage("", nil), nil
}

func (f *fakeModel) Stream(context.Context, []*schema.Message, ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("stream not supported")
}

func (f *fakeModel) WithTools(tools []*schema.ToolInfo) (model.ToolCallingChatModel, error) {
	f.tools = tools
	return f, nil
}

type recordingExecutor struct {
	names []string
	args  []map[string]any
	fail  map[string]bool
}

func (e *recordingExecutor) Execute(_ context.Context, name string, args map[string]any) (*widgets.Widget, error) {
	e.names = append(e.names, name)
	e.args = append(e.args, args)
	if e.fail[name] {
		return nil, errors.New("provider exploded")
	}
	return &widgets.Widget{ID: name, Type: name, Title: "Widget " + name}, nil
}

func toolCall(id, name, args string) schema.ToolCall {
	return schema.ToolCall{ID: id, Function: schema.FunctionCall{Name: name, Arguments: args}}
}

func TestDefaultMenuMatchesDispatcher(t *testing.T) {
	menu, err := DefaultMenu()
	if err != nil {
		t.Fatalf("load menu: %v", err)
	}
	want := []string{
		intent.FuncWeather, intent.FuncStockPrice, intent.FuncNews, intent.FuncTime, intent.FuncTopStocks,
		intent.FuncAccounts, intent.FuncTransactions, intent.FuncOffers, intent.FuncPaymentLinks, intent.FuncBankerContacts,
	}
	names := menu.Names()
	if len(names) != len(want) {
		t.Fatalf("expected %d functions, got %v", len(want), names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("function %d: got %s want %s", i, names[i], want[i])
		}
	}
	if menu.SystemPrompt == "" {
		t.Fatalf("system prompt missing")
	}
	tools := menu.Tools()
	if len(tools) != len(want) || tools[0].Name != intent.FuncWeather || tools[0].ParamsOneOf == nil {
		t.Fatalf("unexpected tools %+v", tools[0])
	}
}

func TestLoadMenuRejectsBadDocuments(t *testing.T) {
	if _, err := LoadMenu([]byte("functions: []")); err == nil {
		t.Fatalf("expected error for empty menu")
	}
	bad := "functions:\n  - name: f\n    parameters:\n      x:\n        type: matrix\n"
	if _, err := LoadMenu([]byte(bad)); err == nil {
		t.Fatalf("expected error for unsupported type")
	}
	dup := "functions:\n  - name: f\n  - name: f\n"
	if _, err := LoadMenu([]byte(dup)); err == nil {
		t.Fatalf("expected error for duplicate function")
	}
}

func TestProcessRunsToolCallsAndSummarizes(t *testing.T) {
	fm := &fakeModel{replies: []*schema.Message{
		schema.AssistantMessage("", []schema.ToolCall{toolCall("call_1", intent.FuncWeather, `{"location":"Paris"}`)}),
		schema.AssistantMessage("It is mild in Paris today.", nil),
	}}
	exec := &recordingExecutor{}
	p, err := NewProcessor(fm, exec, 5)
	if err != nil {
		t.Fatalf("new processor: %v", err)
	}
	if len(fm.tools) != 10 {
		t.Fatalf("expected tools bound, got %d", len(fm.tools))
	}

	res := p.Process(context.Background(), "weather in Paris?", nil)
	if res.Content != "It is mild in Paris today." {
		t.Fatalf("unexpected content %q", res.Content)
	}
	if len(res.Widgets) != 1 || res.Widgets[0].Type != intent.FuncWeather {
		t.Fatalf("unexpected widgets %+v", res.Widgets)
	}
	if exec.args[0]["location"] != "Paris" {
		t.Fatalf("unexpected args %v", exec.args[0])
	}
	if len(fm.calls) != 2 {
		t.Fatalf("expected two model calls, got %d", len(fm.calls))
	}
	second := fm.calls[1]
	last := second[len(second)-1]
	if last.Role != schema.Tool || last.ToolCallID != "call_1" || !strings.Contains(last.Content, "Widget get_weather") {
		t.Fatalf("unexpected tool message %+v", last)
	}
}

func TestProcessSummaryFailureUsesTitles(t *testing.T) {
	fm := &fakeModel{
		replies: []*schema.Message{
			schema.AssistantMessage("", []schema.ToolCall{toolCall("c1", intent.FuncStockPrice, `{"symbol":"AAPL"}`)}),
		},
		errs: []error{nil, errors.New("upstream timeout")},
	}
	p, err := NewProcessor(fm, &recordingExecutor{}, 5)
	if err != nil {
		t.Fatalf("new processor: %v", err)
	}
	res := p.Process(context.Background(), "AAPL price", nil)
	if res.Content != "Here is what I found: Widget get_stock_price." {
		t.Fatalf("unexpected content %q", res.Content)
	}
}

func TestProcessSkipsFailedToolsAndCapsWidgets(t *testing.T) {
	fm := &fakeModel{replies: []*schema.Message{
		schema.AssistantMessage("", []schema.ToolCall{
			toolCall("c1", intent.FuncNews, `{"query":"ai"}`),
			toolCall("c2", intent.FuncWeather, `{"location":"Oslo"}`),
			toolCall("c3", intent.FuncStockPrice, `not json`),
			toolCall("c4", intent.FuncTime, `{}`),
			toolCall("c5", intent.FuncOffers, ``),
		}),
		schema.AssistantMessage("Done.", nil),
	}}
	exec := &recordingExecutor{fail: map[string]bool{intent.FuncNews: true}}
	p, err := NewProcessor(fm, exec, 2)
	if err != nil {
		t.Fatalf("new processor: %v", err)
	}
	res := p.Process(context.Background(), "a few things", nil)
	if len(res.Widgets) != 2 {
		t.Fatalf("expected 2 widgets, got %d", len(res.Widgets))
	}
	if res.Widgets[0].Type != intent.FuncWeather || res.Widgets[1].Type != intent.FuncTime {
		t.Fatalf("unexpected widgets %s %s", res.Widgets[0].Type, res.Widgets[1].Type)
	}
	toolMessages := 0
	for _, m := range fm.calls[1] {
		if m.Role == schema.Tool {
			toolMessages++
		}
	}
	if toolMessages != 5 {
		t.Fatalf("every tool call needs a reply, got %d", toolMessages)
	}
}

func TestProcessModelErrorApologizes(t *testing.T) {
	fm := &fakeModel{errs: []error{errors.New("quota exceeded")}}
	p, err := NewProcessor(fm, &recordingExecutor{}, 5)
	if err != nil {
		t.Fatalf("new processor: %v", err)
	}
	res := p.Process(context.Background(), "weather in Rome", nil)
	if !strings.HasPrefix(res.Content, "I apologize, but I encountered an error processing your request: ") ||
		!strings.Contains(res.Content, "quota exceeded") {
		t.Fatalf("unexpected content %q", res.Content)
	}
	if len(res.Widgets) != 0 {
		t.Fatalf("expected no widgets, got %d", len(res.Widgets))
	}
}

func TestProcessTextReplyFallsBackToKeywords(t *testing.T) {
	fm := &fakeModel{replies: []*schema.Message{schema.AssistantMessage("Let me check the weather.", nil)}}
	exec := &recordingExecutor{}
	p, err := NewProcessor(fm, exec, 5)
	if err != nil {
		t.Fatalf("new processor: %v", err)
	}
	res := p.Process(context.Background(), "weather in Paris", nil)
	if res.Content != "Let me check the weather." {
		t.Fatalf("unexpected content %q", res.Content)
	}
	if len(res.Widgets) != 1 || exec.args[0]["location"] != "Paris" {
		t.Fatalf("expected keyword widget for Paris, got %v", exec.args)
	}

	res = p.Process(context.Background(), "tell me a joke", nil)
	if len(res.Widgets) != 0 {
		t.Fatalf("plain chat should not create widgets")
	}
}

func TestProcessKeepsRecentHistory(t *testing.T) {
	fm := &fakeModel{replies: []*schema.Message{schema.AssistantMessage("ok", nil)}}
	p, err := NewProcessor(fm, &recordingExecutor{}, 5)
	if err != nil {
		t.Fatalf("new processor: %v", err)
	}
	var history []*models.Message
	for i := 0; i < 8; i++ {
		role := models.RoleUser
		if i%2 == 1 {
			role = models.RoleAssistant
		}
		history = append(history, &models.Message{Role: role, Content: "turn"})
	}
	p.Process(context.Background(), "hello", history)
	sent := fm.calls[0]
	if len(sent) != 7 {
		t.Fatalf("expected system + 5 history + user, got %d", len(sent))
	}
	if sent[0].Role != schema.System || sent[6].Role != schema.User || sent[6].Content != "hello" {
		t.Fatalf("unexpected message layout")
	}
}

func TestProcessWithoutModel(t *testing.T) {
	p, err := NewProcessor(nil, dispatch.New(nil, nil, nil, nil, nil), 5)
	if err != nil {
		t.Fatalf("new processor: %v", err)
	}
	if p.HasModel() {
		t.Fatalf("expected fallback mode")
	}
	res := p.Process(context.Background(), "weather in Paris", nil)
	if len(res.Widgets) != 1 || res.Widgets[0].Title != "Weather in Paris" {
		t.Fatalf("unexpected widgets %+v", res.Widgets)
	}
	if res.Content != "Here is what I found: Weather in Paris." {
		t.Fatalf("unexpected content %q", res.Content)
	}

	res = p.Process(context.Background(), "hello", nil)
	if len(res.Widgets) != 0 || !strings.Contains(res.Content, "hello") {
		t.Fatalf("unexpected greeting reply %+v", res)
	}
}

func TestNewChatModelFallbackModes(t *testing.T) {
	for _, cfg := range []config.ProviderConfig{
		{Provider: "none"},
		{Provider: "openai"},
		{Provider: "claude"},
		{Provider: "gemini"},
		{Provider: "vertex"},
	} {
		m, err := NewChatModel(context.Background(), cfg)
		if err != nil || m != nil {
			t.Fatalf("%s: expected fallback mode, got %v %v", cfg.Provider, m, err)
		}
	}
	if _, err := NewChatModel(context.Background(), config.ProviderConfig{Provider: "llama"}); err == nil {
		t.Fatalf("expected error for unknown provider")
	}
}
