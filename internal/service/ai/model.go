package ai

import (
	"context"
	"fmt"
	"log"

	"widgetchat/internal/config"

	"github.com/cloudwego/eino-ext/components/model/claude"
	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"google.golang.org/genai"
)

// Default model per provider when LLM_MODEL is unset.
var defaultModels = map[string]string{
	"openai": "gpt-4o-mini",
	"claude": "claude-3-5-sonnet-latest",
	"gemini": "gemini-2.5-flash",
	"vertex": "gemini-2.5-flash",
}

// NewChatModel builds the configured tool-calling model. It returns a nil
// model and no error when the provider is "none" or lacks credentials; the
// processor then answers through keyword dispatch.
func NewChatModel(ctx context.Context, cfg config.ProviderConfig) (model.ToolCallingChatModel, error) {
	modelName := cfg.Model
	if modelName == "" {
		modelName = defaultModels[cfg.Provider]
	}

	var (
		chatModel model.ToolCallingChatModel
		err       error
	)
	switch cfg.Provider {
	case "", "none":
		return nil, nil
	case "openai":
		if cfg.APIKey == "" {
			log.Printf("openai provider selected without LLM_API_KEY, using fallback mode")
			return nil, nil
		}
		chatModel, err = openai.NewChatModel(ctx, &openai.ChatModelConfig{
			BaseURL: cfg.BaseURL,
			Model:   modelName,
			APIKey:  cfg.APIKey,
		})
	case "claude":
		if cfg.APIKey == "" {
			log.Printf("claude provider selected without LLM_API_KEY, using fallback mode")
			return nil, nil
		}
		var baseURLPtr *string
		if cfg.BaseURL != "" {
			baseURLPtr = &cfg.BaseURL
		}
		chatModel, err = claude.NewChatModel(ctx, &claude.Config{
			APIKey:    cfg.APIKey,
			Model:     modelName,
			BaseURL:   baseURLPtr,
			MaxTokens: 3000,
		})
	case "gemini":
		if cfg.APIKey == "" {
			log.Printf("gemini provider selected without LLM_API_KEY, using fallback mode")
			return nil, nil
		}
		chatModel, err = newGeminiModel(ctx, &genai.ClientConfig{
			APIKey:  cfg.APIKey,
			Backend: genai.BackendGeminiAPI,
		}, modelName)
	case "vertex":
		if cfg.GoogleProject == "" {
			log.Printf("Google Cloud project not configured, using fallback mode")
			return nil, nil
		}
		chatModel, err = newGeminiModel(ctx, &genai.ClientConfig{
			Project:  cfg.GoogleProject,
			Location: cfg.VertexLocation,
			Backend:  genai.BackendVertexAI,
		}, modelName)
	default:
		return nil, fmt.Errorf("invalid provider: %s", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("init %s model: %w", cfg.Provider, err)
	}
	log.Printf("%s model %s initialized", cfg.Provider, modelName)
	return chatModel, nil
}

func newGeminiModel(ctx context.Context, clientCfg *genai.ClientConfig, modelName string) (model.ToolCallingChatModel, error) {
	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("new genai client: %w", err)
	}
	return gemini.NewChatModel(ctx, &gemini.Config{
		Client: client,
		Model:  modelName,
	})
}
