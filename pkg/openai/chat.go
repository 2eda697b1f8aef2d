package openai

import (
	"context"
	"errors"
	"os"
	"strings"

	"IsraBot/internal/entity"
	"github.com/sashabaranov/go-openai"
)

type IChatGPT interface {
	GenerateReply(ctx context.Context, system string, history []entity.ChatMessage) (string, error)
}

type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type chatGPTService struct {
	client chatCompleter
	model  string
}

func NewChatGPT() (IChatGPT, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, errors.New("openai API key is required")
	}

	model := os.Getenv("OPENAI_CHAT_MODEL")
	if model == "" {
		model = openai.GPT4oMini
	}

	return &chatGPTService{
		client: openai.NewClient(apiKey),
		model:  model,
	}, nil
}

func (c *chatGPTService) GenerateReply(ctx context.Context, system string, history []entity.ChatMessage) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	if system != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: system,
		})
	}

	for _, msg := range history {
		role := openai.ChatMessageRoleUser
		if msg.Role == entity.ChatRoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: msg.Content,
		})
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: 0.6,
		MaxTokens:   512,
	})
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no response from OpenAI API")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
