package gemini

import (
	"context"
	"errors"
	"os"
	"strings"

	"IsraBot/internal/entity"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const (
	defaultModel       = "gemini-1.5-flash"
	defaultTemperature = 0.6
	defaultMaxTokens   = 512
)

type IGemini interface {
	GenerateReply(ctx context.Context, system string, history []entity.ChatMessage) (string, error)
	Close() error
}

type geminiClient struct {
	modelName string
	client    *genai.Client
}

func NewGeminiClient() (IGemini, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, errors.New("gemini API key is required")
	}

	modelName := os.Getenv("GEMINI_MODEL_NAME")
	if modelName == "" {
		modelName = defaultModel
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	return &geminiClient{
		modelName: modelName,
		client:    client,
	}, nil
}

// GenerateReply answers the last user message of history.
func (g *geminiClient) GenerateReply(ctx context.Context, system string, history []entity.ChatMessage) (string, error) {
	if len(history) == 0 {
		return "", errors.New("empty conversation")
	}

	model := g.client.GenerativeModel(g.modelName)
	model.SetTemperature(defaultTemperature)
	model.SetMaxOutputTokens(defaultMaxTokens)
	if system != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	}

	chat := model.StartChat()
	for _, msg := range history[:len(history)-1] {
		chat.History = append(chat.History, &genai.Content{
			Role:  toGeminiRole(msg.Role),
			Parts: []genai.Part{genai.Text(msg.Content)},
		})
	}

	res, err := chat.SendMessage(ctx, genai.Text(history[len(history)-1].Content))
	if err != nil {
		return "", err
	}

	if len(res.Candidates) == 0 || res.Candidates[0].Content == nil {
		return "", errors.New("no response from Gemini API")
	}

	var answer strings.Builder
	for _, part := range res.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			answer.WriteString(string(text))
		}
	}

	return strings.TrimSpace(answer.String()), nil
}

func toGeminiRole(role entity.ChatRole) string {
	if role == entity.ChatRoleAssistant {
		return "model"
	}
	return "user"
}

func (g *geminiClient) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}
