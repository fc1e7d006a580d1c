package sentiment

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type openAIChatClient interface {
	CreateChatCompletion(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error)
}

// OpenAIClassifier labels crypto news text through a chat completion model.
type OpenAIClassifier struct {
	client openAIChatClient
	model  string
}

// NewOpenAIClassifierFactory returns a factory for the ensemble's optional
// classifier slot. An empty API key makes the factory fail, which the scorer
// treats as "classifier unavailable".
func NewOpenAIClassifierFactory(apiKey, model string) ClassifierFactory {
	return func() (Classifier, error) {
		apiKey = strings.TrimSpace(apiKey)
		if apiKey == "" {
			return nil, fmt.Errorf("openai api key not configured")
		}
		if strings.TrimSpace(model) == "" {
			model = "gpt-4o-mini"
		}
		client := openai.NewClient(option.WithAPIKey(apiKey))
		return &OpenAIClassifier{
			client: &openAIClient{client: client},
			model:  model,
		}, nil
	}
}

func (c *OpenAIClassifier) Classify(ctx context.Context, text string) (Classification, error) {
	if c == nil || c.client == nil {
		return Classification{}, errClassifierDisabled
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return Classification{Label: "neutral", Score: 1}, nil
	}

	systemPrompt := "You classify the sentiment of crypto market news. Return ONLY a JSON object with: label (positive|neutral|negative), score (0..1, your confidence in the label). No markdown."

	completion, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(text),
		},
	})
	if err != nil {
		return Classification{}, err
	}
	if len(completion.Choices) == 0 {
		return Classification{}, fmt.Errorf("empty classifier completion")
	}

	raw := trimCodeFence(completion.Choices[0].Message.Content)
	var parsed struct {
		Label string  `json:"label"`
		Score float64 `json:"score"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return Classification{}, fmt.Errorf("parse classifier json: %w", err)
	}
	return Classification{Label: normalizeLabel(parsed.Label), Score: clamp(parsed.Score, 0, 1)}, nil
}

func normalizeLabel(label string) string {
	label = strings.ToLower(strings.TrimSpace(label))
	switch label {
	case "bull", "bullish", "positive", "pos":
		return "positive"
	case "bear", "bearish", "negative", "neg":
		return "negative"
	default:
		return "neutral"
	}
}

func trimCodeFence(v string) string {
	v = strings.TrimSpace(v)
	if strings.HasPrefix(v, "```") {
		v = strings.TrimPrefix(v, "```")
		v = strings.TrimSpace(v)
		if strings.HasPrefix(strings.ToLower(v), "json") {
			v = strings.TrimSpace(v[4:])
		}
		v = strings.TrimSuffix(v, "```")
		v = strings.TrimSpace(v)
	}
	return v
}

type openAIClient struct {
	client openai.Client
}

func (c *openAIClient) CreateChatCompletion(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error) {
	return c.client.Chat.Completions.New(ctx, params)
}
