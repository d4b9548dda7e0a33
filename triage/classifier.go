package triage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/ssm-mz/dispatch-api/models"
)

// ErrEmptyScenario is returned before calling the classifier with nothing to classify
var ErrEmptyScenario = fmt.Errorf("%w: scenario is empty", models.ErrValidation)

// Classifier turns a free-text scenario into raw classifier output
type Classifier interface {
	Classify(ctx context.Context, scenario string) (string, error)
}

const systemPrompt = `Analise o seguinte cenário de emergência médica e classifique-o de acordo com os protocolos padrão (A: Crítico/Emergência, B: Elevado/Urgente, C: Moderado/Semi-urgente, D: Baixo/Não urgente).
Responda apenas com um objecto JSON com os campos "classification" (um de "A","B","C","D"), "actionRequired" (texto), "reasoning" (texto) e "suggestedResources" (lista de textos).
Use Português de Portugal (PT-PT) em todos os textos explicativos.`

// OpenAIClassifier asks an OpenAI-compatible chat completion endpoint for a JSON verdict
type OpenAIClassifier struct {
	client *openai.Client
	model  string
}

// NewOpenAIClassifier builds a classifier. An empty baseURL uses the public endpoint.
func NewOpenAIClassifier(apiKey, baseURL, model string) *OpenAIClassifier {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIClassifier{client: openai.NewClientWithConfig(cfg), model: model}
}

// Classify sends the scenario and returns the model's message content
func (c *OpenAIClassifier) Classify(ctx context.Context, scenario string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("Cenário: %q", scenario)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
		Temperature:    0,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("classifier returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// Analyze runs the external-analysis mode: it delegates to the classifier and accepts
// only output that parses into the suggestion shape with a valid tier
func Analyze(ctx context.Context, c Classifier, scenario string) (models.ProtocolSuggestion, error) {
	if strings.TrimSpace(scenario) == "" {
		return models.ProtocolSuggestion{}, ErrEmptyScenario
	}
	if c == nil {
		return models.ProtocolSuggestion{}, &models.TriageError{Scenario: scenario, Err: errors.New("no classifier configured")}
	}
	raw, err := c.Classify(ctx, scenario)
	if err != nil {
		zap.S().Warnw("triage classifier failed", "error", err)
		return models.ProtocolSuggestion{}, &models.TriageError{Scenario: scenario, Err: err}
	}
	s, err := ParseSuggestion(raw)
	if err != nil {
		zap.S().Warnw("triage classifier returned unusable output", "error", err)
		return models.ProtocolSuggestion{}, &models.TriageError{Scenario: scenario, Err: err}
	}
	return s, nil
}

// ParseSuggestion validates raw classifier output
func ParseSuggestion(raw string) (models.ProtocolSuggestion, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return models.ProtocolSuggestion{}, errors.New("empty response")
	}

	var out struct {
		Classification     *string   `json:"classification"`
		ActionRequired     *string   `json:"actionRequired"`
		Reasoning          *string   `json:"reasoning"`
		SuggestedResources *[]string `json:"suggestedResources"`
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return models.ProtocolSuggestion{}, fmt.Errorf("unparseable response: %w", err)
	}
	if out.Classification == nil || out.ActionRequired == nil || out.Reasoning == nil || out.SuggestedResources == nil {
		return models.ProtocolSuggestion{}, errors.New("response is missing required fields")
	}
	p := models.Priority(strings.ToUpper(strings.TrimSpace(*out.Classification)))
	if !p.Valid() {
		return models.ProtocolSuggestion{}, fmt.Errorf("classification %q is not one of A, B, C, D", *out.Classification)
	}
	return models.ProtocolSuggestion{
		Classification:     p,
		ActionRequired:     *out.ActionRequired,
		Reasoning:          *out.Reasoning,
		SuggestedResources: *out.SuggestedResources,
	}, nil
}
