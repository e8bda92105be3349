// Package assistant wraps an OpenAI-compatible chat service for interaction
// checks and patient questions. Everything degrades to canned responses when
// the service is unconfigured or down; a broken network must never block the
// medication list.
package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/pillguard/pillguard/internal/config"
	"github.com/pillguard/pillguard/internal/medication"
	"github.com/pillguard/pillguard/internal/metrics"
)

const systemPrompt = "You are PillGuard, a compassionate and knowledgeable medication adherence assistant. " +
	"Help patients understand their medications and answer general health questions. " +
	"Always advise users to consult a doctor for specific medical advice. Be concise and empathetic."

const offlineReply = "I'm sorry, I'm currently offline. Please check back later, " +
	"and consult your pharmacist or doctor for anything urgent."

// Client talks to the configured assistant service.
type Client struct {
	api     *openai.Client
	model   string
	timeout time.Duration
	breaker *gobreaker.CircuitBreaker[string]
	logger  *zap.Logger
}

// NewClient creates an assistant client. A client without an API key is
// valid and serves only the canned fallbacks.
func NewClient(cfg config.AssistantConfig, logger *zap.Logger) *Client {
	c := &Client{
		model:   cfg.Model,
		timeout: time.Duration(cfg.Timeout) * time.Second,
		logger:  logger,
		breaker: gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
			Name:    "assistant",
			Timeout: time.Minute,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
		}),
	}

	if cfg.APIKey != "" {
		apiCfg := openai.DefaultConfig(cfg.APIKey)
		if cfg.BaseURL != "" {
			apiCfg.BaseURL = cfg.BaseURL
		}
		c.api = openai.NewClientWithConfig(apiCfg)
	}

	return c
}

// Enabled reports whether a live service is configured.
func (c *Client) Enabled() bool {
	return c.api != nil
}

// AnalyzeInteractions checks a medication list for drug-drug interactions.
// Failures return a safe "could not analyze" result, never an error that
// would read as "no interactions found".
func (c *Client) AnalyzeInteractions(ctx context.Context, meds []medication.Medication) InteractionResult {
	if len(meds) < 2 {
		return InteractionResult{
			Severity:       SeverityNone,
			Summary:        "Not enough medications to check for interactions.",
			Recommendation: "Add more medications to your list to check for potential interactions.",
			Interactions:   []InteractionDetail{},
		}
	}

	if !c.Enabled() {
		metrics.Default().RecordChat(true)
		return unavailableResult()
	}

	names := make([]string, len(meds))
	for i, m := range meds {
		names[i] = fmt.Sprintf("%s (%s)", m.Name, m.DosageText)
	}

	prompt := fmt.Sprintf(`Analyze the following medications for potential drug-drug interactions: %s.
Respond with JSON only, shaped as:
{"hasInteraction":bool,"severity":"none|low|moderate|high","summary":string,"recommendation":string,
"interactions":[{"med1":string,"med2":string,"severity":"low|moderate|high","description":string}]}
Focus on clinical relevance but keep language accessible to a patient.`, strings.Join(names, ", "))

	content, err := c.complete(ctx, prompt, true)
	if err != nil {
		c.logger.Warn("interaction analysis failed", zap.Error(err))
		metrics.Default().RecordChat(true)
		return unavailableResult()
	}

	var result InteractionResult
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		c.logger.Warn("interaction analysis returned malformed JSON", zap.Error(err))
		metrics.Default().RecordChat(true)
		return unavailableResult()
	}

	metrics.Default().RecordChat(false)
	return result
}

// Chat answers one user message given the session history.
func (c *Client) Chat(ctx context.Context, history []ChatMessage, message string) string {
	if !c.Enabled() {
		metrics.Default().RecordChat(true)
		return offlineReply
	}

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
	}
	for _, msg := range history {
		role := openai.ChatMessageRoleUser
		if msg.Role == "assistant" {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: msg.Text})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: message})

	reply, err := c.chatCompletion(ctx, messages, false)
	if err != nil {
		c.logger.Warn("assistant chat failed", zap.Error(err))
		metrics.Default().RecordChat(true)
		return offlineReply
	}

	metrics.Default().RecordChat(false)
	return reply
}

func (c *Client) complete(ctx context.Context, prompt string, jsonMode bool) (string, error) {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
		{Role: openai.ChatMessageRoleUser, Content: prompt},
	}
	return c.chatCompletion(ctx, messages, jsonMode)
}

func (c *Client) chatCompletion(ctx context.Context, messages []openai.ChatCompletionMessage, jsonMode bool) (string, error) {
	return c.breaker.Execute(func() (string, error) {
		ctx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		req := openai.ChatCompletionRequest{
			Model:    c.model,
			Messages: messages,
		}
		if jsonMode {
			req.ResponseFormat = &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			}
		}

		resp, err := c.api.CreateChatCompletion(ctx, req)
		if err != nil {
			return "", err
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("no response choices")
		}
		return resp.Choices[0].Message.Content, nil
	})
}

func unavailableResult() InteractionResult {
	return InteractionResult{
		Severity:       SeverityNone,
		Summary:        "Could not analyze interactions at this time due to a network or service error.",
		Recommendation: "Please consult your pharmacist or doctor directly.",
		Interactions:   []InteractionDetail{},
	}
}
