// Package llm wraps the external LLM collaborator: prompt in,
// schema-constrained JSON out.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	log "github.com/sirupsen/logrus"
)

// Invoker is the generation contract consumed by the pipeline. The returned
// payload is guaranteed to be parseable JSON; content-level validation is
// the caller's job.
type Invoker interface {
	Invoke(ctx context.Context, prompt string, schema map[string]interface{}, allowExternalContext bool) (json.RawMessage, error)
}

// Client is the openai-go backed Invoker.
type Client struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// NewClient builds a client against the configured endpoint. Every Invoke
// runs under timeout; request-scoped handlers must not hang on the model.
func NewClient(baseURL, model string, timeout time.Duration) *Client {
	options := []option.RequestOption{option.WithBaseURL(baseURL)}

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		log.Info("OPENAI_API_KEY environment variable is not set, will try unauthenticated access")
	} else {
		options = append(options, option.WithAPIKey(apiKey))
	}

	client := openai.NewClient(options...)
	return &Client{client: &client, model: model, timeout: timeout}
}

const baseInstructions = "You are a content generation engine. Respond with a single JSON object matching the requested schema. No prose, no markdown fences."

func (c *Client) Invoke(ctx context.Context, prompt string, schema map[string]interface{}, allowExternalContext bool) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	instructions := baseInstructions
	if allowExternalContext {
		instructions += " You may draw on external knowledge about the business and its market."
	} else {
		instructions += " Use only the information given in the prompt."
	}

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(instructions),
			openai.UserMessage(prompt),
		},
		Model: c.model,
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   "response",
					Schema: schema,
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("llm invocation failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("llm returned no content choices")
	}

	raw := json.RawMessage(resp.Choices[0].Message.Content)
	if !json.Valid(raw) {
		return nil, fmt.Errorf("llm response is not valid JSON")
	}
	return raw, nil
}
