// Package ai talks to the language model: long-term memory summarization,
// journal analysis and name extraction. Every call asks for strict JSON
// output and every caller tolerates failure.
package ai

import (
	"context"
	"errors"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
)

// ErrNotConfigured is returned when no model credentials are available.
var ErrNotConfigured = errors.New("ai: model not configured")

// Request is one structured-output call.
type Request struct {
	Name            string
	Description     string
	Instructions    string
	Input           string
	Schema          map[string]any
	MaxOutputTokens int64
}

// Responder returns the raw text output of one model call.
type Responder interface {
	Respond(ctx context.Context, req Request) (string, error)
}

// OpenAIResponder calls the OpenAI Responses API.
type OpenAIResponder struct {
	client *openai.Client
	model  string
	retry  RetryPolicy
}

// NewOpenAIResponder builds a responder for apiKey. An empty key yields a
// responder that always fails with ErrNotConfigured.
func NewOpenAIResponder(apiKey, model string, opts ...option.RequestOption) *OpenAIResponder {
	r := &OpenAIResponder{model: model, retry: DefaultRetryPolicy}
	if apiKey == "" {
		return r
	}
	client := openai.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)...)
	r.client = &client
	return r
}

// WithRetry replaces the retry policy.
func (r *OpenAIResponder) WithRetry(p RetryPolicy) *OpenAIResponder {
	r.retry = p
	return r
}

func (r *OpenAIResponder) Respond(ctx context.Context, req Request) (string, error) {
	if r.client == nil || r.model == "" {
		return "", ErrNotConfigured
	}

	format := responses.ResponseFormatTextConfigUnionParam{
		OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
			Name:        req.Name,
			Schema:      req.Schema,
			Strict:      openai.Bool(true),
			Description: openai.String(req.Description),
			Type:        "json_schema",
		},
	}

	maxOut := req.MaxOutputTokens
	if maxOut <= 0 {
		maxOut = 1000
	}

	params := responses.ResponseNewParams{
		Model:           r.model,
		MaxOutputTokens: openai.Int(maxOut),
		Instructions:    openai.String(req.Instructions),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: []responses.ResponseInputItemUnionParam{
				responses.ResponseInputItemParamOfMessage(req.Input, responses.EasyInputMessageRoleUser),
			},
		},
		Text: responses.ResponseTextConfigParam{
			Format: format,
		},
	}

	resp, err := CallWithRetry(ctx, r.retry, func(ctx context.Context) (*responses.Response, error) {
		return r.client.Responses.New(ctx, params)
	})
	if err != nil {
		return "", err
	}
	return resp.OutputText(), nil
}
