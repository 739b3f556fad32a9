package grader

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const systemPrompt = `You are a strict assessment grader. You receive assessment questions and a candidate's answers. Respond with a JSON object: {"score": <number of points earned across the whole assessment>, "criteria": {"<dimension>": <0-100>, ...}, "feedback": "<2-4 sentences of constructive feedback for the candidate>"}. Score conservatively and never exceed the stated total points.`

type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Client scores free-form answers through an OpenAI-compatible chat API.
// Every call is timeout-bounded; failures are the caller's to retry, and a
// failed call must never affect scores already on record.
type Client struct {
	api     *openai.Client
	model   string
	timeout time.Duration
}

func NewClient(cfg Config) *Client {
	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		api:     openai.NewClientWithConfig(apiCfg),
		model:   cfg.Model,
		timeout: timeout,
	}
}

func (c *Client) Evaluate(ctx context.Context, p Payload) (*Evaluation, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: p.render()},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0.1,
	})
	if err != nil {
		return nil, fmt.Errorf("grader api call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("grader returned no choices")
	}

	raw := resp.Choices[0].Message.Content
	var eval Evaluation
	if err := json.Unmarshal([]byte(raw), &eval); err != nil {
		return nil, fmt.Errorf("parse grader response: %w", err)
	}
	if eval.Score < 0 {
		eval.Score = 0
	}
	return &eval, nil
}
