package mock

import (
	"context"

	"github.com/yuweichu1-web/auto-news-writer/internal/llm"
)

// Client is a scripted llm.Client for tests. Responses are consumed in order;
// the final one repeats. Every request is recorded in Calls.
type Client struct {
	Responses []llm.ChatResponse
	Err       error
	Calls     []llm.ChatRequest
}

func (c *Client) ChatCompletion(ctx context.Context, request llm.ChatRequest) (llm.ChatResponse, error) {
	_ = ctx
	c.Calls = append(c.Calls, request)
	if c.Err != nil {
		return llm.ChatResponse{}, c.Err
	}
	if len(c.Responses) == 0 {
		return llm.ChatResponse{}, nil
	}
	response := c.Responses[0]
	if len(c.Responses) > 1 {
		c.Responses = c.Responses[1:]
	}
	return response, nil
}
