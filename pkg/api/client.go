package api

import (
	"context"

	"connectrpc.com/connect"
)

// Client calls ledger procedures on one server.
type Client struct {
	httpClient connect.HTTPClient
	baseURL    string
	token      string
}

// NewClient creates a client for the server at baseURL.
func NewClient(httpClient connect.HTTPClient, baseURL string) *Client {
	return &Client{httpClient: httpClient, baseURL: baseURL}
}

// WithToken returns a copy of c that sends token as a Bearer credential.
func (c *Client) WithToken(token string) *Client {
	copied := *c
	copied.token = token
	return &copied
}

// Call invokes a unary procedure with the JSON codec.
func Call[Req, Res any](ctx context.Context, c *Client, procedure string, msg *Req) (*Res, error) {
	client := connect.NewClient[Req, Res](c.httpClient, c.baseURL+procedure, WithCodec())

	req := connect.NewRequest(msg)
	if c.token != "" {
		req.Header().Set("Authorization", "Bearer "+c.token)
	}

	resp, err := client.CallUnary(ctx, req)
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}
