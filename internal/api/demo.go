package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// ErrNoToken means the demo user response carried no usable access token
var ErrNoToken = errors.New("demo user response did not include an access token")

// LoginDemo creates (or reuses) the demo user and, in bearer mode, adopts its
// token for subsequent calls. An empty token is an error in bearer mode.
func (c *Client) LoginDemo(ctx context.Context) (*DemoUser, error) {
	demo, err := c.CreateDemoUser(ctx)
	if err != nil {
		return nil, err
	}

	if c.auth != AuthBearer {
		return demo, nil
	}

	token := strings.TrimSpace(demo.AccessToken)
	if token == "" || token == "null" {
		return nil, &Error{Kind: KindUnauthorized, Method: http.MethodPost, Path: "/users/demo", Err: ErrNoToken}
	}

	c.SetToken(token)
	return demo, nil
}
