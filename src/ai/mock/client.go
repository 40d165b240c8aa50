// Package mock registers an offline oracle that answers every request with a
// fixed response. It backs dry runs and local development.
package mock

import (
	"context"
	"fmt"

	"github.com/stake-plus/truthlens/src/ai/core"
)

const defaultResponse = `{"verdict":"UNCERTAIN","is_fake":false,"confidence":0.5,"rationale":"mock oracle"}`

func init() {
	core.RegisterProvider("mock", newClient)
}

type client struct {
	response string
}

func newClient(cfg core.FactoryConfig) (core.Client, error) {
	resp := cfg.Extra["response"]
	if resp == "" {
		resp = defaultResponse
	}
	return &client{response: resp}, nil
}

func (c *client) Classify(ctx context.Context, req core.Request) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}
	if req.Prompt == "" {
		return "", fmt.Errorf("mock: empty prompt")
	}
	return c.response, nil
}
