// Package inference talks to OpenAI-compatible chat-completions providers
// and falls through an ordered provider list until one answers.
package inference

import (
	"context"
	"errors"
	"log"

	"github.com/zerocost/scheduler-backend/internal/model/chat"
)

// ErrInferenceUnavailable means every configured provider failed or timed
// out for this call.
var ErrInferenceUnavailable = errors.New("all inference providers failed")

// Gateway tries providers in order until one succeeds. Unconfigured
// providers are skipped; an empty effective list fails immediately.
type Gateway struct {
	providers []*Provider
	params    Params
}

func NewGateway(params Params, providers ...*Provider) *Gateway {
	return &Gateway{providers: providers, params: params}
}

// Complete returns the first successful provider's text. Classification of
// the text (conversational vs. structured action) is the caller's concern.
func (g *Gateway) Complete(ctx context.Context, messages []chat.Turn) (string, error) {
	var lastErr error
	for _, p := range g.providers {
		if !p.Configured() {
			continue
		}

		reply, err := p.Complete(ctx, messages, g.params)
		if err == nil {
			return reply, nil
		}
		log.Printf("[inference] provider %s failed: %v", p.Name, err)
		lastErr = err
	}

	if lastErr != nil {
		return "", errors.Join(ErrInferenceUnavailable, lastErr)
	}
	return "", ErrInferenceUnavailable
}
