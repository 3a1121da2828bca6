package anthropic

import "context"

// Generator adapts a Client to the single-prompt text generation contract
// the recommendation synthesizer consumes.
type Generator struct {
	client    Client
	model     string
	maxTokens int64
}

// NewGenerator builds a Generator for the given model.
func NewGenerator(client Client, model string, maxTokens int64) *Generator {
	return &Generator{client: client, model: model, maxTokens: maxTokens}
}

// Generate sends one user prompt and returns the concatenated text blocks.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.CreateMessage(ctx, MessageRequest{
		Model:     g.model,
		MaxTokens: g.maxTokens,
		Messages:  []Message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", err
	}
	resp.Usage.LogCost(g.model, "synthesize")
	return resp.Text(), nil
}
