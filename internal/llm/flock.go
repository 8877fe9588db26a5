// Package llm hosts the client for the externally hosted web3 foundation
// model. The wire contract is a single query string plus a JSON-encoded tool
// schema; the response payload is a string or an array of string chunks.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/replicate/replicate-go"

	"github.com/aetheria-game/server/internal/npc/model"
	logx "github.com/aetheria-game/server/pkg/logger"
)

// FlockConfig configures the hosted model endpoint.
type FlockConfig struct {
	APIToken     string `envconfig:"REPLICATE_API_TOKEN" required:"true"`
	BaseURL      string `envconfig:"REPLICATE_BASE_URL"`
	ModelVersion string `envconfig:"FLOCK_MODEL_VERSION" default:"3babfa32ab245cf8e047ff7366bcb4d5a2b4f0f108f504c47d5a84e23c02ff5f"`
	Timeout      int    `envconfig:"FLOCK_TIMEOUT" default:"120"`
}

// FlockClient invokes the model through the prediction API. No retries; a
// failed prediction is the caller's problem.
type FlockClient struct {
	cfg FlockConfig
	r8  *replicate.Client
}

func NewFlockClient(cfg FlockConfig) (*FlockClient, error) {
	opts := []replicate.ClientOption{replicate.WithToken(cfg.APIToken)}
	if cfg.BaseURL != "" {
		opts = append(opts, replicate.WithBaseURL(cfg.BaseURL))
	}

	r8, err := replicate.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("create model client: %w", err)
	}
	return &FlockClient{cfg: cfg, r8: r8}, nil
}

// Invoke runs one generation and returns the decoded output payload.
func (c *FlockClient) Invoke(ctx context.Context, in model.GenerateInput) (any, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(c.cfg.Timeout)*time.Second)
	defer cancel()

	input := replicate.PredictionInput{
		"query":          in.Query,
		"tools":          in.ToolsJSON,
		"temperature":    in.Temperature,
		"max_new_tokens": in.MaxNewTokens,
		"top_p":          in.TopP,
	}

	pred, err := c.r8.CreatePrediction(ctx, c.cfg.ModelVersion, input, nil, false)
	if err != nil {
		return nil, fmt.Errorf("create prediction: %w", err)
	}

	if err := c.r8.Wait(ctx, pred); err != nil {
		return nil, fmt.Errorf("wait for prediction %s: %w", pred.ID, err)
	}

	if pred.Status != replicate.Succeeded {
		logx.Error().
			Str("prediction_id", pred.ID).
			Str("status", string(pred.Status)).
			Msg("model prediction did not succeed")
		return nil, fmt.Errorf("prediction %s %s: %v", pred.ID, pred.Status, pred.Error)
	}
	return pred.Output, nil
}

// OutputText flattens a model output payload into response text: strings
// pass through, string arrays are concatenated in order (the endpoint
// streams token chunks), anything else is rendered as JSON.
func OutputText(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return v
	case []any:
		var b strings.Builder
		for _, item := range v {
			if s, ok := item.(string); ok {
				b.WriteString(s)
			}
		}
		return b.String()
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return ""
	}
	return string(b)
}

var _ model.ModelInvoker = (*FlockClient)(nil)
