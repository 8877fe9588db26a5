package avatar

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	logx "github.com/aetheria-game/server/pkg/logger"
	openai "github.com/sashabaranov/go-openai"
)

//go:embed template/image_prompt_system.txt
var imagePromptSystem string

// VeniceConfig configures the image-generation API. The chat-completions
// surface is OpenAI-compatible; the image surface is not.
type VeniceConfig struct {
	APIKey      string `envconfig:"VENICE_API_KEY" required:"true"`
	BaseURL     string `envconfig:"VENICE_BASE_URL" default:"https://api.venice.ai/api/v1"`
	PromptModel string `envconfig:"VENICE_PROMPT_MODEL" default:"llama-3.1-405b"`
	ImageModel  string `envconfig:"VENICE_IMAGE_MODEL" default:"flux-dev"`
	Timeout     int    `envconfig:"VENICE_TIMEOUT" default:"90"`
}

// VeniceClient generates the image prompt and the character image.
type VeniceClient struct {
	cfg  VeniceConfig
	chat *openai.Client
	http *http.Client
}

func NewVeniceClient(cfg VeniceConfig) *VeniceClient {
	chatCfg := openai.DefaultConfig(cfg.APIKey)
	chatCfg.BaseURL = cfg.BaseURL

	return &VeniceClient{
		cfg:  cfg,
		chat: openai.NewClientWithConfig(chatCfg),
		http: &http.Client{Timeout: time.Duration(cfg.Timeout) * time.Second},
	}
}

// GenerateImagePrompt asks the chat model for a pixel-art generation prompt
// matching the character traits.
func (c *VeniceClient) GenerateImagePrompt(ctx context.Context, traits Traits) (string, error) {
	user := fmt.Sprintf(`Create a detailed image generation prompt for a pixel art character with these traits:
- Top Holdings: %s
- Character Class: %s
- Social Status: %s
- Age: %s
- Gender: %s
- Trading Style: %s
- Risk Level: %s

Include specific details about appearance, colors, and visual elements that reflect their status and trading style.
Keep the prompt under 2048 characters and above 1000 characters.`,
		strings.Join(traits.TopHoldings, ", "),
		traits.CharacterClass,
		traits.SocialClass,
		traits.AgeCategory,
		traits.Gender,
		traits.TradingStyle,
		traits.RiskLevel,
	)

	resp, err := c.chat.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.cfg.PromptModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: imagePromptSystem},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: 0.7,
		MaxTokens:   500,
	})
	if err != nil {
		return "", fmt.Errorf("generate image prompt: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("generate image prompt: empty response")
	}
	return resp.Choices[0].Message.Content, nil
}

type imageGenerateRequest struct {
	Height            int    `json:"height"`
	Width             int    `json:"width"`
	Steps             int    `json:"steps"`
	ReturnBinary      bool   `json:"return_binary"`
	HideWatermark     bool   `json:"hide_watermark"`
	Format            string `json:"format"`
	EmbedExifMetadata bool   `json:"embed_exif_metadata"`
	Model             string `json:"model"`
	Seed              int    `json:"seed"`
	Prompt            string `json:"prompt"`
	StylePreset       string `json:"style_preset"`
	CfgScale          int    `json:"cfg_scale"`
}

type imageGenerateResponse struct {
	Images []string `json:"images"`
}

// GenerateImage renders the character sprite and returns the raw PNG bytes.
func (c *VeniceClient) GenerateImage(ctx context.Context, imagePrompt string) ([]byte, error) {
	payload := imageGenerateRequest{
		Height:        448,
		Width:         256,
		Steps:         20,
		Format:        "png",
		HideWatermark: true,
		Model:         c.cfg.ImageModel,
		Seed:          100000000 + rand.IntN(900000000),
		Prompt:        imagePrompt,
		StylePreset:   "Pixel Art",
		CfgScale:      10,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/image/generate", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		logx.Error().Int("status", resp.StatusCode).Msg("image generation failed")
		return nil, fmt.Errorf("image generation: status %d", resp.StatusCode)
	}

	var decoded imageGenerateResponse
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		return nil, fmt.Errorf("decode image response: %w", err)
	}
	if len(decoded.Images) == 0 {
		return nil, fmt.Errorf("no image data in response")
	}
	return base64.StdEncoding.DecodeString(decoded.Images[0])
}
