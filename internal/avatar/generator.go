package avatar

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net/http"
	"strings"

	"github.com/google/uuid"

	errx "github.com/aetheria-game/server/internal/core/error"
	"github.com/aetheria-game/server/internal/wallet"
	logx "github.com/aetheria-game/server/pkg/logger"
)

// ImageGenerator produces a sprite image from a generation prompt.
type ImageGenerator interface {
	GenerateImagePrompt(ctx context.Context, traits Traits) (string, error)
	GenerateImage(ctx context.Context, imagePrompt string) ([]byte, error)
}

// Result is the avatar endpoint payload: where the sprite lives and the
// traits it was drawn from.
type Result struct {
	ImageURL string `json:"image_url"`
	Traits   Traits `json:"character_traits"`
}

// Generator runs the full avatar pipeline: wallet statistics to traits to
// image prompt to rendered, post-processed, uploaded sprite. It holds no
// per-request state; requests may run it concurrently.
type Generator struct {
	wallet   wallet.DataClient
	images   ImageGenerator
	uploader Uploader
}

func NewGenerator(walletClient wallet.DataClient, images ImageGenerator, uploader Uploader) *Generator {
	return &Generator{
		wallet:   walletClient,
		images:   images,
		uploader: uploader,
	}
}

// Generate builds an avatar for a wallet. Gender defaults to a coin flip when
// the caller leaves it blank.
func (g *Generator) Generate(ctx context.Context, address, gender string) (*Result, error) {
	summary := wallet.BuildSummary(ctx, g.wallet, address)
	if summary.Empty() {
		return nil, errx.New(fmt.Errorf("no wallet data for %s", address),
			http.StatusBadRequest, "Could not fetch wallet information")
	}

	if gender == "" {
		gender = []string{"male", "female"}[rand.IntN(2)]
	}

	traits := DeriveTraits(summary, gender)
	logx.Info().
		Str("address", address).
		Str("social_class", traits.SocialClass).
		Str("character_class", traits.CharacterClass).
		Msg("derived character traits")

	imagePrompt, err := g.images.GenerateImagePrompt(ctx, traits)
	if err != nil {
		return nil, errx.New(err, http.StatusBadGateway, "Failed to generate character description")
	}

	raw, err := g.images.GenerateImage(ctx, imagePrompt)
	if err != nil {
		return nil, errx.New(err, http.StatusBadGateway, "Failed to generate character image")
	}

	img, err := DecodePNG(raw)
	if err != nil {
		return nil, errx.New(err, http.StatusBadGateway, "Failed to generate character image")
	}
	sprite := ResizeSprite(RemoveBackground(img))

	encoded, err := EncodePNG(sprite)
	if err != nil {
		return nil, errx.New(err, http.StatusInternalServerError, errx.SystemErrorMessage)
	}

	path := fmt.Sprintf("avatars/%s_%s.png", strings.ToLower(address), uuid.NewString())
	url, err := g.uploader.Upload(ctx, path, encoded)
	if err != nil {
		return nil, errx.New(err, http.StatusBadGateway, "Failed to store character image")
	}

	return &Result{ImageURL: url, Traits: traits}, nil
}

var _ ImageGenerator = (*VeniceClient)(nil)
