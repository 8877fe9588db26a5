package avatar

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	logx "github.com/aetheria-game/server/pkg/logger"
)

// Uploader stores a rendered sprite and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, path string, data []byte) (string, error)
}

// SupabaseStorageConfig configures the object storage bucket that serves
// generated sprites to game clients.
type SupabaseStorageConfig struct {
	URL        string `envconfig:"SUPABASE_URL" required:"true"`
	ServiceKey string `envconfig:"SUPABASE_SERVICE_KEY" required:"true"`
	Bucket     string `envconfig:"SUPABASE_BUCKET" default:"aetheria"`
	Timeout    int    `envconfig:"SUPABASE_TIMEOUT" default:"30"`
}

// SupabaseStorage uploads sprites through the storage REST API.
type SupabaseStorage struct {
	cfg  SupabaseStorageConfig
	http *http.Client
}

func NewSupabaseStorage(cfg SupabaseStorageConfig) *SupabaseStorage {
	return &SupabaseStorage{
		cfg:  cfg,
		http: &http.Client{Timeout: time.Duration(cfg.Timeout) * time.Second},
	}
}

// Upload writes the object and returns its public URL. Existing objects at
// the same path are overwritten.
func (s *SupabaseStorage) Upload(ctx context.Context, path string, data []byte) (string, error) {
	endpoint := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.cfg.URL, s.cfg.Bucket, path)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.ServiceKey)
	req.Header.Set("Content-Type", "image/png")
	req.Header.Set("x-upsert", "true")

	resp, err := s.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		logx.Error().Int("status", resp.StatusCode).Str("path", path).Msg("sprite upload failed")
		return "", fmt.Errorf("upload sprite: status %d: %s", resp.StatusCode, body)
	}

	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.cfg.URL, s.cfg.Bucket, path), nil
}

var _ Uploader = (*SupabaseStorage)(nil)
