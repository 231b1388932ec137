package supabase

import (
	"context"
	"fmt"
	"strings"

	"agency-desk-backend/internal/config"
	"agency-desk-backend/internal/models"
	"github.com/supabase-community/supabase-go"
)

type Client struct {
	Supabase *supabase.Client
	Config   *config.Config
}

func NewClient(cfg *config.Config) (*Client, error) {
	client, err := supabase.NewClient(strings.TrimSuffix(cfg.SupabaseURL, "/"), cfg.SupabaseKey, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create supabase client: %w", err)
	}

	return &Client{
		Supabase: client,
		Config:   cfg,
	}, nil
}

// VerifyAccessToken asks Supabase Auth who the access token belongs to.
// Tokens issued by the Google provider carry the Google profile in the
// user metadata.
func (c *Client) VerifyAccessToken(ctx context.Context, accessToken string) (*models.OAuthIdentity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp, err := c.Supabase.Auth.WithToken(accessToken).GetUser()
	if err != nil {
		return nil, fmt.Errorf("failed to verify access token: %w", err)
	}

	identity := &models.OAuthIdentity{
		Subject: resp.ID.String(),
		Email:   resp.Email,
	}
	for _, key := range []string{"full_name", "name"} {
		if name, ok := resp.UserMetadata[key].(string); ok && name != "" {
			identity.Name = name
			break
		}
	}
	if sub, ok := resp.UserMetadata["provider_id"].(string); ok && sub != "" {
		identity.Subject = sub
	}
	return identity, nil
}
