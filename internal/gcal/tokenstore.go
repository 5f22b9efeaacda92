// Package gcal integrates with the Google Calendar API: credential handling
// and the attendance fetch stage of the pipeline.
package gcal

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/oauth2"
)

// TokenStore persists the OAuth credential between invocations. The pipeline
// treats "give me a valid credential" as a black box; this interface keeps the
// filesystem out of it.
type TokenStore interface {
	// Load returns the stored token, or (nil, nil) when none exists yet.
	Load(ctx context.Context) (*oauth2.Token, error)
	// Save persists the token, replacing any previous one.
	Save(ctx context.Context, token *oauth2.Token) error
}

// FileTokenStore stores the token as a JSON blob on local disk.
type FileTokenStore struct {
	path string
}

// NewFileTokenStore creates a token store backed by the given file path.
func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

// Load reads and decodes the token file.
func (s *FileTokenStore) Load(_ context.Context) (*oauth2.Token, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read token file: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("decode token file: %w", err)
	}
	return &token, nil
}

// Save writes the token file with owner-only permissions.
func (s *FileTokenStore) Save(_ context.Context, token *oauth2.Token) error {
	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("encode token: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	return nil
}
