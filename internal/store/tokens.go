package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrUnknownToken is returned by ResolveToken for a token never issued.
var ErrUnknownToken = errors.New("unknown token")

// IssueToken creates a random API token for uid and stores the mapping
// under token:{token}. The uid is stored as a JSON string like every other
// record.
func IssueToken(ctx context.Context, s Store, uid string) (string, error) {
	if uid == "" {
		return "", errors.New("uid is required")
	}
	token := uuid.New().String()
	if err := SetJSON(ctx, s, TokenKey(token), uid); err != nil {
		return "", fmt.Errorf("store token: %w", err)
	}
	return token, nil
}

// ResolveToken returns the uid a token was issued for.
func ResolveToken(ctx context.Context, s Store, token string) (string, error) {
	if token == "" {
		return "", ErrUnknownToken
	}
	uid, err := GetJSON(ctx, s, TokenKey(token), "")
	if err != nil {
		return "", err
	}
	if uid == "" {
		return "", ErrUnknownToken
	}
	return uid, nil
}
