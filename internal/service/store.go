package service

import (
	"context"
	"time"

	"github.com/xplorhq/asset-service/internal/domain"
)

// UserStore is the credential-store boundary. Find methods return (nil, nil)
// for absent records; CreateUser returns domain.ErrDuplicateAccount when the
// email is already taken.
type UserStore interface {
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	CreateUser(ctx context.Context, u *domain.User) error
	MarkVerified(ctx context.Context, email string) error
	SetResetOTP(ctx context.Context, email, otp string, expires time.Time) error
	ReplacePassword(ctx context.Context, email, hash string) error
}

// AssetStore is the asset-metadata boundary.
type AssetStore interface {
	InsertAsset(ctx context.Context, a *domain.Asset) error
	FindAsset(ctx context.Context, fileID string) (*domain.Asset, error)
	ListAssets(ctx context.Context) ([]domain.Asset, error)
	DeleteAsset(ctx context.Context, fileID string) error
}
