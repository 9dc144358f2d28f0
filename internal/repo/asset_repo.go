package repo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/xplorhq/asset-service/internal/domain"
)

const assetsColl = "assets"

func (s *Store) EnsureAssetIndexes(ctx context.Context) error {
	_, err := s.DB.Collection(assetsColl).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "file_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (s *Store) InsertAsset(ctx context.Context, a *domain.Asset) error {
	_, err := s.DB.Collection(assetsColl).InsertOne(ctx, a)
	return err
}

// FindAsset returns (nil, nil) when the file_id is unknown.
func (s *Store) FindAsset(ctx context.Context, fileID string) (*domain.Asset, error) {
	var a domain.Asset
	err := s.DB.Collection(assetsColl).FindOne(ctx, bson.M{"file_id": fileID}).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Store) ListAssets(ctx context.Context) ([]domain.Asset, error) {
	cur, err := s.DB.Collection(assetsColl).Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "uploaded_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	assets := []domain.Asset{}
	if err := cur.All(ctx, &assets); err != nil {
		return nil, err
	}
	return assets, nil
}

func (s *Store) DeleteAsset(ctx context.Context, fileID string) error {
	_, err := s.DB.Collection(assetsColl).DeleteOne(ctx, bson.M{"file_id": fileID})
	return err
}
