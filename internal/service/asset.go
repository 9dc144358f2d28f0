package service

import (
	"context"
	"io"
	"time"

	"github.com/xplorhq/asset-service/internal/domain"
	"github.com/xplorhq/asset-service/internal/storage"
)

const (
	modelFolder     = "assets/models"
	thumbnailFolder = "assets/previews"
)

// Assets is the straightforward create/read/delete plumbing around object
// storage and the metadata collection.
type Assets struct {
	store   AssetStore
	objects storage.Uploader
}

func NewAssets(store AssetStore, objects storage.Uploader) *Assets {
	return &Assets{store: store, objects: objects}
}

type UploadInput struct {
	Name          string
	FileName      string
	Model         io.Reader
	ThumbnailName string
	Thumbnail     io.Reader // nil when no preview was sent
	UploadedBy    string
	Tags          []string
}

// Upload stores the model binary (and optional thumbnail) and records the
// metadata. A metadata write failure after a successful object write leaves
// the objects behind; there is no compensating delete.
func (s *Assets) Upload(ctx context.Context, in UploadInput) (*domain.Asset, error) {
	fileID, modelKey, modelURL, err := s.objects.Upload(ctx, modelFolder, in.FileName, "model/gltf-binary", in.Model)
	if err != nil {
		return nil, wrapDep(err)
	}

	var thumbKey, thumbURL string
	if in.Thumbnail != nil {
		_, thumbKey, thumbURL, err = s.objects.Upload(ctx, thumbnailFolder, in.ThumbnailName, "image/jpeg", in.Thumbnail)
		if err != nil {
			return nil, wrapDep(err)
		}
	}

	name := in.Name
	if name == "" {
		name = "Untitled Asset"
	}
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}
	a := &domain.Asset{
		FileID:       fileID,
		Name:         name,
		FileName:     in.FileName,
		ModelURL:     modelURL,
		ModelKey:     modelKey,
		ThumbnailURL: thumbURL,
		ThumbnailKey: thumbKey,
		UploadedBy:   in.UploadedBy,
		UploadedAt:   time.Now().UTC(),
		Tags:         tags,
	}
	if err := s.store.InsertAsset(ctx, a); err != nil {
		return nil, wrapDep(err)
	}
	return a, nil
}

func (s *Assets) List(ctx context.Context) ([]domain.Asset, error) {
	assets, err := s.store.ListAssets(ctx)
	if err != nil {
		return nil, wrapDep(err)
	}
	return assets, nil
}

func (s *Assets) Get(ctx context.Context, fileID string) (*domain.Asset, error) {
	a, err := s.store.FindAsset(ctx, fileID)
	if err != nil {
		return nil, wrapDep(err)
	}
	if a == nil {
		return nil, domain.ErrAssetNotFound
	}
	return a, nil
}

// Delete removes the stored objects first, then the metadata record.
func (s *Assets) Delete(ctx context.Context, fileID string) error {
	a, err := s.store.FindAsset(ctx, fileID)
	if err != nil {
		return wrapDep(err)
	}
	if a == nil {
		return domain.ErrAssetNotFound
	}

	if err := s.objects.Delete(ctx, a.ModelKey); err != nil {
		return wrapDep(err)
	}
	if a.ThumbnailKey != "" {
		if err := s.objects.Delete(ctx, a.ThumbnailKey); err != nil {
			return wrapDep(err)
		}
	}
	if err := s.store.DeleteAsset(ctx, fileID); err != nil {
		return wrapDep(err)
	}
	return nil
}
