package domain

import "time"

// Asset is the metadata record for an uploaded 3D model and its optional
// preview thumbnail. The binaries themselves live in object storage; only
// the keys and URLs are kept here.
type Asset struct {
	FileID       string    `bson:"file_id"        json:"file_id"`
	Name         string    `bson:"name"           json:"name"`
	FileName     string    `bson:"file_name"      json:"file_name"`
	ModelURL     string    `bson:"model_url"      json:"model_url"`
	ModelKey     string    `bson:"model_key"      json:"model_key"`
	ThumbnailURL string    `bson:"thumbnail_url,omitempty" json:"thumbnail_url,omitempty"`
	ThumbnailKey string    `bson:"thumbnail_key,omitempty" json:"thumbnail_key,omitempty"`
	UploadedBy   string    `bson:"uploaded_by"    json:"uploaded_by"`
	UploadedAt   time.Time `bson:"uploaded_at"    json:"uploaded_at"`
	Tags         []string  `bson:"tags"           json:"tags"`
}
