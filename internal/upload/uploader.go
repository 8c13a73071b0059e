// Package upload converts uploaded binary payloads into stored-asset URLs by
// delegating to an external media host.
package upload

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Input is either a genuine file (Data + ContentType) or a passthrough string
// that is already a URL or data URI (Remote).
type Input struct {
	Filename    string
	ContentType string
	Data        []byte
	Remote      string
}

// Asset describes a stored upload. URL is always publicly resolvable.
type Asset struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
}

// Uploader is the media-host collaborator. Tests replace it with a stub
// returning a deterministic URL.
type Uploader interface {
	Upload(ctx context.Context, in Input) (Asset, error)
}

// CloudinaryUploader submits uploads to Cloudinary with automatic resource
// type detection.
type CloudinaryUploader struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinary builds an uploader from the three Cloudinary secrets.
func NewCloudinary(cloudName, apiKey, apiSecret string) (*CloudinaryUploader, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to configure cloudinary: %w", err)
	}
	return &CloudinaryUploader{cld: cld}, nil
}

// Upload sends the payload to the media host. Genuine files are fully read
// into a base64 data URI before submission; passthrough strings go as-is.
func (u *CloudinaryUploader) Upload(ctx context.Context, in Input) (Asset, error) {
	payload := in.Remote
	if payload == "" {
		contentType := in.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		payload = fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(in.Data))
	}

	res, err := u.cld.Upload.Upload(ctx, payload, uploader.UploadParams{ResourceType: "auto"})
	if err != nil {
		return Asset{}, fmt.Errorf("upload failed: %w", err)
	}

	url := res.SecureURL
	if url == "" {
		url = res.URL
	}

	return Asset{URL: url, PublicID: res.PublicID}, nil
}
