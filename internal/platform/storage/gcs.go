package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/iamcredentials/v1"
	"google.golang.org/api/option"

	"github.com/tmtrack/time_tracker_app/internal/platform/config"
)

// GCSPhotoStore stores photo objects in a Google Cloud Storage bucket.
// Signing uses IAMCredentials SignBlob so no JSON private key is needed
// at runtime; the configured service account email is the signer.
type GCSPhotoStore struct {
	client      *gcs.Client
	bucket      string
	signerEmail string
	iamSvc      *iamcredentials.Service
}

// NewGCSPhotoStore creates a photo store for the configured bucket.
func NewGCSPhotoStore(ctx context.Context, cfg *config.Config) (*GCSPhotoStore, error) {
	if strings.TrimSpace(cfg.PhotoBucket) == "" {
		return nil, errors.New("gcs: photo bucket is not configured")
	}

	var clientOpts []option.ClientOption
	if credFile := strings.TrimSpace(cfg.GCPCredentialsFile); credFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(credFile))
	}

	client, err := gcs.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("gcs: client init failed: %w", err)
	}

	iamSvc, err := iamcredentials.NewService(ctx, clientOpts...)
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("gcs: iamcredentials init failed: %w", err)
	}

	return &GCSPhotoStore{
		client:      client,
		bucket:      strings.TrimSpace(cfg.PhotoBucket),
		signerEmail: strings.TrimSpace(cfg.GCSServiceAccount),
		iamSvc:      iamSvc,
	}, nil
}

// Upload writes the object at the given path.
func (s *GCSPhotoStore) Upload(ctx context.Context, objectPath, contentType string, data []byte) error {
	obj := strings.TrimSpace(objectPath)
	if obj == "" {
		return errors.New("gcs: object path is empty")
	}

	w := s.client.Bucket(s.bucket).Object(obj).NewWriter(ctx)
	if ct := strings.TrimSpace(contentType); ct != "" {
		w.ContentType = ct
	}
	w.ChunkSize = 0
	w.Metadata = map[string]string{
		"uploadedAt": time.Now().UTC().Format(time.RFC3339),
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("gcs: upload of %s failed: %w", obj, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("gcs: upload of %s failed: %w", obj, err)
	}
	return nil
}

// SignedURL returns a signed GET URL for the object.
func (s *GCSPhotoStore) SignedURL(ctx context.Context, objectPath string, expiry time.Duration) (string, error) {
	obj := strings.TrimSpace(objectPath)
	if obj == "" {
		return "", errors.New("gcs: object path is empty")
	}
	if s.signerEmail == "" {
		return "", errors.New("gcs: signer service account is not configured")
	}
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}

	opts := signedURLOptions(s.signerEmail, s.signBytes, time.Now().UTC().Add(expiry))
	u, err := gcs.SignedURL(s.bucket, obj, opts)
	if err != nil {
		return "", fmt.Errorf("gcs: signing url for %s failed: %w", obj, err)
	}
	return u, nil
}

// signedURLOptions builds V2 signing options. V4 signing rejects expiries
// beyond seven days; photo URLs stay valid for a year.
func signedURLOptions(signerEmail string, signBytes func([]byte) ([]byte, error), expires time.Time) *gcs.SignedURLOptions {
	return &gcs.SignedURLOptions{
		Scheme:         gcs.SigningSchemeV2,
		Method:         "GET",
		GoogleAccessID: signerEmail,
		SignBytes:      signBytes,
		Expires:        expires,
	}
}

func (s *GCSPhotoStore) signBytes(payload []byte) ([]byte, error) {
	name := fmt.Sprintf("projects/-/serviceAccounts/%s", s.signerEmail)
	req := &iamcredentials.SignBlobRequest{
		Payload: base64.StdEncoding.EncodeToString(payload),
	}
	resp, err := s.iamSvc.Projects.ServiceAccounts.SignBlob(name, req).Do()
	if err != nil {
		return nil, err
	}
	return base64.StdEncoding.DecodeString(resp.SignedBlob)
}

// Close releases the underlying storage client.
func (s *GCSPhotoStore) Close() error {
	return s.client.Close()
}
