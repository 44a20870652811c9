// utils/r2.go
package utils

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gosimple/slug"
)

var r2Client *s3.Client
var r2Bucket string

// InitR2 configures the photo archive from env. Archiving is optional:
// when R2_BUCKET_NAME is unset the archive stays disabled and every upload
// is a no-op. Returns whether the archive is enabled.
func InitR2() (bool, error) {
	accountID := os.Getenv("CLOUDFLARE_ACCOUNT_ID")
	accessKeyID := os.Getenv("R2_ACCESS_KEY_ID")
	accessKeySecret := os.Getenv("R2_ACCESS_KEY_SECRET")
	r2Bucket = os.Getenv("R2_BUCKET_NAME")

	if r2Bucket == "" {
		return false, nil
	}
	if accountID == "" || accessKeyID == "" || accessKeySecret == "" {
		return false, fmt.Errorf("R2_BUCKET_NAME is set but R2 credentials are incomplete")
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion("auto"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			accessKeyID, accessKeySecret, "",
		)),
		config.WithEndpointResolver(aws.EndpointResolverFunc(
			func(service, region string) (aws.Endpoint, error) {
				return aws.Endpoint{
					URL: fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID),
				}, nil
			}),
		),
	)
	if err != nil {
		return false, fmt.Errorf("failed to load R2 config: %w", err)
	}

	r2Client = s3.NewFromConfig(cfg)
	return true, nil
}

// R2Enabled reports whether the photo archive was configured.
func R2Enabled() bool {
	return r2Client != nil
}

// PhotoKey builds the archive object key for a normalized photo. The key
// is derived from the fingerprint (stable) plus a slug of the original
// filename (human-readable), and is computed before the submission row is
// inserted so the row never needs updating.
func PhotoKey(fingerprint, filename string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	s := slug.Make(base)
	if s == "" {
		return "photos/" + fingerprint + ".jpg"
	}
	return "photos/" + fingerprint + "_" + s + ".jpg"
}

// UploadPhoto archives the normalized JPEG bytes under key. No-op when the
// archive is disabled.
func UploadPhoto(ctx context.Context, key string, jpegBytes []byte) error {
	if r2Client == nil {
		return nil
	}

	_, err := r2Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r2Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(jpegBytes),
		ContentType: aws.String("image/jpeg"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload photo to R2: %w", err)
	}
	return nil
}
