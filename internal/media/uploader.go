// Package media uploads featured and gallery images to the S3-compatible
// bucket (Cloudflare R2) the site serves media from.
package media

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Config carries the R2 connection settings.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string

	// PublicBaseURL is the CDN origin the uploaded key is appended to.
	PublicBaseURL string
}

// Uploader writes objects to one bucket and returns their public URLs.
type Uploader struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
}

// NewUploader builds an S3 client against the R2 endpoint.
func NewUploader(ctx context.Context, cfg Config) (*Uploader, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("media: load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true
	})

	return &Uploader{
		client:        client,
		bucket:        cfg.Bucket,
		publicBaseURL: strings.TrimSuffix(cfg.PublicBaseURL, "/"),
	}, nil
}

var unsafeChars = regexp.MustCompile(`[^a-z0-9._-]+`)

// Upload stores the file under a dated key with a random prefix so repeated
// uploads of the same filename never collide, and returns the public URL.
func (u *Uploader) Upload(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	name := unsafeChars.ReplaceAllString(strings.ToLower(path.Base(filename)), "-")
	key := fmt.Sprintf("uploads/%s/%s-%s", time.Now().UTC().Format("2006/01"), randomPrefix(), name)

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("media: upload %s: %w", name, err)
	}

	return u.publicBaseURL + "/" + key, nil
}

func randomPrefix() string {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(buf)
}
