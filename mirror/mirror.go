// Package mirror copies remote cover images into an S3-compatible bucket so
// pages can keep linking to them after the source URL expires.
package mirror

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/h2non/filetype"
)

const maxImageSize = 10 << 20 // 10MB

// ErrNotImage is returned when the downloaded body is not a recognizable image.
var ErrNotImage = errors.New("mirror: not an image")

// Config holds the R2 bucket settings.
type Config struct {
	AccountID  string
	AccessKey  string
	SecretKey  string
	BucketName string
	PublicURL  string // base URL the bucket is served from
	Endpoint   string // overrides the R2 endpoint derived from AccountID
}

// Configured reports whether enough settings are present to mirror covers.
func (c Config) Configured() bool {
	return c.AccessKey != "" && c.SecretKey != "" && c.BucketName != "" && c.PublicURL != "" &&
		(c.AccountID != "" || c.Endpoint != "")
}

// objectStore is the subset of the S3 client used by Mirror.
type objectStore interface {
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, opts ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Mirror uploads remote images to a bucket.
type Mirror struct {
	bucket    string
	publicURL string
	store     objectStore
	client    *http.Client
}

// New builds a Mirror backed by an R2 (or other S3-compatible) bucket.
func New(ctx context.Context, cfg Config) (*Mirror, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
		awsconfig.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("load s3 config: %w", err)
	}
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})
	return newMirror(cfg, client), nil
}

func newMirror(cfg Config, store objectStore) *Mirror {
	return &Mirror{
		bucket:    cfg.BucketName,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
		store:     store,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Key returns the object key for a cover of the given owner. Signed URLs
// change on every fetch, so only the URL path takes part in the hash.
func Key(owner, rawURL string) string {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		p = u.Host + u.Path
	}
	sum := sha256.Sum256([]byte(p))
	return "calendar/" + owner + "/" + hex.EncodeToString(sum[:])[:16]
}

// Mirror copies the image at rawURL into the bucket, unless it is already
// there, and returns its public URL.
func (m *Mirror) Mirror(ctx context.Context, owner, rawURL string) (string, error) {
	base := Key(owner, rawURL)
	exists, err := m.exists(ctx, base)
	if err != nil {
		return "", err
	}
	if exists {
		return m.publicURL + "/" + base, nil
	}

	data, contentType, err := m.download(ctx, rawURL)
	if err != nil {
		return "", err
	}
	_, err = m.store.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(m.bucket),
		Key:          aws.String(base),
		Body:         bytes.NewReader(data),
		ContentType:  aws.String(contentType),
		CacheControl: aws.String("public, max-age=31536000, immutable"),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", base, err)
	}
	return m.publicURL + "/" + base, nil
}

func (m *Mirror) exists(ctx context.Context, key string) (bool, error) {
	_, err := m.store.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(m.bucket),
		Key:    aws.String(key),
	})
	if err == nil {
		return true, nil
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && (apiErr.ErrorCode() == "NotFound" || apiErr.ErrorCode() == "NoSuchKey") {
		return false, nil
	}
	return false, fmt.Errorf("head %s: %w", key, err)
}

func (m *Mirror) download(ctx context.Context, rawURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("build cover request: %w", err)
	}
	resp, err := m.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("download cover: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("download cover: status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageSize+1))
	if err != nil {
		return nil, "", fmt.Errorf("read cover: %w", err)
	}
	if len(data) > maxImageSize {
		return nil, "", fmt.Errorf("cover exceeds %d bytes", maxImageSize)
	}
	kind, err := filetype.Match(data)
	if err != nil || !filetype.IsImage(data) {
		return nil, "", ErrNotImage
	}
	return data, kind.MIME.Value, nil
}
