// Package attachments uploads session files to S3 and turns them into
// attachment references.
package attachments

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/wolfman30/psyclinic-dashboard/pkg/logging"
)

// KeyPrefix is the object prefix for every session attachment.
const KeyPrefix = "sesiones"

var ErrNotConfigured = errors.New("attachments: uploads are not configured")

// S3API is the subset of the S3 client used by S3Uploader.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Uploader stores content and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, name, contentType string, body io.Reader) (string, error)
}

// S3Uploader writes objects under sesiones/<uuid>/<name>.
type S3Uploader struct {
	s3Client S3API
	bucket   string
	baseURL  string
	newID    func() string
	logger   *logging.Logger
}

// NewS3Uploader creates an uploader. baseURL is the public prefix objects are
// served from; when empty the virtual-hosted S3 URL is used.
func NewS3Uploader(client S3API, bucket, baseURL string, logger *logging.Logger) *S3Uploader {
	if logger == nil {
		logger = logging.Default()
	}
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" && bucket != "" {
		baseURL = fmt.Sprintf("https://%s.s3.amazonaws.com", bucket)
	}
	return &S3Uploader{
		s3Client: client,
		bucket:   bucket,
		baseURL:  baseURL,
		newID:    func() string { return uuid.NewString() },
		logger:   logger,
	}
}

// Enabled reports whether a bucket and client are configured.
func (u *S3Uploader) Enabled() bool {
	return u != nil && u.bucket != "" && u.s3Client != nil
}

// Key builds the object key for a file name.
func (u *S3Uploader) Key(name string) string {
	base := path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	if base == "." || base == "/" || base == "" {
		base = "archivo"
	}
	return path.Join(KeyPrefix, u.newID(), base)
}

func (u *S3Uploader) Upload(ctx context.Context, name, contentType string, body io.Reader) (string, error) {
	if !u.Enabled() {
		return "", ErrNotConfigured
	}
	key := u.Key(name)
	input := &s3.PutObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := u.s3Client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("attachments: s3 put %s: %w", key, err)
	}

	u.logger.Info("uploaded session attachment", "s3_key", key, "content_type", contentType)
	return u.objectURL(key), nil
}

// objectURL joins baseURL and key, escaping each key segment.
func (u *S3Uploader) objectURL(key string) string {
	segments := strings.Split(key, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return u.baseURL + "/" + strings.Join(segments, "/")
}
