// Package archive keeps a copy of every uploaded food spreadsheet.
package archive

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
)

// Archiver stores a raw upload and returns where it went
type Archiver interface {
	Archive(ctx context.Context, userID, filename string, body []byte) (string, error)
}

// Nop discards uploads
type Nop struct{}

func (Nop) Archive(context.Context, string, string, []byte) (string, error) {
	return "", nil
}

// ObjectPutter is the subset of the S3 client the archiver needs
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3 archives uploads into a private bucket
type S3 struct {
	client ObjectPutter
	bucket string
	now    func() time.Time
}

// NewS3 loads the default AWS credential chain. region falls back to the
// SDK's own resolution (AWS_REGION, shared config) when empty.
func NewS3(ctx context.Context, bucket, region string) (*S3, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config for S3: %w", err)
	}
	return NewS3WithClient(s3.NewFromConfig(cfg), bucket), nil
}

// NewS3WithClient wraps an existing client
func NewS3WithClient(client ObjectPutter, bucket string) *S3 {
	return &S3{client: client, bucket: bucket, now: time.Now}
}

func (a *S3) Archive(ctx context.Context, userID, filename string, body []byte) (string, error) {
	key := ObjectKey(userID, filename, a.now())

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:               aws.String(a.bucket),
		Key:                  aws.String(key),
		Body:                 bytes.NewReader(body),
		ContentType:          aws.String(contentType(filename)),
		ServerSideEncryption: s3types.ServerSideEncryptionAes256,
		Metadata: map[string]string{
			"user-id":           userID,
			"original-filename": filepath.Base(filename),
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}
	return fmt.Sprintf("s3://%s/%s", a.bucket, key), nil
}

// ObjectKey lays uploads out as imports/<user>/<yyyy>/<mm>/<uuid><ext>
func ObjectKey(userID, filename string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return fmt.Sprintf("imports/%s/%s/%s%s",
		sanitize(userID),
		now.UTC().Format("2006/01"),
		uuid.NewString(),
		ext,
	)
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		}
		return '_'
	}, s)
}

func contentType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ".csv":
		return "text/csv"
	}
	if ct := mime.TypeByExtension(filepath.Ext(filename)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
