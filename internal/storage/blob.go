// Package storage relays uploaded files to S3-compatible object storage with public read access.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"eduvault/internal/domain"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
)

// Upload fields accepted by the relay
const (
	FieldFile      = "file"
	FieldThumbnail = "thumbnail"
)

// default object names when a part declares no filename
var defaultNames = map[string]string{
	FieldFile:      "document",
	FieldThumbnail: "thumbnail",
}

// Config describes the bucket uploads land in
type Config struct {
	Token         string // secret access key; empty refuses uploads
	AccessKeyID   string
	Bucket        string
	Region        string
	Endpoint      string // custom endpoint (MinIO etc.), enables path-style addressing
	PublicBaseURL string // overrides the URL objects are published under
}

// ObjectPutter is the part of the S3 client the relay needs
type ObjectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Part is one uploaded file
type Part struct {
	Field       string
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Blob describes a stored object
type Blob struct {
	URL         string `json:"url"`
	Pathname    string `json:"pathname"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

// Relay forwards parts to object storage
type Relay struct {
	cfg       Config
	newClient func(ctx context.Context, cfg Config) (ObjectPutter, error)
}

// NewRelay creates a Relay backed by the AWS SDK S3 client
func NewRelay(cfg Config) *Relay {
	return &Relay{cfg: cfg, newClient: newS3Client}
}

func newS3Client(ctx context.Context, cfg Config) (ObjectPutter, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.Token,
			"",
		)))
	if err != nil {
		return nil, err
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// Upload stores every part and returns the resulting blobs keyed by field.
// No parts is a ValidationError; a missing token or key id is a ConfigurationError. Neither contacts the provider.
func (r *Relay) Upload(ctx context.Context, parts []Part) (map[string]Blob, error) {
	if len(parts) == 0 {
		return nil, domain.NewValidationError("No files provided")
	}
	if r.cfg.Token == "" {
		return nil, &domain.ConfigurationError{
			Setting: "BLOB_READ_WRITE_TOKEN",
			Message: "set BLOB_READ_WRITE_TOKEN in your env to enable uploads",
		}
	}
	if r.cfg.AccessKeyID == "" {
		return nil, &domain.ConfigurationError{
			Setting: "BLOB_ACCESS_KEY_ID",
			Message: "set BLOB_ACCESS_KEY_ID alongside BLOB_READ_WRITE_TOKEN to enable uploads",
		}
	}
	client, err := r.newClient(ctx, r.cfg) // Built per request from the configured credentials
	if err != nil {
		return nil, &domain.UpstreamError{Op: "storage client", Err: err}
	}
	blobs := make(map[string]Blob, len(parts))
	for _, p := range parts {
		blob, err := r.put(ctx, client, p)
		if err != nil {
			return nil, &domain.UpstreamError{Op: "upload " + p.Field, Err: err}
		}
		blobs[p.Field] = blob // Keyed by file / thumbnail
	}
	return blobs, nil
}

func (r *Relay) put(ctx context.Context, client ObjectPutter, p Part) (Blob, error) {
	key := objectKey(p)
	contentType := p.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	in := &s3.PutObjectInput{
		Bucket:      aws.String(r.cfg.Bucket),
		Key:         aws.String(key),
		Body:        p.Body,                          // Streamed from the multipart part
		ContentType: aws.String(contentType),         // Declared content type
		ACL:         types.ObjectCannedACLPublicRead, // Public access
	}
	if p.Size > 0 {
		in.ContentLength = aws.Int64(p.Size) // Known size avoids buffering
	}
	if _, err := client.PutObject(ctx, in); err != nil {
		return Blob{}, err // Wrapped as UpstreamError by Upload
	}
	return Blob{URL: r.publicURL(key), Pathname: key, ContentType: contentType, Size: p.Size}, nil
}

// objectKey keeps the declared filename and adds a random prefix so uploads never collide
func objectKey(p Part) string {
	name := path.Base(strings.ReplaceAll(p.Filename, "\\", "/"))
	if name == "" || name == "." || name == "/" {
		name = defaultNames[p.Field]
		if name == "" {
			name = "upload"
		}
	}
	return fmt.Sprintf("uploads/%s/%s", uuid.NewString(), name)
}

func (r *Relay) publicURL(key string) string {
	escaped := (&url.URL{Path: key}).EscapedPath()
	switch {
	case r.cfg.PublicBaseURL != "":
		return strings.TrimRight(r.cfg.PublicBaseURL, "/") + "/" + escaped
	case r.cfg.Endpoint != "":
		return strings.TrimRight(r.cfg.Endpoint, "/") + "/" + r.cfg.Bucket + "/" + escaped
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", r.cfg.Bucket, r.cfg.Region, escaped)
	}
}
