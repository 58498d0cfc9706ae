package services

import (
	"bytes"
	"context"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go/logging"
	"github.com/filmdesk/backend/internal/config"
)

// S3Service mirrors export bundles to an S3-compatible bucket so exports
// survive outside the session-scoped store. Mirroring is best-effort: a
// failed upload never fails the export.
type S3Service struct {
	client *s3.Client
	cfg    *config.Config
}

func NewS3Service(cfg *config.Config) (*S3Service, error) {
	client, err := buildClient(cfg.ExportS3Endpoint, cfg.ExportS3Region,
		cfg.ExportS3AccessKeyID, cfg.ExportS3SecretAccessKey, cfg.ExportS3UsePathStyle)
	if err != nil {
		return nil, err
	}
	return &S3Service{client: client, cfg: cfg}, nil
}

func buildClient(endpoint, region, key, secret string, pathStyle bool) (*s3.Client, error) {
	resolver := awsconfig.WithEndpointResolverWithOptions(aws.EndpointResolverWithOptionsFunc(
		func(service, rgn string, options ...interface{}) (aws.Endpoint, error) {
			if endpoint != "" {
				return aws.Endpoint{URL: endpoint, SigningRegion: region}, nil
			}
			return aws.Endpoint{}, &aws.EndpointNotFoundError{}
		}))
	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(key, secret, "")),
		resolver,
		awsconfig.WithLogger(logging.NewStandardLogger(os.Stderr)),
	)
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = pathStyle
		if endpoint != "" {
			o.BaseEndpoint = &endpoint
		}
	})
	return client, nil
}

// UploadBundle uploads one export bundle to the configured bucket.
func (s *S3Service) UploadBundle(ctx context.Context, key string, bundle []byte) error {
	uploader := manager.NewUploader(s.client)
	ctype := "application/zip"
	_, err := uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      &s.cfg.ExportBucket,
		Key:         &key,
		Body:        bytes.NewReader(bundle),
		ContentType: &ctype,
		ACL:         s3types.ObjectCannedACLPrivate,
	}, func(u *manager.Uploader) { u.PartSize = 10 * 1024 * 1024 })
	return err
}
