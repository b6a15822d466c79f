package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"github.com/lakeforge/lakeforge/internal/config"
	"github.com/lakeforge/lakeforge/internal/orchestrator"
)

// Archiver uploads run reports to an S3-compatible bucket so runs leave a
// durable audit trail independent of the machine they ran on.
type Archiver struct {
	s3     *s3.Client
	bucket string
	prefix string
}

// NewArchiver builds an archiver from the archive configuration.
func NewArchiver(cfg config.ArchiveConfig) (*Archiver, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true
	})

	return &Archiver{s3: client, bucket: cfg.Bucket, prefix: cfg.Prefix}, nil
}

// Upload stores the report as JSON under <prefix>/<runID>.json and returns
// the object key.
func (a *Archiver) Upload(ctx context.Context, report *orchestrator.Report) (string, error) {
	data, err := json.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("encoding report: %w", err)
	}

	key := path.Join(a.prefix, report.RunID+".json")
	_, err = a.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(a.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String("application/json"),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", fmt.Errorf("failed to put report %s in bucket %s: %w", key, a.bucket, classifyS3(err))
	}
	return key, nil
}

// classifyS3 maps S3 API errors onto the shared classification so callers
// can distinguish a missing bucket from a network blip.
func classifyS3(err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchBucket", "NotFound", "404":
			return orchestrator.Classify(orchestrator.ClassNotFound, err)
		case "AccessDenied":
			return orchestrator.Classify(orchestrator.ClassFatal, err)
		}
		return orchestrator.Classify(orchestrator.ClassTransient, err)
	}
	return orchestrator.Classify(orchestrator.ClassTransient, err)
}
