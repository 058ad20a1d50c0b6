package utils

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

// XLSXContentType is the MIME type of an .xlsx workbook.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ArchivePrefix is the key prefix workbook snapshots are stored under.
const ArchivePrefix = "spreadsheets"

// ObjectPutter is the part of the S3 client the archiver needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Archiver copies the spreadsheet to an S3 bucket after each write.
type S3Archiver struct {
	client ObjectPutter
	bucket string
	logger *zap.Logger
}

// NewS3Archiver loads the default AWS config for region and returns an
// archiver for bucket.
func NewS3Archiver(ctx context.Context, region, bucket string, logger *zap.Logger) (*S3Archiver, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config, %w", err)
	}
	logger.Info("S3 client initialized", zap.String("bucket", bucket), zap.String("region", region))
	return NewS3ArchiverWithClient(s3.NewFromConfig(cfg), bucket, logger), nil
}

// NewS3ArchiverWithClient wraps an existing client.
func NewS3ArchiverWithClient(client ObjectPutter, bucket string, logger *zap.Logger) *S3Archiver {
	return &S3Archiver{client: client, bucket: bucket, logger: logger}
}

// ObjectKey returns the key a workbook at filePath is stored under.
func ObjectKey(filePath string) string {
	return path.Join(ArchivePrefix, filepath.Base(filePath))
}

// Archive uploads the file at filePath, replacing the previous snapshot.
func (a *S3Archiver) Archive(ctx context.Context, filePath string) error {
	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open %s for archiving: %w", filePath, err)
	}
	defer f.Close()

	key := ObjectKey(filePath)
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(XLSXContentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload file to S3: %w", err)
	}

	a.logger.Debug("spreadsheet archived", zap.String("bucket", a.bucket), zap.String("key", key))
	return nil
}
