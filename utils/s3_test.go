package utils

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakePutter struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakePutter) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = in
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.body = b
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestS3Archiver_Archive(t *testing.T) {
	p := filepath.Join(t.TempDir(), "data.xlsx")
	require.NoError(t, os.WriteFile(p, []byte("workbook bytes"), 0o644))

	putter := &fakePutter{}
	a := NewS3ArchiverWithClient(putter, "contact-archive", zap.NewNop())

	require.NoError(t, a.Archive(context.Background(), p))
	require.NotNil(t, putter.input)
	assert.Equal(t, "contact-archive", aws.ToString(putter.input.Bucket))
	assert.Equal(t, "spreadsheets/data.xlsx", aws.ToString(putter.input.Key))
	assert.Equal(t, XLSXContentType, aws.ToString(putter.input.ContentType))
	assert.Equal(t, "workbook bytes", string(putter.body))
}

func TestS3Archiver_Errors(t *testing.T) {
	a := NewS3ArchiverWithClient(&fakePutter{}, "b", zap.NewNop())
	assert.Error(t, a.Archive(context.Background(), filepath.Join(t.TempDir(), "missing.xlsx")))

	p := filepath.Join(t.TempDir(), "data.xlsx")
	require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	a = NewS3ArchiverWithClient(&fakePutter{err: errors.New("access denied")}, "b", zap.NewNop())
	err := a.Archive(context.Background(), p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
}
