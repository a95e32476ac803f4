package filestore

import (
	"context"
	"io"

	"cloud.google.com/go/storage"
	"github.com/cockroachdb/errors"
	"github.com/veedubyou/stem-remix/src/shared/lib/cerr"
	"github.com/veedubyou/stem-remix/src/shared/lib/errors/mark"
	"google.golang.org/api/option"
)

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 -generate

var (
	DefaultErrorMark = errors.New("File store error")
	FileNotFound     = errors.New("File not found")
)

// FileStore keeps job uploads and finished mixes between the server and the worker
//
//counterfeiter:generate . FileStore
type FileStore interface {
	WriteFile(ctx context.Context, objectPath string, content io.Reader) error
	ReadFile(ctx context.Context, objectPath string, dst io.Writer) error
}

var _ FileStore = GoogleFileStore{}

type GoogleFileStore struct {
	client *storage.Client
	bucket string
}

func NewGoogleFileStore(ctx context.Context, bucket string, options ...option.ClientOption) (GoogleFileStore, error) {
	client, err := storage.NewClient(ctx, options...)
	if err != nil {
		return GoogleFileStore{}, cerr.Wrap(err).Error("Failed to create cloud storage client")
	}

	return GoogleFileStore{
		client: client,
		bucket: bucket,
	}, nil
}

func (g GoogleFileStore) WriteFile(ctx context.Context, objectPath string, content io.Reader) error {
	errctx := cerr.Field("bucket", g.bucket).Field("object_path", objectPath)

	writer := g.client.Bucket(g.bucket).Object(objectPath).NewWriter(ctx)
	if _, err := io.Copy(writer, content); err != nil {
		_ = writer.Close()
		return mark.Wrap(errctx.Wrap(err).Error("Failed to write object"), DefaultErrorMark, "Failed to write file")
	}

	if err := writer.Close(); err != nil {
		return mark.Wrap(errctx.Wrap(err).Error("Failed to finalize object"), DefaultErrorMark, "Failed to write file")
	}

	return nil
}

func (g GoogleFileStore) ReadFile(ctx context.Context, objectPath string, dst io.Writer) error {
	errctx := cerr.Field("bucket", g.bucket).Field("object_path", objectPath)

	reader, err := g.client.Bucket(g.bucket).Object(objectPath).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return mark.Wrap(err, FileNotFound, "Object does not exist")
		}

		return mark.Wrap(errctx.Wrap(err).Error("Failed to open object"), DefaultErrorMark, "Failed to read file")
	}
	defer reader.Close()

	if _, err := io.Copy(dst, reader); err != nil {
		return mark.Wrap(errctx.Wrap(err).Error("Failed to download object"), DefaultErrorMark, "Failed to read file")
	}

	return nil
}

func (g GoogleFileStore) Close() error {
	return g.client.Close()
}
