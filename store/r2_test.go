package store

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObjectAPI struct {
	objects map[string][]byte
	failGet error
}

func newFakeObjectAPI() *fakeObjectAPI {
	return &fakeObjectAPI{objects: make(map[string][]byte)}
}

func (f *fakeObjectAPI) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.failGet != nil {
		return nil, f.failGet
	}
	data, ok := f.objects[*params.Key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeObjectAPI) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	f.objects[*params.Key] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeObjectAPI) HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	return &s3.HeadBucketOutput{}, nil
}

func TestR2Backend(t *testing.T) {
	ctx := context.Background()
	api := newFakeObjectAPI()
	backend := newR2Backend(api, "bucket", "support-desk")

	t.Run("Missing object", func(t *testing.T) {
		_, err := backend.Read(ctx, QueriesDocument)
		assert.ErrorIs(t, err, ErrNotExist)
	})

	t.Run("Write then read", func(t *testing.T) {
		require.NoError(t, backend.Write(ctx, QueriesDocument, []byte("[]")))
		assert.Contains(t, api.objects, "support-desk/queries.json")

		data, err := backend.Read(ctx, QueriesDocument)
		require.NoError(t, err)
		assert.Equal(t, "[]", string(data))
	})

	t.Run("Other errors are not treated as missing", func(t *testing.T) {
		api.failGet = errors.New("network down")
		defer func() { api.failGet = nil }()

		_, err := backend.Read(ctx, QueriesDocument)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrNotExist)
	})

	t.Run("Ping", func(t *testing.T) {
		assert.NoError(t, backend.Ping(ctx))
	})

	t.Run("No prefix", func(t *testing.T) {
		assert.Equal(t, "queries.json", newR2Backend(api, "bucket", "").key(QueriesDocument))
	})
}

func TestJSONStore_OnR2Backend(t *testing.T) {
	ctx := context.Background()
	api := newFakeObjectAPI()
	s := NewJSONStore(newR2Backend(api, "bucket", "desk"))

	templates, err := s.LoadTemplates(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, templates)
	assert.Contains(t, api.objects, "desk/response-templates.json")
}
