package publish

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"sprite-index/core/reconcile"
	"sprite-index/core/storage/mocks"
	"sprite-index/feature/sprite/convert"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func outputDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "999.png"), []byte("0123456789"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "999-g2.png"), []byte("0123456789"), 0o644))
	require.NoError(t, convert.WriteIndex(dir, []string{"999", "999-g2", "999-s"}))
	return dir
}

func TestAdapter_Loads(t *testing.T) {
	ctx := context.Background()
	dir := outputDir(t)
	m := new(mocks.Client)
	m.On("ListObjects", ctx, "sprites", minio.ListObjectsOptions{Prefix: "icons/", Recursive: true}).
		Return(mocks.Listing(minio.ObjectInfo{Key: "icons/999.png", Size: 10}))

	a := NewAdapter(m, "sprites", Options{OutputDir: dir, Prefix: "icons/"}, zap.NewNop())

	index, err := a.LoadIndex(ctx)
	require.NoError(t, err)
	assert.Len(t, index, 3)

	local, err := a.LoadLocal(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]reconcile.Item{
		"999":    {Key: "999", Size: 10},
		"999-g2": {Key: "999-g2", Size: 10},
	}, local)

	stored, err := a.LoadStorage(ctx, m, "sprites", "icons/", ".png")
	require.NoError(t, err)
	assert.Equal(t, map[string]reconcile.Item{"999": {Key: "999", Size: 10}}, stored)
}

func TestAdapter_PublishPlan(t *testing.T) {
	ctx := context.Background()
	dir := outputDir(t)
	m := new(mocks.Client)
	m.On("ListObjects", mock.Anything, "sprites", minio.ListObjectsOptions{Prefix: "icons/", Recursive: true}).
		Return(mocks.Listing(
			minio.ObjectInfo{Key: "icons/999.png", Size: 10},
			minio.ObjectInfo{Key: "icons/1000.png", Size: 4},
		))
	m.On("PutObject", mock.Anything, "sprites", "icons/999-g2.png", mock.Anything, int64(10),
		minio.PutObjectOptions{ContentType: "image/png"}).Return(minio.UploadInfo{}, nil)
	m.On("RemoveObjects", mock.Anything, "sprites", mock.Anything, minio.RemoveObjectsOptions{}).
		Return(mocks.RemoveErrors())

	a := NewAdapter(m, "sprites", Options{OutputDir: dir, Prefix: "icons/"}, zap.NewNop())
	opts := reconcile.ReconcileOptions{DoUpload: true, DoPurge: true, Confirmed: true}

	plan, executed, err := reconcile.ReconcileAndApply(ctx, a.Spec(0, 2), m, "sprites", opts)
	require.NoError(t, err)
	assert.Equal(t, 2, executed)
	assert.Equal(t, 1, plan.Summary.MissingLocal)
	assert.Equal(t, 1, plan.Summary.Orphans)
	m.AssertExpectations(t)
}

func TestAdapter_DeleteAndIndex(t *testing.T) {
	ctx := context.Background()
	dir := outputDir(t)
	m := new(mocks.Client)
	m.On("RemoveObject", ctx, "sprites", "999.png", minio.RemoveObjectOptions{}).Return(nil)
	m.On("PutObject", ctx, "sprites", "index.json", mock.Anything, mock.AnythingOfType("int64"),
		minio.PutObjectOptions{ContentType: "application/json"}).Return(minio.UploadInfo{}, nil)

	a := NewAdapter(m, "sprites", Options{OutputDir: dir}, nil)
	require.NoError(t, a.DeleteStorage(ctx, "999"))
	require.NoError(t, a.PublishIndex(ctx))
	m.AssertExpectations(t)
}

func TestAdapter_UploadMissingFile(t *testing.T) {
	a := NewAdapter(new(mocks.Client), "sprites", Options{OutputDir: t.TempDir()}, nil)
	assert.ErrorContains(t, a.Upload(context.Background(), "404"), "404.png")
}
