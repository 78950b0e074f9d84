package file

import (
	"context"
	"strings"
	"testing"

	"github.com/asistencia-qr/attendance-backend-go/internal/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadEmployeeQR(t *testing.T) {
	local, err := storage.NewLocalStorage(t.TempDir(), "http://localhost:5000/uploads")
	require.NoError(t, err)
	svc := NewFileService(local)
	ctx := context.Background()

	path, err := svc.UploadEmployeeQR(ctx, "acme", 7, []byte("png"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, "qr/ACME/empleado-7-"), path)
	assert.True(t, strings.HasSuffix(path, ".png"), path)
	assert.Equal(t, "http://localhost:5000/uploads/"+path, svc.GetFileURL(path))

	exists, err := local.Exists(ctx, path)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, svc.DeleteFile(ctx, path))
	exists, err = local.Exists(ctx, path)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUploadEmployeeQR_Empty(t *testing.T) {
	local, err := storage.NewLocalStorage(t.TempDir(), "")
	require.NoError(t, err)

	_, err = NewFileService(local).UploadEmployeeQR(context.Background(), "ACME", 1, nil)
	assert.Error(t, err)
}
