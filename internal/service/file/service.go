package file

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/asistencia-qr/attendance-backend-go/internal/pkg/storage"
	"github.com/google/uuid"
)

type FileService interface {
	// UploadEmployeeQR stores a rendered scan-code PNG under qr/<company code>/
	UploadEmployeeQR(ctx context.Context, companyCode string, employeeID int64, content []byte) (string, error)

	// Generic operations
	DeleteFile(ctx context.Context, path string) error
	GetFileURL(path string) string
}

type fileServiceImpl struct {
	storage storage.FileStorage
}

func NewFileService(storage storage.FileStorage) FileService {
	return &fileServiceImpl{
		storage: storage,
	}
}

// UploadEmployeeQR uploads an employee QR badge
func (s *fileServiceImpl) UploadEmployeeQR(ctx context.Context, companyCode string, employeeID int64, content []byte) (string, error) {
	if len(content) == 0 {
		return "", fmt.Errorf("empty qr image")
	}

	// Generate unique filename
	uniqueID := uuid.New().String()
	newFilename := fmt.Sprintf("empleado-%d-%s.png", employeeID, uniqueID)
	dir := strings.ToUpper(strings.TrimSpace(companyCode))
	if dir == "" {
		dir = "SIN-EMPRESA"
	}

	uploadedPath, err := s.storage.Upload(ctx, bytes.NewReader(content), path.Join("qr", dir, newFilename), "image/png")
	if err != nil {
		return "", fmt.Errorf("failed to upload qr image: %w", err)
	}

	return uploadedPath, nil
}

// DeleteFile removes a stored file
func (s *fileServiceImpl) DeleteFile(ctx context.Context, path string) error {
	if path == "" {
		return nil
	}
	return s.storage.Delete(ctx, path)
}

func (s *fileServiceImpl) GetFileURL(path string) string {
	return s.storage.URL(path)
}
