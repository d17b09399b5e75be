// Package uploads links certificate Upload records to the Subcontractor
// that owns them. An Upload is only ever created through LinkFile; the
// reverse pointer (upload -> subcontractor) does not exist, traversal is
// parent to children only.
package uploads

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"subtrack/internal/utils"
	"subtrack/pkg/types"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	// MaxFileSizeBytes is the authoritative server-side size cap.
	MaxFileSizeBytes = 5 << 20

	PDFMimeType = "application/pdf"
)

type SubcontractorStore interface {
	Subcontractor(ctx context.Context, subcontractorID string) (*types.Subcontractor, error)
	AppendUpload(ctx context.Context, subcontractorID, uploadID string) error
}

type UploadStore interface {
	Create(ctx context.Context, upload *types.Upload) error
	UploadsByIDs(ctx context.Context, uploadIDs []string) ([]*types.Upload, error)
}

type BlobStore interface {
	Upload(ctx context.Context, storedName string, data []byte, contentType string) (string, error)
	PresignedURL(ctx context.Context, key string) (string, error)
}

type Service struct {
	logger *logrus.Logger
	subs   SubcontractorStore
	store  UploadStore
	blobs  BlobStore
}

func NewService(logger *logrus.Logger, subs SubcontractorStore, store UploadStore, blobs BlobStore) *Service {
	return &Service{
		logger: logger,
		subs:   subs,
		store:  store,
		blobs:  blobs,
	}
}

// LinkFile validates the certificate file, stores its bytes, persists an
// Upload record and appends its id to the parent's upload list.
//
// The record insert and the list append are separate writes. If the
// append fails after the insert succeeded, the Upload record is left
// orphaned; no rollback is attempted.
func (s *Service) LinkFile(ctx context.Context, subcontractorID string, file *types.CertificateFile, uploaderID, description string) (*types.Upload, error) {
	sub, err := s.subs.Subcontractor(ctx, subcontractorID)
	if err != nil {
		return nil, err
	}

	if err := validateFile(file); err != nil {
		return nil, err
	}

	storedName := newStoredName(file.OriginalName)

	key, err := s.blobs.Upload(ctx, storedName, file.Data, file.MimeType)
	if err != nil {
		return nil, err
	}

	url, err := s.blobs.PresignedURL(ctx, key)
	if err != nil {
		return nil, err
	}

	if description == "" {
		description = fmt.Sprintf("Certificate for %s", sub.BusinessName)
	}

	upload := &types.Upload{
		ID:           utils.NanoID(),
		OriginalName: file.OriginalName,
		StoredName:   key,
		URL:          url,
		MimeType:     file.MimeType,
		SizeBytes:    file.Size,
		UploadedAt:   time.Now(),
		UploadedBy:   uploaderID,
		Description:  description,
	}

	err = s.store.Create(ctx, upload)
	if err != nil {
		return nil, fmt.Errorf("%w: persist upload record: %v", types.ErrPersistence, err)
	}

	err = s.subs.AppendUpload(ctx, subcontractorID, upload.ID)
	if err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"subcontractor_id": subcontractorID,
			"upload_id":        upload.ID,
			"storage_key":      key,
		}).Warn("upload record stored but not linked, record is orphaned")
		return nil, fmt.Errorf("%w: link upload to subcontractor: %v", types.ErrPersistence, err)
	}

	return upload, nil
}

// ListFor resolves every upload reference on the subcontractor, in link
// order. References whose Upload record no longer exists are skipped.
func (s *Service) ListFor(ctx context.Context, subcontractorID string) ([]*types.Upload, error) {
	sub, err := s.subs.Subcontractor(ctx, subcontractorID)
	if err != nil {
		return nil, err
	}

	if len(sub.UploadIDs) == 0 {
		return []*types.Upload{}, nil
	}

	records, err := s.store.UploadsByIDs(ctx, sub.UploadIDs)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*types.Upload, len(records))
	for _, record := range records {
		byID[record.ID] = record
	}

	resolved := make([]*types.Upload, 0, len(sub.UploadIDs))
	for _, id := range sub.UploadIDs {
		record, ok := byID[id]
		if !ok {
			s.logger.WithFields(logrus.Fields{
				"subcontractor_id": subcontractorID,
				"upload_id":        id,
			}).Warn("dangling upload reference skipped")
			continue
		}
		resolved = append(resolved, record)
	}

	return resolved, nil
}

func validateFile(file *types.CertificateFile) error {
	if file == nil || file.Size == 0 || len(file.Data) == 0 {
		return fmt.Errorf("%w: no file uploaded", types.ErrValidation)
	}

	if file.MimeType != PDFMimeType {
		return fmt.Errorf("%w: only PDF files are allowed", types.ErrValidation)
	}

	if file.Size > MaxFileSizeBytes || int64(len(file.Data)) > MaxFileSizeBytes {
		return fmt.Errorf("%w: file exceeds the 5 MiB limit", types.ErrValidation)
	}

	// Declared content type is not trusted on its own.
	if !mimetype.Detect(file.Data).Is(PDFMimeType) {
		return fmt.Errorf("%w: file content is not a PDF", types.ErrValidation)
	}

	return nil
}

// newStoredName builds a collision-proof object name from a random token
// plus the original extension.
func newStoredName(originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	return uuid.New().String() + ext
}
