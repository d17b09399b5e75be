package uploads

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"subtrack/pkg/types"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSubStore struct {
	subs      map[string]*types.Subcontractor
	appended  map[string][]string
	appendErr error
}

func (f *fakeSubStore) Subcontractor(ctx context.Context, id string) (*types.Subcontractor, error) {
	sub, ok := f.subs[id]
	if !ok {
		return nil, types.ErrSubcontractorNotFound
	}
	return sub, nil
}

func (f *fakeSubStore) AppendUpload(ctx context.Context, subID, uploadID string) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	if f.appended == nil {
		f.appended = make(map[string][]string)
	}
	f.appended[subID] = append(f.appended[subID], uploadID)
	return nil
}

type fakeUploadStore struct {
	created   []*types.Upload
	createErr error
	records   map[string]*types.Upload
}

func (f *fakeUploadStore) Create(ctx context.Context, upload *types.Upload) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, upload)
	return nil
}

func (f *fakeUploadStore) UploadsByIDs(ctx context.Context, ids []string) ([]*types.Upload, error) {
	var out []*types.Upload
	for _, record := range f.records {
		for _, id := range ids {
			if record.ID == id {
				out = append(out, record)
			}
		}
	}
	return out, nil
}

type fakeBlobStore struct {
	puts      int
	uploadErr error
}

func (f *fakeBlobStore) Upload(ctx context.Context, storedName string, data []byte, contentType string) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	f.puts++
	return "insurance-certificates/" + storedName, nil
}

func (f *fakeBlobStore) PresignedURL(ctx context.Context, key string) (string, error) {
	return "https://example.s3.amazonaws.com/" + key + "?signed", nil
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func pdfBytes(size int) []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	buf.Write(bytes.Repeat([]byte("a"), size-buf.Len()))
	return buf.Bytes()
}

func pdfFile(name string, size int) *types.CertificateFile {
	data := pdfBytes(size)
	return &types.CertificateFile{
		OriginalName: name,
		MimeType:     PDFMimeType,
		Size:         int64(len(data)),
		Data:         data,
	}
}

func newTestService(subs *fakeSubStore, store *fakeUploadStore, blobs *fakeBlobStore) *Service {
	return NewService(testLogger(), subs, store, blobs)
}

func acmeStore() *fakeSubStore {
	return &fakeSubStore{subs: map[string]*types.Subcontractor{
		"sub1": {ID: "sub1", BusinessName: "Acme", ContactEmail: "jo@acme.com"},
	}}
}

func TestLinkFile(t *testing.T) {
	ctx := context.Background()

	t.Run("links a valid pdf", func(t *testing.T) {
		subs := acmeStore()
		store := &fakeUploadStore{}
		blobs := &fakeBlobStore{}
		svc := newTestService(subs, store, blobs)

		upload, err := svc.LinkFile(ctx, "sub1", pdfFile("cert.pdf", 2<<20), "user1", "")
		require.NoError(t, err)

		assert.Equal(t, "cert.pdf", upload.OriginalName)
		assert.Equal(t, PDFMimeType, upload.MimeType)
		assert.Equal(t, int64(2<<20), upload.SizeBytes)
		assert.Equal(t, "user1", upload.UploadedBy)
		assert.Equal(t, "Certificate for Acme", upload.Description)
		assert.True(t, strings.HasPrefix(upload.StoredName, "insurance-certificates/"))
		assert.True(t, strings.HasSuffix(upload.StoredName, ".pdf"))
		assert.NotEqual(t, "cert.pdf", upload.StoredName)
		assert.Contains(t, upload.URL, "signed")
		assert.False(t, upload.IsDeleted)

		assert.Equal(t, 1, blobs.puts)
		require.Len(t, store.created, 1)
		assert.Equal(t, []string{upload.ID}, subs.appended["sub1"])
	})

	t.Run("keeps the supplied description", func(t *testing.T) {
		subs := acmeStore()
		svc := newTestService(subs, &fakeUploadStore{}, &fakeBlobStore{})

		upload, err := svc.LinkFile(ctx, "sub1", pdfFile("cert.pdf", 1024), "user1", "general liability 2026")
		require.NoError(t, err)
		assert.Equal(t, "general liability 2026", upload.Description)
	})

	t.Run("missing parent fails before any blob write", func(t *testing.T) {
		blobs := &fakeBlobStore{}
		svc := newTestService(acmeStore(), &fakeUploadStore{}, blobs)

		_, err := svc.LinkFile(ctx, "nope", pdfFile("cert.pdf", 1024), "user1", "")
		require.ErrorIs(t, err, types.ErrSubcontractorNotFound)
		assert.Zero(t, blobs.puts)
	})

	t.Run("rejects non-pdf mime type before any blob write", func(t *testing.T) {
		blobs := &fakeBlobStore{}
		svc := newTestService(acmeStore(), &fakeUploadStore{}, blobs)

		file := pdfFile("cert.txt", 1024)
		file.MimeType = "text/plain"

		_, err := svc.LinkFile(ctx, "sub1", file, "user1", "")
		require.ErrorIs(t, err, types.ErrValidation)
		assert.Zero(t, blobs.puts)
	})

	t.Run("rejects oversize file before any blob write", func(t *testing.T) {
		blobs := &fakeBlobStore{}
		svc := newTestService(acmeStore(), &fakeUploadStore{}, blobs)

		_, err := svc.LinkFile(ctx, "sub1", pdfFile("cert.pdf", MaxFileSizeBytes+1), "user1", "")
		require.ErrorIs(t, err, types.ErrValidation)
		assert.Zero(t, blobs.puts)
	})

	t.Run("rejects empty file", func(t *testing.T) {
		svc := newTestService(acmeStore(), &fakeUploadStore{}, &fakeBlobStore{})

		_, err := svc.LinkFile(ctx, "sub1", &types.CertificateFile{OriginalName: "cert.pdf", MimeType: PDFMimeType}, "user1", "")
		require.ErrorIs(t, err, types.ErrValidation)
	})

	t.Run("rejects a pdf declaration over non-pdf bytes", func(t *testing.T) {
		blobs := &fakeBlobStore{}
		svc := newTestService(acmeStore(), &fakeUploadStore{}, blobs)

		data := bytes.Repeat([]byte("plain text "), 100)
		file := &types.CertificateFile{
			OriginalName: "cert.pdf",
			MimeType:     PDFMimeType,
			Size:         int64(len(data)),
			Data:         data,
		}

		_, err := svc.LinkFile(ctx, "sub1", file, "user1", "")
		require.ErrorIs(t, err, types.ErrValidation)
		assert.Zero(t, blobs.puts)
	})

	t.Run("failed link append leaves the stored record orphaned", func(t *testing.T) {
		subs := acmeStore()
		subs.appendErr = errors.New("connection reset")
		store := &fakeUploadStore{}
		blobs := &fakeBlobStore{}
		svc := newTestService(subs, store, blobs)

		_, err := svc.LinkFile(ctx, "sub1", pdfFile("cert.pdf", 1024), "user1", "")
		require.ErrorIs(t, err, types.ErrPersistence)

		// the record and the blob both exist, nothing rolls back
		assert.Equal(t, 1, blobs.puts)
		assert.Len(t, store.created, 1)
	})

	t.Run("failed record insert surfaces as persistence error", func(t *testing.T) {
		store := &fakeUploadStore{createErr: errors.New("disk full")}
		svc := newTestService(acmeStore(), store, &fakeBlobStore{})

		_, err := svc.LinkFile(ctx, "sub1", pdfFile("cert.pdf", 1024), "user1", "")
		require.ErrorIs(t, err, types.ErrPersistence)
	})

	t.Run("blob store failure surfaces as storage unavailable", func(t *testing.T) {
		blobs := &fakeBlobStore{uploadErr: fmt.Errorf("%w: no credentials", types.ErrStorageUnavailable)}
		store := &fakeUploadStore{}
		svc := newTestService(acmeStore(), store, blobs)

		_, err := svc.LinkFile(ctx, "sub1", pdfFile("cert.pdf", 1024), "user1", "")
		require.ErrorIs(t, err, types.ErrStorageUnavailable)
		assert.Empty(t, store.created)
	})
}

func TestListFor(t *testing.T) {
	ctx := context.Background()

	t.Run("returns records in link order", func(t *testing.T) {
		subs := &fakeSubStore{subs: map[string]*types.Subcontractor{
			"sub1": {ID: "sub1", BusinessName: "Acme", UploadIDs: []string{"u3", "u1", "u2"}},
		}}
		store := &fakeUploadStore{records: map[string]*types.Upload{
			"u1": {ID: "u1", OriginalName: "a.pdf"},
			"u2": {ID: "u2", OriginalName: "b.pdf"},
			"u3": {ID: "u3", OriginalName: "c.pdf"},
		}}
		svc := newTestService(subs, store, &fakeBlobStore{})

		records, err := svc.ListFor(ctx, "sub1")
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, "u3", records[0].ID)
		assert.Equal(t, "u1", records[1].ID)
		assert.Equal(t, "u2", records[2].ID)
	})

	t.Run("skips dangling references", func(t *testing.T) {
		subs := &fakeSubStore{subs: map[string]*types.Subcontractor{
			"sub1": {ID: "sub1", UploadIDs: []string{"u1", "gone", "u2"}},
		}}
		store := &fakeUploadStore{records: map[string]*types.Upload{
			"u1": {ID: "u1"},
			"u2": {ID: "u2"},
		}}
		svc := newTestService(subs, store, &fakeBlobStore{})

		records, err := svc.ListFor(ctx, "sub1")
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "u1", records[0].ID)
		assert.Equal(t, "u2", records[1].ID)
	})

	t.Run("empty list for a subcontractor without uploads", func(t *testing.T) {
		svc := newTestService(acmeStore(), &fakeUploadStore{}, &fakeBlobStore{})

		records, err := svc.ListFor(ctx, "sub1")
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("missing parent fails", func(t *testing.T) {
		svc := newTestService(acmeStore(), &fakeUploadStore{}, &fakeBlobStore{})

		_, err := svc.ListFor(ctx, "nope")
		require.ErrorIs(t, err, types.ErrSubcontractorNotFound)
	})
}

func TestLinkThenListScenario(t *testing.T) {
	ctx := context.Background()

	subs := acmeStore()
	store := &fakeUploadStore{records: map[string]*types.Upload{}}
	svc := newTestService(subs, store, &fakeBlobStore{})

	upload, err := svc.LinkFile(ctx, "sub1", pdfFile("cert.pdf", 2<<20), "user1", "")
	require.NoError(t, err)

	// mirror what the database join would see
	store.records[upload.ID] = upload
	subs.subs["sub1"].UploadIDs = subs.appended["sub1"]

	records, err := svc.ListFor(ctx, "sub1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "cert.pdf", records[0].OriginalName)
	assert.Equal(t, PDFMimeType, records[0].MimeType)
}

func TestNewStoredName(t *testing.T) {
	a := newStoredName("cert.pdf")
	b := newStoredName("cert.pdf")

	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasSuffix(a, ".pdf"))
	assert.True(t, strings.HasSuffix(newStoredName("SCAN.PDF"), ".pdf"))
	assert.False(t, strings.Contains(newStoredName("no-extension"), "."))
}
