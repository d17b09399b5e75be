package store

import (
	"context"
	"fmt"

	"subtrack/internal/utils"
	"subtrack/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
)

const uploadTableName = "subtrack.uploads"

var uploadColumns = utils.StructTagValues(types.Upload{})

type UploadRepository struct {
	db DB
}

func NewUploadRepository(db DB) *UploadRepository {
	return &UploadRepository{db: db}
}

// UploadsByIDs resolves a set of upload references. Results come back in
// database order; callers that care about link order re-sequence them.
func (r *UploadRepository) UploadsByIDs(ctx context.Context, uploadIDs []string) ([]*types.Upload, error) {
	if len(uploadIDs) == 0 {
		return []*types.Upload{}, nil
	}

	query, args, err := psql().
		Select(uploadColumns...).
		From(uploadTableName).
		Where(sq.Eq{"id": uploadIDs}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate uploads-by-ids query: %w", err)
	}

	var uploads []*types.Upload
	err = pgxscan.Select(ctx, r.db, &uploads, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch uploads by ids: %w", err)
	}

	return uploads, nil
}

func (r *UploadRepository) Create(ctx context.Context, upload *types.Upload) error {
	if upload.ID == "" {
		upload.ID = utils.NanoID()
	}

	query, args, err := psql().
		Insert(uploadTableName).
		SetMap(utils.StructToMap(upload)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate create upload query: %w", err)
	}

	_, err = r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to create upload: %w", err)
	}

	return nil
}
