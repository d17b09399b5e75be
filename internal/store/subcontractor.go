package store

import (
	"context"
	"fmt"
	"time"

	"subtrack/internal/utils"
	"subtrack/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
)

const subcontractorTableName = "subtrack.subcontractors"

var subcontractorColumns = utils.StructTagValues(types.Subcontractor{})

type SubcontractorRepository struct {
	db DB
}

func NewSubcontractorRepository(db DB) *SubcontractorRepository {
	return &SubcontractorRepository{db: db}
}

func (r *SubcontractorRepository) Subcontractor(ctx context.Context, subcontractorID string) (*types.Subcontractor, error) {
	query, args, err := psql().
		Select(subcontractorColumns...).
		From(subcontractorTableName).
		Where(sq.Eq{"id": subcontractorID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate subcontractor query: %w", err)
	}

	var sub types.Subcontractor
	err = pgxscan.Get(ctx, r.db, &sub, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrSubcontractorNotFound
		}
		return nil, fmt.Errorf("failed to fetch subcontractor: %w", err)
	}

	return &sub, nil
}

func (r *SubcontractorRepository) Subcontractors(ctx context.Context) ([]*types.Subcontractor, error) {
	query, args, err := psql().
		Select(subcontractorColumns...).
		From(subcontractorTableName).
		OrderBy("business_name asc").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate subcontractors query: %w", err)
	}

	var subs = make([]*types.Subcontractor, 0)
	err = pgxscan.Select(ctx, r.db, &subs, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch subcontractors: %w", err)
	}

	return subs, nil
}

func (r *SubcontractorRepository) Create(ctx context.Context, sub *types.Subcontractor) error {
	if sub.ID == "" {
		sub.ID = utils.NanoID()
	}
	if sub.UploadIDs == nil {
		sub.UploadIDs = []string{}
	}

	now := time.Now()
	sub.CreatedAt = now
	sub.UpdatedAt = now

	query, args, err := psql().
		Insert(subcontractorTableName).
		SetMap(utils.StructToMap(sub)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate create subcontractor query: %w", err)
	}

	_, err = r.db.Exec(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return types.ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create subcontractor: %w", err)
	}

	return nil
}

// UpdateFields applies a partial update. Columns absent from changes
// keep their prior values.
func (r *SubcontractorRepository) UpdateFields(ctx context.Context, subcontractorID string, changes map[string]any) error {
	if len(changes) == 0 {
		return nil
	}

	changes["updated_at"] = time.Now()

	query, args, err := psql().
		Update(subcontractorTableName).
		SetMap(changes).
		Where(sq.Eq{"id": subcontractorID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate update subcontractor query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return types.ErrDuplicateEmail
		}
		return fmt.Errorf("failed to update subcontractor: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return types.ErrSubcontractorNotFound
	}

	return nil
}

// AppendUpload links an upload id to the subcontractor with a single
// additive statement. Concurrent appends against the same row never
// overwrite each other.
func (r *SubcontractorRepository) AppendUpload(ctx context.Context, subcontractorID, uploadID string) error {
	query, args, err := psql().
		Update(subcontractorTableName).
		Set("upload_ids", sq.Expr("array_append(upload_ids, ?)", uploadID)).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": subcontractorID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate append upload query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to append upload reference: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return types.ErrSubcontractorNotFound
	}

	return nil
}

// Delete removes the subcontractor row. Linked upload records and their
// stored objects are left behind on purpose.
func (r *SubcontractorRepository) Delete(ctx context.Context, subcontractorID string) error {
	query, args, err := psql().
		Delete(subcontractorTableName).
		Where(sq.Eq{"id": subcontractorID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete subcontractor query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete subcontractor: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return types.ErrSubcontractorNotFound
	}

	return nil
}
