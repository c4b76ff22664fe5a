package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/replysms/botservice/internal/botservice/domain"
)

// Schema (see migrations):
//
//	CREATE TABLE number_records (
//	    number        TEXT PRIMARY KEY,
//	    created_at    TIMESTAMPTZ NOT NULL,
//	    updated_at    TIMESTAMPTZ NOT NULL,
//	    first_name    TEXT,
//	    last_name     TEXT,
//	    coupon_issued BOOLEAN NOT NULL DEFAULT FALSE,
//	    extra         JSONB NOT NULL DEFAULT '{}'::jsonb
//	);
type PgRecordRepository struct {
	db     DBPool
	logger *slog.Logger
}

func NewPgRecordRepository(db DBPool, logger *slog.Logger) domain.RecordRepository {
	return &PgRecordRepository{db: db, logger: logger.With("component", "record_repository_pg")}
}

const recordColumns = `number, created_at, updated_at, first_name, last_name, coupon_issued, extra`

func (r *PgRecordRepository) Get(ctx context.Context, number string) (*domain.NumberRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM number_records WHERE number = $1`

	rec, err := scanRecord(r.db.QueryRow(ctx, query, number))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.ErrorContext(ctx, "Error getting number record", "number", number, "error", err)
		return nil, fmt.Errorf("getting record for %s: %w", number, err)
	}
	return rec, nil
}

// Merge applies the patch as one INSERT ... ON CONFLICT statement, so the
// additive semantics hold even under concurrent writers: created_at is only
// written on first insert, identity columns keep their existing value once
// set, coupon_issued is OR-ed and extra keys are merged per key.
func (r *PgRecordRepository) Merge(ctx context.Context, number string, patch domain.RecordPatch) error {
	now := time.Now().UTC()

	// An empty name part stays NULL rather than becoming an empty string, so
	// a later lookup can still fill it via the COALESCE below.
	var firstName, lastName *string
	if patch.Identity != nil {
		if patch.Identity.FirstName != "" {
			firstName = &patch.Identity.FirstName
		}
		if patch.Identity.LastName != "" {
			lastName = &patch.Identity.LastName
		}
	}

	extraJSON := []byte(`{}`)
	if len(patch.Extra) > 0 {
		var err error
		extraJSON, err = json.Marshal(patch.Extra)
		if err != nil {
			return fmt.Errorf("marshaling extra fields for %s: %w", number, err)
		}
	}

	query := `
		INSERT INTO number_records (number, created_at, updated_at, first_name, last_name, coupon_issued, extra)
		VALUES ($1, $2, $2, $3, $4, $5, $6)
		ON CONFLICT (number) DO UPDATE SET
			updated_at    = EXCLUDED.updated_at,
			first_name    = COALESCE(number_records.first_name, EXCLUDED.first_name),
			last_name     = COALESCE(number_records.last_name, EXCLUDED.last_name),
			coupon_issued = number_records.coupon_issued OR EXCLUDED.coupon_issued,
			extra         = number_records.extra || EXCLUDED.extra
	`

	_, err := r.db.Exec(ctx, query, number, now, firstName, lastName, patch.CouponIssued, extraJSON)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error merging number record", "number", number, "error", err)
		return fmt.Errorf("merging record for %s: %w", number, err)
	}

	r.logger.DebugContext(ctx, "Merged number record",
		"number", number,
		"has_identity", patch.Identity != nil,
		"coupon_issued", patch.CouponIssued,
	)
	return nil
}

// MarkCouponIssued is a conditional write: the update only fires while the
// flag is still false, so of any number of concurrent callers exactly one
// sees true. A false return means another writer got there first.
func (r *PgRecordRepository) MarkCouponIssued(ctx context.Context, number string, at time.Time) (bool, error) {
	query := `
		INSERT INTO number_records (number, created_at, updated_at, coupon_issued)
		VALUES ($1, $2, $2, TRUE)
		ON CONFLICT (number) DO UPDATE SET
			coupon_issued = TRUE,
			updated_at    = EXCLUDED.updated_at
		WHERE number_records.coupon_issued = FALSE
	`

	tag, err := r.db.Exec(ctx, query, number, at.UTC())
	if err != nil {
		r.logger.ErrorContext(ctx, "Error marking coupon issued", "number", number, "error", err)
		return false, fmt.Errorf("marking coupon issued for %s: %w", number, err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *PgRecordRepository) List(ctx context.Context, limit int) ([]domain.NumberRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM number_records ORDER BY updated_at DESC LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error listing number records", "error", err)
		return nil, fmt.Errorf("listing records: %w", err)
	}
	defer rows.Close()

	var records []domain.NumberRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("listing records: %w", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	return records, nil
}

func scanRecord(row pgx.Row) (*domain.NumberRecord, error) {
	var (
		rec       domain.NumberRecord
		firstName sql.NullString
		lastName  sql.NullString
		extraJSON []byte
	)

	err := row.Scan(&rec.Number, &rec.CreatedAt, &rec.UpdatedAt, &firstName, &lastName, &rec.CouponIssued, &extraJSON)
	if err != nil {
		return nil, err
	}

	if firstName.Valid || lastName.Valid {
		rec.Identity = &domain.CallerIdentity{
			FirstName: firstName.String,
			LastName:  lastName.String,
		}
	}

	if len(extraJSON) > 0 {
		var extra map[string]any
		if err := json.Unmarshal(extraJSON, &extra); err != nil {
			// A corrupt stored record is surfaced, not treated as absent:
			// pretending it is missing would re-open the duplicate-coupon
			// window for this number.
			return nil, fmt.Errorf("corrupt extra payload: %w", err)
		}
		if len(extra) > 0 {
			rec.Extra = extra
		}
	}

	return &rec, nil
}
