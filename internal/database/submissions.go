package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	apperrors "uid-intake-bot/internal/errors"
	"uid-intake-bot/internal/models"
)

const submissionsTable = "submissions"

const insertSubmissionSQL = `
	INSERT INTO submissions
	(telegram_user_id, telegram_username, telegram_first_name, telegram_last_name,
	user_uid, image_url, status, notes)
	VALUES ($1, $2, $3, $4, $5, $6, 'Pending', '')
	RETURNING *`

// Used when the schema predates the user_uid column
const insertSubmissionWithoutUIDSQL = `
	INSERT INTO submissions
	(telegram_user_id, telegram_username, telegram_first_name, telegram_last_name,
	image_url, status, notes)
	VALUES ($1, $2, $3, $4, $5, 'Pending', '')
	RETURNING *`

// SubmissionRepository persists submissions in Postgres
type SubmissionRepository struct {
	db     *sqlx.DB
	logger *logrus.Logger
}

// NewSubmissionRepository creates a new submission repository
func NewSubmissionRepository(db *sqlx.DB, logger *logrus.Logger) *SubmissionRepository {
	// Unsafe lets SELECT * / RETURNING * scan rows from schema variants
	// with extra or missing optional columns.
	return &SubmissionRepository{
		db:     db.Unsafe(),
		logger: logger,
	}
}

// Create inserts a new Pending submission
func (r *SubmissionRepository) Create(ctx context.Context, in models.NewSubmission) (*models.Submission, error) {
	var sub models.Submission

	err := r.db.QueryRowxContext(ctx, insertSubmissionSQL,
		in.User.ID,
		nullableString(in.User.Username),
		in.User.FirstName,
		nullableString(in.User.LastName),
		in.UID,
		in.ImageURL,
	).StructScan(&sub)
	if err == nil {
		return &sub, nil
	}

	code, pqErr := pqCode(err)
	if code != codeUndefinedColumn {
		return nil, fmt.Errorf("SubmissionRepository.Create: %w", err)
	}

	schemaErr := &apperrors.SchemaError{
		Table:  submissionsTable,
		Column: "user_uid",
		Code:   code,
		Err:    err,
	}
	if pqErr != nil && !strings.Contains(pqErr.Message, "user_uid") {
		schemaErr.Column = pqErr.Column
	}

	// Without a screenshot the UID is the only evidence, so the row is worthless without it
	if in.ImageURL == "" || schemaErr.Column != "user_uid" {
		return nil, schemaErr
	}

	r.logger.Warnf("submissions.user_uid column is missing, storing submission for user %d without UID", in.User.ID)

	err = r.db.QueryRowxContext(ctx, insertSubmissionWithoutUIDSQL,
		in.User.ID,
		nullableString(in.User.Username),
		in.User.FirstName,
		nullableString(in.User.LastName),
		in.ImageURL,
	).StructScan(&sub)
	if err != nil {
		return nil, fmt.Errorf("SubmissionRepository.Create: %w", err)
	}

	return &sub, nil
}

// List returns submissions matching the filter, newest first
func (r *SubmissionRepository) List(ctx context.Context, filter models.SubmissionFilter) ([]models.Submission, error) {
	var (
		conditions []string
		args       []interface{}
	)

	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		conditions = append(conditions, fmt.Sprintf("telegram_user_id = $%d", len(args)))
	} else if filter.Username != nil {
		args = append(args, "%"+escapeLike(*filter.Username)+"%")
		conditions = append(conditions, fmt.Sprintf("telegram_username ILIKE $%d", len(args)))
	}

	query := "SELECT * FROM submissions"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	submissions := make([]models.Submission, 0)
	if err := r.db.SelectContext(ctx, &submissions, query, args...); err != nil {
		return nil, fmt.Errorf("SubmissionRepository.List: %w", err)
	}

	return submissions, nil
}

// GetByID returns one submission or ErrSubmissionNotFound
func (r *SubmissionRepository) GetByID(ctx context.Context, id string) (*models.Submission, error) {
	var sub models.Submission

	err := r.db.GetContext(ctx, &sub, `SELECT * FROM submissions WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("SubmissionRepository.GetByID: %w", err)
	}

	return &sub, nil
}

// Update applies an admin edit and reports the status the row had before it
func (r *SubmissionRepository) Update(ctx context.Context, id string, update models.SubmissionUpdate) (*models.UpdatedSubmission, error) {
	if update.Empty() {
		return nil, &apperrors.ValidationError{Field: "update", Message: "no valid fields to update"}
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("SubmissionRepository.Update: begin: %w", err)
	}
	defer tx.Rollback()

	var previous models.SubmissionStatus
	err = tx.GetContext(ctx, &previous, `SELECT status FROM submissions WHERE id = $1 FOR UPDATE`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("SubmissionRepository.Update: lock: %w", err)
	}

	var (
		sets []string
		args []interface{}
	)
	if update.Status != nil {
		args = append(args, string(*update.Status))
		sets = append(sets, fmt.Sprintf("status = $%d", len(args)))
	}
	if update.Notes != nil {
		args = append(args, *update.Notes)
		sets = append(sets, fmt.Sprintf("notes = $%d", len(args)))
	}
	args = append(args, id)

	query := fmt.Sprintf("UPDATE submissions SET %s WHERE id = $%d RETURNING *", strings.Join(sets, ", "), len(args))

	var sub models.Submission
	if err := tx.QueryRowxContext(ctx, query, args...).StructScan(&sub); err != nil {
		return nil, fmt.Errorf("SubmissionRepository.Update: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("SubmissionRepository.Update: commit: %w", err)
	}

	return &models.UpdatedSubmission{Submission: &sub, PreviousStatus: previous}, nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// escapeLike escapes LIKE wildcards so the search term matches literally
func escapeLike(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(s)
}
