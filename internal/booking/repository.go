package booking

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"fitstudio/internal/ledger"
)

var ErrBookingNotFound = errors.New("booking not found")

const enrollmentColumns = `id, time_slot_id, user_id, instrument, amount_charged, status, created_at, cancelled_at`

const enrollmentDetailsQuery = `
	SELECT
		e.id, e.time_slot_id, e.user_id, e.instrument, e.amount_charged,
		e.status, e.created_at, e.cancelled_at,
		a.name AS activity_name,
		c.name AS coach_name,
		ts.start_time, ts.end_time,
		u.name AS user_name,
		u.email AS user_email
	FROM enrollments e
	JOIN time_slots ts ON e.time_slot_id = ts.id
	JOIN activities a ON ts.activity_id = a.id
	JOIN coaches c ON ts.coach_id = c.id
	JOIN users u ON e.user_id = u.id
`

type repository struct {
	db *sqlx.DB
}

func NewRepository(database *sqlx.DB) Repository {
	return &repository{db: database}
}

func (r *repository) CreateEnrollment(ctx context.Context, tx *sqlx.Tx, slotID, userID int, instrument ledger.Instrument, amountCharged int64) (*Enrollment, error) {
	var e Enrollment
	err := tx.QueryRowxContext(ctx, `
		INSERT INTO enrollments (time_slot_id, user_id, instrument, amount_charged, status)
		VALUES ($1, $2, $3, $4, 'booked')
		RETURNING `+enrollmentColumns,
		slotID, userID, instrument, amountCharged,
	).StructScan(&e)
	if err != nil {
		return nil, err
	}

	return &e, nil
}

func (r *repository) GetEnrollmentByID(ctx context.Context, id int) (*Enrollment, error) {
	var e Enrollment
	err := r.db.GetContext(ctx, &e,
		`SELECT `+enrollmentColumns+` FROM enrollments WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}

	return &e, nil
}

func (r *repository) GetEnrollmentForUpdate(ctx context.Context, tx *sqlx.Tx, id int) (*Enrollment, error) {
	var e Enrollment
	err := tx.QueryRowxContext(ctx,
		`SELECT `+enrollmentColumns+` FROM enrollments WHERE id = $1 FOR UPDATE`, id).StructScan(&e)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}

	return &e, nil
}

func (r *repository) CancelEnrollment(ctx context.Context, tx *sqlx.Tx, id int) error {
	result, err := tx.ExecContext(ctx, `
		UPDATE enrollments
		SET status = 'cancelled', cancelled_at = NOW()
		WHERE id = $1 AND status = 'booked'
	`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// ActiveUserIDs is the slot's live roster. Must be read under the slot row
// lock so the capacity decision is made against a stable roster.
func (r *repository) ActiveUserIDs(ctx context.Context, tx *sqlx.Tx, slotID int) ([]int, error) {
	var ids []int
	err := tx.SelectContext(ctx, &ids, `
		SELECT user_id FROM enrollments
		WHERE time_slot_id = $1 AND status = 'booked'
		ORDER BY id ASC
	`, slotID)
	if err != nil {
		return nil, err
	}

	return ids, nil
}

func (r *repository) GetUserEnrollments(ctx context.Context, userID int) ([]EnrollmentWithDetails, error) {
	var enrollments []EnrollmentWithDetails
	err := r.db.SelectContext(ctx, &enrollments,
		enrollmentDetailsQuery+` WHERE e.user_id = $1 ORDER BY ts.start_time DESC`, userID)
	if err != nil {
		return nil, err
	}

	return enrollments, nil
}

func (r *repository) GetSlotEnrollments(ctx context.Context, slotID int) ([]EnrollmentWithDetails, error) {
	var enrollments []EnrollmentWithDetails
	err := r.db.SelectContext(ctx, &enrollments,
		enrollmentDetailsQuery+` WHERE e.time_slot_id = $1 ORDER BY e.id ASC`, slotID)
	if err != nil {
		return nil, err
	}

	return enrollments, nil
}

func (r *repository) CreateAddition(ctx context.Context, tx *sqlx.Tx, enrollmentID, itemID int, itemName string, priceCredits int64) (*Addition, error) {
	var a Addition
	err := tx.QueryRowxContext(ctx, `
		INSERT INTO additions (enrollment_id, item_id, item_name, price_credits, status)
		VALUES ($1, $2, $3, $4, 'booked')
		RETURNING id, enrollment_id, item_id, item_name, price_credits, status, created_at`,
		enrollmentID, itemID, itemName, priceCredits,
	).StructScan(&a)
	if err != nil {
		return nil, err
	}

	return &a, nil
}

func (r *repository) ListAdditions(ctx context.Context, enrollmentID int) ([]Addition, error) {
	var additions []Addition
	err := r.db.SelectContext(ctx, &additions, `
		SELECT id, enrollment_id, item_id, item_name, price_credits, status, created_at
		FROM additions
		WHERE enrollment_id = $1
		ORDER BY id ASC
	`, enrollmentID)
	if err != nil {
		return nil, err
	}

	return additions, nil
}

func (r *repository) ActiveAdditionsForUpdate(ctx context.Context, tx *sqlx.Tx, enrollmentID int) ([]Addition, error) {
	var additions []Addition
	err := tx.SelectContext(ctx, &additions, `
		SELECT id, enrollment_id, item_id, item_name, price_credits, status, created_at
		FROM additions
		WHERE enrollment_id = $1 AND status = 'booked'
		ORDER BY id ASC
		FOR UPDATE
	`, enrollmentID)
	if err != nil {
		return nil, err
	}

	return additions, nil
}

func (r *repository) CancelAdditions(ctx context.Context, tx *sqlx.Tx, enrollmentID int) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE additions
		SET status = 'cancelled'
		WHERE enrollment_id = $1 AND status = 'booked'
	`, enrollmentID)
	return err
}

func (r *repository) GetStatsByDay(ctx context.Context, from, to time.Time) ([]StatsByDay, error) {
	var stats []StatsByDay
	err := r.db.SelectContext(ctx, &stats, `
		SELECT
			TO_CHAR(DATE_TRUNC('day', e.created_at), 'YYYY-MM-DD') AS bucket,
			COUNT(*) AS bookings,
			COUNT(*) FILTER (WHERE e.status = 'cancelled') AS cancelled,
			COUNT(*) FILTER (WHERE e.instrument <> 'credits') AS token_paid,
			COUNT(*) FILTER (WHERE e.instrument = 'credits') AS credit_paid
		FROM enrollments e
		WHERE e.created_at >= $1 AND e.created_at < $2
		GROUP BY 1
		ORDER BY 1 ASC
	`, from, to)
	if err != nil {
		return nil, err
	}

	return stats, nil
}

func (r *repository) GetStatsByActivity(ctx context.Context, from, to time.Time) ([]StatsByActivity, error) {
	var stats []StatsByActivity
	err := r.db.SelectContext(ctx, &stats, `
		SELECT
			a.id AS activity_id,
			a.name AS activity_name,
			COUNT(*) AS bookings,
			COUNT(*) FILTER (WHERE e.status = 'cancelled') AS cancelled,
			COALESCE(SUM(e.amount_charged) FILTER (WHERE e.status = 'booked'), 0) AS credits_paid
		FROM enrollments e
		JOIN time_slots ts ON e.time_slot_id = ts.id
		JOIN activities a ON ts.activity_id = a.id
		WHERE e.created_at >= $1 AND e.created_at < $2
		GROUP BY a.id, a.name
		ORDER BY bookings DESC
	`, from, to)
	if err != nil {
		return nil, err
	}

	return stats, nil
}
