package booking

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"fitstudio/internal/ledger"
)

type Repository interface {
	CreateEnrollment(ctx context.Context, tx *sqlx.Tx, slotID, userID int, instrument ledger.Instrument, amountCharged int64) (*Enrollment, error)
	GetEnrollmentByID(ctx context.Context, id int) (*Enrollment, error)
	GetEnrollmentForUpdate(ctx context.Context, tx *sqlx.Tx, id int) (*Enrollment, error)
	CancelEnrollment(ctx context.Context, tx *sqlx.Tx, id int) error
	ActiveUserIDs(ctx context.Context, tx *sqlx.Tx, slotID int) ([]int, error)
	GetUserEnrollments(ctx context.Context, userID int) ([]EnrollmentWithDetails, error)
	GetSlotEnrollments(ctx context.Context, slotID int) ([]EnrollmentWithDetails, error)

	CreateAddition(ctx context.Context, tx *sqlx.Tx, enrollmentID, itemID int, itemName string, priceCredits int64) (*Addition, error)
	ListAdditions(ctx context.Context, enrollmentID int) ([]Addition, error)
	ActiveAdditionsForUpdate(ctx context.Context, tx *sqlx.Tx, enrollmentID int) ([]Addition, error)
	CancelAdditions(ctx context.Context, tx *sqlx.Tx, enrollmentID int) error

	GetStatsByDay(ctx context.Context, from, to time.Time) ([]StatsByDay, error)
	GetStatsByActivity(ctx context.Context, from, to time.Time) ([]StatsByActivity, error)
}
