package studio

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	CreateActivity(ctx context.Context, name string, credits int64, capacity int, semiPrivate, workoutDay bool) (*Activity, error)
	GetActivityByID(ctx context.Context, id int) (*Activity, error)
	ListActivities(ctx context.Context) ([]Activity, error)
	UpdateActivity(ctx context.Context, a *Activity) error
	DeleteActivity(ctx context.Context, id int) error

	CreateCoach(ctx context.Context, name, email string) (*Coach, error)
	GetCoachByID(ctx context.Context, id int) (*Coach, error)
	ListCoaches(ctx context.Context) ([]Coach, error)
	SetCoachPicture(ctx context.Context, id int, pictureURL string) error
	DeleteCoach(ctx context.Context, id int) error

	CreateTimeSlot(ctx context.Context, activity *Activity, coachID int, start, end time.Time) (*TimeSlot, error)
	GetTimeSlotByID(ctx context.Context, id int) (*TimeSlot, error)
	GetTimeSlotForUpdate(ctx context.Context, tx *sqlx.Tx, id int) (*TimeSlot, error)
	UpdateSlotState(ctx context.Context, tx *sqlx.Tx, slotID, bookedCount int, booked bool) error
	ListTimeSlots(ctx context.Context, activityID, coachID int, onlyFuture bool) ([]TimeSlotWithDetails, error)
}
