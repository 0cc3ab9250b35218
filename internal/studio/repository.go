package studio

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
)

var (
	ErrActivityNotFound = errors.New("activity not found")
	ErrCoachNotFound    = errors.New("coach not found")
	ErrSlotNotFound     = errors.New("time slot not found")
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(database *sqlx.DB) Repository {
	return &repository{db: database}
}

func (r *repository) CreateActivity(ctx context.Context, name string, credits int64, capacity int, semiPrivate, workoutDay bool) (*Activity, error) {
	query := `
		INSERT INTO activities (name, credits, capacity, semi_private, workout_day)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, name, credits, capacity, semi_private, workout_day, created_at
	`

	var activity Activity
	err := r.db.GetContext(ctx, &activity, query, name, credits, capacity, semiPrivate, workoutDay)
	if err != nil {
		return nil, err
	}

	return &activity, nil
}

func (r *repository) GetActivityByID(ctx context.Context, id int) (*Activity, error) {
	query := `
		SELECT id, name, credits, capacity, semi_private, workout_day, created_at
		FROM activities
		WHERE id = $1
	`

	var activity Activity
	err := r.db.GetContext(ctx, &activity, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrActivityNotFound
	}
	if err != nil {
		return nil, err
	}

	return &activity, nil
}

func (r *repository) ListActivities(ctx context.Context) ([]Activity, error) {
	query := `
		SELECT id, name, credits, capacity, semi_private, workout_day, created_at
		FROM activities
		ORDER BY name ASC
	`

	var activities []Activity
	err := r.db.SelectContext(ctx, &activities, query)
	if err != nil {
		return nil, err
	}

	return activities, nil
}

func (r *repository) UpdateActivity(ctx context.Context, a *Activity) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE activities
		SET name = $1, credits = $2, capacity = $3, semi_private = $4, workout_day = $5
		WHERE id = $6
	`, a.Name, a.Credits, a.Capacity, a.SemiPrivate, a.WorkoutDay, a.ID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrActivityNotFound
	}

	return nil
}

func (r *repository) DeleteActivity(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM activities WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrActivityNotFound
	}

	return nil
}

func (r *repository) CreateCoach(ctx context.Context, name, email string) (*Coach, error) {
	query := `
		INSERT INTO coaches (name, email)
		VALUES ($1, $2)
		RETURNING id, name, email, picture_url, created_at
	`

	var coach Coach
	err := r.db.GetContext(ctx, &coach, query, name, email)
	if err != nil {
		return nil, err
	}

	return &coach, nil
}

func (r *repository) GetCoachByID(ctx context.Context, id int) (*Coach, error) {
	query := `
		SELECT id, name, email, picture_url, created_at
		FROM coaches
		WHERE id = $1
	`

	var coach Coach
	err := r.db.GetContext(ctx, &coach, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCoachNotFound
	}
	if err != nil {
		return nil, err
	}

	return &coach, nil
}

func (r *repository) ListCoaches(ctx context.Context) ([]Coach, error) {
	query := `
		SELECT id, name, email, picture_url, created_at
		FROM coaches
		ORDER BY name ASC
	`

	var coaches []Coach
	err := r.db.SelectContext(ctx, &coaches, query)
	if err != nil {
		return nil, err
	}

	return coaches, nil
}

func (r *repository) SetCoachPicture(ctx context.Context, id int, pictureURL string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE coaches SET picture_url = $1 WHERE id = $2`, pictureURL, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrCoachNotFound
	}

	return nil
}

func (r *repository) DeleteCoach(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM coaches WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrCoachNotFound
	}

	return nil
}

func (r *repository) CreateTimeSlot(ctx context.Context, activity *Activity, coachID int, start, end time.Time) (*TimeSlot, error) {
	query := `
		INSERT INTO time_slots (activity_id, coach_id, kind, start_time, end_time, capacity)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, activity_id, coach_id, kind, start_time, end_time, capacity, booked_count, booked, created_at
	`

	var slot TimeSlot
	err := r.db.GetContext(ctx, &slot, query,
		activity.ID, coachID, activity.Kind(), start, end, activity.SeatCapacity())
	if err != nil {
		return nil, err
	}

	return &slot, nil
}

func (r *repository) GetTimeSlotByID(ctx context.Context, id int) (*TimeSlot, error) {
	query := `
		SELECT id, activity_id, coach_id, kind, start_time, end_time, capacity, booked_count, booked, created_at
		FROM time_slots
		WHERE id = $1
	`

	var slot TimeSlot
	err := r.db.GetContext(ctx, &slot, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, err
	}

	return &slot, nil
}

// GetTimeSlotForUpdate locks the slot row, serializing all bookings and
// cancellations that touch this slot for the lifetime of the transaction.
func (r *repository) GetTimeSlotForUpdate(ctx context.Context, tx *sqlx.Tx, id int) (*TimeSlot, error) {
	query := `
		SELECT id, activity_id, coach_id, kind, start_time, end_time, capacity, booked_count, booked, created_at
		FROM time_slots
		WHERE id = $1
		FOR UPDATE
	`

	var slot TimeSlot
	err := tx.QueryRowxContext(ctx, query, id).StructScan(&slot)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, err
	}

	return &slot, nil
}

func (r *repository) UpdateSlotState(ctx context.Context, tx *sqlx.Tx, slotID, bookedCount int, booked bool) error {
	result, err := tx.ExecContext(ctx, `
		UPDATE time_slots
		SET booked_count = $1, booked = $2
		WHERE id = $3
	`, bookedCount, booked, slotID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrSlotNotFound
	}

	return nil
}

func (r *repository) ListTimeSlots(ctx context.Context, activityID, coachID int, onlyFuture bool) ([]TimeSlotWithDetails, error) {
	query := `
		SELECT
			ts.id, ts.activity_id, ts.coach_id, ts.kind, ts.start_time, ts.end_time,
			ts.capacity, ts.booked_count, ts.booked, ts.created_at,
			a.name AS activity_name,
			a.credits AS credits,
			c.name AS coach_name
		FROM time_slots ts
		JOIN activities a ON ts.activity_id = a.id
		JOIN coaches c ON ts.coach_id = c.id
		WHERE 1=1
	`
	args := []interface{}{}

	if activityID > 0 {
		args = append(args, activityID)
		query += ` AND ts.activity_id = $` + strconv.Itoa(len(args))
	}
	if coachID > 0 {
		args = append(args, coachID)
		query += ` AND ts.coach_id = $` + strconv.Itoa(len(args))
	}
	if onlyFuture {
		query += ` AND ts.start_time > NOW()`
	}

	query += ` ORDER BY ts.start_time ASC`

	var slots []TimeSlotWithDetails
	err := r.db.SelectContext(ctx, &slots, query, args...)
	if err != nil {
		return nil, err
	}

	for i := range slots {
		slots[i].Available = slots[i].Capacity - slots[i].BookedCount
	}

	return slots, nil
}
