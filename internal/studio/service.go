package studio

import (
	"context"
	"errors"
	"io"
	"time"
)

var ErrTimeSlotInvalid = errors.New("invalid time slot")

type Service interface {
	CreateActivity(ctx context.Context, req CreateActivityRequest) (*Activity, error)
	ListActivities(ctx context.Context) ([]Activity, error)
	GetActivityByID(ctx context.Context, id int) (*Activity, error)
	UpdateActivity(ctx context.Context, id int, req CreateActivityRequest) (*Activity, error)
	DeleteActivity(ctx context.Context, id int) error

	CreateCoach(ctx context.Context, req CreateCoachRequest) (*Coach, error)
	ListCoaches(ctx context.Context) ([]Coach, error)
	UploadCoachPicture(ctx context.Context, id int, filename string, content io.Reader) (string, error)
	DeleteCoach(ctx context.Context, id int) error

	CreateTimeSlot(ctx context.Context, req CreateTimeSlotRequest) (*TimeSlot, error)
	ProvisionTimeSlots(ctx context.Context, req ProvisionTimeSlotsRequest) ([]TimeSlot, error)
	ListTimeSlots(ctx context.Context, activityID, coachID int, onlyFuture bool) ([]TimeSlotWithDetails, error)
}

type service struct {
	repo     Repository
	pictures PictureStore
}

func NewService(repo Repository, pictures PictureStore) Service {
	return &service{repo: repo, pictures: pictures}
}

func (s *service) CreateActivity(ctx context.Context, req CreateActivityRequest) (*Activity, error) {
	return s.repo.CreateActivity(ctx, req.Name, req.Credits, req.Capacity, req.SemiPrivate, req.WorkoutDay)
}

func (s *service) ListActivities(ctx context.Context) ([]Activity, error) {
	return s.repo.ListActivities(ctx)
}

func (s *service) GetActivityByID(ctx context.Context, id int) (*Activity, error) {
	return s.repo.GetActivityByID(ctx, id)
}

func (s *service) UpdateActivity(ctx context.Context, id int, req CreateActivityRequest) (*Activity, error) {
	activity, err := s.repo.GetActivityByID(ctx, id)
	if err != nil {
		return nil, err
	}

	activity.Name = req.Name
	activity.Credits = req.Credits
	activity.Capacity = req.Capacity
	activity.SemiPrivate = req.SemiPrivate
	activity.WorkoutDay = req.WorkoutDay

	if err := s.repo.UpdateActivity(ctx, activity); err != nil {
		return nil, err
	}

	return activity, nil
}

func (s *service) DeleteActivity(ctx context.Context, id int) error {
	return s.repo.DeleteActivity(ctx, id)
}

func (s *service) CreateCoach(ctx context.Context, req CreateCoachRequest) (*Coach, error) {
	return s.repo.CreateCoach(ctx, req.Name, req.Email)
}

func (s *service) ListCoaches(ctx context.Context) ([]Coach, error) {
	return s.repo.ListCoaches(ctx)
}

func (s *service) UploadCoachPicture(ctx context.Context, id int, filename string, content io.Reader) (string, error) {
	if _, err := s.repo.GetCoachByID(ctx, id); err != nil {
		return "", err
	}

	url, err := s.pictures.Save(filename, content)
	if err != nil {
		return "", err
	}

	if err := s.repo.SetCoachPicture(ctx, id, url); err != nil {
		return "", err
	}

	return url, nil
}

func (s *service) DeleteCoach(ctx context.Context, id int) error {
	return s.repo.DeleteCoach(ctx, id)
}

func (s *service) CreateTimeSlot(ctx context.Context, req CreateTimeSlotRequest) (*TimeSlot, error) {
	activity, err := s.repo.GetActivityByID(ctx, req.ActivityID)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.GetCoachByID(ctx, req.CoachID); err != nil {
		return nil, err
	}

	start, end, err := parseSlotTimes(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	return s.repo.CreateTimeSlot(ctx, activity, req.CoachID, start, end)
}

func (s *service) ProvisionTimeSlots(ctx context.Context, req ProvisionTimeSlotsRequest) ([]TimeSlot, error) {
	activity, err := s.repo.GetActivityByID(ctx, req.ActivityID)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.GetCoachByID(ctx, req.CoachID); err != nil {
		return nil, err
	}

	start, end, err := parseSlotTimes(req.FirstStart, req.FirstEnd)
	if err != nil {
		return nil, err
	}

	slots := make([]TimeSlot, 0, req.Days)
	for day := 0; day < req.Days; day++ {
		slot, err := s.repo.CreateTimeSlot(ctx, activity, req.CoachID,
			start.AddDate(0, 0, day), end.AddDate(0, 0, day))
		if err != nil {
			return nil, err
		}
		slots = append(slots, *slot)
	}

	return slots, nil
}

func (s *service) ListTimeSlots(ctx context.Context, activityID, coachID int, onlyFuture bool) ([]TimeSlotWithDetails, error) {
	return s.repo.ListTimeSlots(ctx, activityID, coachID, onlyFuture)
}

func parseSlotTimes(startStr, endStr string) (time.Time, time.Time, error) {
	start, err := time.Parse(time.RFC3339, startStr)
	if err != nil {
		return time.Time{}, time.Time{}, ErrTimeSlotInvalid
	}

	end, err := time.Parse(time.RFC3339, endStr)
	if err != nil {
		return time.Time{}, time.Time{}, ErrTimeSlotInvalid
	}

	if !end.After(start) {
		return time.Time{}, time.Time{}, ErrTimeSlotInvalid
	}

	return start, end, nil
}
