package booking

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/mock"

	"fitstudio/internal/email"
	"fitstudio/internal/ledger"
	"fitstudio/internal/market"
	"fitstudio/internal/studio"
	"fitstudio/internal/user"
)

// MockRepository is a mock implementation of Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateEnrollment(ctx context.Context, tx *sqlx.Tx, slotID, userID int, instrument ledger.Instrument, amountCharged int64) (*Enrollment, error) {
	args := m.Called(ctx, tx, slotID, userID, instrument, amountCharged)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Enrollment), args.Error(1)
}

func (m *MockRepository) GetEnrollmentByID(ctx context.Context, id int) (*Enrollment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Enrollment), args.Error(1)
}

func (m *MockRepository) GetEnrollmentForUpdate(ctx context.Context, tx *sqlx.Tx, id int) (*Enrollment, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Enrollment), args.Error(1)
}

func (m *MockRepository) CancelEnrollment(ctx context.Context, tx *sqlx.Tx, id int) error {
	args := m.Called(ctx, tx, id)
	return args.Error(0)
}

func (m *MockRepository) ActiveUserIDs(ctx context.Context, tx *sqlx.Tx, slotID int) ([]int, error) {
	args := m.Called(ctx, tx, slotID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int), args.Error(1)
}

func (m *MockRepository) GetUserEnrollments(ctx context.Context, userID int) ([]EnrollmentWithDetails, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]EnrollmentWithDetails), args.Error(1)
}

func (m *MockRepository) GetSlotEnrollments(ctx context.Context, slotID int) ([]EnrollmentWithDetails, error) {
	args := m.Called(ctx, slotID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]EnrollmentWithDetails), args.Error(1)
}

func (m *MockRepository) CreateAddition(ctx context.Context, tx *sqlx.Tx, enrollmentID, itemID int, itemName string, priceCredits int64) (*Addition, error) {
	args := m.Called(ctx, tx, enrollmentID, itemID, itemName, priceCredits)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Addition), args.Error(1)
}

func (m *MockRepository) ListAdditions(ctx context.Context, enrollmentID int) ([]Addition, error) {
	args := m.Called(ctx, enrollmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Addition), args.Error(1)
}

func (m *MockRepository) ActiveAdditionsForUpdate(ctx context.Context, tx *sqlx.Tx, enrollmentID int) ([]Addition, error) {
	args := m.Called(ctx, tx, enrollmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Addition), args.Error(1)
}

func (m *MockRepository) CancelAdditions(ctx context.Context, tx *sqlx.Tx, enrollmentID int) error {
	args := m.Called(ctx, tx, enrollmentID)
	return args.Error(0)
}

func (m *MockRepository) GetStatsByDay(ctx context.Context, from, to time.Time) ([]StatsByDay, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]StatsByDay), args.Error(1)
}

func (m *MockRepository) GetStatsByActivity(ctx context.Context, from, to time.Time) ([]StatsByActivity, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]StatsByActivity), args.Error(1)
}

// MockStudioRepository is a mock implementation of studio.Repository
type MockStudioRepository struct {
	mock.Mock
}

func (m *MockStudioRepository) CreateActivity(ctx context.Context, name string, credits int64, capacity int, semiPrivate, workoutDay bool) (*studio.Activity, error) {
	args := m.Called(ctx, name, credits, capacity, semiPrivate, workoutDay)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*studio.Activity), args.Error(1)
}

func (m *MockStudioRepository) GetActivityByID(ctx context.Context, id int) (*studio.Activity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*studio.Activity), args.Error(1)
}

func (m *MockStudioRepository) ListActivities(ctx context.Context) ([]studio.Activity, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]studio.Activity), args.Error(1)
}

func (m *MockStudioRepository) UpdateActivity(ctx context.Context, a *studio.Activity) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockStudioRepository) DeleteActivity(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStudioRepository) CreateCoach(ctx context.Context, name, email string) (*studio.Coach, error) {
	args := m.Called(ctx, name, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*studio.Coach), args.Error(1)
}

func (m *MockStudioRepository) GetCoachByID(ctx context.Context, id int) (*studio.Coach, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*studio.Coach), args.Error(1)
}

func (m *MockStudioRepository) ListCoaches(ctx context.Context) ([]studio.Coach, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]studio.Coach), args.Error(1)
}

func (m *MockStudioRepository) SetCoachPicture(ctx context.Context, id int, pictureURL string) error {
	args := m.Called(ctx, id, pictureURL)
	return args.Error(0)
}

func (m *MockStudioRepository) DeleteCoach(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStudioRepository) CreateTimeSlot(ctx context.Context, activity *studio.Activity, coachID int, start, end time.Time) (*studio.TimeSlot, error) {
	args := m.Called(ctx, activity, coachID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*studio.TimeSlot), args.Error(1)
}

func (m *MockStudioRepository) GetTimeSlotByID(ctx context.Context, id int) (*studio.TimeSlot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*studio.TimeSlot), args.Error(1)
}

func (m *MockStudioRepository) GetTimeSlotForUpdate(ctx context.Context, tx *sqlx.Tx, id int) (*studio.TimeSlot, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*studio.TimeSlot), args.Error(1)
}

func (m *MockStudioRepository) UpdateSlotState(ctx context.Context, tx *sqlx.Tx, slotID, bookedCount int, booked bool) error {
	args := m.Called(ctx, tx, slotID, bookedCount, booked)
	return args.Error(0)
}

func (m *MockStudioRepository) ListTimeSlots(ctx context.Context, activityID, coachID int, onlyFuture bool) ([]studio.TimeSlotWithDetails, error) {
	args := m.Called(ctx, activityID, coachID, onlyFuture)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]studio.TimeSlotWithDetails), args.Error(1)
}

// MockLedgerRepository is a mock implementation of ledger.Repository
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) CreateBalance(ctx context.Context, userID int) (*ledger.Balance, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Balance), args.Error(1)
}

func (m *MockLedgerRepository) GetBalance(ctx context.Context, userID int) (*ledger.Balance, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Balance), args.Error(1)
}

func (m *MockLedgerRepository) GetBalanceForUpdate(ctx context.Context, tx *sqlx.Tx, userID int) (*ledger.Balance, error) {
	args := m.Called(ctx, tx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Balance), args.Error(1)
}

func (m *MockLedgerRepository) SaveBalance(ctx context.Context, tx *sqlx.Tx, bal *ledger.Balance) error {
	args := m.Called(ctx, tx, bal)
	return args.Error(0)
}

func (m *MockLedgerRepository) InsertEntry(ctx context.Context, tx *sqlx.Tx, e ledger.Entry) (*ledger.Entry, error) {
	args := m.Called(ctx, tx, e)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Entry), args.Error(1)
}

func (m *MockLedgerRepository) TopUp(ctx context.Context, userID int, credits int64) error {
	args := m.Called(ctx, userID, credits)
	return args.Error(0)
}

func (m *MockLedgerRepository) Grant(ctx context.Context, userID int, instrument ledger.Instrument, amount int64, label string) error {
	args := m.Called(ctx, userID, instrument, amount, label)
	return args.Error(0)
}

func (m *MockLedgerRepository) SetFree(ctx context.Context, userID int, isFree bool) (*ledger.Balance, error) {
	args := m.Called(ctx, userID, isFree)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Balance), args.Error(1)
}

func (m *MockLedgerRepository) ListEntries(ctx context.Context, userID int, limit, offset int) ([]ledger.Entry, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.Entry), args.Error(1)
}

func (m *MockLedgerRepository) GetRevenueStatsByDay(ctx context.Context, from, to time.Time) ([]ledger.RevenueStatsByDay, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.RevenueStatsByDay), args.Error(1)
}

// MockMarketRepository is a mock implementation of market.Repository
type MockMarketRepository struct {
	mock.Mock
}

func (m *MockMarketRepository) CreateItem(ctx context.Context, name string, priceCredits int64, quantity int) (*market.Item, error) {
	args := m.Called(ctx, name, priceCredits, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*market.Item), args.Error(1)
}

func (m *MockMarketRepository) GetItemByID(ctx context.Context, id int) (*market.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*market.Item), args.Error(1)
}

func (m *MockMarketRepository) ListItems(ctx context.Context) ([]market.Item, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]market.Item), args.Error(1)
}

func (m *MockMarketRepository) UpdateItem(ctx context.Context, item *market.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockMarketRepository) DeleteItem(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockMarketRepository) GetItemForUpdate(ctx context.Context, tx *sqlx.Tx, id int) (*market.Item, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*market.Item), args.Error(1)
}

func (m *MockMarketRepository) AdjustStock(ctx context.Context, tx *sqlx.Tx, id, delta int) error {
	args := m.Called(ctx, tx, id, delta)
	return args.Error(0)
}

// MockUserRepository is a mock implementation of user.Repository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, name, mail, passwordHash, role string) (*user.User, error) {
	args := m.Called(ctx, name, mail, passwordHash, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, mail string) (*user.User, error) {
	args := m.Called(ctx, mail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id int) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepository) EmailExists(ctx context.Context, mail string) (bool, error) {
	args := m.Called(ctx, mail)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]user.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]user.User), args.Error(1)
}

func (m *MockUserRepository) SetRole(ctx context.Context, id int, role string) error {
	args := m.Called(ctx, id, role)
	return args.Error(0)
}

// recordingNotifier captures queued notifications instead of touching redis.
type recordingNotifier struct {
	confirmations []email.BookingNotification
	cancellations []email.BookingNotification
	reminders     []email.BookingNotification
	err           error
}

func (n *recordingNotifier) SendBookingConfirmation(ctx context.Context, notification email.BookingNotification) error {
	n.confirmations = append(n.confirmations, notification)
	return n.err
}

func (n *recordingNotifier) SendBookingCancelled(ctx context.Context, notification email.BookingNotification) error {
	n.cancellations = append(n.cancellations, notification)
	return n.err
}

func (n *recordingNotifier) SendReminder(ctx context.Context, notification email.BookingNotification) error {
	n.reminders = append(n.reminders, notification)
	return n.err
}
