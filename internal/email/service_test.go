package email

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"fitstudio/internal/logger"
)

func TestMain(m *testing.M) {
	logger.Init()

	code := m.Run()
	os.Exit(code)
}

func newTestService(rdb *redis.Client) *Service {
	return &Service{
		redis:      rdb,
		from:       "noreply@fitstudio.com",
		fromName:   "FitStudio Team",
		adminEmail: "admin@fitstudio.com",
		smtpHost:   "smtp.test.com",
		smtpPort:   "587",
		smtpUser:   "test@example.com",
		smtpPass:   "password",
	}
}

func testNotification() BookingNotification {
	start := time.Now().Add(24 * time.Hour)
	return BookingNotification{
		UserName:     "User",
		UserEmail:    "user@example.com",
		ActivityName: "Yoga Class",
		CoachName:    "Coach Kim",
		CoachEmail:   "kim@fitstudio.com",
		StartTime:    start,
		EndTime:      start.Add(time.Hour),
		Instrument:   "credits",
		Amount:       30,
	}
}

func TestSend(t *testing.T) {
	db, mock := redismock.NewClientMock()
	ctx := context.Background()

	mock.Regexp().ExpectLPush("emails", `.*`).SetVal(1)

	svc := newTestService(db)

	err := svc.Send(ctx, "user@example.com", "User", "Hello", "Test body")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSendBookingConfirmation(t *testing.T) {
	db, mock := redismock.NewClientMock()
	ctx := context.Background()

	// one job for the member, one for the admin copy
	mock.Regexp().ExpectLPush("emails", `.*`).SetVal(1)
	mock.Regexp().ExpectLPush("emails", `.*`).SetVal(2)

	svc := newTestService(db)

	err := svc.SendBookingConfirmation(ctx, testNotification())
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSendBookingCancelled(t *testing.T) {
	db, mock := redismock.NewClientMock()
	ctx := context.Background()

	mock.Regexp().ExpectLPush("emails", `.*`).SetVal(1)
	mock.Regexp().ExpectLPush("emails", `.*`).SetVal(2)

	svc := newTestService(db)

	n := testNotification()
	n.Instrument = "private_token"
	err := svc.SendBookingCancelled(ctx, n)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSendReminder(t *testing.T) {
	db, mock := redismock.NewClientMock()
	ctx := context.Background()

	mock.Regexp().ExpectLPush("emails", `.*`).SetVal(1)

	svc := newTestService(db)

	err := svc.SendReminder(ctx, testNotification())
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueueLength(t *testing.T) {
	db, mock := redismock.NewClientMock()
	ctx := context.Background()

	mock.ExpectLLen("emails").SetVal(5)

	svc := newTestService(db)

	assert.Equal(t, int64(5), svc.QueueLength(ctx))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSendError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	ctx := context.Background()

	mock.Regexp().ExpectLPush("emails", `.*`).SetErr(assert.AnError)

	svc := newTestService(db)

	err := svc.Send(ctx, "user@example.com", "User", "Hello", "Test body")
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChargeLine(t *testing.T) {
	n := testNotification()
	assert.Equal(t, "30 credits", n.chargeLine())

	n.Instrument = "semi_private_token"
	assert.Equal(t, "1 semi_private_token", n.chargeLine())
}
