package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"fitstudio/internal/db"
	"fitstudio/internal/email"
	"fitstudio/internal/ledger"
	"fitstudio/internal/logger"
	"fitstudio/internal/market"
	"fitstudio/internal/metrics"
	"fitstudio/internal/studio"
	"fitstudio/internal/user"
)

var (
	ErrSlotInPast    = errors.New("cannot book a slot in the past")
	ErrNotOwner      = errors.New("can only cancel own bookings")
	ErrBookingClosed = errors.New("booking already cancelled")
)

// Notifier queues booking lifecycle emails. Satisfied by email.Service;
// tests substitute a recorder.
type Notifier interface {
	SendBookingConfirmation(ctx context.Context, n email.BookingNotification) error
	SendBookingCancelled(ctx context.Context, n email.BookingNotification) error
	SendReminder(ctx context.Context, n email.BookingNotification) error
}

type Service interface {
	BookSlot(ctx context.Context, userID, slotID int) (*BookingResponse, error)
	CancelBooking(ctx context.Context, userID, enrollmentID int) error
	AdminCancelBooking(ctx context.Context, enrollmentID int) error
	PurchaseAddition(ctx context.Context, userID, enrollmentID int, itemIDs []int) (*AdditionResponse, error)
	SendSlotReminders(ctx context.Context, slotID int) (int, error)
	GetUserBookings(ctx context.Context, userID int) ([]EnrollmentWithDetails, error)
	GetSlotRoster(ctx context.Context, slotID int) ([]EnrollmentWithDetails, error)
	GetStatsByDay(ctx context.Context, from, to time.Time) ([]StatsByDay, error)
	GetStatsByActivity(ctx context.Context, from, to time.Time) ([]StatsByActivity, error)
}

type service struct {
	db         *sqlx.DB
	repo       Repository
	studioRepo studio.Repository
	ledgerRepo ledger.Repository
	marketRepo market.Repository
	userRepo   user.Repository
	notifier   Notifier
}

func NewService(
	database *sqlx.DB,
	repo Repository,
	studioRepo studio.Repository,
	ledgerRepo ledger.Repository,
	marketRepo market.Repository,
	userRepo user.Repository,
	notifier Notifier,
) Service {
	return &service{
		db:         database,
		repo:       repo,
		studioRepo: studioRepo,
		ledgerRepo: ledgerRepo,
		marketRepo: marketRepo,
		userRepo:   userRepo,
		notifier:   notifier,
	}
}

// BookSlot claims a seat and charges for it in one transaction. The slot
// row is locked first, then the balance row; everything commits together
// or rolls back together, so a failed charge never leaves a claimed seat.
func (s *service) BookSlot(ctx context.Context, userID, slotID int) (*BookingResponse, error) {
	slot, err := s.studioRepo.GetTimeSlotByID(ctx, slotID)
	if err != nil {
		return nil, err
	}
	if slot.StartTime.Before(time.Now()) {
		return nil, ErrSlotInPast
	}

	activity, err := s.studioRepo.GetActivityByID(ctx, slot.ActivityID)
	if err != nil {
		return nil, err
	}

	pricing := ledger.Pricing{
		Credits:     activity.Credits,
		Group:       activity.Kind() == studio.KindGroup,
		SemiPrivate: activity.SemiPrivate,
		WorkoutDay:  activity.WorkoutDay,
	}

	var resp *BookingResponse
	err = db.Transact(ctx, s.db, func(tx *sqlx.Tx) error {
		locked, err := s.studioRepo.GetTimeSlotForUpdate(ctx, tx, slotID)
		if err != nil {
			return err
		}

		roster, err := s.repo.ActiveUserIDs(ctx, tx, slotID)
		if err != nil {
			return err
		}

		next, err := studio.ClaimSeat(*locked, roster, userID)
		if err != nil {
			return err
		}

		bal, err := s.ledgerRepo.GetBalanceForUpdate(ctx, tx, userID)
		if err != nil {
			return err
		}

		res, err := ledger.Resolve(*bal, pricing)
		if err != nil {
			return err
		}

		if err := s.ledgerRepo.SaveBalance(ctx, tx, &res.NewBalance); err != nil {
			return err
		}

		if _, err := s.ledgerRepo.InsertEntry(ctx, tx, paymentEntry(userID, activity.Name, *bal, res)); err != nil {
			return err
		}

		if err := s.studioRepo.UpdateSlotState(ctx, tx, slotID, next.BookedCount, next.Booked); err != nil {
			return err
		}

		enrollment, err := s.repo.CreateEnrollment(ctx, tx, slotID, userID, res.Instrument, res.AmountCharged)
		if err != nil {
			return err
		}

		resp = &BookingResponse{Enrollment: *enrollment, Balance: res.NewBalance}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordBooking(string(slot.Kind), string(resp.Enrollment.Instrument))
	s.notifyBooking(ctx, resp.Enrollment, "confirmation")

	return resp, nil
}

// paymentEntry shapes the audit record for a booking charge. Token charges
// log a count against the token counter, credit charges a signed credit
// amount; a comped booking logs zero with the bypass spelled out.
func paymentEntry(userID int, activityName string, before ledger.Balance, res ledger.Resolution) ledger.Entry {
	label := "booking: " + activityName
	e := ledger.Entry{
		UserID:     userID,
		Label:      label,
		EntryType:  ledger.EntryBookingPayment,
		Instrument: res.Instrument,
	}

	if res.Instrument.IsToken() {
		e.Amount = -1
		e.BalanceAfter = int64(res.NewBalance.TokenCount(res.Instrument))
		return e
	}

	if res.AmountCharged == 0 && before.IsFree {
		e.Label = label + " (free user)"
	}
	e.Amount = -res.AmountCharged
	e.BalanceAfter = res.NewBalance.WalletCredits
	return e
}

func (s *service) CancelBooking(ctx context.Context, userID, enrollmentID int) error {
	return s.cancel(ctx, enrollmentID, &userID)
}

// AdminCancelBooking skips the ownership check; everything else is the
// same refund path members get.
func (s *service) AdminCancelBooking(ctx context.Context, enrollmentID int) error {
	return s.cancel(ctx, enrollmentID, nil)
}

// cancel releases the seat and refunds the stored instrument. Active
// add-ons are refunded to the wallet and their stock restored in the same
// transaction. Lock order matches BookSlot: slot, then enrollment, then
// balance, then items.
func (s *service) cancel(ctx context.Context, enrollmentID int, requesterID *int) error {
	e, err := s.repo.GetEnrollmentByID(ctx, enrollmentID)
	if err != nil {
		return err
	}
	if requesterID != nil && e.UserID != *requesterID {
		return ErrNotOwner
	}
	if e.Status != StatusBooked {
		return ErrBookingClosed
	}

	slot, err := s.studioRepo.GetTimeSlotByID(ctx, e.TimeSlotID)
	if err != nil {
		return err
	}

	var refundedCredits int64
	err = db.Transact(ctx, s.db, func(tx *sqlx.Tx) error {
		locked, err := s.studioRepo.GetTimeSlotForUpdate(ctx, tx, e.TimeSlotID)
		if err != nil {
			return err
		}

		e, err = s.repo.GetEnrollmentForUpdate(ctx, tx, enrollmentID)
		if err != nil {
			return err
		}
		if e.Status != StatusBooked {
			return ErrBookingClosed
		}

		roster, err := s.repo.ActiveUserIDs(ctx, tx, e.TimeSlotID)
		if err != nil {
			return err
		}

		next, err := studio.ReleaseSeat(*locked, roster, e.UserID)
		if err != nil {
			return err
		}

		bal, err := s.ledgerRepo.GetBalanceForUpdate(ctx, tx, e.UserID)
		if err != nil {
			return err
		}

		refunded := ledger.Refund(*bal, e.Instrument, e.AmountCharged)
		if _, err := s.ledgerRepo.InsertEntry(ctx, tx, refundEntry(*e, refunded)); err != nil {
			return err
		}

		additions, err := s.repo.ActiveAdditionsForUpdate(ctx, tx, enrollmentID)
		if err != nil {
			return err
		}
		var additionTotal int64
		for _, a := range additions {
			if err := s.marketRepo.AdjustStock(ctx, tx, a.ItemID, 1); err != nil {
				// The item may have been deleted since purchase; the
				// member still gets their credits back.
				if !errors.Is(err, market.ErrItemNotFound) {
					return err
				}
			}
			additionTotal += a.PriceCredits
		}
		if additionTotal > 0 {
			refunded.WalletCredits += additionTotal
			refundedCredits += additionTotal

			if _, err := s.ledgerRepo.InsertEntry(ctx, tx, ledger.Entry{
				UserID:       e.UserID,
				Label:        fmt.Sprintf("add-on refund: enrollment #%d", enrollmentID),
				EntryType:    ledger.EntryMarketRefund,
				Instrument:   ledger.InstrumentCredits,
				Amount:       additionTotal,
				BalanceAfter: refunded.WalletCredits,
			}); err != nil {
				return err
			}
		}

		if err := s.ledgerRepo.SaveBalance(ctx, tx, &refunded); err != nil {
			return err
		}

		if err := s.repo.CancelAdditions(ctx, tx, enrollmentID); err != nil {
			return err
		}

		if err := s.repo.CancelEnrollment(ctx, tx, enrollmentID); err != nil {
			return err
		}

		return s.studioRepo.UpdateSlotState(ctx, tx, e.TimeSlotID, next.BookedCount, next.Booked)
	})
	if err != nil {
		return err
	}

	if !e.Instrument.IsToken() {
		refundedCredits += e.AmountCharged
	}
	metrics.RecordBookingCancellation(string(slot.Kind))
	metrics.RecordRefundedCredits(refundedCredits)
	s.notifyBooking(ctx, *e, "cancellation")

	return nil
}

func refundEntry(e Enrollment, after ledger.Balance) ledger.Entry {
	entry := ledger.Entry{
		UserID:     e.UserID,
		Label:      fmt.Sprintf("booking refund: enrollment #%d", e.ID),
		EntryType:  ledger.EntryBookingRefund,
		Instrument: e.Instrument,
	}

	if e.Instrument.IsToken() {
		entry.Amount = 1
		entry.BalanceAfter = int64(after.TokenCount(e.Instrument))
		return entry
	}

	entry.Amount = e.AmountCharged
	entry.BalanceAfter = after.WalletCredits
	return entry
}

// PurchaseAddition attaches market items to an active booking, paid from
// wallet credits. All-or-nothing: one out-of-stock item aborts the whole
// purchase. Enrollment, balance and item rows are locked together and a
// single aggregate ledger entry records the total debit.
func (s *service) PurchaseAddition(ctx context.Context, userID, enrollmentID int, itemIDs []int) (*AdditionResponse, error) {
	var resp *AdditionResponse

	err := db.Transact(ctx, s.db, func(tx *sqlx.Tx) error {
		e, err := s.repo.GetEnrollmentForUpdate(ctx, tx, enrollmentID)
		if err != nil {
			return err
		}
		if e.UserID != userID {
			return ErrNotOwner
		}
		if e.Status != StatusBooked {
			return ErrBookingClosed
		}

		bal, err := s.ledgerRepo.GetBalanceForUpdate(ctx, tx, userID)
		if err != nil {
			return err
		}

		var total int64
		items := make([]*market.Item, 0, len(itemIDs))
		for _, itemID := range itemIDs {
			item, err := s.marketRepo.GetItemForUpdate(ctx, tx, itemID)
			if err != nil {
				return err
			}
			if item.Quantity < 1 {
				return market.ErrOutOfStock
			}
			if err := s.marketRepo.AdjustStock(ctx, tx, item.ID, -1); err != nil {
				return err
			}
			items = append(items, item)
			total += item.PriceCredits
		}

		// Wallet is re-validated here, not at booking time.
		if bal.WalletCredits < total {
			return ledger.ErrInsufficientFunds
		}

		bal.WalletCredits -= total
		if err := s.ledgerRepo.SaveBalance(ctx, tx, bal); err != nil {
			return err
		}

		if _, err := s.ledgerRepo.InsertEntry(ctx, tx, ledger.Entry{
			UserID:       userID,
			Label:        additionLabel(items, enrollmentID),
			EntryType:    ledger.EntryMarketPayment,
			Instrument:   ledger.InstrumentCredits,
			Amount:       -total,
			BalanceAfter: bal.WalletCredits,
		}); err != nil {
			return err
		}

		additions := make([]Addition, 0, len(items))
		for _, item := range items {
			addition, err := s.repo.CreateAddition(ctx, tx, enrollmentID, item.ID, item.Name, item.PriceCredits)
			if err != nil {
				return err
			}
			additions = append(additions, *addition)
		}

		resp = &AdditionResponse{Additions: additions, AmountCharged: total, Balance: *bal}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordMarketPurchase()
	return resp, nil
}

func additionLabel(items []*market.Item, enrollmentID int) string {
	names := make([]string, len(items))
	for i, item := range items {
		names[i] = item.Name
	}
	return fmt.Sprintf("add-ons: %s (enrollment #%d)", strings.Join(names, ", "), enrollmentID)
}

// SendSlotReminders queues an upcoming-session reminder for every active
// member of the slot and returns how many were queued. Best-effort per
// member: a failed queue push is logged and skipped, the rest still go out.
func (s *service) SendSlotReminders(ctx context.Context, slotID int) (int, error) {
	if s.notifier == nil {
		return 0, nil
	}

	slot, err := s.studioRepo.GetTimeSlotByID(ctx, slotID)
	if err != nil {
		return 0, err
	}

	activity, err := s.studioRepo.GetActivityByID(ctx, slot.ActivityID)
	if err != nil {
		return 0, err
	}

	coach, err := s.studioRepo.GetCoachByID(ctx, slot.CoachID)
	if err != nil {
		return 0, err
	}

	enrollments, err := s.repo.GetSlotEnrollments(ctx, slotID)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, e := range enrollments {
		if e.Status != StatusBooked {
			continue
		}

		n := email.BookingNotification{
			UserName:     e.UserName,
			UserEmail:    e.UserEmail,
			ActivityName: activity.Name,
			CoachName:    coach.Name,
			CoachEmail:   coach.Email,
			StartTime:    slot.StartTime,
			EndTime:      slot.EndTime,
			Instrument:   string(e.Instrument),
			Amount:       e.AmountCharged,
		}
		if err := s.notifier.SendReminder(ctx, n); err != nil {
			logger.Error("failed to queue reminder email", "enrollment_id", e.ID, "error", err)
			continue
		}
		sent++
	}

	return sent, nil
}

func (s *service) GetUserBookings(ctx context.Context, userID int) ([]EnrollmentWithDetails, error) {
	return s.repo.GetUserEnrollments(ctx, userID)
}

func (s *service) GetSlotRoster(ctx context.Context, slotID int) ([]EnrollmentWithDetails, error) {
	return s.repo.GetSlotEnrollments(ctx, slotID)
}

func (s *service) GetStatsByDay(ctx context.Context, from, to time.Time) ([]StatsByDay, error) {
	return s.repo.GetStatsByDay(ctx, from, to)
}

func (s *service) GetStatsByActivity(ctx context.Context, from, to time.Time) ([]StatsByActivity, error) {
	return s.repo.GetStatsByActivity(ctx, from, to)
}

// notifyBooking assembles and queues the lifecycle email. Runs after
// commit: a delivery failure is logged and swallowed, never surfaced to
// the member whose booking already succeeded.
func (s *service) notifyBooking(ctx context.Context, e Enrollment, kind string) {
	if s.notifier == nil {
		return
	}

	member, err := s.userRepo.FindByID(ctx, e.UserID)
	if err != nil {
		logger.Error("booking notification skipped", "enrollment_id", e.ID, "error", err)
		return
	}

	slot, err := s.studioRepo.GetTimeSlotByID(ctx, e.TimeSlotID)
	if err != nil {
		logger.Error("booking notification skipped", "enrollment_id", e.ID, "error", err)
		return
	}

	activity, err := s.studioRepo.GetActivityByID(ctx, slot.ActivityID)
	if err != nil {
		logger.Error("booking notification skipped", "enrollment_id", e.ID, "error", err)
		return
	}

	coach, err := s.studioRepo.GetCoachByID(ctx, slot.CoachID)
	if err != nil {
		logger.Error("booking notification skipped", "enrollment_id", e.ID, "error", err)
		return
	}

	n := email.BookingNotification{
		UserName:     member.Name,
		UserEmail:    member.Email,
		ActivityName: activity.Name,
		CoachName:    coach.Name,
		CoachEmail:   coach.Email,
		StartTime:    slot.StartTime,
		EndTime:      slot.EndTime,
		Instrument:   string(e.Instrument),
		Amount:       e.AmountCharged,
	}

	if kind == "cancellation" {
		err = s.notifier.SendBookingCancelled(ctx, n)
	} else {
		err = s.notifier.SendBookingConfirmation(ctx, n)
	}
	if err != nil {
		logger.Error("failed to queue booking email", "enrollment_id", e.ID, "error", err)
	}
}
