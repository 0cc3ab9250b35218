package email

import (
	"context"
	"fmt"
	"time"
)

// BookingNotification carries everything the booking and cancellation
// emails need. It is assembled by the coordinator after commit, so
// delivery problems can never affect the already-committed booking.
type BookingNotification struct {
	UserName     string
	UserEmail    string
	ActivityName string
	CoachName    string
	CoachEmail   string
	StartTime    time.Time
	EndTime      time.Time
	Instrument   string
	Amount       int64
}

func (n BookingNotification) timeRange() string {
	return fmt.Sprintf("%s - %s",
		n.StartTime.Format("Jan 2, 2006 at 3:04 PM"),
		n.EndTime.Format("3:04 PM"))
}

func (n BookingNotification) chargeLine() string {
	if n.Instrument == "credits" {
		return fmt.Sprintf("%d credits", n.Amount)
	}
	return fmt.Sprintf("1 %s", n.Instrument)
}

// SendBookingConfirmation queues the booking email to the member and a copy
// to the studio admin address.
func (s *Service) SendBookingConfirmation(ctx context.Context, n BookingNotification) error {
	subject := "Booking Confirmed - " + n.ActivityName
	body := fmt.Sprintf(`Hi %s,

Your session is booked!

Activity: %s
Coach: %s
Time: %s
Paid with: %s

See you at the studio!

- %s Team`, n.UserName, n.ActivityName, n.CoachName, n.timeRange(), n.chargeLine(), s.fromName)

	if err := s.Send(ctx, n.UserEmail, n.UserName, subject, body); err != nil {
		return err
	}

	adminBody := fmt.Sprintf(`New booking:

Member: %s <%s>
Activity: %s
Coach: %s <%s>
Time: %s
Paid with: %s`, n.UserName, n.UserEmail, n.ActivityName, n.CoachName, n.CoachEmail, n.timeRange(), n.chargeLine())

	return s.Send(ctx, s.adminEmail, "Admin", "New booking - "+n.ActivityName, adminBody)
}

// SendBookingCancelled queues the cancellation email to the member and a
// copy to the studio admin address.
func (s *Service) SendBookingCancelled(ctx context.Context, n BookingNotification) error {
	subject := "Booking Cancelled - " + n.ActivityName
	body := fmt.Sprintf(`Hi %s,

Your booking has been cancelled and refunded:

Activity: %s
Coach: %s
Time: %s
Refunded: %s

- %s Team`, n.UserName, n.ActivityName, n.CoachName, n.timeRange(), n.chargeLine(), s.fromName)

	if err := s.Send(ctx, n.UserEmail, n.UserName, subject, body); err != nil {
		return err
	}

	adminBody := fmt.Sprintf(`Booking cancelled:

Member: %s <%s>
Activity: %s
Coach: %s <%s>
Time: %s
Refunded: %s`, n.UserName, n.UserEmail, n.ActivityName, n.CoachName, n.CoachEmail, n.timeRange(), n.chargeLine())

	return s.Send(ctx, s.adminEmail, "Admin", "Booking cancelled - "+n.ActivityName, adminBody)
}

// SendReminder queues a session reminder to the member.
func (s *Service) SendReminder(ctx context.Context, n BookingNotification) error {
	subject := "Reminder: " + n.ActivityName + " Tomorrow"
	body := fmt.Sprintf(`Hi %s,

This is a reminder about your session tomorrow:

Activity: %s
Coach: %s
Time: %s

See you soon!

- %s Team`, n.UserName, n.ActivityName, n.CoachName, n.timeRange(), s.fromName)

	return s.Send(ctx, n.UserEmail, n.UserName, subject, body)
}
