// Package notify sends the two booking emails: a confirmation to the guest
// and a heads-up to the host. Sends are fire and forget; a booking never
// fails or rolls back because mail could not go out.
package notify

import (
	"fmt"

	"slotboard/pkg/config"
	"slotboard/pkg/logger"
	"slotboard/pkg/model"
	"slotboard/pkg/slot"
)

const slotDisplayLayout = "Monday, January 2 at 3:04 PM"

type Notifier struct {
	sender Sender
	log    *logger.Logger
}

// New builds a notifier from config. Without SMTP configured it is disabled
// and every call becomes a logged no-op.
func New(cfg *config.Config) *Notifier {
	n := &Notifier{log: cfg.Log}
	if cfg.SMTPEnabled() {
		n.sender = NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom)
	} else {
		cfg.Log.Info("SMTP not configured, booking notifications disabled")
	}
	return n
}

// NewWithSender wires an explicit sender; tests use it.
func NewWithSender(sender Sender, log *logger.Logger) *Notifier {
	return &Notifier{sender: sender, log: log}
}

// BookingConfirmed notifies guest and host about a claimed slot. Each
// recipient is attempted independently on its own goroutine; failures are
// logged and swallowed.
func (n *Notifier) BookingConfirmed(room *model.Room, participant *model.Participant, key slot.Key) {
	if n.sender == nil {
		n.log.Debug("Notifications disabled, skipping booking emails", "room_id", room.ID)
		return
	}

	when := displayTime(key)

	if participant.Email != "" {
		subject, body := guestConfirmation(room, participant, when)
		go n.send(participant.Email, subject, body, "guest_confirmation", room.ID)
	}
	if room.HostEmail != "" {
		subject, body := hostNotification(room, participant, when)
		go n.send(room.HostEmail, subject, body, "host_notification", room.ID)
	}
}

func (n *Notifier) send(to, subject, body, kind, roomID string) {
	if err := n.sender.Send(to, subject, body); err != nil {
		n.log.Warn("Failed to send booking email",
			"kind", kind,
			"room_id", roomID,
			"error", err,
		)
		return
	}
	n.log.Info("Booking email sent", "kind", kind, "room_id", roomID)
}

func guestConfirmation(room *model.Room, participant *model.Participant, when string) (subject, body string) {
	subject = fmt.Sprintf("Booking confirmed: %s", room.Title)

	body = fmt.Sprintf("Hi %s,\n\nYour booking for %q", participant.Name, room.Title)
	if room.HostName != "" {
		body += fmt.Sprintf(" with %s", room.HostName)
	}
	body += fmt.Sprintf(" is confirmed for %s.\n", when)
	if room.MeetLink != "" {
		body += fmt.Sprintf("\nJoin here: %s\n", room.MeetLink)
	}
	body += "\nSee you there!\n"
	return subject, body
}

func hostNotification(room *model.Room, participant *model.Participant, when string) (subject, body string) {
	subject = fmt.Sprintf("New booking: %s", room.Title)

	body = fmt.Sprintf("%s booked %s for %q.\n", participant.Name, when, room.Title)
	if participant.Email != "" {
		body += fmt.Sprintf("\nReach them at %s.\n", participant.Email)
	}
	return subject, body
}

func displayTime(key slot.Key) string {
	t, err := key.StartTime()
	if err != nil {
		return string(key)
	}
	return t.Format(slotDisplayLayout)
}
