package reminders

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gopkg.in/gomail.v2"

	"minibizz/planning/internal/domain"
)

// Notifier delivers one due reminder.
type Notifier interface {
	Notify(ctx context.Context, owner string, r domain.DueReminder) error
}

// LogNotifier only records the reminder in the log.
type LogNotifier struct {
	log *slog.Logger
}

func NewLogNotifier(log *slog.Logger) *LogNotifier {
	if log == nil {
		log = slog.Default()
	}
	return &LogNotifier{log: log.With(slog.String("component", "reminders.log"))}
}

func (n *LogNotifier) Notify(_ context.Context, owner string, r domain.DueReminder) error {
	n.log.Info(
		"reminder due",
		slog.String("owner_id", owner),
		slog.String("appointment_id", r.Appointment.ID),
		slog.String("title", r.Appointment.Title),
		slog.Time("start", r.Appointment.Start),
		slog.Time("fire_at", r.FireAt),
	)
	return nil
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       string
}

// MailNotifier sends each reminder as a plain-text e-mail.
type MailNotifier struct {
	dialer *gomail.Dialer
	from   string
	to     string
	loc    *time.Location
}

func NewMailNotifier(cfg SMTPConfig, loc *time.Location) *MailNotifier {
	if loc == nil {
		loc = time.Local
	}
	return &MailNotifier{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		to:     cfg.To,
		loc:    loc,
	}
}

func (n *MailNotifier) Notify(_ context.Context, owner string, r domain.DueReminder) error {
	if err := n.dialer.DialAndSend(n.message(owner, r)); err != nil {
		return fmt.Errorf("send reminder %s: %w", r.Appointment.ID, err)
	}
	return nil
}

func (n *MailNotifier) message(owner string, r domain.DueReminder) *gomail.Message {
	a := r.Appointment
	start := a.Start.In(n.loc)

	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", n.to)
	m.SetHeader("Subject", fmt.Sprintf("Reminder: %s at %s", a.Title, start.Format("15:04")))
	body := fmt.Sprintf("%s\n%s - %s", a.Title, start.Format("Mon 02 Jan 2006 15:04"), a.End.In(n.loc).Format("15:04"))
	if name := domain.ClientName(a.Client); name != "" {
		body += "\nClient: " + name
	}
	if a.Location != "" {
		body += "\nLocation: " + a.Location
	}
	body += "\nCalendar: " + owner
	m.SetBody("text/plain", body)
	return m
}
