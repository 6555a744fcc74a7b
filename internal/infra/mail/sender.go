package mail

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"text/template"
	"time"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/zhengrowth/growth-api/internal/entity"
	"github.com/zhengrowth/growth-api/internal/ics"
	"github.com/zhengrowth/growth-api/internal/infra/queue"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	SiteURL  string
}

// EmailSender implements queue.Notifier over SMTP.
type EmailSender struct {
	Dialer    Dialer
	From      string
	SiteURL   string
	Organizer ics.Organizer
	Logger    *zap.Logger
	Now       func() time.Time
}

// NewEmailSender logs messages instead of sending them when no SMTP host is set.
func NewEmailSender(cfg Config, org ics.Organizer, logger *zap.Logger) *EmailSender {
	var d Dialer = logDialer{logger: logger}
	if cfg.Host != "" {
		d = gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	}
	return &EmailSender{
		Dialer:    d,
		From:      cfg.From,
		SiteURL:   cfg.SiteURL,
		Organizer: org,
		Logger:    logger,
		Now:       time.Now,
	}
}

var _ queue.Notifier = (*EmailSender)(nil)

func (s *EmailSender) SendLeadWelcome(p queue.LeadPayload) error {
	return s.send(p.Email, "Welcome to ZhenGrowth", "lead_welcome.tmpl", map[string]string{
		"Name":    nameOr(p.Name),
		"SiteURL": s.SiteURL,
	}, nil)
}

func (s *EmailSender) SendBookingConfirmation(b *entity.Booking) error {
	return s.send(b.Email, "Your ZhenGrowth call is confirmed", "booking_confirmation.tmpl",
		s.bookingData(b), s.invite(b))
}

func (s *EmailSender) SendBookingCancellation(b *entity.Booking) error {
	return s.send(b.Email, "Your ZhenGrowth call was canceled", "booking_cancellation.tmpl",
		s.bookingData(b), s.invite(b))
}

func (s *EmailSender) SendProgramWelcome(p queue.SubscriptionPayload) error {
	return s.send(p.Email, fmt.Sprintf("Welcome to %s", p.OfferTitle), "program_welcome.tmpl", map[string]string{
		"Name":       nameOr(p.Name),
		"OfferTitle": p.OfferTitle,
		"SiteURL":    s.SiteURL,
	}, nil)
}

func (s *EmailSender) SendNudge(p queue.NudgePayload) error {
	return s.send(p.Email, p.Title, "nudge.tmpl", map[string]string{
		"Body":    p.Body,
		"SiteURL": s.SiteURL,
	}, nil)
}

type attachment struct {
	name        string
	contentType string
	data        []byte
}

func (s *EmailSender) invite(b *entity.Booking) *attachment {
	method := ics.MethodRequest
	if b.Status == entity.BookingCanceled {
		method = ics.MethodCancel
	}
	return &attachment{
		name:        "invite.ics",
		contentType: "text/calendar; charset=utf-8; method=" + method,
		data:        ics.BookingInvite(b, s.Organizer, s.Now().UTC()),
	}
}

func (s *EmailSender) bookingData(b *entity.Booking) map[string]string {
	when := b.StartsAt
	if loc, err := time.LoadLocation(b.Timezone); err == nil {
		when = when.In(loc)
	}
	return map[string]string{
		"Name":     nameOr(b.Name),
		"Topic":    b.Topic,
		"When":     when.Format("Mon, 02 Jan 2006 15:04"),
		"Timezone": b.Timezone,
		"SiteURL":  s.SiteURL,
	}
}

func (s *EmailSender) send(to, subject, tmpl string, data any, att *attachment) error {
	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, tmpl, data); err != nil {
		return fmt.Errorf("render %s: %w", tmpl, err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body.String())
	if att != nil {
		m.Attach(att.name,
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(att.data)
				return err
			}),
			gomail.SetHeader(map[string][]string{"Content-Type": {att.contentType}}),
		)
	}

	if err := s.Dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}
	s.Logger.Info("email sent", zap.String("to", to), zap.String("template", tmpl))
	return nil
}

func nameOr(name string) string {
	if name == "" {
		return "there"
	}
	return name
}

// logDialer stands in for SMTP in local development.
type logDialer struct {
	logger *zap.Logger
}

func (d logDialer) DialAndSend(msgs ...*gomail.Message) error {
	for _, m := range msgs {
		d.logger.Info("smtp disabled, email not sent",
			zap.Strings("to", m.GetHeader("To")),
			zap.Strings("subject", m.GetHeader("Subject")))
	}
	return nil
}
