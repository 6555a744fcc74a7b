package main

import (
	"flag"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"

	"github.com/zhengrowth/growth-api/internal/entity"
	"github.com/zhengrowth/growth-api/internal/ics"
)

type previewConfig struct {
	MailFrom       string `envconfig:"MAIL_FROM" default:"coach@zhengrowth.com"`
	CalendarDomain string `envconfig:"CALENDAR_DOMAIN" default:"zhengrowth.com"`
}

// Prints the invite for a sample booking so it can be imported into a calendar client.
func main() {
	canceled := flag.Bool("cancel", false, "render the cancellation instead of the invite")
	tz := flag.String("tz", "Europe/Lisbon", "attendee timezone")
	topic := flag.String("topic", "Clarity call; goals, blockers, next steps", "call topic")
	flag.Parse()

	logger := zap.Must(zap.NewDevelopment())
	defer func() { _ = logger.Sync() }()

	_ = godotenv.Load()
	var cfg previewConfig
	if err := envconfig.Process("", &cfg); err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	loc, err := time.LoadLocation(*tz)
	if err != nil {
		logger.Fatal("unknown timezone", zap.String("tz", *tz), zap.Error(err))
	}

	now := time.Now().UTC()
	start := time.Date(now.Year(), now.Month(), now.Day()+2, 15, 0, 0, 0, loc).UTC()
	b := &entity.Booking{
		ID:        uuid.NewString(),
		Name:      "Ana Lima",
		Email:     "ana.lima@example.com",
		Topic:     *topic,
		StartsAt:  start,
		EndsAt:    start.Add(30 * time.Minute),
		Timezone:  *tz,
		Status:    entity.BookingConfirmed,
		Notes:     "Booked from the preview tool.\nSecond line, with a comma.",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if *canceled {
		b.Status = entity.BookingCanceled
	}

	org := ics.Organizer{Name: "ZhenGrowth Coaching", Email: cfg.MailFrom, Domain: cfg.CalendarDomain}
	if _, err := os.Stdout.Write(ics.BookingInvite(b, org, now)); err != nil {
		logger.Fatal("write invite", zap.Error(err))
	}
}
