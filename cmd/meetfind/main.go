package main

import (
	"fmt"
	"io"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/klokku/meetingfinder/internal/config"
	"github.com/klokku/meetingfinder/internal/utils"
	"github.com/klokku/meetingfinder/pkg/availability"
	"github.com/klokku/meetingfinder/pkg/google"
	"github.com/klokku/meetingfinder/pkg/ics"
	"github.com/klokku/meetingfinder/pkg/meeting"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	// Load .env file first, but don't error if it doesn't exist.
	_ = godotenv.Load()

	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:   "meetfind",
		Usage:  "Find the free slots shared by a group of attendees.",
		Writer: out,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: "./config/application.yaml", Usage: "Configuration file."},
			&cli.StringFlag{Name: "log-level", Value: "warn", EnvVars: []string{"LOG_LEVEL"}, Usage: "Log level."},
		},
		Before: func(c *cli.Context) error {
			level, err := log.ParseLevel(c.String("log-level"))
			if err != nil {
				return err
			}
			log.SetLevel(level)
			log.SetOutput(c.App.ErrWriter)
			return nil
		},
		Commands: []*cli.Command{
			slotsCommand(),
		},
	}
}

func slotsCommand() *cli.Command {
	return &cli.Command{
		Name:  "slots",
		Usage: "Print the free slots of a day, one per line.",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "ics", Usage: "iCalendar file with busy events, repeatable."},
			&cli.StringSliceFlag{Name: "attendee", Required: true, Usage: "Attendee e-mail, repeatable."},
			&cli.IntFlag{Name: "duration", Required: true, Usage: "Meeting length in minutes."},
			&cli.TimestampFlag{Name: "date", Layout: time.DateOnly, Usage: "Day to search, defaults to today."},
			&cli.StringFlag{Name: "timezone", Usage: "IANA time zone, defaults to the configured one."},
			&cli.BoolFlag{Name: "google", Usage: "Also ask Google Calendar free/busy for the attendees."},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.Load(c.String("config"))
			if err != nil {
				return err
			}

			timezone := c.String("timezone")
			if timezone == "" {
				timezone = cfg.Availability.Timezone
			}
			loc, err := time.LoadLocation(timezone)
			if err != nil {
				return fmt.Errorf("invalid timezone '%s': %w", timezone, err)
			}

			sources := availability.MultiSource{ics.FileSource{Paths: c.StringSlice("ics")}}
			if c.Bool("google") {
				googleService, err := google.NewService(c.Context, cfg.Google)
				if err != nil {
					return err
				}
				sources = append(sources, googleService)
			}

			query := availability.Query{
				Location:  loc,
				Attendees: c.StringSlice("attendee"),
				Duration:  c.Int("duration"),
			}
			if date := c.Timestamp("date"); date != nil {
				query.Date = *date
			}

			slots, err := availability.NewService(sources, utils.SystemClock{}, loc).FindSlots(c.Context, query)
			if err != nil {
				return err
			}
			for _, slot := range slots {
				if _, err := fmt.Fprintln(c.App.Writer, formatRange(slot.Range)); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

// formatRange renders a range as wall-clock times, "09:00-10:30)" or "17:00-24:00]".
func formatRange(r meeting.TimeRange) string {
	closing := ")"
	if r.Inclusive() {
		closing = "]"
	}
	return clock(r.Start()) + "-" + clock(r.End()) + closing
}

func clock(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}
