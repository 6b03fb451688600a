package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/klokku/meetingfinder/internal/config"
	"github.com/klokku/meetingfinder/internal/utils"
	"github.com/klokku/meetingfinder/pkg/availability"
	"github.com/klokku/meetingfinder/pkg/calendar"
	"github.com/klokku/meetingfinder/pkg/google"
	"github.com/klokku/meetingfinder/pkg/ics"
	log "github.com/sirupsen/logrus"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	CalendarRepository *calendar.RepositoryImpl
	CalendarService    *calendar.Service
	CalendarHandler    *calendar.Handler
	IcsHandler         *ics.Handler

	// GoogleService and GoogleHandler are nil unless the integration is enabled.
	GoogleService google.Service
	GoogleHandler *google.Handler

	AvailabilityService *availability.Service
	AvailabilityHandler *availability.Handler

	Clock utils.Clock
}

// BuildDependencies wires repositories, services, and handlers.
func BuildDependencies(ctx context.Context, db *pgxpool.Pool, cfg config.Application) (*Dependencies, error) {
	deps := &Dependencies{}

	deps.Clock = &utils.SystemClock{}

	deps.CalendarRepository = calendar.NewRepository(db)
	deps.CalendarService = calendar.NewService(deps.CalendarRepository)
	deps.CalendarHandler = calendar.NewHandler(deps.CalendarService)

	location, err := time.LoadLocation(cfg.Availability.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid availability timezone %q: %w", cfg.Availability.Timezone, err)
	}
	deps.IcsHandler = ics.NewHandler(deps.CalendarService, location)

	sources := availability.MultiSource{deps.CalendarService}
	if cfg.Google.Enabled {
		googleService, err := google.NewService(ctx, cfg.Google)
		if err != nil {
			return nil, err
		}
		deps.GoogleService = googleService
		deps.GoogleHandler = google.NewHandler(googleService)
		sources = append(sources, googleService)
		log.Info("Google Calendar free/busy integration enabled")
	}

	deps.AvailabilityService = availability.NewService(sources, deps.Clock, location)
	deps.AvailabilityHandler = availability.NewHandler(deps.AvailabilityService)

	return deps, nil
}
