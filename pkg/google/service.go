package google

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/klokku/meetingfinder/internal/config"
	"github.com/klokku/meetingfinder/pkg/calendar"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

const (
	busySummary = "Busy (Google Calendar)"
	// reasonNotFound marks an attendee without a Google calendar.
	reasonNotFound = "notFound"
)

var ErrCalendarUnavailable = errors.New("google calendar unavailable")

type CalendarItem struct {
	ID      string
	Summary string
}

type Service interface {
	ListCalendars(ctx context.Context) ([]CalendarItem, error)
	// BusyEvents reports the busy periods of the attendees' Google calendars,
	// one event per period with the calendar id as its only attendee.
	BusyEvents(ctx context.Context, attendees []string, from, to time.Time) ([]calendar.Event, error)
}

type ServiceImpl struct {
	service *gcal.Service
}

// NewService connects to the Calendar API with the access token from cfg, or
// the credentials file when no token is set, or application default credentials.
func NewService(ctx context.Context, cfg config.Google, opts ...option.ClientOption) (*ServiceImpl, error) {
	clientOpts := make([]option.ClientOption, 0, len(opts)+1)
	switch {
	case cfg.AccessToken != "":
		clientOpts = append(clientOpts, option.WithTokenSource(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.AccessToken})))
	case cfg.CredentialsFile != "":
		clientOpts = append(clientOpts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	clientOpts = append(clientOpts, opts...)

	service, err := gcal.NewService(ctx, clientOpts...)
	if err != nil {
		err := fmt.Errorf("unable to retrieve Calendar client: %v", err)
		log.Error(err)
		return nil, err
	}
	return &ServiceImpl{service: service}, nil
}

func (s *ServiceImpl) ListCalendars(ctx context.Context) ([]CalendarItem, error) {
	calendars, err := s.service.CalendarList.List().Context(ctx).Do()
	if err != nil {
		err := fmt.Errorf("unable to retrieve calendars from Google Calendar: %v", err)
		log.Error(err)
		return nil, err
	}
	googleCalendars := make([]CalendarItem, 0, len(calendars.Items))
	for _, cal := range calendars.Items {
		googleCalendars = append(googleCalendars, CalendarItem{
			ID:      cal.Id,
			Summary: cal.Summary,
		})
	}
	return googleCalendars, nil
}

func (s *ServiceImpl) BusyEvents(ctx context.Context, attendees []string, from, to time.Time) ([]calendar.Event, error) {
	attendees = calendar.NormalizeAttendees(attendees)
	if len(attendees) == 0 {
		return []calendar.Event{}, nil
	}

	items := make([]*gcal.FreeBusyRequestItem, 0, len(attendees))
	for _, attendee := range attendees {
		items = append(items, &gcal.FreeBusyRequestItem{Id: attendee})
	}
	response, err := s.service.Freebusy.Query(&gcal.FreeBusyRequest{
		TimeMin: from.Format(time.RFC3339),
		TimeMax: to.Format(time.RFC3339),
		Items:   items,
	}).Context(ctx).Do()
	if err != nil {
		err := fmt.Errorf("unable to query free/busy from Google Calendar: %v", err)
		log.Error(err)
		return nil, err
	}

	events := make([]calendar.Event, 0)
	for _, attendee := range attendees {
		freeBusy, ok := response.Calendars[attendee]
		if !ok {
			return nil, fmt.Errorf("%w: %s missing from free/busy response", ErrCalendarUnavailable, attendee)
		}
		if err := calendarError(attendee, freeBusy.Errors); err != nil {
			log.Error(err)
			return nil, err
		}
		for _, period := range freeBusy.Busy {
			event, err := busyEvent(attendee, period)
			if err != nil {
				log.Warnf("ignoring busy period of %s: %v", attendee, err)
				continue
			}
			events = append(events, event)
		}
	}
	log.Tracef("Found %d Google busy periods for %v", len(events), attendees)
	return events, nil
}

// calendarError ignores notFound, which only means the attendee is not a Google
// user. Any other error leaves the attendee's busy time unknown.
func calendarError(calendarId string, errs []*gcal.Error) error {
	for _, calErr := range errs {
		if calErr.Reason == reasonNotFound {
			log.Debugf("No Google calendar for %s", calendarId)
			continue
		}
		return fmt.Errorf("%w: %s: %s", ErrCalendarUnavailable, calendarId, calErr.Reason)
	}
	return nil
}

func busyEvent(calendarId string, period *gcal.TimePeriod) (calendar.Event, error) {
	start, err := time.Parse(time.RFC3339, period.Start)
	if err != nil {
		return calendar.Event{}, err
	}
	end, err := time.Parse(time.RFC3339, period.End)
	if err != nil {
		return calendar.Event{}, err
	}
	return calendar.Event{
		UID:       uuid.NewSHA1(uuid.NameSpaceURL, []byte(calendarId+"/"+period.Start+"/"+period.End)),
		Summary:   busySummary,
		StartTime: start,
		EndTime:   end,
		Attendees: []string{calendarId},
	}, nil
}
