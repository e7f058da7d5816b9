package calendar

import (
	"context"
	"fmt"
	"time"

	"turnero/models"

	"github.com/google/uuid"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// Provider is the external calendar contract: busy intervals over a range
// and event creation. Both are bounded, best-effort network calls.
type Provider interface {
	FreeBusy(ctx context.Context, calendarID string, from, to time.Time) ([]models.Slot, error)
	CreateEvent(ctx context.Context, calendarID, summary string, start, end time.Time) (string, error)
}

// GoogleProvider implements Provider on the Google Calendar API.
type GoogleProvider struct {
	svc *gcal.Service
}

func NewGoogleProvider(ctx context.Context, opts ...option.ClientOption) (*GoogleProvider, error) {
	svc, err := gcal.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}
	return &GoogleProvider{svc: svc}, nil
}

func calendarOrPrimary(id string) string {
	if id == "" {
		return "primary"
	}
	return id
}

func (g *GoogleProvider) FreeBusy(ctx context.Context, calendarID string, from, to time.Time) ([]models.Slot, error) {
	id := calendarOrPrimary(calendarID)
	req := &gcal.FreeBusyRequest{
		TimeMin: from.Format(time.RFC3339),
		TimeMax: to.Format(time.RFC3339),
		Items:   []*gcal.FreeBusyRequestItem{{Id: id}},
	}
	resp, err := g.svc.Freebusy.Query(req).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("freebusy query failed: %w", err)
	}

	cal, ok := resp.Calendars[id]
	if !ok {
		return nil, nil
	}
	busy := make([]models.Slot, 0, len(cal.Busy))
	for _, b := range cal.Busy {
		start, err1 := time.Parse(time.RFC3339, b.Start)
		end, err2 := time.Parse(time.RFC3339, b.End)
		if err1 != nil || err2 != nil {
			continue
		}
		busy = append(busy, models.Slot{StartUTC: start.UTC(), EndUTC: end.UTC()})
	}
	return busy, nil
}

func (g *GoogleProvider) CreateEvent(ctx context.Context, calendarID, summary string, start, end time.Time) (string, error) {
	event := &gcal.Event{
		Summary: summary,
		Start:   &gcal.EventDateTime{DateTime: start.UTC().Format(time.RFC3339), TimeZone: "UTC"},
		End:     &gcal.EventDateTime{DateTime: end.UTC().Format(time.RFC3339), TimeZone: "UTC"},
	}
	created, err := g.svc.Events.Insert(calendarOrPrimary(calendarID), event).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("event insert failed: %w", err)
	}
	return created.Id, nil
}

// SimulatedProvider stands in when no real calendar integration exists: no
// busy time, synthetic event ids.
type SimulatedProvider struct{}

func (SimulatedProvider) FreeBusy(context.Context, string, time.Time, time.Time) ([]models.Slot, error) {
	return nil, nil
}

func (SimulatedProvider) CreateEvent(context.Context, string, string, time.Time, time.Time) (string, error) {
	return "simulated-" + uuid.New().String(), nil
}
