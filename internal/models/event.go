package models

import (
	"regexp"
	"strings"
	"time"

	"github.com/baharkarakas/event-hub/internal/validate"
)

type EventType string

const (
	EventWorkshop   EventType = "Workshop"
	EventHackathon  EventType = "Hackathon"
	EventConference EventType = "Conference"
	EventMeetup     EventType = "Meetup"
	EventWebinar    EventType = "Webinar"
	EventOther      EventType = "Other"
)

var EventTypes = []EventType{EventWorkshop, EventHackathon, EventConference, EventMeetup, EventWebinar, EventOther}

func (t EventType) Valid() bool {
	for _, v := range EventTypes {
		if v == t {
			return true
		}
	}
	return false
}

type Event struct {
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	Type          EventType      `json:"type"`
	Date          Date           `json:"date"`
	Time          *string        `json:"time,omitempty"`
	Location      *string        `json:"location,omitempty"`
	ImageURL      *string        `json:"imageUrl,omitempty"`
	OrganizerID   string         `json:"organizerId"`
	Organizer     *UserRef       `json:"organizer,omitempty"`
	Registrations []Registration `json:"registrations,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

var clockRe = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// Validate checks the mandatory fields and the fixed type set.
func (e *Event) Validate() error {
	var clock string
	if e.Time != nil {
		clock = *e.Time
	}
	return validate.Collect(
		validate.Required("title", e.Title),
		validate.Required("description", e.Description),
		validate.Required("type", string(e.Type)),
		validate.Check("type", e.Type == "" || e.Type.Valid(), "unknown event type"),
		validate.Check("date", !e.Date.IsZero(), "required"),
		validate.Match("time", clock, clockRe, "must be HH:mm"),
	)
}

// EventInput is the writable part of an event; nil fields are left untouched on update.
type EventInput struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Type        *EventType `json:"type"`
	Date        *Date      `json:"date"`
	Time        *string    `json:"time"`
	Location    *string    `json:"location"`
	ImageURL    *string    `json:"imageUrl"`
}

// Apply merges the input onto e. Empty optional strings clear the field.
func (in EventInput) Apply(e *Event) {
	if in.Title != nil {
		e.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		e.Description = strings.TrimSpace(*in.Description)
	}
	if in.Type != nil {
		e.Type = *in.Type
	}
	if in.Date != nil {
		e.Date = *in.Date
	}
	e.Time = mergeOptional(e.Time, in.Time)
	e.Location = mergeOptional(e.Location, in.Location)
	e.ImageURL = mergeOptional(e.ImageURL, in.ImageURL)
}

func mergeOptional(cur, in *string) *string {
	if in == nil {
		return cur
	}
	v := strings.TrimSpace(*in)
	if v == "" {
		return nil
	}
	return &v
}

// EventFilter narrows a list; zero value matches everything.
type EventFilter struct {
	Type EventType
}

func (f EventFilter) Apply(events []Event) []Event {
	if f.Type == "" {
		return events
	}
	out := make([]Event, 0, len(events))
	for _, e := range events {
		if e.Type == f.Type {
			out = append(out, e)
		}
	}
	return out
}
