package services

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"recruitsite-backend-go/internal/models"
	"recruitsite-backend-go/internal/store"
)

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000Z",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
	"January 2, 2006",
	"Jan 2, 2006",
}

// ParseDate accepts the date spellings the admin editor and older documents use.
func ParseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

func emptySchedule() models.ScheduleData {
	return models.ScheduleData{Events: []models.ScheduleEvent{}}
}

func (c *Content) Schedule(ctx context.Context) models.ScheduleData {
	schedule, _ := readDoc(ctx, c, store.DocSchedule, emptySchedule)
	if schedule.Events == nil {
		schedule.Events = []models.ScheduleEvent{}
	}
	return schedule
}

// ValidEvent reports whether a raw schedule event may be persisted.
func ValidEvent(raw json.RawMessage) bool {
	fields, ok := decodeObject(raw)
	if !ok {
		return false
	}
	id, ok := stringField(fields, "id")
	if !ok || strings.TrimSpace(id) == "" {
		return false
	}
	title, ok := stringField(fields, "title")
	if !ok || strings.TrimSpace(title) == "" {
		return false
	}
	date, ok := stringField(fields, "date")
	if !ok {
		return false
	}
	if _, ok := ParseDate(date); !ok {
		return false
	}
	if rawEnd, present := fields["endDate"]; present && jsonKind(rawEnd) != "null" {
		end, ok := stringField(fields, "endDate")
		if !ok {
			return false
		}
		if end != "" {
			if _, ok := ParseDate(end); !ok {
				return false
			}
		}
	}
	if rawCoach, present := fields["coachAttendance"]; present {
		kind := jsonKind(rawCoach)
		if kind != "bool" && kind != "null" {
			return false
		}
	}
	return true
}

// SaveSchedule persists the valid events of the payload in their original order
// and reports how many were dropped.
func (c *Content) SaveSchedule(ctx context.Context, raw []byte) (models.ScheduleData, int, error) {
	root, ok := decodeObject(raw)
	if !ok || jsonKind(root["events"]) != "array" {
		return models.ScheduleData{}, 0, ErrValidation("Invalid payload: expected { events: [] }")
	}
	var rawEvents []json.RawMessage
	if err := json.Unmarshal(root["events"], &rawEvents); err != nil {
		return models.ScheduleData{}, 0, ErrValidation("Invalid payload: expected { events: [] }")
	}

	schedule := emptySchedule()
	for _, rawEvent := range rawEvents {
		if !ValidEvent(rawEvent) {
			continue
		}
		var event models.ScheduleEvent
		if err := json.Unmarshal(rawEvent, &event); err != nil {
			continue
		}
		schedule.Events = append(schedule.Events, event)
	}
	dropped := len(rawEvents) - len(schedule.Events)
	if dropped > 0 {
		log.Printf("warn: schedule: dropped %d invalid event(s)", dropped)
	}
	if err := writeDoc(ctx, c, store.DocSchedule, schedule); err != nil {
		return models.ScheduleData{}, 0, err
	}
	return schedule, dropped, nil
}
