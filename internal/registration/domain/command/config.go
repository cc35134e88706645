package command

import (
	"sort"
	"strings"
	"time"

	apperrors "github.com/softwerkskammer/socrates-registration/internal/platform/errors"
	"github.com/softwerkskammer/socrates-registration/internal/registration/domain/event"
	"github.com/softwerkskammer/socrates-registration/internal/registration/domain/journal"
)

// ConferenceDetails is one administrator submission of conference
// configuration.
type ConferenceDetails struct {
	URL       string
	StartTime time.Time
	EndTime   time.Time
	Quotas    map[event.RoomType]int
}

// ConfigProcessor translates configuration intents into configuration
// events. It is operated only by trusted administrators and has no
// rejection path, only input validation.
type ConfigProcessor struct {
	journal *journal.Journal
	now     func() time.Time
}

// NewConfigProcessor returns a processor bound to a journal and clock.
func NewConfigProcessor(j *journal.Journal, now func() time.Time) ConfigProcessor {
	return ConfigProcessor{journal: j, now: now}
}

// SetConferenceDetails appends one batch of configuration events covering
// the whole submission: url, start time, end time, and one quota event per
// room type. Quota events append in stable room-type order.
func (p ConfigProcessor) SetConferenceDetails(details ConferenceDetails) (Decision, error) {
	url := strings.TrimSpace(details.URL)
	if url == "" {
		return Decision{}, apperrors.New(apperrors.CodeConferenceURLEmpty, "conference url must not be empty")
	}
	for roomType, quota := range details.Quotas {
		if _, ok := event.NormalizeRoomType(string(roomType)); !ok {
			return Decision{}, apperrors.WithMetadata(apperrors.CodeRegistrationUnknownRoom,
				"unknown room type", map[string]string{"room_type": string(roomType)})
		}
		if quota < 0 {
			return Decision{}, apperrors.WithMetadata(apperrors.CodeConferenceInvalidQuota,
				"room quota must not be negative", map[string]string{"room_type": string(roomType)})
		}
	}

	now := p.now()
	events := []event.Event{
		event.URLSet(now, url),
		event.StartTimeSet(now, details.StartTime),
		event.EndTimeSet(now, details.EndTime),
	}
	roomTypes := make([]event.RoomType, 0, len(details.Quotas))
	for roomType := range details.Quotas {
		roomTypes = append(roomTypes, roomType)
	}
	sort.Slice(roomTypes, func(i, k int) bool { return roomTypes[i] < roomTypes[k] })
	for _, roomType := range roomTypes {
		events = append(events, event.RoomQuotaSet(now, roomType, details.Quotas[roomType]))
	}

	p.journal.AppendConfigEvents(events...)
	return Accept(events...), nil
}
