package projection

import (
	"encoding/json"
	"time"

	"github.com/softwerkskammer/socrates-registration/internal/registration/domain/event"
	"github.com/softwerkskammer/socrates-registration/internal/registration/domain/journal"
)

// Config is the conference-configuration read model.
type Config struct {
	// URL identifies the conference instance.
	URL string
	// StartTime is the conference start.
	StartTime time.Time
	// EndTime is the conference end.
	EndTime time.Time

	quotas map[event.RoomType]int
}

// NewConfig folds the configuration log into the current configuration.
func NewConfig(j *journal.Journal) Config {
	cfg := Config{quotas: make(map[event.RoomType]int)}
	if j == nil {
		return cfg
	}
	for _, evt := range j.ConfigEvents {
		switch evt.Type {
		case event.TypeURLSet:
			var payload event.URLSetPayload
			_ = json.Unmarshal(evt.PayloadJSON, &payload)
			cfg.URL = payload.URL
		case event.TypeStartTimeSet:
			var payload event.TimeSetPayload
			_ = json.Unmarshal(evt.PayloadJSON, &payload)
			cfg.StartTime = time.UnixMilli(payload.TimeInMillis).UTC()
		case event.TypeEndTimeSet:
			var payload event.TimeSetPayload
			_ = json.Unmarshal(evt.PayloadJSON, &payload)
			cfg.EndTime = time.UnixMilli(payload.TimeInMillis).UTC()
		case event.TypeRoomQuotaSet:
			var payload event.RoomQuotaSetPayload
			_ = json.Unmarshal(evt.PayloadJSON, &payload)
			cfg.quotas[payload.RoomType] = payload.Quota
		}
	}
	return cfg
}

// QuotaFor returns the configured capacity for a room type. Room types
// without a quota event have capacity zero.
func (c Config) QuotaFor(roomType event.RoomType) int {
	return c.quotas[roomType]
}

// Quotas returns a copy of all configured quotas.
func (c Config) Quotas() map[event.RoomType]int {
	quotas := make(map[event.RoomType]int, len(c.quotas))
	for roomType, quota := range c.quotas {
		quotas[roomType] = quota
	}
	return quotas
}
