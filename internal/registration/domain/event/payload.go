package event

// URLSetPayload captures the payload for config.url_set events.
type URLSetPayload struct {
	URL string `json:"url"`
}

// TimeSetPayload captures the payload for config start/end time events.
type TimeSetPayload struct {
	TimeInMillis int64 `json:"time_in_millis"`
}

// RoomQuotaSetPayload captures the payload for config.room_quota_set events.
type RoomQuotaSetPayload struct {
	RoomType RoomType `json:"room_type"`
	Quota    int      `json:"quota"`
}

// ReservationPayload captures the payload for reservation events, successful
// or declined.
type ReservationPayload struct {
	SessionID string   `json:"session_id"`
	RoomType  RoomType `json:"room_type"`
	Duration  int      `json:"duration"`
}

// WaitinglistReservationPayload captures the payload for waitinglist
// reservation events.
type WaitinglistReservationPayload struct {
	SessionID        string     `json:"session_id"`
	DesiredRoomTypes []RoomType `json:"desired_room_types"`
	Duration         int        `json:"duration"`
}

// ParticipantPayload captures the payload for participant registration events.
type ParticipantPayload struct {
	SessionID string   `json:"session_id,omitempty"`
	MemberID  string   `json:"member_id"`
	RoomType  RoomType `json:"room_type"`
	Duration  int      `json:"duration"`
}

// WaitinglistParticipantPayload captures the payload for waitinglist
// participant events.
type WaitinglistParticipantPayload struct {
	SessionID        string     `json:"session_id,omitempty"`
	MemberID         string     `json:"member_id"`
	DesiredRoomTypes []RoomType `json:"desired_room_types"`
	Duration         int        `json:"duration"`
}

// RoomTypeChangedPayload captures the payload for registration.room_type_changed.
type RoomTypeChangedPayload struct {
	MemberID string   `json:"member_id"`
	RoomType RoomType `json:"room_type"`
}

// DurationChangedPayload captures the payload for registration.duration_changed.
type DurationChangedPayload struct {
	MemberID string `json:"member_id"`
	Duration int    `json:"duration"`
}

// DesiredRoomTypesChangedPayload captures the payload for
// registration.desired_room_types_changed.
type DesiredRoomTypesChangedPayload struct {
	MemberID         string     `json:"member_id"`
	DesiredRoomTypes []RoomType `json:"desired_room_types"`
}

// MemberPayload captures the payload for events addressed to a member with no
// further data, such as declined changes and removals.
type MemberPayload struct {
	MemberID string `json:"member_id"`
}

// PairPayload captures the payload for room pairing events.
type PairPayload struct {
	RoomType       RoomType `json:"room_type"`
	Participant1ID string   `json:"participant1_id"`
	Participant2ID string   `json:"participant2_id"`
}

// PairParticipantPayload captures the payload for pairing events addressed to
// a single participant, such as declined pairings and dissolutions.
type PairParticipantPayload struct {
	RoomType      RoomType `json:"room_type"`
	ParticipantID string   `json:"participant_id"`
}
