// Package errors provides structured error handling for the registration
// platform.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Conference configuration errors
	CodeConferenceURLEmpty     Code = "CONFERENCE_URL_EMPTY"
	CodeConferenceInvalidQuota Code = "CONFERENCE_INVALID_QUOTA"

	// Registration errors
	CodeRegistrationEmptySessionID Code = "REGISTRATION_EMPTY_SESSION_ID"
	CodeRegistrationEmptyMemberID  Code = "REGISTRATION_EMPTY_MEMBER_ID"
	CodeRegistrationUnknownRoom    Code = "REGISTRATION_UNKNOWN_ROOM_TYPE"

	// Storage errors
	CodeNotFound        Code = "NOT_FOUND"
	CodeVersionConflict Code = "VERSION_CONFLICT"

	// Directory errors
	CodeMemberNotFound Code = "MEMBER_NOT_FOUND"
)
