package command

import (
	"testing"

	"github.com/softwerkskammer/socrates-registration/internal/registration/domain/event"
)

func TestDecision_RejectedAndRejections(t *testing.T) {
	accepted := Accept(event.ReservationIssued(testNow, "s1", event.RoomTypeSingle, 2))
	if accepted.Rejected() || !accepted.Accepted() {
		t.Fatal("reservation issued is not a rejection")
	}

	mixed := Accept(
		event.PairNotAdded(testNow, event.RoomTypeSingle, "m1"),
		event.PairNotAdded(testNow, event.RoomTypeSingle, "m2"),
	)
	if !mixed.Rejected() {
		t.Fatal("pair-not-added is a rejection")
	}
	if got := len(mixed.Rejections()); got != 2 {
		t.Fatalf("rejections = %d, want 2", got)
	}
}

func TestDecision_DissolvedPairIsNotARejection(t *testing.T) {
	decision := Accept(
		event.ParticipantRemoved(testNow, "m1"),
		event.PairDissolved(testNow, event.RoomTypeBedInDouble, "m1"),
	)
	if decision.Rejected() {
		t.Fatal("a dissolved pair records a consequence, not a declined command")
	}
}
