package models

import (
	"strings"
	"testing"
	"time"
)

func TestStatusValid(t *testing.T) {
	if !SubscriptionCancelled.Valid() || SubscriptionStatus("bogus").Valid() {
		t.Fatalf("subscription status check is wrong")
	}
	if !SessionRescheduled.Valid() || SessionStatus("postponed").Valid() {
		t.Fatalf("session status check is wrong")
	}
	if !PaymentRefunded.Valid() || PaymentStatus("settled").Valid() {
		t.Fatalf("payment status check is wrong")
	}
	if !RelationshipCompleted.Valid() || RelationshipStatus("").Valid() {
		t.Fatalf("relationship status check is wrong")
	}

	bad := SubscriptionStatus("bogus")
	if err := (SubscriptionUpdate{Status: &bad}).Validate(); !IsValidation(err) {
		t.Fatalf("expected a validation error, got %v", err)
	}
	if err := (SubscriptionUpdate{}).Validate(); err != nil {
		t.Fatalf("an update without a status should pass, got %v", err)
	}
}

func TestRecordRejectsLongPassword(t *testing.T) {
	_, err := NewUser{
		Email: "a@example.org", Password: strings.Repeat("é", 40), Name: "A", Role: RoleDonor,
	}.Record(time.Now())
	if !IsValidation(err) {
		t.Fatalf("expected a validation error for a 80-byte password, got %v", err)
	}
}
