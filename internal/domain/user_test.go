package domain

import (
	"testing"
	"time"
)

func TestVerificationTrustScore(t *testing.T) {
	for _, email := range []bool{false, true} {
		for _, phone := range []bool{false, true} {
			for _, identity := range []bool{false, true} {
				v := Verification{Email: email, Phone: phone, Identity: identity}
				want := 0
				if email {
					want += 20
				}
				if phone {
					want += 30
				}
				if identity {
					want += 50
				}
				if got := v.TrustScore(); got != want {
					t.Fatalf("TrustScore(%v,%v,%v) = %d, want %d", email, phone, identity, got, want)
				}
			}
		}
	}
}

func TestAgeAtBoundary(t *testing.T) {
	today := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	exactly18 := time.Date(2008, 8, 31, 0, 0, 0, 0, time.UTC)
	if got := AgeAt(exactly18, today); got != 18 {
		t.Fatalf("expected exactly 18, got %d", got)
	}

	// Cumple 18 mañana: todavia 17.
	oneDayShort := time.Date(2008, 9, 1, 0, 0, 0, 0, time.UTC)
	if got := AgeAt(oneDayShort, today); got != 17 {
		t.Fatalf("expected 17 one day before the birthday, got %d", got)
	}
}

func TestIsLocked(t *testing.T) {
	now := time.Now().UTC()
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	u := User{}
	if u.IsLocked(now) {
		t.Fatalf("expected no lock without lock_until")
	}
	u.LockUntil = &past
	if u.IsLocked(now) {
		t.Fatalf("expected expired lock to be inactive")
	}
	u.LockUntil = &future
	if !u.IsLocked(now) {
		t.Fatalf("expected active lock")
	}
}

func TestOverallRating(t *testing.T) {
	u := User{}
	if got := u.OverallRating(); got != 0 {
		t.Fatalf("expected 0 without ratings, got %v", got)
	}
	u.DriverProfile.DriverRating = 4
	u.HostProfile.HostRating = 5
	if got := u.OverallRating(); got != 4.5 {
		t.Fatalf("expected 4.5 ignoring zero ratings, got %v", got)
	}
}

func TestHasRole(t *testing.T) {
	u := User{Roles: []string{RolePassenger, RoleHost}}
	if !u.HasRole(RoleHost) {
		t.Fatalf("expected host role")
	}
	if u.HasRole(RoleDriver) {
		t.Fatalf("did not expect driver role")
	}
	if !u.HasRole(RoleDriver, RolePassenger) {
		t.Fatalf("expected match on any of the given roles")
	}
}
