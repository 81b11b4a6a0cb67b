package service

import (
	"testing"
	"time"

	"wayfare/internal/domain"
)

func filterSubject() domain.User {
	locked := time.Now().UTC().Add(time.Hour)
	loc := &domain.GeoPoint{Latitude: 48.85, Longitude: 2.35, City: "Paris"}
	return domain.User{
		ID:           "subject",
		Fullname:     "Ana Lee",
		Nickname:     "ana_99",
		Email:        "ana@x.com",
		PhoneNumber:  "+15551234567",
		ProfilePic:   "https://cdn.example.com/ana.jpg",
		PasswordHash: "$2a$10$hash",
		CurrentLocation: loc,
		Address:      &domain.Address{City: "Paris", Country: "FR"},
		Privacy:      domain.DefaultPrivacySettings(),
		Wallet:       domain.Wallet{Balance: 120, Currency: "EUR"},
		BlockedUsers: []string{"u9"},
		LockUntil:    &locked,
		AccountStatus: domain.StatusActive,
	}
}

func TestFilterProfile_OwnerSeesEverything(t *testing.T) {
	subject := filterSubject()
	viewer := subject

	projection, err := FilterProfile(subject, &viewer)
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if projection["email"] != "ana@x.com" {
		t.Fatalf("expected owner to see email, got %v", projection["email"])
	}
	if projection["phoneNumber"] != "+15551234567" {
		t.Fatalf("expected owner to see phone")
	}
	wallet, ok := projection["wallet"].(domain.Wallet)
	if !ok || wallet.Balance != 120 || wallet.Currency != "EUR" {
		t.Fatalf("expected owner to see wallet, got %v", projection["wallet"])
	}
	blocked, ok := projection["blockedUsers"].([]string)
	if !ok || len(blocked) != 1 || blocked[0] != "u9" {
		t.Fatalf("expected owner to see blocked users, got %v", projection["blockedUsers"])
	}
	if _, ok := projection["pushTokens"]; !ok {
		t.Fatalf("expected owner to see push tokens")
	}
}

func TestFilterProfile_TogglesHideFields(t *testing.T) {
	subject := filterSubject()
	viewer := domain.User{ID: "viewer"}

	projection, err := FilterProfile(subject, &viewer)
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	// Defaults: showEmail=false, showPhone=false, showLocation=true.
	if _, ok := projection["email"]; ok {
		t.Fatalf("expected email hidden by toggle")
	}
	if _, ok := projection["phoneNumber"]; ok {
		t.Fatalf("expected phone hidden by toggle")
	}
	if _, ok := projection["currentLocation"]; !ok {
		t.Fatalf("expected location visible with showLocation=true")
	}

	subject.Privacy.ShowEmail = true
	subject.Privacy.ShowLocation = false
	projection, err = FilterProfile(subject, &viewer)
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if projection["email"] != "ana@x.com" {
		t.Fatalf("expected email visible with showEmail=true")
	}
	if _, ok := projection["currentLocation"]; ok {
		t.Fatalf("expected location hidden with showLocation=false")
	}
	if _, ok := projection["address"]; ok {
		t.Fatalf("expected address hidden with showLocation=false")
	}
}

func TestFilterProfile_PrivateProfileShortCircuits(t *testing.T) {
	subject := filterSubject()
	subject.Privacy.ProfileVisibility = domain.VisibilityPrivate
	subject.Privacy.ShowEmail = true
	viewer := domain.User{ID: "viewer"}

	projection, err := FilterProfile(subject, &viewer)
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if projection["notice"] != PrivateProfileNotice {
		t.Fatalf("expected private notice, got %v", projection["notice"])
	}
	want := map[string]bool{"id": true, "fullname": true, "nickname": true, "profilePic": true, "notice": true}
	for key := range projection {
		if !want[key] {
			t.Fatalf("unexpected field %q in private projection", key)
		}
	}

	// El dueño sigue viendo todo aunque su perfil sea privado.
	owner := subject
	projection, err = FilterProfile(subject, &owner)
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if projection["email"] != "ana@x.com" {
		t.Fatalf("expected owner to bypass private visibility")
	}
}

func TestFilterProfile_SensitiveFieldsNeverLeak(t *testing.T) {
	subject := filterSubject()
	subject.Privacy.ShowEmail = true
	subject.Privacy.ShowPhone = true

	credentialKeys := []string{
		"passwordHash", "password_hash", "verificationCode", "passwordResetCode",
		"loginAttempts", "lockUntil", "stripeCustomerId", "stripeAccountId",
	}

	for _, viewer := range []*domain.User{nil, {ID: "viewer"}} {
		projection, err := FilterProfile(subject, viewer)
		if err != nil {
			t.Fatalf("filter: %v", err)
		}
		for _, key := range append(credentialKeys, "wallet", "pushTokens", "blockedUsers") {
			if _, ok := projection[key]; ok {
				t.Fatalf("sensitive field %q leaked for viewer %+v", key, viewer)
			}
		}
	}

	// El dueño recupera billetera, bloqueados y push tokens, pero nunca
	// el estado de credenciales.
	owner := subject
	projection, err := FilterProfile(subject, &owner)
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	for _, key := range credentialKeys {
		if _, ok := projection[key]; ok {
			t.Fatalf("credential field %q leaked to owner", key)
		}
	}
	for _, key := range []string{"wallet", "pushTokens", "blockedUsers"} {
		if _, ok := projection[key]; !ok {
			t.Fatalf("expected owner-only field %q present", key)
		}
	}
}

func TestFilterProfile_AnonymousViewer(t *testing.T) {
	subject := filterSubject()

	projection, err := FilterProfile(subject, nil)
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if _, ok := projection["email"]; ok {
		t.Fatalf("expected email hidden from anonymous viewer")
	}
	if projection["nickname"] != "ana_99" {
		t.Fatalf("expected public fields for anonymous viewer")
	}
}
