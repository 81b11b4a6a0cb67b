package http

import (
	"encoding/json"
	"net/http"
	"testing"

	"wayfare/internal/domain"
)

func TestProfileEndpoint_PublicAnonymous(t *testing.T) {
	api := setupAPI(t)
	seedUser(api.store, "u1", domain.StatusActive)

	rec := performRequest(api.router, http.MethodGet, "/users/u1/profile", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Data map[string]any `json:"data"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body.Data["nickname"] != "ana_99" {
		t.Fatalf("expected public profile data, got %v", body.Data)
	}
	if _, ok := body.Data["email"]; ok {
		t.Fatalf("expected email hidden from anonymous viewer")
	}
}

func TestProfileEndpoint_NotFound(t *testing.T) {
	api := setupAPI(t)

	rec := performRequest(api.router, http.MethodGet, "/users/missing/profile", nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestProfileEndpoint_PrivateProfile(t *testing.T) {
	api := setupAPI(t)
	subject := seedUser(api.store, "u1", domain.StatusActive)
	subject.Privacy.ProfileVisibility = domain.VisibilityPrivate
	api.store.users[subject.ID] = subject

	rec := performRequest(api.router, http.MethodGet, "/users/u1/profile", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var body struct {
		Data map[string]any `json:"data"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body.Data["notice"] == nil {
		t.Fatalf("expected private notice, got %v", body.Data)
	}

	// La vista completa de un perfil privado se rechaza.
	rec = performRequest(api.router, http.MethodGet, "/users/u1/profile/complete", nil, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status 403 for private complete view, got %d", rec.Code)
	}
}

func TestProfileEndpoint_CompleteView(t *testing.T) {
	api := setupAPI(t)
	user := seedUser(api.store, "u1", domain.StatusActive)

	rec := performRequest(api.router, http.MethodGet, "/users/u1/profile/complete", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Data map[string]any `json:"data"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	for _, key := range []string{"reviews", "vehicles", "listings"} {
		if _, ok := body.Data[key]; !ok {
			t.Fatalf("expected %q in complete profile", key)
		}
	}

	wantStatuses := map[string]bool{
		domain.TripStatusPublished:  true,
		domain.TripStatusInProgress: true,
		domain.TripStatusCompleted:  true,
	}
	if len(api.trips.lastStatuses) != len(wantStatuses) {
		t.Fatalf("unexpected trip statuses %v", api.trips.lastStatuses)
	}
	for _, status := range api.trips.lastStatuses {
		if !wantStatuses[status] {
			t.Fatalf("unexpected trip status %q", status)
		}
	}

	// El dueño autenticado ve ademas sus conexiones y su billetera via
	// /users/me/profile.
	user.Wallet = domain.Wallet{Balance: 42.5, Currency: "EUR"}
	api.store.users[user.ID] = user
	pair, err := api.jwtSvc.GeneratePair(user)
	if err != nil {
		t.Fatalf("generate pair: %v", err)
	}
	rec = performRequest(api.router, http.MethodGet, "/users/me/profile", nil, bearer(pair.AccessToken))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if _, ok := body.Data["connections"]; !ok {
		t.Fatalf("expected connections in own profile")
	}
	if body.Data["email"] != "ana@x.com" {
		t.Fatalf("expected owner to see own email")
	}
	wallet, ok := body.Data["wallet"].(map[string]any)
	if !ok || wallet["balance"] != 42.5 {
		t.Fatalf("expected owner wallet in own profile, got %v", body.Data["wallet"])
	}
}

func TestProfileEndpoint_MeRequiresAuth(t *testing.T) {
	api := setupAPI(t)

	rec := performRequest(api.router, http.MethodGet, "/users/me/profile", nil, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 for anonymous /users/me/profile, got %d", rec.Code)
	}
}
