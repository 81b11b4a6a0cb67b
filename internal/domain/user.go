package domain

import "time"

// Estados de cuenta soportados.
const (
	StatusPending     = "pending"
	StatusActive      = "active"
	StatusSuspended   = "suspended"
	StatusBanned      = "banned"
	StatusDeactivated = "deactivated"
)

// Canales de verificacion.
const (
	VerificationMethodEmail = "email"
	VerificationMethodPhone = "phone"
)

// Roles de usuario.
const (
	RoleDriver    = "driver"
	RolePassenger = "passenger"
	RoleHost      = "host"
	RoleTraveler  = "traveler"
)

// Visibilidad de perfil.
const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
	VisibilityFriends = "friends"
)

// Verification agrupa las señales de identidad confirmadas de una cuenta.
type Verification struct {
	Email            bool       `json:"email"`
	Phone            bool       `json:"phone"`
	Identity         bool       `json:"identity"`
	VerifiedAt       *time.Time `json:"verifiedAt,omitempty"`
	IdentityDocument string     `json:"-"`
}

// TrustScore deriva el puntaje de confianza desde las señales confirmadas.
// Siempre se recalcula, nunca se asigna directamente.
func (v Verification) TrustScore() int {
	score := 0
	if v.Email {
		score += 20
	}
	if v.Phone {
		score += 30
	}
	if v.Identity {
		score += 50
	}
	return score
}

// GeoPoint representa una ubicacion puntual con contexto legible.
type GeoPoint struct {
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	City             string  `json:"city,omitempty"`
	Country          string  `json:"country,omitempty"`
	FormattedAddress string  `json:"formattedAddress,omitempty"`
}

// Address es la direccion postal del usuario.
type Address struct {
	Street     string `json:"street,omitempty"`
	City       string `json:"city,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	State      string `json:"state,omitempty"`
	Country    string `json:"country,omitempty"`
}

// Preferences son las preferencias de viaje del usuario.
type Preferences struct {
	Smoking    string   `json:"smoking"`
	Pets       string   `json:"pets"`
	Music      bool     `json:"music"`
	Chattiness string   `json:"chattiness"`
	Languages  []string `json:"languages,omitempty"`
	Currency   string   `json:"currency"`
}

// DefaultPreferences devuelve los valores por defecto al crear una cuenta.
func DefaultPreferences() Preferences {
	return Preferences{
		Smoking:    "no",
		Pets:       "no",
		Music:      true,
		Chattiness: "moderate",
		Currency:   "EUR",
	}
}

// PrivacySettings controla que partes del perfil ven otros usuarios.
type PrivacySettings struct {
	ProfileVisibility string `json:"profileVisibility"`
	ShowEmail         bool   `json:"showEmail"`
	ShowPhone         bool   `json:"showPhone"`
	ShowLocation      bool   `json:"showLocation"`
	ShowTrips         bool   `json:"showTrips"`
}

// DefaultPrivacySettings devuelve la configuracion de privacidad inicial.
func DefaultPrivacySettings() PrivacySettings {
	return PrivacySettings{
		ProfileVisibility: VisibilityPublic,
		ShowEmail:         false,
		ShowPhone:         false,
		ShowLocation:      true,
		ShowTrips:         true,
	}
}

// NotificationSettings agrupa las preferencias de notificacion por canal.
type NotificationSettings struct {
	Email struct {
		Marketing bool `json:"marketing"`
		Bookings  bool `json:"bookings"`
		Messages  bool `json:"messages"`
		Reviews   bool `json:"reviews"`
		Trips     bool `json:"trips"`
	} `json:"email"`
	Push struct {
		Enabled  bool `json:"enabled"`
		Bookings bool `json:"bookings"`
		Messages bool `json:"messages"`
		Reviews  bool `json:"reviews"`
		Trips    bool `json:"trips"`
	} `json:"push"`
	SMS struct {
		Enabled     bool `json:"enabled"`
		Bookings    bool `json:"bookings"`
		Emergencies bool `json:"emergencies"`
	} `json:"sms"`
}

// PushToken es un token de notificaciones push registrado por dispositivo.
type PushToken struct {
	Token     string    `json:"token"`
	Platform  string    `json:"platform"`
	DeviceID  string    `json:"deviceId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Wallet es el saldo interno del usuario.
type Wallet struct {
	Balance        float64 `json:"balance"`
	Currency       string  `json:"currency"`
	PendingBalance float64 `json:"pendingBalance"`
}

// DriverProfile acumula la actividad del usuario como conductor.
type DriverProfile struct {
	LicenseNumber     string     `json:"-"`
	LicenseExpiry     *time.Time `json:"licenseExpiry,omitempty"`
	LicenseVerified   bool       `json:"licenseVerified"`
	TotalRides        int        `json:"totalRides"`
	CompletedRides    int        `json:"completedRides"`
	CancelledRides    int        `json:"cancelledRides"`
	DriverRating      float64    `json:"driverRating"`
	DriverReviewCount int        `json:"driverReviewCount"`
}

// PassengerProfile acumula la actividad como pasajero.
type PassengerProfile struct {
	TotalTrips           int     `json:"totalTrips"`
	CompletedTrips       int     `json:"completedTrips"`
	CancelledTrips       int     `json:"cancelledTrips"`
	PassengerRating      float64 `json:"passengerRating"`
	PassengerReviewCount int     `json:"passengerReviewCount"`
}

// HostProfile acumula la actividad como anfitrion.
type HostProfile struct {
	TotalBookings   int     `json:"totalBookings"`
	HostRating      float64 `json:"hostRating"`
	HostReviewCount int     `json:"hostReviewCount"`
	ResponseRate    float64 `json:"responseRate"`
	ResponseTime    int     `json:"responseTime,omitempty"`
	IsSuperhost     bool    `json:"isSuperhost"`
}

// Stats resume la actividad agregada del usuario.
type Stats struct {
	TotalDistanceTraveled float64  `json:"totalDistanceTraveled"`
	TotalDistanceDriven   float64  `json:"totalDistanceDriven"`
	CountriesVisited      []string `json:"countriesVisited,omitempty"`
	CitiesVisited         []string `json:"citiesVisited,omitempty"`
	CO2Saved              float64  `json:"co2Saved"`
}

// User es la cuenta central de la plataforma.
type User struct {
	ID          string     `json:"id"`
	Fullname    string     `json:"fullname"`
	Nickname    string     `json:"nickname"`
	Email       string     `json:"email"`
	PhoneNumber string     `json:"phoneNumber"`
	DateOfBirth *time.Time `json:"dateOfBirth,omitempty"`
	Gender      string     `json:"gender,omitempty"`

	PasswordHash string `json:"-"`

	Bio             string    `json:"bio,omitempty"`
	ProfilePic      string    `json:"profilePic,omitempty"`
	CoverPhoto      string    `json:"coverPhoto,omitempty"`
	CurrentLocation *GeoPoint `json:"currentLocation,omitempty"`
	Address         *Address  `json:"address,omitempty"`

	Verification Verification `json:"verification"`
	TrustScore   int          `json:"trustScore"`

	// Intento de verificacion abierto: a lo sumo uno por cuenta.
	VerificationCode    string     `json:"-"`
	VerificationExpires *time.Time `json:"-"`
	VerificationMethod  string     `json:"-"`

	PasswordResetCode    string     `json:"-"`
	PasswordResetExpires *time.Time `json:"-"`

	LoginAttempts int        `json:"-"`
	LockUntil     *time.Time `json:"-"`

	AccountStatus  string `json:"accountStatus"`
	IsOnboarded    bool   `json:"isOnboarded"`
	OnboardingStep int    `json:"onboardingStep"`

	Roles         []string             `json:"roles"`
	Preferences   Preferences          `json:"preferences"`
	Privacy       PrivacySettings      `json:"privacy"`
	Notifications NotificationSettings `json:"notifications"`

	DriverProfile    DriverProfile    `json:"driverProfile"`
	PassengerProfile PassengerProfile `json:"passengerProfile"`
	HostProfile      HostProfile      `json:"hostProfile"`

	Wallet           Wallet      `json:"-"`
	StripeCustomerID string      `json:"-"`
	StripeAccountID  string      `json:"-"`
	PushTokens       []PushToken `json:"-"`
	BlockedUsers     []string    `json:"-"`

	Stats Stats `json:"stats"`

	LastLogin  *time.Time `json:"lastLogin,omitempty"`
	LastActive *time.Time `json:"lastActive,omitempty"`
	DeletedAt  *time.Time `json:"-"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// IsLocked indica si la cuenta tiene un bloqueo vigente.
func (u *User) IsLocked(now time.Time) bool {
	return u.LockUntil != nil && u.LockUntil.After(now)
}

// HasRole indica si el usuario tiene alguno de los roles dados.
func (u *User) HasRole(roles ...string) bool {
	for _, want := range roles {
		for _, have := range u.Roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

// AgeAt calcula la edad en años calendario a la fecha dada.
func AgeAt(birth, now time.Time) int {
	age := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	return age
}

// OverallRating promedia las calificaciones no nulas de los tres perfiles.
func (u *User) OverallRating() float64 {
	var sum float64
	var n int
	for _, r := range []float64{u.DriverProfile.DriverRating, u.PassengerProfile.PassengerRating, u.HostProfile.HostRating} {
		if r > 0 {
			sum += r
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
