package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"wayfare/internal/domain"
	"wayfare/internal/repository"
)

// ProfileService arma las vistas de perfil publico, completo y propio,
// aplicando el filtro de privacidad antes de exponer la cuenta.
type ProfileService struct {
	logger      *zap.Logger
	users       repository.UserRepository
	trips       repository.TripRepository
	bookings    repository.BookingRepository
	reviews     repository.ReviewRepository
	vehicles    repository.VehicleRepository
	listings    repository.ListingRepository
	connections repository.ConnectionRepository
}

func NewProfileService(
	logger *zap.Logger,
	users repository.UserRepository,
	trips repository.TripRepository,
	bookings repository.BookingRepository,
	reviews repository.ReviewRepository,
	vehicles repository.VehicleRepository,
	listings repository.ListingRepository,
	connections repository.ConnectionRepository,
) *ProfileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileService{
		logger:      logger,
		users:       users,
		trips:       trips,
		bookings:    bookings,
		reviews:     reviews,
		vehicles:    vehicles,
		listings:    listings,
		connections: connections,
	}
}

// ErrProfilePrivate marca el acceso a la actividad de un perfil privado.
var ErrProfilePrivate = errors.New("this profile is private")

const activityLimit = 20

// PublicProfile devuelve la proyeccion filtrada de la cuenta, con las
// reseñas visibles recibidas.
func (s *ProfileService) PublicProfile(ctx context.Context, subjectID string, viewer *domain.User) (map[string]any, error) {
	subject, err := s.lookup(ctx, subjectID)
	if err != nil {
		return nil, err
	}

	projection, err := FilterProfile(subject, viewer)
	if err != nil {
		return nil, err
	}

	if !isPrivateFor(subject, viewer) {
		reviews, err := s.reviews.ListReceived(ctx, subject.ID, activityLimit)
		if err != nil {
			return nil, err
		}
		projection["reviews"] = reviews
		projection["overallRating"] = subject.OverallRating()
	}
	return projection, nil
}

// CompleteProfile agrega la actividad del sujeto: viajes publicados,
// reservas, reseñas en ambas direcciones, vehiculos y alojamientos.
// Un perfil privado rechaza la vista completa salvo para su dueño.
func (s *ProfileService) CompleteProfile(ctx context.Context, subjectID string, viewer *domain.User) (map[string]any, error) {
	subject, err := s.lookup(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	if isPrivateFor(subject, viewer) {
		return nil, ErrProfilePrivate
	}

	projection, err := FilterProfile(subject, viewer)
	if err != nil {
		return nil, err
	}

	if subject.Privacy.ShowTrips || isOwner(subject, viewer) {
		trips, err := s.trips.ListByDriver(ctx, subject.ID, []string{domain.TripStatusPublished, domain.TripStatusInProgress, domain.TripStatusCompleted}, activityLimit)
		if err != nil {
			return nil, err
		}
		projection["trips"] = trips
	}

	bookings, err := s.bookings.ListByGuest(ctx, subject.ID, activityLimit)
	if err != nil {
		return nil, err
	}
	received, err := s.reviews.ListReceived(ctx, subject.ID, activityLimit)
	if err != nil {
		return nil, err
	}
	given, err := s.reviews.ListGiven(ctx, subject.ID, activityLimit)
	if err != nil {
		return nil, err
	}
	vehicles, err := s.vehicles.ListActiveByOwner(ctx, subject.ID)
	if err != nil {
		return nil, err
	}
	listings, err := s.listings.ListPublishedByHost(ctx, subject.ID, activityLimit)
	if err != nil {
		return nil, err
	}

	projection["bookings"] = bookings
	projection["reviews"] = map[string]any{
		"received": received,
		"given":    given,
	}
	projection["vehicles"] = vehicles
	projection["listings"] = listings
	projection["overallRating"] = subject.OverallRating()
	return projection, nil
}

// OwnProfile devuelve el documento completo del dueño con sus conexiones.
func (s *ProfileService) OwnProfile(ctx context.Context, owner domain.User) (map[string]any, error) {
	projection, err := s.CompleteProfile(ctx, owner.ID, &owner)
	if err != nil {
		return nil, err
	}
	connections, err := s.connections.ListForUser(ctx, owner.ID, activityLimit)
	if err != nil {
		return nil, err
	}
	projection["connections"] = connections
	return projection, nil
}

func (s *ProfileService) lookup(ctx context.Context, id string) (domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	if user.DeletedAt != nil {
		return domain.User{}, ErrUserNotFound
	}
	return user, nil
}

func isOwner(subject domain.User, viewer *domain.User) bool {
	return viewer != nil && viewer.ID == subject.ID
}

func isPrivateFor(subject domain.User, viewer *domain.User) bool {
	return subject.Privacy.ProfileVisibility == domain.VisibilityPrivate && !isOwner(subject, viewer)
}
