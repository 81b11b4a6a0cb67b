package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"wayfare/internal/domain"
)

// UserRepository define el contrato de persistencia para cuentas.
// Todo lookup excluye cuentas con soft delete salvo GetByID.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, id string) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByPhone(ctx context.Context, phone string) (domain.User, error)
	GetByIdentifier(ctx context.Context, identifier string) (domain.User, error)
	FindConflict(ctx context.Context, email, nickname, phone string) (domain.User, error)
	ExistsEmail(ctx context.Context, email string) (bool, error)
	ExistsNickname(ctx context.Context, nickname string) (bool, error)
	ExistsPhone(ctx context.Context, phone string) (bool, error)

	GetByVerification(ctx context.Context, identifier, code string) (domain.User, error)
	GetByPhoneVerification(ctx context.Context, phone, code string) (domain.User, error)
	GetByVerificationToken(ctx context.Context, token string) (domain.User, error)
	SetVerificationCode(ctx context.Context, id, code string, expires time.Time, method string) error
	MarkVerified(ctx context.Context, id string, verification domain.Verification, verifiedAt time.Time, status string, trustScore int) error

	GetByResetCode(ctx context.Context, email, code string) (domain.User, error)
	SetResetCode(ctx context.Context, id, code string, expires time.Time) error
	ResetPassword(ctx context.Context, id, passwordHash string) error

	IncrementLoginAttempts(ctx context.Context, id string) (int, *time.Time, error)
	RecordLogin(ctx context.Context, id string, at time.Time) error
}

// PgUserRepository implementa UserRepository usando pgxpool.
type PgUserRepository struct {
	pool *pgxpool.Pool
}

func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

const userColumns = `
	id, fullname, nickname, email, phone_number, date_of_birth, gender,
	password_hash, bio, profile_pic, cover_photo, current_location, address,
	verification_email, verification_phone, verification_identity, verified_at, identity_document,
	trust_score, verification_code, verification_expires, verification_method,
	password_reset_code, password_reset_expires, login_attempts, lock_until,
	account_status, is_onboarded, onboarding_step, roles,
	preferences, privacy, notifications,
	driver_profile, passenger_profile, host_profile,
	wallet, stripe_customer_id, stripe_account_id, push_tokens, blocked_users,
	stats, last_login, last_active, deleted_at, created_at, updated_at`

type row interface {
	Scan(dest ...any) error
}

func scanUser(r row) (domain.User, error) {
	var u domain.User
	err := r.Scan(
		&u.ID, &u.Fullname, &u.Nickname, &u.Email, &u.PhoneNumber, &u.DateOfBirth, &u.Gender,
		&u.PasswordHash, &u.Bio, &u.ProfilePic, &u.CoverPhoto, &u.CurrentLocation, &u.Address,
		&u.Verification.Email, &u.Verification.Phone, &u.Verification.Identity, &u.Verification.VerifiedAt, &u.Verification.IdentityDocument,
		&u.TrustScore, &u.VerificationCode, &u.VerificationExpires, &u.VerificationMethod,
		&u.PasswordResetCode, &u.PasswordResetExpires, &u.LoginAttempts, &u.LockUntil,
		&u.AccountStatus, &u.IsOnboarded, &u.OnboardingStep, &u.Roles,
		&u.Preferences, &u.Privacy, &u.Notifications,
		&u.DriverProfile, &u.PassengerProfile, &u.HostProfile,
		&u.Wallet, &u.StripeCustomerID, &u.StripeAccountID, &u.PushTokens, &u.BlockedUsers,
		&u.Stats, &u.LastLogin, &u.LastActive, &u.DeletedAt, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, err
	}
	return u, nil
}

func (r *PgUserRepository) Create(ctx context.Context, u domain.User) error {
	const query = `
		INSERT INTO users (
			id, fullname, nickname, email, phone_number, date_of_birth, gender,
			password_hash, bio, profile_pic, cover_photo, current_location, address,
			verification_email, verification_phone, verification_identity, verified_at, identity_document,
			trust_score, verification_code, verification_expires, verification_method,
			password_reset_code, password_reset_expires, login_attempts, lock_until,
			account_status, is_onboarded, onboarding_step, roles,
			preferences, privacy, notifications,
			driver_profile, passenger_profile, host_profile,
			wallet, stripe_customer_id, stripe_account_id, push_tokens, blocked_users,
			stats, last_login, last_active, deleted_at, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7,
			$8, $9, $10, $11, $12, $13,
			$14, $15, $16, $17, $18,
			$19, $20, $21, $22,
			$23, $24, $25, $26,
			$27, $28, $29, $30,
			$31, $32, $33,
			$34, $35, $36,
			$37, $38, $39, $40, $41,
			$42, $43, $44, $45, $46, $47
		)
	`
	_, err := r.pool.Exec(ctx, query,
		u.ID, u.Fullname, u.Nickname, u.Email, u.PhoneNumber, u.DateOfBirth, u.Gender,
		u.PasswordHash, u.Bio, u.ProfilePic, u.CoverPhoto, u.CurrentLocation, u.Address,
		u.Verification.Email, u.Verification.Phone, u.Verification.Identity, u.Verification.VerifiedAt, u.Verification.IdentityDocument,
		u.TrustScore, u.VerificationCode, u.VerificationExpires, u.VerificationMethod,
		u.PasswordResetCode, u.PasswordResetExpires, u.LoginAttempts, u.LockUntil,
		u.AccountStatus, u.IsOnboarded, u.OnboardingStep, u.Roles,
		u.Preferences, u.Privacy, u.Notifications,
		u.DriverProfile, u.PassengerProfile, u.HostProfile,
		u.Wallet, u.StripeCustomerID, u.StripeAccountID, u.PushTokens, u.BlockedUsers,
		u.Stats, u.LastLogin, u.LastActive, u.DeletedAt, u.CreatedAt, u.UpdatedAt,
	)
	return err
}

func (r *PgUserRepository) GetByID(ctx context.Context, id string) (domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *PgUserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 AND deleted_at IS NULL`
	return scanUser(r.pool.QueryRow(ctx, query, email))
}

func (r *PgUserRepository) GetByPhone(ctx context.Context, phone string) (domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE phone_number = $1 AND deleted_at IS NULL`
	return scanUser(r.pool.QueryRow(ctx, query, phone))
}

func (r *PgUserRepository) GetByIdentifier(ctx context.Context, identifier string) (domain.User, error) {
	query := `SELECT ` + userColumns + `
		FROM users
		WHERE (email = $1 OR nickname = $1 OR phone_number = $2)
		  AND deleted_at IS NULL`
	return scanUser(r.pool.QueryRow(ctx, query, identifier, identifier))
}

func (r *PgUserRepository) FindConflict(ctx context.Context, email, nickname, phone string) (domain.User, error) {
	query := `SELECT ` + userColumns + `
		FROM users
		WHERE (email = $1 OR nickname = $2 OR phone_number = $3)
		  AND deleted_at IS NULL
		LIMIT 1`
	return scanUser(r.pool.QueryRow(ctx, query, email, nickname, phone))
}

func (r *PgUserRepository) existsWhere(ctx context.Context, clause, value string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE ` + clause + ` = $1 AND deleted_at IS NULL)`
	err := r.pool.QueryRow(ctx, query, value).Scan(&exists)
	return exists, err
}

func (r *PgUserRepository) ExistsEmail(ctx context.Context, email string) (bool, error) {
	return r.existsWhere(ctx, "email", email)
}

func (r *PgUserRepository) ExistsNickname(ctx context.Context, nickname string) (bool, error) {
	return r.existsWhere(ctx, "nickname", nickname)
}

func (r *PgUserRepository) ExistsPhone(ctx context.Context, phone string) (bool, error) {
	return r.existsWhere(ctx, "phone_number", phone)
}

func (r *PgUserRepository) GetByVerification(ctx context.Context, identifier, code string) (domain.User, error) {
	query := `SELECT ` + userColumns + `
		FROM users
		WHERE (email = $1 OR phone_number = $1)
		  AND verification_code = $2
		  AND verification_expires > now()
		  AND deleted_at IS NULL`
	return scanUser(r.pool.QueryRow(ctx, query, identifier, code))
}

func (r *PgUserRepository) GetByPhoneVerification(ctx context.Context, phone, code string) (domain.User, error) {
	query := `SELECT ` + userColumns + `
		FROM users
		WHERE phone_number = $1
		  AND verification_code = $2
		  AND verification_expires > now()
		  AND deleted_at IS NULL`
	return scanUser(r.pool.QueryRow(ctx, query, phone, code))
}

// GetByVerificationToken resuelve el enlace de verificacion. Los tokens
// solo se emiten para el canal email; un codigo SMS vivo no debe
// completar este flujo.
func (r *PgUserRepository) GetByVerificationToken(ctx context.Context, token string) (domain.User, error) {
	query := `SELECT ` + userColumns + `
		FROM users
		WHERE verification_code = $1
		  AND verification_method = 'email'
		  AND verification_expires > now()
		  AND deleted_at IS NULL`
	return scanUser(r.pool.QueryRow(ctx, query, token))
}

// SetVerificationCode reemplaza el intento de verificacion abierto;
// el codigo anterior queda invalidado.
func (r *PgUserRepository) SetVerificationCode(ctx context.Context, id, code string, expires time.Time, method string) error {
	const query = `
		UPDATE users
		SET verification_code = $2, verification_expires = $3, verification_method = $4, updated_at = now()
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, id, code, expires, method)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgUserRepository) MarkVerified(ctx context.Context, id string, verification domain.Verification, verifiedAt time.Time, status string, trustScore int) error {
	const query = `
		UPDATE users
		SET verification_email = $2,
		    verification_phone = $3,
		    verification_identity = $4,
		    verified_at = $5,
		    verification_code = '',
		    verification_expires = NULL,
		    verification_method = '',
		    account_status = $6,
		    trust_score = $7,
		    updated_at = now()
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, id,
		verification.Email, verification.Phone, verification.Identity,
		verifiedAt, status, trustScore,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgUserRepository) GetByResetCode(ctx context.Context, email, code string) (domain.User, error) {
	query := `SELECT ` + userColumns + `
		FROM users
		WHERE email = $1
		  AND password_reset_code = $2
		  AND password_reset_expires > now()
		  AND deleted_at IS NULL`
	return scanUser(r.pool.QueryRow(ctx, query, email, code))
}

func (r *PgUserRepository) SetResetCode(ctx context.Context, id, code string, expires time.Time) error {
	const query = `
		UPDATE users
		SET password_reset_code = $2, password_reset_expires = $3, updated_at = now()
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, id, code, expires)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ResetPassword reemplaza la credencial y limpia estado de reset y bloqueo
// en una sola escritura.
func (r *PgUserRepository) ResetPassword(ctx context.Context, id, passwordHash string) error {
	const query = `
		UPDATE users
		SET password_hash = $2,
		    password_reset_code = '',
		    password_reset_expires = NULL,
		    login_attempts = 0,
		    lock_until = NULL,
		    updated_at = now()
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, id, passwordHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// IncrementLoginAttempts aplica el contador de intentos fallidos como una
// unica escritura atomica: al quinto intento fija un bloqueo de 2 horas.
// Un bloqueo ya vencido reinicia el contador en 1.
func (r *PgUserRepository) IncrementLoginAttempts(ctx context.Context, id string) (int, *time.Time, error) {
	const query = `
		UPDATE users
		SET login_attempts = CASE
		        WHEN lock_until IS NOT NULL AND lock_until < now() THEN 1
		        ELSE login_attempts + 1
		    END,
		    lock_until = CASE
		        WHEN lock_until IS NOT NULL AND lock_until < now() THEN NULL
		        WHEN login_attempts + 1 >= 5 AND lock_until IS NULL THEN now() + interval '2 hours'
		        ELSE lock_until
		    END,
		    updated_at = now()
		WHERE id = $1
		RETURNING login_attempts, lock_until
	`
	var attempts int
	var lockUntil *time.Time
	err := r.pool.QueryRow(ctx, query, id).Scan(&attempts, &lockUntil)
	if err != nil {
		return 0, nil, err
	}
	return attempts, lockUntil, nil
}

func (r *PgUserRepository) RecordLogin(ctx context.Context, id string, at time.Time) error {
	const query = `
		UPDATE users
		SET login_attempts = 0,
		    lock_until = NULL,
		    last_login = $2,
		    last_active = $2,
		    updated_at = now()
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, id, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
