package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"wayfare/internal/domain"
	"wayfare/internal/email"
	"wayfare/internal/repository"
	"wayfare/internal/sms"
)

// AccountService coordina el ciclo de vida de cuentas: alta, verificacion,
// inicio de sesion, bloqueo y recuperacion de contraseña.
type AccountService struct {
	logger        *zap.Logger
	users         repository.UserRepository
	emailSender   email.Sender
	smsSender     sms.Sender
	resendLimiter ResendLimiter
}

func NewAccountService(logger *zap.Logger, users repository.UserRepository, emailSender email.Sender, smsSender sms.Sender, resendLimiter ResendLimiter) *AccountService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if resendLimiter == nil {
		resendLimiter = NewResendLimiter(verificationTTL, 3)
	}
	return &AccountService{
		logger:        logger,
		users:         users,
		emailSender:   emailSender,
		smsSender:     smsSender,
		resendLimiter: resendLimiter,
	}
}

const (
	verificationTTL = 30 * time.Minute
	minPasswordLen  = 6
	minSignupAge    = 18
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrCodeInvalid        = errors.New("invalid or expired verification code")
	ErrResetCodeInvalid   = errors.New("invalid or expired reset code")
	ErrAlreadyVerified    = errors.New("account is already verified")
	ErrAccountSuspended   = errors.New("your account has been suspended, please contact support")
	ErrAccountBanned      = errors.New("your account has been banned, please contact support")
	ErrAccountDeactivated = errors.New("your account has been deactivated, please contact support to reactivate")
	ErrDispatchFailed     = errors.New("failed to send verification code")
	ErrRateLimited        = errors.New("rate limited")
)

// ValidationError marca entrada invalida con el campo ofensor.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ConflictError marca una colision de unicidad con el campo ofensor.
type ConflictError struct {
	Field   string
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// LockedError marca una cuenta bloqueada temporalmente por intentos fallidos.
type LockedError struct {
	Until time.Time
}

func (e *LockedError) Error() string {
	return "account is temporarily locked due to multiple failed login attempts"
}

// NeedsVerificationError marca un inicio de sesion sobre una cuenta pendiente.
type NeedsVerificationError struct {
	Method string
}

func (e *NeedsVerificationError) Error() string {
	return "please verify your email or phone number before signing in"
}

// GenericResetMessage no revela si la cuenta existe.
const GenericResetMessage = "If an account exists with this email, a password reset code will be sent"

var (
	emailRegex    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	nicknameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)
	phoneRegex    = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)
	phoneStripper = strings.NewReplacer(" ", "", "(", "", ")", "", "-", "")
)

// AvailabilityField enumera los campos consultables por disponibilidad.
type AvailabilityField string

const (
	FieldNickname    AvailabilityField = "nickname"
	FieldEmail       AvailabilityField = "email"
	FieldPhoneNumber AvailabilityField = "phoneNumber"
)

// CheckAvailability indica si el valor esta libre para el campo dado.
// El despacho es por enum explicito; un campo desconocido es error de validacion.
func (s *AccountService) CheckAvailability(ctx context.Context, field AvailabilityField, value string) (bool, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return false, &ValidationError{Field: string(field), Message: "Field and value are required"}
	}

	var exists bool
	var err error
	switch field {
	case FieldNickname:
		exists, err = s.users.ExistsNickname(ctx, strings.ToLower(value))
	case FieldEmail:
		exists, err = s.users.ExistsEmail(ctx, strings.ToLower(value))
	case FieldPhoneNumber:
		exists, err = s.users.ExistsPhone(ctx, value)
	default:
		return false, &ValidationError{Field: string(field), Message: "Invalid field"}
	}
	if err != nil {
		return false, err
	}
	return !exists, nil
}

// SignupInput es la entrada de alta de cuenta.
type SignupInput struct {
	Fullname           string
	Nickname           string
	Email              string
	Password           string
	PhoneNumber        string
	DateOfBirth        *time.Time
	Gender             string
	VerificationMethod string
}

// Signup valida la entrada, crea la cuenta en estado pendiente y emite el
// codigo o token de verificacion. El fallo de envio se registra pero no
// hace fallar el alta.
func (s *AccountService) Signup(ctx context.Context, input SignupInput) (domain.User, error) {
	fullname := strings.TrimSpace(input.Fullname)
	nickname := strings.TrimSpace(input.Nickname)
	emailAddr := strings.ToLower(strings.TrimSpace(input.Email))
	phone := strings.TrimSpace(input.PhoneNumber)
	method := strings.TrimSpace(input.VerificationMethod)

	if fullname == "" || nickname == "" || emailAddr == "" || input.Password == "" || phone == "" {
		return domain.User{}, &ValidationError{Message: "Please provide all required fields"}
	}
	if method != domain.VerificationMethodEmail && method != domain.VerificationMethodPhone {
		return domain.User{}, &ValidationError{Field: "verificationMethod", Message: "Please select a verification method (email or phone)"}
	}
	if !emailRegex.MatchString(emailAddr) {
		return domain.User{}, &ValidationError{Field: "email", Message: "Invalid email format"}
	}
	if len(input.Password) < minPasswordLen {
		return domain.User{}, &ValidationError{Field: "password", Message: "Password must be at least 6 characters"}
	}
	if !nicknameRegex.MatchString(nickname) {
		return domain.User{}, &ValidationError{Field: "nickname", Message: "Nickname must be 3-20 characters and contain only letters, numbers and underscores"}
	}
	if !phoneRegex.MatchString(phoneStripper.Replace(phone)) {
		return domain.User{}, &ValidationError{Field: "phoneNumber", Message: "Invalid phone number format"}
	}
	if input.DateOfBirth != nil {
		if domain.AgeAt(*input.DateOfBirth, time.Now().UTC()) < minSignupAge {
			return domain.User{}, &ValidationError{Field: "dateOfBirth", Message: "You must be at least 18 years old to register"}
		}
	}

	nickname = strings.ToLower(nickname)

	existing, err := s.users.FindConflict(ctx, emailAddr, nickname, phone)
	if err == nil {
		return domain.User{}, conflictFor(existing, emailAddr, nickname, phone)
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, err
	}

	hashBytes, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, err
	}

	code, err := generateChannelSecret(method)
	if err != nil {
		return domain.User{}, err
	}
	expires := time.Now().UTC().Add(verificationTTL)
	now := time.Now().UTC()

	user := domain.User{
		ID:                  uuid.NewString(),
		Fullname:            fullname,
		Nickname:            nickname,
		Email:               emailAddr,
		PhoneNumber:         phone,
		DateOfBirth:         input.DateOfBirth,
		Gender:              strings.TrimSpace(input.Gender),
		PasswordHash:        string(hashBytes),
		AccountStatus:       domain.StatusPending,
		IsOnboarded:         false,
		OnboardingStep:      0,
		VerificationCode:    code,
		VerificationExpires: &expires,
		VerificationMethod:  method,
		Roles:               []string{domain.RolePassenger},
		Preferences:         domain.DefaultPreferences(),
		Privacy:             domain.DefaultPrivacySettings(),
		Wallet:              domain.Wallet{Currency: "EUR"},
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return domain.User{}, err
	}

	if err := s.dispatchVerification(ctx, user, code); err != nil {
		s.logger.Warn("verification dispatch failed",
			zap.Error(err),
			zap.String("method", method),
			zap.String("user_id", user.ID),
		)
	}

	return user, nil
}

func conflictFor(existing domain.User, email, nickname, phone string) error {
	switch {
	case existing.Email == email:
		return &ConflictError{Field: "email", Message: "Email is already registered"}
	case existing.Nickname == nickname:
		return &ConflictError{Field: "nickname", Message: "Nickname is already taken"}
	case existing.PhoneNumber == phone:
		return &ConflictError{Field: "phoneNumber", Message: "Phone number is already registered"}
	default:
		return &ConflictError{Message: "Account already exists"}
	}
}

// dispatchVerification envia el secreto por el canal elegido.
func (s *AccountService) dispatchVerification(ctx context.Context, user domain.User, secret string) error {
	switch user.VerificationMethod {
	case domain.VerificationMethodEmail:
		if s.emailSender == nil {
			return errors.New("email sender not configured")
		}
		return s.emailSender.SendVerificationLink(ctx, user.Email, user.Fullname, secret)
	case domain.VerificationMethodPhone:
		if s.smsSender == nil {
			return errors.New("sms sender not configured")
		}
		return s.smsSender.SendVerificationCode(ctx, user.PhoneNumber, secret)
	default:
		return fmt.Errorf("unknown verification method %q", user.VerificationMethod)
	}
}

// VerifyCode completa la verificacion del canal pendiente. La respuesta de
// fallo es identica para cuenta inexistente y codigo invalido o vencido.
func (s *AccountService) VerifyCode(ctx context.Context, identifier, code string) (domain.User, error) {
	identifier = strings.ToLower(strings.TrimSpace(identifier))
	code = strings.TrimSpace(code)
	if identifier == "" || code == "" {
		return domain.User{}, &ValidationError{Message: "Identifier (email or phone) and verification code are required"}
	}

	user, err := s.users.GetByVerification(ctx, identifier, code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrCodeInvalid
		}
		return domain.User{}, err
	}

	channel := user.VerificationMethod
	if channel == "" {
		if strings.Contains(identifier, "@") {
			channel = domain.VerificationMethodEmail
		} else {
			channel = domain.VerificationMethodPhone
		}
	}
	return s.completeVerification(ctx, user, channel)
}

// VerifyEmailToken completa la verificacion por enlace de correo.
func (s *AccountService) VerifyEmailToken(ctx context.Context, token string) (domain.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.User{}, &ValidationError{Message: "Verification token is required"}
	}
	user, err := s.users.GetByVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrCodeInvalid
		}
		return domain.User{}, err
	}
	return s.completeVerification(ctx, user, domain.VerificationMethodEmail)
}

// VerifyPhone completa la verificacion por SMS.
func (s *AccountService) VerifyPhone(ctx context.Context, phone, code string) (domain.User, error) {
	phone = strings.TrimSpace(phone)
	code = strings.TrimSpace(code)
	if phone == "" || code == "" {
		return domain.User{}, &ValidationError{Message: "Phone number and verification code are required"}
	}
	user, err := s.users.GetByPhoneVerification(ctx, phone, code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrCodeInvalid
		}
		return domain.User{}, err
	}
	return s.completeVerification(ctx, user, domain.VerificationMethodPhone)
}

// completeVerification marca el canal, recalcula el puntaje de confianza,
// limpia el intento abierto y promueve cuentas pendientes a activas.
// El correo de bienvenida es best effort.
func (s *AccountService) completeVerification(ctx context.Context, user domain.User, channel string) (domain.User, error) {
	verifiedAt := time.Now().UTC()

	verification := user.Verification
	switch channel {
	case domain.VerificationMethodEmail:
		verification.Email = true
	case domain.VerificationMethodPhone:
		verification.Phone = true
	}
	verification.VerifiedAt = &verifiedAt

	status := user.AccountStatus
	if status == domain.StatusPending {
		status = domain.StatusActive
	}
	trustScore := verification.TrustScore()

	if err := s.users.MarkVerified(ctx, user.ID, verification, verifiedAt, status, trustScore); err != nil {
		return domain.User{}, err
	}

	user.Verification = verification
	user.AccountStatus = status
	user.TrustScore = trustScore
	user.VerificationCode = ""
	user.VerificationExpires = nil
	user.VerificationMethod = ""

	if s.emailSender != nil && user.Email != "" {
		if err := s.emailSender.SendWelcome(ctx, user.Email, user.Fullname); err != nil {
			s.logger.Warn("welcome email failed", zap.Error(err), zap.String("user_id", user.ID))
		}
	}

	return user, nil
}

// ResendVerification reemite el secreto de verificacion hacia el canal
// pendiente, buscando por el identificador realmente suministrado.
// A diferencia del alta, el fallo de envio si se reporta.
func (s *AccountService) ResendVerification(ctx context.Context, identifier string) error {
	identifier = strings.ToLower(strings.TrimSpace(identifier))
	if identifier == "" {
		return &ValidationError{Message: "Email or phone number is required"}
	}
	if s.resendLimiter != nil && !s.resendLimiter.Allow(identifier) {
		return ErrRateLimited
	}

	user, err := s.users.GetByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUserNotFound
		}
		return err
	}
	if user.Verification.Email && user.Verification.Phone {
		return ErrAlreadyVerified
	}

	method := user.VerificationMethod
	if method == "" {
		if strings.Contains(identifier, "@") {
			method = domain.VerificationMethodEmail
		} else {
			method = domain.VerificationMethodPhone
		}
	}
	return s.reissue(ctx, user, method)
}

// ResendVerificationEmail reemite el enlace de verificacion de correo.
func (s *AccountService) ResendVerificationEmail(ctx context.Context, emailAddr string) error {
	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))
	if emailAddr == "" {
		return &ValidationError{Message: "Email is required"}
	}
	if s.resendLimiter != nil && !s.resendLimiter.Allow(emailAddr) {
		return ErrRateLimited
	}

	user, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUserNotFound
		}
		return err
	}
	if user.Verification.Email {
		return ErrAlreadyVerified
	}
	return s.reissue(ctx, user, domain.VerificationMethodEmail)
}

// ResendVerificationPhone reemite el codigo de verificacion por SMS.
func (s *AccountService) ResendVerificationPhone(ctx context.Context, phone string) error {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return &ValidationError{Message: "Phone number is required"}
	}
	if s.resendLimiter != nil && !s.resendLimiter.Allow(phone) {
		return ErrRateLimited
	}

	user, err := s.users.GetByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUserNotFound
		}
		return err
	}
	if user.Verification.Phone {
		return ErrAlreadyVerified
	}
	return s.reissue(ctx, user, domain.VerificationMethodPhone)
}

// reissue emite un secreto nuevo, invalidando cualquier anterior, y lo envia.
func (s *AccountService) reissue(ctx context.Context, user domain.User, method string) error {
	secret, err := generateChannelSecret(method)
	if err != nil {
		return err
	}
	expires := time.Now().UTC().Add(verificationTTL)

	if err := s.users.SetVerificationCode(ctx, user.ID, secret, expires, method); err != nil {
		return err
	}

	user.VerificationMethod = method
	if err := s.dispatchVerification(ctx, user, secret); err != nil {
		s.logger.Warn("resend dispatch failed", zap.Error(err), zap.String("user_id", user.ID))
		return fmt.Errorf("%w: %v", ErrDispatchFailed, err)
	}
	return nil
}

// Signin autentica por email, nickname o telefono, aplicando bloqueo por
// intentos fallidos. Nunca distingue identificador desconocido de
// contraseña incorrecta.
func (s *AccountService) Signin(ctx context.Context, identifier, password string) (domain.User, error) {
	identifier = strings.ToLower(strings.TrimSpace(identifier))
	if identifier == "" || password == "" {
		return domain.User{}, &ValidationError{Message: "Please provide identifier (email/nickname/phone) and password"}
	}

	user, err := s.users.GetByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}

	now := time.Now().UTC()
	if user.IsLocked(now) {
		return domain.User{}, &LockedError{Until: *user.LockUntil}
	}

	switch user.AccountStatus {
	case domain.StatusSuspended:
		return domain.User{}, ErrAccountSuspended
	case domain.StatusBanned:
		return domain.User{}, ErrAccountBanned
	case domain.StatusDeactivated:
		return domain.User{}, ErrAccountDeactivated
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if _, _, incErr := s.users.IncrementLoginAttempts(ctx, user.ID); incErr != nil {
			s.logger.Error("login attempt increment failed", zap.Error(incErr), zap.String("user_id", user.ID))
		}
		return domain.User{}, ErrInvalidCredentials
	}

	if user.AccountStatus == domain.StatusPending {
		return domain.User{}, &NeedsVerificationError{Method: user.VerificationMethod}
	}

	if err := s.users.RecordLogin(ctx, user.ID, now); err != nil {
		return domain.User{}, err
	}
	user.LoginAttempts = 0
	user.LockUntil = nil
	user.LastLogin = &now
	user.LastActive = &now

	return user, nil
}

// ForgotPassword emite un codigo de reseteo si la cuenta existe. La
// respuesta al llamador es siempre la misma para no permitir enumeracion,
// pero un fallo de envio del correo si se reporta como error.
func (s *AccountService) ForgotPassword(ctx context.Context, emailAddr string) error {
	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))
	if emailAddr == "" {
		return &ValidationError{Message: "Email is required"}
	}

	user, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return err
	}

	code, err := generateVerificationCode()
	if err != nil {
		return err
	}
	expires := time.Now().UTC().Add(verificationTTL)

	if err := s.users.SetResetCode(ctx, user.ID, code, expires); err != nil {
		return err
	}

	if s.emailSender == nil {
		return ErrDispatchFailed
	}
	if err := s.emailSender.SendPasswordReset(ctx, user.Email, user.Fullname, code); err != nil {
		s.logger.Warn("password reset email failed", zap.Error(err), zap.String("user_id", user.ID))
		return fmt.Errorf("%w: %v", ErrDispatchFailed, err)
	}
	return nil
}

// VerifyResetCode valida un codigo de reseteo vigente sin mutar estado.
func (s *AccountService) VerifyResetCode(ctx context.Context, emailAddr, code string) error {
	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))
	code = strings.TrimSpace(code)
	if emailAddr == "" || code == "" {
		return &ValidationError{Message: "Email and reset code are required"}
	}
	if _, err := s.users.GetByResetCode(ctx, emailAddr, code); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrResetCodeInvalid
		}
		return err
	}
	return nil
}

// ResetPassword reemplaza la credencial. El codigo usado, su expiracion y
// el estado de bloqueo se limpian junto con el cambio.
func (s *AccountService) ResetPassword(ctx context.Context, emailAddr, code, newPassword string) error {
	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))
	code = strings.TrimSpace(code)
	if emailAddr == "" || code == "" || newPassword == "" {
		return &ValidationError{Message: "Email, reset code, and new password are required"}
	}
	if len(newPassword) < minPasswordLen {
		return &ValidationError{Field: "password", Message: "Password must be at least 6 characters long"}
	}

	user, err := s.users.GetByResetCode(ctx, emailAddr, code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrResetCodeInvalid
		}
		return err
	}

	hashBytes, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.users.ResetPassword(ctx, user.ID, string(hashBytes))
}

// GetAccount devuelve la cuenta viva con el id dado.
func (s *AccountService) GetAccount(ctx context.Context, id string) (domain.User, error) {
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

// generateChannelSecret emite el secreto adecuado al canal: codigo numerico
// de 6 digitos para SMS, token hexadecimal de 32 bytes para enlaces de correo.
func generateChannelSecret(method string) (string, error) {
	if method == domain.VerificationMethodEmail {
		return generateVerificationToken()
	}
	return generateVerificationCode()
}

func generateVerificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

func generateVerificationToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
