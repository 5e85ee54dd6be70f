package user

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"net/mail"
	"regexp"
	"time"

	"github.com/pkg/errors"

	"github.com/progress-uz/backend/core"
)

var (
	// errors
	ErrNotFound             = errors.New("user not found")
	ErrEmailExists          = errors.New("a user with this email already exists")
	ErrUsernameExists       = errors.New("a user with this username already exists")
	ErrAuthenticationFailed = errors.New("incorrect email/username or password")
	ErrWrongPassword        = errors.New("your current password is wrong")

	// ErrFederationFailed is wrapped by IdentityVerifier implementations
	// when the external credential cannot be verified by any path.
	ErrFederationFailed = errors.New("external identity verification failed")

	emailRegex = regexp.MustCompile(`^\S+@\S+\.\S+$`)
)

type (
	// IdentityVerifier translates an externally issued credential into
	// verified identity claims.
	IdentityVerifier interface {
		Verify(ctx context.Context, credential string) (FederatedClaims, error)
	}

	Repository interface {
		CheckUniqueness(ctx context.Context, username, email string, excludedUsers ...User) error
		CreateUser(ctx context.Context, usr User) (User, error)
		GetUserByID(ctx context.Context, id string) (User, error)
		GetUserByEmail(ctx context.Context, email string) (User, error)
		GetUserByUsername(ctx context.Context, username string) (User, error)
		GetUserByUsernameOrEmail(ctx context.Context, uname string) (User, error)
		QueryAllUsers(ctx context.Context) ([]User, error)
		UpdateUser(ctx context.Context, usr User) (User, error)
		CountUsersByRole(ctx context.Context) (map[string]int, error)
	}

	ServiceInterface interface {
		CheckUniqueness(uname, email string, exclUsers ...User) error
		Register(ctx context.Context, nu NewUser) (User, error)
		Authenticate(ctx context.Context, identifier, password string) (User, error)
		FederatedLogin(ctx context.Context, credential string) (User, error)
		ChangePassword(ctx context.Context, usr User, current, newPwd string) (User, error)
		GetByID(ctx context.Context, id string) (User, error)
		QueryAll(ctx context.Context) ([]User, error)
		CountByRole(ctx context.Context) (map[string]int, error)
	}

	service struct {
		repo     Repository
		verifier IdentityVerifier
		mail     core.EmailService
		conf     *core.Config
	}
)

var _ ServiceInterface = (*service)(nil)

// NewService returns the authentication gateway + user service.
// verifier and mail may be nil; the matching features degrade gracefully.
func NewService(repo Repository, verifier IdentityVerifier, mailSvc core.EmailService, conf *core.Config) ServiceInterface {
	return &service{
		repo:     repo,
		verifier: verifier,
		mail:     mailSvc,
		conf:     conf,
	}
}

func (svc *service) CheckUniqueness(uname, email string, exclUsers ...User) error {
	err := svc.repo.CheckUniqueness(context.Background(), uname, email, exclUsers...)
	return uniquenessToValidationErr(err)
}

// uniquenessToValidationErr maps uniqueness conflicts to field-level
// validation errors; anything else passes through.
func uniquenessToValidationErr(err error) error {
	var field string
	switch errors.Cause(err) {
	case nil:
		return nil
	case ErrUsernameExists:
		field = "username"
	case ErrEmailExists:
		field = "email"
	default:
		return err
	}
	return core.NewValidationError(err, core.FieldError{Field: field, Error: errors.Cause(err).Error()})
}

// Register creates a new User with a hashed password and emails a welcome
// note. The input is assumed validated (NewUser.Validate); the store's
// unique index still backstops concurrent duplicate registrations.
func (svc *service) Register(ctx context.Context, nu NewUser) (User, error) {
	role := nu.Role
	if role == "" {
		role = RoleStudent
	}

	now := time.Now().UTC()
	usr := User{
		Name:      nu.Name,
		Username:  nu.Username,
		Email:     nu.Email,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, errors.Wrap(err, "hashing password")
	}

	usr, err := svc.repo.CreateUser(ctx, usr)
	if err != nil {
		return User{}, uniquenessToValidationErr(err)
	}
	svc.sendWelcomeEmail(usr)
	return usr, nil
}

// Authenticate resolves the identifier as email or username and verifies the
// password. Unknown identifiers and wrong passwords fail identically.
func (svc *service) Authenticate(ctx context.Context, identifier, password string) (User, error) {
	identifier = core.CleanString(identifier, true /* lower */)

	var usr User
	var err error
	if emailRegex.MatchString(identifier) {
		usr, err = svc.repo.GetUserByEmail(ctx, identifier)
	} else {
		usr, err = svc.repo.GetUserByUsername(ctx, identifier)
	}
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return User{}, ErrAuthenticationFailed
		}
		return User{}, errors.Wrap(err, "finding user")
	}
	if err = usr.CheckPassword(password); err != nil {
		return User{}, ErrAuthenticationFailed
	}
	return usr, nil
}

// FederatedLogin verifies the external credential and resolves it to a local
// User: creating one (role student, unguessable local password) when the
// email is unknown, or linking the external subject to an existing account.
// Linking happens on email match alone; an already-linked subject is never
// overwritten.
func (svc *service) FederatedLogin(ctx context.Context, credential string) (User, error) {
	if svc.verifier == nil {
		return User{}, errors.Wrap(ErrFederationFailed, "no identity verifier configured")
	}

	claims, err := svc.verifier.Verify(ctx, credential)
	if err != nil {
		return User{}, err
	}
	email := core.CleanString(claims.Email, true /* lower */)
	if email == "" {
		return User{}, errors.Wrap(ErrFederationFailed, "provider returned no email")
	}

	usr, err := svc.repo.GetUserByEmail(ctx, email)
	switch errors.Cause(err) {
	case nil:
	case ErrNotFound:
		return svc.createFederatedUser(ctx, claims, email)
	default:
		return User{}, errors.Wrap(err, "finding user by email")
	}

	if usr.GoogleID == "" {
		usr.GoogleID = claims.Subject
		usr.Avatar = claims.Picture
		usr.UpdatedAt = time.Now().UTC()
		if usr, err = svc.repo.UpdateUser(ctx, usr); err != nil {
			return User{}, errors.Wrap(err, "linking federated identity")
		}
	}
	return usr, nil
}

func (svc *service) createFederatedUser(ctx context.Context, claims FederatedClaims, email string) (User, error) {
	now := time.Now().UTC()
	usr := User{
		Name:      claims.Name,
		Email:     email,
		Role:      RoleStudent,
		GoogleID:  claims.Subject,
		Avatar:    claims.Picture,
		CreatedAt: now,
		UpdatedAt: now,
	}
	// local password is never surfaced; it only keeps the account lockable
	// behind something unguessable until the user sets one.
	if err := usr.SetPassword(randomPassword()); err != nil {
		return User{}, errors.Wrap(err, "hashing random password")
	}

	usr, err := svc.repo.CreateUser(ctx, usr)
	if err != nil {
		return User{}, uniquenessToValidationErr(err)
	}
	svc.sendWelcomeEmail(usr)
	return usr, nil
}

// ChangePassword verifies the current password before storing the new hash.
// Previously issued tokens stay valid: tokens are stateless and there is no
// revocation store.
func (svc *service) ChangePassword(ctx context.Context, usr User, current, newPwd string) (User, error) {
	if err := usr.CheckPassword(current); err != nil {
		return User{}, ErrWrongPassword
	}
	if err := usr.SetPassword(newPwd); err != nil {
		return User{}, errors.Wrap(err, "hashing password")
	}
	usr.UpdatedAt = time.Now().UTC()

	usr, err := svc.repo.UpdateUser(ctx, usr)
	if err != nil {
		return User{}, errors.Wrap(err, "updating user")
	}
	return usr, nil
}

func (svc *service) GetByID(ctx context.Context, id string) (User, error) {
	return svc.repo.GetUserByID(ctx, id)
}

func (svc *service) QueryAll(ctx context.Context) ([]User, error) {
	return svc.repo.QueryAllUsers(ctx)
}

func (svc *service) CountByRole(ctx context.Context) (map[string]int, error) {
	return svc.repo.CountUsersByRole(ctx)
}

func (svc *service) sendWelcomeEmail(usr User) {
	if svc.mail == nil {
		return
	}
	appName := "Progress"
	if svc.conf != nil && svc.conf.AppName != "" {
		appName = svc.conf.AppName
	}
	svc.mail.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject:      "Welcome!",
		TemplateName: "welcome",
		TemplateData: struct{ Name, AppName string }{usr.Name, appName},
	})
}

func randomPassword() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic(err) // crypto/rand failure is unrecoverable
	}
	return base64.RawURLEncoding.EncodeToString(buf)
}
