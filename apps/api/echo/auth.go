package echoapi

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"github.com/progress-uz/backend/core"
	"github.com/progress-uz/backend/core/user"
)

// NowFunc returns the current time; tests swap it to fake token expiry.
var NowFunc = time.Now

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role,omitempty"`
}

type auth struct {
	secret []byte
	issuer string
	ttl    time.Duration
	svc    user.ServiceInterface
}

func newAuth(conf *core.Config, svc user.ServiceInterface) *auth {
	return &auth{
		secret: conf.SecretKey,
		issuer: conf.AppName,
		ttl:    conf.Server.JWTExpirationDelta,
		svc:    svc,
	}
}

func (a *auth) getUserClaims(usr user.User) *Claims {
	now := NowFunc()
	return &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    a.issuer,
			Subject:   usr.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Username: usr.Username,
		Email:    usr.Email,
		Role:     usr.Role,
	}
}

// generateToken generates a signed JWT token string representing the user Claims.
func (a *auth) generateToken(claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := token.SignedString(a.secret)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

// login issues a session token for usr.
func (a *auth) login(usr user.User) (string, error) {
	return a.generateToken(a.getUserClaims(usr))
}

// verifyToken parses and validates a signed token string.
func (a *auth) verifyToken(tokenStr string) (*Claims, error) {
	claims := new(Claims)
	_, err := jwt.ParseWithClaims(tokenStr, claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.Errorf("unexpected signing method %q", t.Method.Alg())
			}
			return a.secret, nil
		},
		jwt.WithTimeFunc(func() time.Time { return NowFunc() }),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, errors.Wrap(err, "parsing token")
	}
	return claims, nil
}
