package googlesvc

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"github.com/progress-uz/backend/core"
	"github.com/progress-uz/backend/core/user"
)

const (
	defaultJWKSURL     = "https://www.googleapis.com/oauth2/v3/certs"
	defaultUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"
)

var validIssuers = []string{"accounts.google.com", "https://accounts.google.com"}

// idTokenClaims is the subset of Google ID token claims we care about.
type idTokenClaims struct {
	jwt.RegisteredClaims
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture"`
}

// Verifier resolves Google credentials into identity claims. The credential
// is tried as a signed ID token first; when that fails it is retried as an
// OAuth access token against the userinfo endpoint, so clients may send
// either.
type Verifier struct {
	ClientID    string
	JWKSURL     string
	UserInfoURL string
	Client      *http.Client
	Logger      core.Logger

	jwksOnce sync.Once
	jwks     *keyfunc.JWKS
	jwksErr  error
}

var _ user.IdentityVerifier = (*Verifier)(nil)

// NewVerifier returns a Verifier for the configured OAuth client. All
// outbound calls are bounded by conf.Google.Timeout.
func NewVerifier(conf *core.Config, logger core.Logger) *Verifier {
	timeout := conf.Google.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Verifier{
		ClientID:    conf.Google.ClientID,
		JWKSURL:     defaultJWKSURL,
		UserInfoURL: defaultUserInfoURL,
		Client:      &http.Client{Timeout: timeout},
		Logger:      logger,
	}
}

func (v *Verifier) Verify(ctx context.Context, credential string) (user.FederatedClaims, error) {
	claims, idErr := v.verifyIDToken(credential)
	if idErr == nil {
		return claims, nil
	}
	if v.Logger != nil {
		v.Logger.Debug("google: id token verification failed, trying userinfo", idErr)
	}

	claims, uiErr := v.fetchUserInfo(ctx, credential)
	if uiErr == nil {
		return claims, nil
	}
	return user.FederatedClaims{}, errors.Wrapf(user.ErrFederationFailed,
		"id token: %v; userinfo: %v", idErr, uiErr)
}

func (v *Verifier) keyfunc() (jwt.Keyfunc, error) {
	v.jwksOnce.Do(func() {
		v.jwks, v.jwksErr = keyfunc.Get(v.JWKSURL, keyfunc.Options{
			Client:          v.Client,
			RefreshInterval: time.Hour,
			RefreshErrorHandler: func(err error) {
				if v.Logger != nil {
					v.Logger.Warn("google: jwks refresh failed", err)
				}
			},
		})
	})
	if v.jwksErr != nil {
		return nil, errors.Wrap(v.jwksErr, "fetching jwks")
	}
	return v.jwks.Keyfunc, nil
}

func (v *Verifier) verifyIDToken(credential string) (user.FederatedClaims, error) {
	kf, err := v.keyfunc()
	if err != nil {
		return user.FederatedClaims{}, err
	}

	claims := new(idTokenClaims)
	_, err = jwt.ParseWithClaims(credential, claims, kf,
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithAudience(v.ClientID),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return user.FederatedClaims{}, errors.Wrap(err, "parsing id token")
	}

	var issuerOK bool
	for _, iss := range validIssuers {
		if claims.Issuer == iss {
			issuerOK = true
			break
		}
	}
	if !issuerOK {
		return user.FederatedClaims{}, errors.Errorf("unexpected issuer %q", claims.Issuer)
	}

	return user.FederatedClaims{
		Subject: claims.Subject,
		Name:    claims.Name,
		Email:   claims.Email,
		Picture: claims.Picture,
	}, nil
}

func (v *Verifier) fetchUserInfo(ctx context.Context, accessToken string) (user.FederatedClaims, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.UserInfoURL, nil)
	if err != nil {
		return user.FederatedClaims{}, errors.Wrap(err, "building userinfo request")
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	res, err := v.Client.Do(req)
	if err != nil {
		return user.FederatedClaims{}, errors.Wrap(err, "calling userinfo")
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return user.FederatedClaims{}, errors.Errorf("userinfo status %d", res.StatusCode)
	}

	var body struct {
		Sub     string `json:"sub"`
		Name    string `json:"name"`
		Email   string `json:"email"`
		Picture string `json:"picture"`
	}
	if err = json.NewDecoder(res.Body).Decode(&body); err != nil {
		return user.FederatedClaims{}, errors.Wrap(err, "decoding userinfo")
	}
	if body.Sub == "" || body.Email == "" {
		return user.FederatedClaims{}, errors.New("userinfo missing sub or email")
	}

	return user.FederatedClaims{
		Subject: body.Sub,
		Name:    body.Name,
		Email:   body.Email,
		Picture: body.Picture,
	}, nil
}
