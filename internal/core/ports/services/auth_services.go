package services

import (
	"context"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/idtoken"

	"github.com/tmtrack/time_tracker_app/internal/core/domain"
	"github.com/tmtrack/time_tracker_app/internal/dto"
)

// AuthSvcFacade defines authentication and account-provisioning operations.
type AuthSvcFacade interface {
	// Signup provisions a new user account. Depending on the request it
	// creates a fresh organization with the user as admin, or redeems an
	// invite code and joins the user to the code's organization as staff.
	Signup(ctx context.Context, req dto.SignupRequest) (*domain.User, error)

	// AuthenticateUser verifies email and password credentials.
	AuthenticateUser(ctx context.Context, email, password string) (*domain.User, error)

	// GetOrCreateGoogleUser finds the user matching the Google profile or
	// provisions a new account for it. A non-empty invite code joins a new
	// user to the code's organization; without one a fresh organization is
	// created with the user as admin.
	GetOrCreateGoogleUser(ctx context.Context, userInfo domain.GoogleUserInfo, inviteCode, organizationName string) (*domain.User, error)
}

// TokenSvcFacade defines JWT and refresh token operations.
type TokenSvcFacade interface {
	// GenerateAccessToken creates a signed JWT for the user.
	GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error)

	// GenerateRefreshToken creates an opaque refresh token and returns the
	// plaintext token with its expiry. The caller persists the hash.
	GenerateRefreshToken(ctx context.Context, user *domain.User) (string, time.Time, error)

	// ValidateAndParseRefreshToken checks the presented refresh token against
	// the stored hash and expiry for the user and returns the user.
	ValidateAndParseRefreshToken(ctx context.Context, userID string, refreshToken string) (*domain.User, error)
}

// GoogleOAuthHandlerSvcFacade defines the Google OAuth2 flow operations.
type GoogleOAuthHandlerSvcFacade interface {
	// GenerateStateString creates a random state value for the OAuth2 flow.
	GenerateStateString(ctx context.Context) (string, error)

	// GetGoogleLoginURL builds the Google consent page URL.
	GetGoogleLoginURL(ctx context.Context, state string) string

	// ExchangeCodeForToken exchanges the authorization code for tokens.
	ExchangeCodeForToken(ctx context.Context, code string) (*oauth2.Token, error)

	// GetUserInfo fetches the Google profile for the token.
	GetUserInfo(ctx context.Context, token *oauth2.Token) (*domain.GoogleUserInfo, error)

	// ValidateGoogleIDToken verifies an ID token issued for this app.
	ValidateGoogleIDToken(ctx context.Context, idToken string) (*idtoken.Payload, error)
}
