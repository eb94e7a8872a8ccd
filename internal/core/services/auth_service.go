package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"

	"github.com/tmtrack/time_tracker_app/internal/apperrors"
	"github.com/tmtrack/time_tracker_app/internal/core/domain"
	portsrepo "github.com/tmtrack/time_tracker_app/internal/core/ports/repositories"
	portssvc "github.com/tmtrack/time_tracker_app/internal/core/ports/services"
	"github.com/tmtrack/time_tracker_app/internal/dto"
	"github.com/tmtrack/time_tracker_app/internal/platform/config"
	"github.com/tmtrack/time_tracker_app/internal/utils"
)

// authService implements the AuthSvcFacade for signup and credential checks.
type authService struct {
	BaseService
	userRepo       portsrepo.UserRepositoryFacade
	orgRepo        portsrepo.OrganizationRepositoryFacade
	inviteCodeRepo portsrepo.InviteCodeRedeemer
}

// NewAuthService creates a new instance of authService.
func NewAuthService(
	userRepo portsrepo.UserRepositoryFacade,
	orgRepo portsrepo.OrganizationRepositoryFacade,
	inviteCodeRepo portsrepo.InviteCodeRedeemer,
) portssvc.AuthSvcFacade {
	return &authService{
		userRepo:       userRepo,
		orgRepo:        orgRepo,
		inviteCodeRepo: inviteCodeRepo,
	}
}

var _ portssvc.AuthSvcFacade = (*authService)(nil)

// Signup provisions a new account. Exactly one onboarding path is taken:
// an invite code joins the code's organization as staff, an organization
// name founds a new organization as admin, and omitting both creates an
// organization-less user with the requested role.
func (s *authService) Signup(ctx context.Context, req dto.SignupRequest) (*domain.User, error) {
	if req.InviteCode != "" && req.OrganizationName != "" {
		return nil, apperrors.NewAppError(http.StatusBadRequest, "provide either inviteCode or organizationName, not both", apperrors.ErrValidation)
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	userID := uuid.NewString()
	user := domain.User{
		UserID:       userID,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Name:         req.Name,
		Role:         domain.RoleStaff,
		PasswordHash: passwordHash,
		AuthProvider: "password",
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	switch {
	case req.InviteCode != "":
		code := strings.ToUpper(strings.TrimSpace(req.InviteCode))
		redeemed, err := s.inviteCodeRepo.RedeemInviteCode(ctx, code, user)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, apperrors.ErrValidation) {
				return nil, apperrors.NewAppError(http.StatusBadRequest, "Invalid or expired invite code", apperrors.ErrValidation)
			}
			return nil, err
		}
		user.OrganizationID = &redeemed.OrganizationID
		s.LogInfo(ctx, "User signed up via invite code",
			slog.String("user_id", user.UserID),
			slog.String("organization_id", redeemed.OrganizationID))

	case req.OrganizationName != "":
		org := domain.Organization{
			OrganizationID: uuid.NewString(),
			Name:           req.OrganizationName,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
		user.Role = domain.RoleAdmin
		user.OrganizationID = &org.OrganizationID
		if err := s.orgRepo.CreateOrganizationWithAdmin(ctx, org, user); err != nil {
			return nil, err
		}
		s.LogInfo(ctx, "User signed up with new organization",
			slog.String("user_id", user.UserID),
			slog.String("organization_id", org.OrganizationID))

	default:
		if role := domain.UserRole(req.Role); role.IsValid() {
			user.Role = role
		}
		if err := s.userRepo.SaveUser(ctx, user); err != nil {
			return nil, err
		}
		s.LogInfo(ctx, "User signed up without organization",
			slog.String("user_id", user.UserID))
	}

	return &user, nil
}

// AuthenticateUser verifies email and password credentials. Failures are
// indistinguishable to the caller regardless of which check tripped.
func (s *authService) AuthenticateUser(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}
	if user.PasswordHash == "" || !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperrors.ErrUnauthorized
	}
	return user, nil
}

// GetOrCreateGoogleUser finds the user matching the Google profile or
// provisions a new account for it following the same onboarding paths as
// Signup.
func (s *authService) GetOrCreateGoogleUser(ctx context.Context, userInfo domain.GoogleUserInfo, inviteCode, organizationName string) (*domain.User, error) {
	if userInfo.Email == "" {
		return nil, apperrors.NewAppError(http.StatusBadRequest, "google profile has no email", apperrors.ErrValidation)
	}

	email := strings.ToLower(strings.TrimSpace(userInfo.Email))
	existing, err := s.userRepo.FindUserByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	now := time.Now()
	userID := uuid.NewString()
	user := domain.User{
		UserID:         userID,
		Email:          email,
		Name:           userInfo.Name,
		Role:           domain.RoleStaff,
		AuthProvider:   "google",
		ProviderUserID: userInfo.ID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	switch {
	case inviteCode != "":
		code := strings.ToUpper(strings.TrimSpace(inviteCode))
		redeemed, err := s.inviteCodeRepo.RedeemInviteCode(ctx, code, user)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, apperrors.ErrValidation) {
				return nil, apperrors.NewAppError(http.StatusBadRequest, "Invalid or expired invite code", apperrors.ErrValidation)
			}
			return nil, err
		}
		user.OrganizationID = &redeemed.OrganizationID

	case organizationName != "":
		org := domain.Organization{
			OrganizationID: uuid.NewString(),
			Name:           organizationName,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
		user.Role = domain.RoleAdmin
		user.OrganizationID = &org.OrganizationID
		if err := s.orgRepo.CreateOrganizationWithAdmin(ctx, org, user); err != nil {
			return nil, err
		}

	default:
		if err := s.userRepo.SaveUser(ctx, user); err != nil {
			return nil, err
		}
	}

	s.LogInfo(ctx, "User provisioned via Google sign-in",
		slog.String("user_id", user.UserID))
	return &user, nil
}

// tokenService implements the TokenSvcFacade for handling JWT and refresh tokens.
type tokenService struct {
	cfg         *config.Config
	userService portssvc.UserSvcFacade
}

// NewTokenService creates a new instance of tokenService.
func NewTokenService(cfg *config.Config, userService portssvc.UserSvcFacade) portssvc.TokenSvcFacade {
	return &tokenService{
		cfg:         cfg,
		userService: userService,
	}
}

var _ portssvc.TokenSvcFacade = (*tokenService)(nil)

// GenerateAccessToken creates a new JWT access token for the given user.
func (s *tokenService) GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	expiryTime := time.Now().Add(s.cfg.JWTExpiryDuration)

	accessToken, err := utils.GenerateJWT(user.UserID, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		return "", time.Time{}, err
	}
	return accessToken, expiryTime, nil
}

// GenerateRefreshToken creates a new refresh token for the given user.
// The caller is responsible for persisting the hash.
func (s *tokenService) GenerateRefreshToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	rawRefreshToken, err := utils.GenerateSecureRandomString(32)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate secure random string for refresh token: %w", err)
	}

	expiryTime := time.Now().Add(s.cfg.RefreshTokenExpiryDuration)
	return rawRefreshToken, expiryTime, nil
}

// ValidateAndParseRefreshToken validates a refresh token string against the
// user's stored hash and expiry, and returns the user.
func (s *tokenService) ValidateAndParseRefreshToken(ctx context.Context, userID string, refreshTokenString string) (*domain.User, error) {
	user, err := s.userService.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to retrieve user for refresh token validation: %w", err)
	}

	if user.RefreshTokenHash == "" || user.RefreshTokenExpiryTime == nil {
		return nil, apperrors.ErrUnauthorized
	}
	if time.Now().After(*user.RefreshTokenExpiryTime) {
		return nil, apperrors.ErrRefreshTokenExpired
	}

	if !utils.CompareRefreshTokenHash(refreshTokenString, user.RefreshTokenHash) {
		return nil, apperrors.ErrUnauthorized
	}

	return user, nil
}

// googleOAuthHandlerService implements the GoogleOAuthHandlerSvcFacade.
type googleOAuthHandlerService struct {
	cfg          *config.Config
	oauth2Config *oauth2.Config
}

// NewGoogleOAuthHandlerService creates a new instance of googleOAuthHandlerService.
func NewGoogleOAuthHandlerService(cfg *config.Config) portssvc.GoogleOAuthHandlerSvcFacade {
	return &googleOAuthHandlerService{
		cfg: cfg,
		oauth2Config: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes:       []string{"https://www.googleapis.com/auth/userinfo.email", "https://www.googleapis.com/auth/userinfo.profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

var _ portssvc.GoogleOAuthHandlerSvcFacade = (*googleOAuthHandlerService)(nil)

// GenerateStateString creates a secure random CSRF token for the OAuth flow.
func (s *googleOAuthHandlerService) GenerateStateString(ctx context.Context) (string, error) {
	state, err := utils.GenerateSecureRandomString(16)
	if err != nil {
		return "", fmt.Errorf("failed to generate state string for OAuth: %w", err)
	}
	return state, nil
}

// GetGoogleLoginURL returns the URL to redirect the user to for Google login.
func (s *googleOAuthHandlerService) GetGoogleLoginURL(ctx context.Context, state string) string {
	return s.oauth2Config.AuthCodeURL(state)
}

// ExchangeCodeForToken exchanges an OAuth authorization code for a token.
func (s *googleOAuthHandlerService) ExchangeCodeForToken(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := s.oauth2Config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange oauth code for token: %w", err)
	}
	return token, nil
}

// GetUserInfo uses the access token to get user information from Google.
func (s *googleOAuthHandlerService) GetUserInfo(ctx context.Context, token *oauth2.Token) (*domain.GoogleUserInfo, error) {
	client := s.oauth2Config.Client(ctx, token)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return nil, fmt.Errorf("failed to get user info from google: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google api returned non-200 status for userinfo: %s", resp.Status)
	}

	var userInfo domain.GoogleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&userInfo); err != nil {
		return nil, fmt.Errorf("failed to decode user info from google: %w", err)
	}

	return &userInfo, nil
}

// ValidateGoogleIDToken validates an ID token received from Google and returns the payload if valid.
func (s *googleOAuthHandlerService) ValidateGoogleIDToken(ctx context.Context, idTokenString string) (*idtoken.Payload, error) {
	if s.cfg.GoogleClientID == "" {
		return nil, errors.New("google client ID is not configured in the application")
	}

	payload, err := idtoken.Validate(ctx, idTokenString, s.cfg.GoogleClientID)
	if err != nil {
		return nil, fmt.Errorf("google ID token validation failed: %w", err)
	}

	return payload, nil
}
