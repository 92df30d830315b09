package service

import (
	"context"
	"errors"
	"strings"
	"time"

	googleAuthIDTokenVerifier "github.com/futurenda/google-auth-id-token-verifier"
	"github.com/google/uuid"
	pkgErrors "github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"schoolhub_backend/internals/configs"
	"schoolhub_backend/internals/constants"
	"schoolhub_backend/internals/features/users/auth/dto"
	authRepo "schoolhub_backend/internals/features/users/auth/repository"
	userModel "schoolhub_backend/internals/features/users/user/model"
	helper "schoolhub_backend/internals/helpers"
	helperAuth "schoolhub_backend/internals/helpers/auth"
)

// GoogleIdentity is the verified subset of a Google ID token.
type GoogleIdentity struct {
	Email   string
	Name    string
	Subject string
}

type GoogleVerifier interface {
	Verify(idToken string) (*GoogleIdentity, error)
}

type googleVerifier struct {
	clientID string
}

func NewGoogleVerifier(clientID string) GoogleVerifier {
	return &googleVerifier{clientID: clientID}
}

func (g *googleVerifier) Verify(idToken string) (*GoogleIdentity, error) {
	if g.clientID == "" {
		return nil, errors.New("google sign-in is not configured")
	}
	v := googleAuthIDTokenVerifier.Verifier{}
	if err := v.VerifyIDToken(idToken, []string{g.clientID}); err != nil {
		return nil, err
	}
	claimSet, err := googleAuthIDTokenVerifier.Decode(idToken)
	if err != nil {
		return nil, err
	}
	return &GoogleIdentity{Email: claimSet.Email, Name: claimSet.Name, Subject: claimSet.Sub}, nil
}

/* ==========================
   Service
========================== */

type AuthService struct {
	DB        *gorm.DB
	Blacklist BlacklistStore
	Google    GoogleVerifier
	Secret    string
	TTL       time.Duration
	Now       func() time.Time
}

func NewAuthService(db *gorm.DB, blacklist BlacklistStore) *AuthService {
	ttl := configs.JWTTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &AuthService{
		DB:        db,
		Blacklist: blacklist,
		Google:    NewGoogleVerifier(configs.GoogleClientID),
		Secret:    configs.JWTSecret,
		TTL:       ttl,
		Now:       func() time.Time { return time.Now().UTC() },
	}
}

func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func CheckPassword(hash *string, plain string) bool {
	if hash == nil || *hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(*hash), []byte(plain)) == nil
}

// Register creates a parent account. Staff and student accounts are created by admins.
func (s *AuthService) Register(ctx context.Context, req dto.RegisterRequest) (*userModel.UserModel, error) {
	if err := helper.Validate(req); err != nil {
		return nil, err
	}
	taken, err := authRepo.IsEmailOrUsernameTaken(ctx, s.DB, req.Email, req.UserName)
	if err != nil {
		return nil, pkgErrors.Wrap(err, "check identifiers")
	}
	if taken {
		return nil, helper.Conflict("Email or user name is already registered")
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, pkgErrors.Wrap(err, "hash password")
	}
	user := &userModel.UserModel{
		UserName: strings.TrimSpace(req.UserName),
		FullName: strings.TrimSpace(req.FullName),
		Email:    req.Email,
		Password: &hash,
		Phone:    req.Phone,
		Role:     constants.RoleParent,
		IsActive: true,
	}
	if err := authRepo.CreateUser(ctx, s.DB, user); err != nil {
		if helper.IsUniqueViolation(err) {
			return nil, helper.Conflict("Email or user name is already registered")
		}
		return nil, pkgErrors.Wrap(err, "create user")
	}
	return user, nil
}

func (s *AuthService) issue(user *userModel.UserModel) (*dto.LoginResponse, error) {
	token, exp, err := helperAuth.IssueToken(s.Secret, user.ID, user.Role, user.UserName, s.TTL, s.Now())
	if err != nil {
		return nil, pkgErrors.Wrap(err, "issue token")
	}
	return &dto.LoginResponse{AccessToken: token, ExpiresAt: exp, User: dto.ToUserResponse(user)}, nil
}

// Login accepts an email or user name. Unknown users and wrong passwords share one message.
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	if err := helper.Validate(req); err != nil {
		return nil, err
	}
	user, err := authRepo.FindUserByEmailOrUsername(ctx, s.DB, req.Identifier)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.Unauthorized("Invalid credentials")
		}
		return nil, pkgErrors.Wrap(err, "find user")
	}
	if !CheckPassword(user.Password, req.Password) {
		return nil, helper.Unauthorized("Invalid credentials")
	}
	if !user.IsActive {
		return nil, helper.Forbidden("Your account has been deactivated")
	}
	return s.issue(user)
}

// LoginGoogle signs in an existing active account whose email matches the verified Google identity.
func (s *AuthService) LoginGoogle(ctx context.Context, req dto.GoogleLoginRequest) (*dto.LoginResponse, error) {
	if err := helper.Validate(req); err != nil {
		return nil, err
	}
	ident, err := s.Google.Verify(req.IDToken)
	if err != nil {
		return nil, helper.Unauthorized("Invalid Google ID token")
	}
	user, err := authRepo.FindUserByEmail(ctx, s.DB, ident.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.Unauthorized("No account is registered with this Google email")
		}
		return nil, pkgErrors.Wrap(err, "find user")
	}
	if !user.IsActive {
		return nil, helper.Forbidden("Your account has been deactivated")
	}
	if user.GoogleID == nil && ident.Subject != "" {
		if err := authRepo.LinkGoogleID(ctx, s.DB, user.ID, ident.Subject); err != nil {
			return nil, pkgErrors.Wrap(err, "link google id")
		}
		user.GoogleID = &ident.Subject
	}
	return s.issue(user)
}

// Logout revokes the presented token until it expires.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := helperAuth.ParseToken(s.Secret, token)
	if err != nil {
		return helper.Unauthorized("Invalid token")
	}
	exp := s.Now().Add(s.TTL)
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time
	}
	return pkgErrors.Wrap(s.Blacklist.Revoke(ctx, token, exp), "revoke token")
}

func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*userModel.UserModel, error) {
	user, err := authRepo.FindUserByID(ctx, s.DB, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.NotFound("User not found")
		}
		return nil, pkgErrors.Wrap(err, "find user")
	}
	return user, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, req dto.ChangePasswordRequest) error {
	if err := helper.Validate(req); err != nil {
		return err
	}
	user, err := s.Me(ctx, userID)
	if err != nil {
		return err
	}
	if !CheckPassword(user.Password, req.OldPassword) {
		return helper.NewFieldError("old_password", "old password is incorrect")
	}
	hash, err := HashPassword(req.NewPassword)
	if err != nil {
		return pkgErrors.Wrap(err, "hash password")
	}
	return pkgErrors.Wrap(authRepo.UpdateUserPassword(ctx, s.DB, userID, hash), "update password")
}
