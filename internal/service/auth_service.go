package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"studytrack-be/internal/config"
	"studytrack-be/internal/dto"
	"studytrack-be/internal/entity"
	"studytrack-be/internal/pkg/apperrors"
	"studytrack-be/internal/pkg/logger"
	"studytrack-be/internal/pkg/mailer"
	"studytrack-be/internal/repository/specification"
	"studytrack-be/internal/repository/unitofwork"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest, ipAddress, userAgent string) (*dto.LoginResponse, error)
	Logout(ctx context.Context, refreshToken string) error
}

type authService struct {
	uowFactory   unitofwork.RepositoryFactory
	emailService mailer.IEmailService
	cfg          config.AuthConfig
	log          logger.ILogger
}

func NewAuthService(uowFactory unitofwork.RepositoryFactory, emailService mailer.IEmailService, cfg config.AuthConfig, log logger.ILogger) IAuthService {
	return &authService{
		uowFactory:   uowFactory,
		emailService: emailService,
		cfg:          cfg,
		log:          log,
	}
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func newRefreshToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	// Raised before any external call.
	if req.Password != req.ConfirmPassword {
		return nil, apperrors.Validation("passwords do not match")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, apperrors.Transport("failed to check existing account", err)
	}
	if existing != nil {
		return nil, apperrors.Validation("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Id:           uuid.New(),
		Email:        req.Email,
		FullName:     req.FullName,
		PasswordHash: string(hash),
		Status:       entity.UserStatusActive,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := uow.UserRepository().Create(ctx, user); err != nil {
		return nil, apperrors.Transport("failed to create account", err)
	}

	// Welcome mail is auxiliary; failure is logged, never surfaced.
	go func() {
		if err := s.emailService.SendWelcome(user.Email, user.FullName); err != nil {
			s.log.Warn("AuthService", "Failed to send welcome email", map[string]interface{}{
				"email": user.Email, "error": err.Error(),
			})
		}
	}()

	return &dto.RegisterResponse{Id: user.Id, Email: user.Email}, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest, ipAddress, userAgent string) (*dto.LoginResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, apperrors.Transport("failed to look up account", err)
	}
	// Same message for unknown email and wrong password.
	if user == nil {
		return nil, apperrors.Auth("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperrors.Auth("invalid credentials")
	}

	if user.Status == entity.UserStatusBlocked {
		return nil, apperrors.Auth("account is blocked")
	}

	claims := jwt.MapClaims{
		"user_id": user.Id.String(),
		"exp":     time.Now().Add(time.Duration(s.cfg.AccessTokenHours) * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	accessToken, err := token.SignedString([]byte(s.cfg.JwtSecret))
	if err != nil {
		return nil, err
	}

	refreshToken, err := newRefreshToken()
	if err != nil {
		return nil, err
	}

	refreshEntity := &entity.UserRefreshToken{
		Id:        uuid.New(),
		UserId:    user.Id,
		TokenHash: hashToken(refreshToken),
		ExpiresAt: time.Now().AddDate(0, 0, s.cfg.RefreshTokenDays),
		CreatedAt: time.Now(),
		IpAddress: ipAddress,
		UserAgent: userAgent,
	}
	if err := uow.UserRepository().CreateRefreshToken(ctx, refreshEntity); err != nil {
		return nil, apperrors.Transport("failed to store session", err)
	}

	return &dto.LoginResponse{
		Id:           user.Id,
		Email:        user.Email,
		FullName:     user.FullName,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	token, err := uow.UserRepository().FindRefreshToken(ctx,
		specification.ByTokenHash{TokenHash: hashToken(refreshToken)},
		specification.NotRevoked{},
	)
	if err != nil {
		return apperrors.Transport("failed to look up session", err)
	}
	if token == nil {
		// Already revoked or never issued; logout is idempotent.
		return nil
	}

	return uow.UserRepository().RevokeRefreshToken(ctx, token.Id)
}
