package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/crypto/bcrypt"

	"socialmedia-api/internal/application/ports"
	"socialmedia-api/internal/domain/session"
	"socialmedia-api/internal/domain/user"
	"socialmedia-api/internal/infrastructure/jwt"
	"socialmedia-api/internal/infrastructure/metrics"
)

var ErrFailedToGenerateToken = errors.New("failed to generate token")

type AuthService struct {
	jwtService        *jwt.Service
	sessionRepository session.Repository
	mCounter          *prometheus.CounterVec
	tokenTTL          time.Duration
}

func NewAuthService(
	jwtService *jwt.Service,
	sessionRepository session.Repository,
	mCounter *prometheus.CounterVec,
	tokenTTL time.Duration,
) ports.Auth {
	return &AuthService{
		jwtService:        jwtService,
		sessionRepository: sessionRepository,
		mCounter:          mCounter,
		tokenTTL:          tokenTTL,
	}
}

func (as *AuthService) Login(ctx context.Context, u *user.User, requestPassword, ip string) (string, error) {
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(requestPassword)); err != nil {
		return "", user.ErrInvalidCredentials
	}

	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	s, err := as.sessionRepository.CreateSession(ctx, session.Session{ID: id, UserID: u.UUID, IP: ip})
	if err != nil {
		return "", fmt.Errorf("open session: %w", err)
	}

	token, err := as.jwtService.GenerateJWT(u.UUID.String(), s.ID.String(), as.tokenTTL)
	if err != nil {
		return "", ErrFailedToGenerateToken
	}

	as.mCounter.WithLabelValues(metrics.SessionsCreated).Inc()

	return token, nil
}

func (as *AuthService) Authenticate(ctx context.Context, token string) (*ports.Principal, error) {
	claims, err := as.jwtService.ValidateToken(token)
	if err != nil {
		return nil, session.ErrInvalidSession
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, session.ErrInvalidSession
	}
	sessionID, err := uuid.Parse(claims.SessionID)
	if err != nil {
		return nil, session.ErrInvalidSession
	}

	// logout and user deletion drop the session row
	open, err := as.sessionRepository.SessionExists(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	if !open {
		return nil, session.ErrInvalidSession
	}

	return &ports.Principal{UserID: userID, SessionID: sessionID}, nil
}
