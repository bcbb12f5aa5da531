package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"wanderwise/internal/model"
	"wanderwise/internal/repo"
)

var (
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

const tokenLifetime = 7 * 24 * time.Hour

// Claims is the JWT payload for a logged-in user.
type Claims struct {
	UserID int64  `json:"userId"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// RegisterInput is the registration payload. Agent-specific fields are
// optional; agents without them get a default profile.
type RegisterInput struct {
	Username       string   `json:"username" binding:"required"`
	Password       string   `json:"password" binding:"required"`
	Email          string   `json:"email" binding:"required"`
	FullName       string   `json:"fullName" binding:"required"`
	Role           string   `json:"role" binding:"required"`
	ProfilePicture string   `json:"profilePicture"`
	Bio            string   `json:"bio"`
	Specialization string   `json:"specialization"`
	Languages      []string `json:"languages"`
	Experience     int      `json:"experience"`
	Regions        []string `json:"regions"`
	TravelStyles   []string `json:"travelStyles"`
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*model.User, string, error)
	Login(ctx context.Context, username, password string) (*model.User, string, error)
	// Authenticate resolves a bearer token to its user.
	Authenticate(ctx context.Context, token string) (*model.User, error)
}

type authService struct {
	users  repo.UserRepository
	agents repo.AgentRepository
	secret []byte
	logger *zap.Logger
}

func NewAuthService(users repo.UserRepository, agents repo.AgentRepository, secret string, logger *zap.Logger) AuthService {
	return &authService{
		users:  users,
		agents: agents,
		secret: []byte(secret),
		logger: logger,
	}
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*model.User, string, error) {
	if input.Role != model.RoleTraveler && input.Role != model.RoleAgent {
		return nil, "", fmt.Errorf("%w: unknown role %q", repo.ErrInvalidArgument, input.Role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.CreateUser(ctx, &model.User{
		Username:       input.Username,
		Password:       string(hash),
		Email:          input.Email,
		FullName:       input.FullName,
		Role:           input.Role,
		ProfilePicture: input.ProfilePicture,
		Bio:            input.Bio,
	})
	if err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, "", ErrUsernameTaken
		}
		return nil, "", err
	}

	// Agents get a default profile immediately so they appear in the
	// marketplace listing before filling anything in.
	if user.Role == model.RoleAgent {
		profile := defaultAgentProfile(user.ID, input)
		if _, err := s.agents.CreateAgentProfile(ctx, profile); err != nil {
			s.logger.Error("failed to create default agent profile", zap.Int64("user_id", user.ID), zap.Error(err))
		}
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func defaultAgentProfile(userID int64, input RegisterInput) *model.AgentProfile {
	profile := &model.AgentProfile{
		UserID:         userID,
		Specialization: input.Specialization,
		Languages:      input.Languages,
		Experience:     input.Experience,
		Regions:        input.Regions,
		TravelStyles:   input.TravelStyles,
	}
	if profile.Specialization == "" {
		profile.Specialization = "General Travel"
	}
	if len(profile.Languages) == 0 {
		profile.Languages = []string{"English"}
	}
	if profile.Experience == 0 {
		profile.Experience = 1
	}
	if len(profile.Regions) == 0 {
		profile.Regions = []string{"Global"}
	}
	if len(profile.TravelStyles) == 0 {
		profile.TravelStyles = []string{"Adventure", "Culture", "Relaxation"}
	}
	return profile
}

func (s *authService) Login(ctx context.Context, username, password string) (*model.User, string, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("user logged in", zap.Int64("user_id", user.ID))
	return user, token, nil
}

func (s *authService) Authenticate(ctx context.Context, tokenString string) (*model.User, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	user, err := s.users.GetUser(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) generateToken(user *model.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenLifetime)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
