package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/docker-task-list/api/internal/models"
)

type authServiceImpl struct {
	logger                zerolog.Logger
	pgPool                *pgxpool.Pool
	jwtIssuer             string
	jwtSigningKey         []byte
	jwtTokenTTL           time.Duration
	jwtRememberMeTokenTTL time.Duration
}

func NewAuthService(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
	jwtIssuer string,
	jwtSigningKey []byte,
	jwtTokenTTL time.Duration,
	jwtRememberMeTokenTTL time.Duration,
) AuthService {
	return &authServiceImpl{
		logger:                logger,
		pgPool:                pgPool,
		jwtIssuer:             jwtIssuer,
		jwtSigningKey:         jwtSigningKey,
		jwtTokenTTL:           jwtTokenTTL,
		jwtRememberMeTokenTTL: jwtRememberMeTokenTTL,
	}
}

func (s *authServiceImpl) Register(ctx context.Context, params RegisterParams) (*AuthResult, error) {
	now := time.Now()
	user := models.User{
		Email:     foldEmail(params.Email),
		CreatedAt: now,
		UpdatedAt: now,
	}

	userUUID, err := uuid.NewV7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate user uuid")
		return nil, err
	}
	user.ID = userUUID.String()

	passwordHash, err := argon2id.CreateHash(params.Password, argon2id.DefaultParams)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to hash password")
		return nil, err
	}
	user.PasswordHash = passwordHash

	const insertUserQuery = `
INSERT INTO users (id,
                   email,
                   password_hash,
                   created_at,
                   updated_at)
VALUES ($1, $2, $3, $4, $5)
`
	_, err = s.pgPool.Exec(
		ctx,
		insertUserQuery,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == pgerrcode.UniqueViolation {
				s.logger.Error().
					Str("email", user.Email).
					Msg("user with this email already exists")
				return nil, ErrUserAlreadyExists
			}
		}

		s.logger.Error().
			Err(err).
			Msg("failed to insert user")
		return nil, err
	}
	s.logger.Debug().
		Str("user_id", user.ID).
		Str("email", user.Email).
		Msg("inserted user")

	token, expiresAt, err := s.issueToken(user.ID, s.jwtTokenTTL)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to issue token")
		return nil, err
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Msg("registered user")
	return &AuthResult{
		User:           &user,
		Token:          token,
		TokenExpiresAt: expiresAt,
	}, nil
}

func (s *authServiceImpl) Login(ctx context.Context, params LoginParams) (*AuthResult, error) {
	user := models.User{
		Email: foldEmail(params.Email),
	}

	const selectUserByEmailQuery = `
SELECT id,
       password_hash,
       created_at,
       updated_at
FROM users
WHERE email = $1
`
	err := s.pgPool.QueryRow(
		ctx,
		selectUserByEmailQuery,
		user.Email,
	).Scan(
		&user.ID,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Same error as a password mismatch, so a login
			// response never reveals whether the email exists.
			s.logger.Error().
				Str("email", user.Email).
				Msg("user not found")
			return nil, ErrInvalidCredentials
		}

		s.logger.Error().
			Err(err).
			Str("email", user.Email).
			Msg("failed to select user by email")
		return nil, err
	}
	s.logger.Debug().
		Str("user_id", user.ID).
		Str("email", user.Email).
		Msg("selected user")

	match, err := argon2id.ComparePasswordAndHash(params.Password, user.PasswordHash)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to compare password")
		return nil, err
	} else if !match {
		s.logger.Error().Msg("passwords do not match")
		return nil, ErrInvalidCredentials
	}

	ttl := s.jwtTokenTTL
	if params.RememberMe {
		ttl = s.jwtRememberMeTokenTTL
	}

	token, expiresAt, err := s.issueToken(user.ID, ttl)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to issue token")
		return nil, err
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Bool("remember_me", params.RememberMe).
		Msg("logged in")
	return &AuthResult{
		User:           &user,
		Token:          token,
		TokenExpiresAt: expiresAt,
	}, nil
}

func (s *authServiceImpl) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to parse token")
		return nil, ErrInvalidToken
	}

	user := models.User{
		ID: claims.Subject,
	}

	const selectUserByIDQuery = `
SELECT email,
       password_hash,
       created_at,
       updated_at
FROM users
WHERE id = $1
`
	err = s.pgPool.QueryRow(
		ctx,
		selectUserByIDQuery,
		user.ID,
	).Scan(
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Error().
				Str("user_id", user.ID).
				Msg("token references a missing user")
			return nil, ErrInvalidToken
		}

		s.logger.Error().
			Err(err).
			Str("user_id", user.ID).
			Msg("failed to select user by id")
		return nil, err
	}
	s.logger.Debug().
		Str("user_id", user.ID).
		Msg("authenticated user")

	return &user, nil
}

func (s *authServiceImpl) issueToken(userID string, ttl time.Duration) (string, time.Time, error) {
	tokenUUID, err := uuid.NewRandom()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate id: %w", err)
	}

	now := time.Now()
	expiresAt := now.Add(ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        tokenUUID.String(),
		Issuer:    s.jwtIssuer,
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		NotBefore: jwt.NewNumericDate(now),
		IssuedAt:  jwt.NewNumericDate(now),
	})

	signed, err := token.SignedString(s.jwtSigningKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

func (s *authServiceImpl) parseToken(token string) (*jwt.RegisteredClaims, error) {
	t, err := jwt.ParseWithClaims(
		token,
		&jwt.RegisteredClaims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.jwtSigningKey, nil
		},
		jwt.WithIssuer(s.jwtIssuer),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("token is expired: %w", err)
		}
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := t.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return nil, errors.New("unexpected token claims")
	}
	return claims, nil
}

func foldEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
