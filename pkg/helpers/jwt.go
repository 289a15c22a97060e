package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWTManager signs session tokens (login) and activation tokens (email link)
// with separate secrets so one can never be replayed as the other.
type JWTManager struct {
	SessionSecret    []byte
	ActivationSecret []byte
	SessionTTL       time.Duration
	ActivationTTL    time.Duration
}

func NewJWTManager(sessionSecret, activationSecret string, sessionTTL, activationTTL time.Duration) *JWTManager {
	return &JWTManager{
		SessionSecret:    []byte(sessionSecret),
		ActivationSecret: []byte(activationSecret),
		SessionTTL:       sessionTTL,
		ActivationTTL:    activationTTL,
	}
}

type SessionClaims struct {
	UserID string `json:"uid"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

type ActivationClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func (m *JWTManager) GenerateSessionToken(userID, email string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(m.SessionTTL)
	claims := &SessionClaims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.SessionSecret)
	return s, exp, err
}

// GenerateActivationToken carries a random jti so two tokens for the same
// address issued in the same second still differ.
func (m *JWTManager) GenerateActivationToken(email string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(m.ActivationTTL)
	claims := &ActivationClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.ActivationSecret)
	return s, exp, err
}

func (m *JWTManager) ParseSessionToken(tokenStr string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	if err := parseToken(tokenStr, claims, m.SessionSecret); err != nil {
		return nil, err
	}
	if claims.UserID == "" {
		return nil, errors.New("token has no subject")
	}
	return claims, nil
}

func (m *JWTManager) ParseActivationToken(tokenStr string) (*ActivationClaims, error) {
	claims := &ActivationClaims{}
	if err := parseToken(tokenStr, claims, m.ActivationSecret); err != nil {
		return nil, err
	}
	if claims.Email == "" {
		return nil, errors.New("token has no email")
	}
	return claims, nil
}

func parseToken(tokenStr string, claims jwt.Claims, secret []byte) error {
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		return err
	}
	if !tkn.Valid {
		return errors.New("invalid token")
	}
	return nil
}
