package jwt

import (
	"errors"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// Roles distinguish the two caller populations. Applicant tokens are minted
// by the external identity provider with the shared secret; company tokens
// are minted here at login.
type Role string

const (
	RoleApplicant Role = "applicant"
	RoleCompany   Role = "company"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

type Claims struct {
	SubjectID string `json:"subject_id"`
	Email     string `json:"email,omitempty"`
	Name      string `json:"name,omitempty"`
	TokenRole Role   `json:"role"`

	jwtlib.RegisteredClaims
}

type Service interface {
	Generate(subjectID string, role Role, email string) (string, error)
	Validate(tokenString string) (Claims, error)
}

type HMACService struct {
	secret    []byte
	expiresIn time.Duration

	now func() time.Time
}

func NewHMACService(secret string, expiresIn time.Duration) *HMACService {
	return &HMACService{
		secret:    []byte(secret),
		expiresIn: expiresIn,
		now:       time.Now,
	}
}

func (s *HMACService) Generate(subjectID string, role Role, email string) (string, error) {
	now := s.now()
	c := Claims{
		SubjectID: subjectID,
		Email:     email,
		TokenRole: role,
		RegisteredClaims: jwtlib.RegisteredClaims{
			IssuedAt:  jwtlib.NewNumericDate(now.UTC()),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(s.expiresIn).UTC()),
			Subject:   subjectID,
		},
	}

	t := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, c)
	return t.SignedString(s.secret)
}

func (s *HMACService) Validate(tokenString string) (Claims, error) {
	p := jwtlib.NewParser(jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}))

	var c Claims
	token, err := p.ParseWithClaims(tokenString, &c, func(*jwtlib.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrTokenInvalid
	}
	if !token.Valid {
		return Claims{}, ErrTokenInvalid
	}
	if c.SubjectID == "" {
		c.SubjectID = c.Subject
	}
	if c.SubjectID == "" {
		return Claims{}, ErrTokenInvalid
	}

	return c, nil
}
