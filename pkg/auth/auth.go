package auth

import (
	"context"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

const (
	// PermCanMarkReturned lets a librarian see every loan and renew it.
	PermCanMarkReturned = "catalog.can_mark_returned"
)

var (
	ErrNoUser       = errors.New("user is not authenticated")
	ErrInvalidToken = errors.New("invalid token")
)

type Config struct {
	Secret string        `yaml:"secret" json:"-" envconfig:"JWT_SECRET" required:"true"`
	TTL    time.Duration `yaml:"ttl" envconfig:"JWT_TTL" default:"24h"`
}

type Claims struct {
	Profile struct {
		Username    string   `json:"username"`
		Permissions []string `json:"permissions"`
	} `json:"profile"`
	jwt.RegisteredClaims
}

// User is the caller identity carried through the request context.
type User struct {
	Username    string
	Permissions []string
}

func (u User) HasPerm(perm string) bool {
	return slices.Contains(u.Permissions, perm)
}

type Issuer struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

func NewIssuer(cfg Config) *Issuer {
	return &Issuer{
		key: []byte(cfg.Secret),
		ttl: cfg.TTL,
		now: time.Now,
	}
}

// Issue signs an HS256 token for the user and returns it with its expiry.
func (i *Issuer) Issue(u User) (string, time.Time, error) {
	now := i.now()
	exp := now.Add(i.ttl)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	claims.Profile.Username = u.Username
	claims.Profile.Permissions = u.Permissions

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.key)
	if err != nil {
		return "", time.Time{}, errors.Wrap(err, "sign token")
	}
	return signed, exp, nil
}

func (i *Issuer) Parse(tokenStr string) (User, error) {
	claims := new(Claims)
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return i.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil || !token.Valid {
		return User{}, ErrInvalidToken
	}
	if claims.Profile.Username == "" {
		return User{}, ErrInvalidToken
	}
	return User{
		Username:    claims.Profile.Username,
		Permissions: claims.Profile.Permissions,
	}, nil
}

type ctxKey struct{}

func SetAuthContext(ctx context.Context, u User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

func GetUser(ctx context.Context) (User, error) {
	u, ok := ctx.Value(ctxKey{}).(User)
	if !ok {
		return User{}, ErrNoUser
	}
	return u, nil
}
