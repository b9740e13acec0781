package authservice

import (
	"time"

	"github.com/Vaishnavi4104/TodoFlow/authsvc"
	"github.com/dgrijalva/jwt-go"
	"github.com/twinj/uuid"
)

type AccessToken struct {
	UUID string
	Hash string
}

type Tokenizer interface {
	Generate(userID string) (*AccessToken, error)
}

type tokenizer struct{}

func NewTokenizer() Tokenizer {
	return &tokenizer{}
}

var uuidV4 = uuid.NewV4

func (t *tokenizer) Generate(userID string) (*AccessToken, error) {
	id := uuidV4().String()
	expiry := time.Now().Add(AccessTokenExpiry()).Unix()

	claims := jwt.MapClaims{
		"uuid":    id,
		"user_id": userID,
		"exp":     expiry,
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	hash, err := tok.SignedString([]byte(authsvc.AccessSecret))
	if err != nil {
		return nil, err
	}

	return &AccessToken{id, hash}, nil
}

// The token is the sole durable credential the client holds, so it lives
// long enough to survive browser restarts.
func AccessTokenExpiry() time.Duration {
	return time.Hour * 72
}
