package usersvc

import (
	"context"
	"errors"
	"time"
)

type User struct {
	ID        string    `json:"id" gorm:"primaryKey" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	Email     string    `json:"email" gorm:"uniqueIndex" bson:"email"`
	Password  string    `json:"-" bson:"password"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

type UserRepository interface {
	Create(ctx context.Context, user User) (User, error)
	FindByEmail(ctx context.Context, email string) (User, error)
	Find(ctx context.Context, id string) (User, error)
}

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailTaken      = errors.New("email already registered")
)
