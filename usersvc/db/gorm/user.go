package gorm

import (
	"context"
	"errors"
	"strings"

	"github.com/Vaishnavi4104/TodoFlow/usersvc"
	"github.com/twinj/uuid"
	libgorm "gorm.io/gorm"
)

type userRepository struct {
	db *libgorm.DB
}

func NewUserRepository(db *libgorm.DB) usersvc.UserRepository {
	return &userRepository{db}
}

func (u *userRepository) Create(ctx context.Context, user usersvc.User) (usersvc.User, error) {
	user.ID = uuid.NewV4().String()

	result := u.db.WithContext(ctx).Create(&user)
	if result.Error != nil {
		if isDuplicate(result.Error) {
			return usersvc.User{}, usersvc.ErrEmailTaken
		}
		return usersvc.User{}, result.Error
	}

	return user, nil
}

func (u *userRepository) FindByEmail(ctx context.Context, email string) (usersvc.User, error) {
	var user usersvc.User
	result := u.db.WithContext(ctx).Where("email = ?", email).First(&user)

	if errors.Is(result.Error, libgorm.ErrRecordNotFound) {
		return usersvc.User{}, usersvc.ErrUserNotFound
	}

	return user, result.Error
}

func (u *userRepository) Find(ctx context.Context, id string) (usersvc.User, error) {
	var user usersvc.User
	result := u.db.WithContext(ctx).Where("id = ?", id).First(&user)

	if errors.Is(result.Error, libgorm.ErrRecordNotFound) {
		return usersvc.User{}, usersvc.ErrUserNotFound
	}

	return user, result.Error
}

// sqlite and postgres report unique violations with different texts and
// neither driver exposes a portable sentinel at this gorm version.
func isDuplicate(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
