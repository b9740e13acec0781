package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/Vaishnavi4104/TodoFlow/usersvc"
	"github.com/twinj/uuid"
	"go.mongodb.org/mongo-driver/bson"
	libmongo "go.mongodb.org/mongo-driver/mongo"
)

const opTimeout = 5 * time.Second

type userRepository struct {
	users *libmongo.Collection
}

func NewUserRepository(db *libmongo.Database) usersvc.UserRepository {
	return &userRepository{users: db.Collection("users")}
}

func (u *userRepository) Create(ctx context.Context, user usersvc.User) (usersvc.User, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	err := u.users.FindOne(ctx, bson.M{"email": user.Email}).Err()
	if err == nil {
		return usersvc.User{}, usersvc.ErrEmailTaken
	}
	if !errors.Is(err, libmongo.ErrNoDocuments) {
		return usersvc.User{}, err
	}

	user.ID = uuid.NewV4().String()
	user.CreatedAt = time.Now()
	if _, err := u.users.InsertOne(ctx, user); err != nil {
		return usersvc.User{}, err
	}

	return user, nil
}

func (u *userRepository) FindByEmail(ctx context.Context, email string) (usersvc.User, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var user usersvc.User
	err := u.users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, libmongo.ErrNoDocuments) {
		return usersvc.User{}, usersvc.ErrUserNotFound
	}

	return user, err
}

func (u *userRepository) Find(ctx context.Context, id string) (usersvc.User, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var user usersvc.User
	err := u.users.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if errors.Is(err, libmongo.ErrNoDocuments) {
		return usersvc.User{}, usersvc.ErrUserNotFound
	}

	return user, err
}
