package user

import (
	"context"
	"errors"
	"fmt"
)

type Service interface {
	GetCurrentUser(ctx context.Context) (User, error)
	CreateUser(ctx context.Context, user User) (User, error)
	GetUser(ctx context.Context, id int) (User, error)
	GetUserByToken(ctx context.Context, token string) (User, error)
	GetActiveUsers(ctx context.Context) ([]User, error)
	UpdateOvertime(ctx context.Context, id int, overtime float64) error
}

type UserServiceImpl struct {
	repo Repo
}

func NewUserService(repo Repo) *UserServiceImpl {
	return &UserServiceImpl{repo: repo}
}

func (u *UserServiceImpl) GetCurrentUser(ctx context.Context) (User, error) {
	current, err := CurrentUser(ctx)
	if err != nil {
		return User{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return u.GetUser(ctx, current.Id)
}

func (u *UserServiceImpl) CreateUser(ctx context.Context, user User) (User, error) {
	if NormalizeToken(user.Token) == "" {
		return User{}, errors.New("user token is required")
	}
	if user.Name == "" {
		user.Name = user.Token
	}
	user.Token = NormalizeToken(user.Token)
	id, err := u.repo.CreateUser(ctx, user)
	if err != nil {
		return User{}, err
	}
	user.Id = id
	return user, nil
}

func (u *UserServiceImpl) GetUser(ctx context.Context, id int) (User, error) {
	return u.repo.GetUser(ctx, id)
}

func (u *UserServiceImpl) GetUserByToken(ctx context.Context, token string) (User, error) {
	return u.repo.FindByToken(ctx, token)
}

func (u *UserServiceImpl) GetActiveUsers(ctx context.Context) ([]User, error) {
	return u.repo.FindActiveUsers(ctx)
}

func (u *UserServiceImpl) UpdateOvertime(ctx context.Context, id int, overtime float64) error {
	return u.repo.UpdateOvertime(ctx, id, overtime)
}
