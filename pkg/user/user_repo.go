package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

var ErrUserNotFound = errors.New("user not found")

type Repo interface {
	CreateUser(ctx context.Context, user User) (int, error)
	GetUser(ctx context.Context, id int) (User, error)
	FindByToken(ctx context.Context, token string) (User, error)
	FindActiveUsers(ctx context.Context) ([]User, error)
	UpdateOvertime(ctx context.Context, id int, overtime float64) error
}

type UserRepoImpl struct {
	db *pgxpool.Pool
}

func NewUserRepo(db *pgxpool.Pool) *UserRepoImpl {
	return &UserRepoImpl{db: db}
}

const userColumns = `id, toggl_id, name, token, active, overtime`

func (u *UserRepoImpl) CreateUser(ctx context.Context, user User) (int, error) {
	query := `INSERT INTO users (toggl_id, name, token, active, overtime) VALUES ($1, $2, $3, $4, $5) RETURNING id`
	var id int
	err := u.db.QueryRow(ctx, query,
		user.TogglId,
		user.Name,
		NormalizeToken(user.Token),
		user.Active,
		user.Overtime,
	).Scan(&id)
	if err != nil {
		log.Errorf("failed to create user: %v", err)
		return 0, err
	}
	return id, nil
}

func (u *UserRepoImpl) GetUser(ctx context.Context, id int) (User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	found, err := scanUser(u.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		log.Infof("user with id %d not found", id)
		return User{}, ErrUserNotFound
	} else if err != nil {
		log.Errorf("failed to get user: %v", err)
		return User{}, err
	}
	return found, nil
}

func (u *UserRepoImpl) FindByToken(ctx context.Context, token string) (User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE token = $1`
	found, err := scanUser(u.db.QueryRow(ctx, query, NormalizeToken(token)))
	if errors.Is(err, pgx.ErrNoRows) {
		log.Infof("user with token %s not found", token)
		return User{}, ErrUserNotFound
	} else if err != nil {
		log.Errorf("failed to get user: %v", err)
		return User{}, err
	}
	return found, nil
}

func (u *UserRepoImpl) FindActiveUsers(ctx context.Context) ([]User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE active ORDER BY name`
	rows, err := u.db.Query(ctx, query)
	if err != nil {
		log.Errorf("failed to get users: %v", err)
		return nil, err
	}
	defer rows.Close()

	users := make([]User, 0, 10)
	for rows.Next() {
		found, err := scanUser(rows)
		if err != nil {
			err := fmt.Errorf("could not scan user: %w", err)
			log.Error(err)
			return nil, err
		}
		users = append(users, found)
	}
	return users, rows.Err()
}

func (u *UserRepoImpl) UpdateOvertime(ctx context.Context, id int, overtime float64) error {
	result, err := u.db.Exec(ctx, `UPDATE users SET overtime = $1 WHERE id = $2`, overtime, id)
	if err != nil {
		log.Errorf("failed to update overtime of user %d: %v", id, err)
		return err
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: id %d", ErrUserNotFound, id)
	}
	return nil
}

func scanUser(row pgx.Row) (User, error) {
	var user User
	err := row.Scan(&user.Id, &user.TogglId, &user.Name, &user.Token, &user.Active, &user.Overtime)
	return user, err
}
