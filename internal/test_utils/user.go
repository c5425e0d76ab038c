package test_utils

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
)

// InsertUser stores an active user row and returns its id.
func InsertUser(t *testing.T, db *pgxpool.Pool, token string) int {
	t.Helper()
	var id int
	err := db.QueryRow(context.Background(),
		`INSERT INTO users (name, token, active) VALUES ($1, $1, true) RETURNING id`, token,
	).Scan(&id)
	if err != nil {
		t.Fatalf("failed to insert user %s: %v", token, err)
	}
	return id
}
