package rdb

import (
	"context"
	"database/sql"
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskledger/pkg/domain/model"
	"github.com/secmon-lab/riskledger/pkg/domain/types"
	"github.com/secmon-lab/riskledger/pkg/utils/safe"
)

type userRepository struct {
	c *conn
}

func scanUser(row rowScanner) (*model.User, error) {
	var (
		u         model.User
		id, role  string
		createdAt int64
	)
	if err := row.Scan(&id, &u.Name, &u.Email, &role, &u.Department, &createdAt); err != nil {
		return nil, err
	}
	u.ID = model.UserID(id)
	u.Role = types.Role(role)
	u.CreatedAt = fromNanos(createdAt)
	return &u, nil
}

func (r *userRepository) Put(ctx context.Context, user *model.User) error {
	if _, err := r.c.exec(ctx, r.c.db, `INSERT INTO users (id, name, email, role, department, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			role = excluded.role,
			department = excluded.department,
			created_at = excluded.created_at`,
		string(user.ID), user.Name, user.Email, string(user.Role), user.Department, toNanos(user.CreatedAt)); err != nil {
		return storeError(err, "failed to put user", goerr.V(model.UserIDKey, user.ID))
	}
	return nil
}

func (r *userRepository) Get(ctx context.Context, id model.UserID) (*model.User, error) {
	user, err := scanUser(r.c.queryRow(ctx, r.c.db,
		`SELECT id, name, email, role, department, created_at FROM users WHERE id = ?`, string(id)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, goerr.Wrap(model.ErrNotFound, "user not found", goerr.V(model.UserIDKey, id))
		}
		return nil, storeError(err, "failed to get user", goerr.V(model.UserIDKey, id))
	}
	return user, nil
}

func (r *userRepository) List(ctx context.Context) ([]*model.User, error) {
	rows, err := r.c.query(ctx, r.c.db, `SELECT id, name, email, role, department, created_at FROM users ORDER BY id`)
	if err != nil {
		return nil, storeError(err, "failed to list users")
	}
	defer safe.Close(ctx, rows)

	var users []*model.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, storeError(err, "failed to scan user")
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError(err, "failed to iterate users")
	}
	return users, nil
}
