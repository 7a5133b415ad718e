package rdb

import (
	"context"
	"database/sql"
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskledger/pkg/domain/model"
	"github.com/secmon-lab/riskledger/pkg/utils/safe"
)

type ownerRepository struct {
	c *conn
}

func scanOwner(row rowScanner) (*model.Owner, error) {
	var (
		o         model.Owner
		id        string
		createdAt int64
	)
	if err := row.Scan(&id, &o.Name, &o.Department, &createdAt); err != nil {
		return nil, err
	}
	o.ID = model.OwnerID(id)
	o.CreatedAt = fromNanos(createdAt)
	return &o, nil
}

func (r *ownerRepository) Create(ctx context.Context, owner *model.Owner) (*model.Owner, error) {
	if _, err := r.c.exec(ctx, r.c.db, `INSERT INTO owners (id, name, department, created_at) VALUES (?, ?, ?, ?)`,
		string(owner.ID), owner.Name, owner.Department, toNanos(owner.CreatedAt)); err != nil {
		return nil, storeError(err, "failed to create owner", goerr.V(model.OwnerIDKey, owner.ID))
	}
	return owner.Clone(), nil
}

func (r *ownerRepository) Get(ctx context.Context, id model.OwnerID) (*model.Owner, error) {
	owner, err := scanOwner(r.c.queryRow(ctx, r.c.db,
		`SELECT id, name, department, created_at FROM owners WHERE id = ?`, string(id)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, goerr.Wrap(model.ErrNotFound, "owner not found", goerr.V(model.OwnerIDKey, id))
		}
		return nil, storeError(err, "failed to get owner", goerr.V(model.OwnerIDKey, id))
	}
	return owner, nil
}

func (r *ownerRepository) List(ctx context.Context) ([]*model.Owner, error) {
	rows, err := r.c.query(ctx, r.c.db, `SELECT id, name, department, created_at FROM owners ORDER BY created_at, id`)
	if err != nil {
		return nil, storeError(err, "failed to list owners")
	}
	defer safe.Close(ctx, rows)

	var owners []*model.Owner
	for rows.Next() {
		owner, err := scanOwner(rows)
		if err != nil {
			return nil, storeError(err, "failed to scan owner")
		}
		owners = append(owners, owner)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError(err, "failed to iterate owners")
	}
	return owners, nil
}

func (r *ownerRepository) Delete(ctx context.Context, id model.OwnerID) error {
	res, err := r.c.exec(ctx, r.c.db, `DELETE FROM owners WHERE id = ?`, string(id))
	if err != nil {
		return storeError(err, "failed to delete owner", goerr.V(model.OwnerIDKey, id))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storeError(err, "failed to delete owner", goerr.V(model.OwnerIDKey, id))
	}
	if n == 0 {
		return goerr.Wrap(model.ErrNotFound, "owner not found", goerr.V(model.OwnerIDKey, id))
	}
	return nil
}
