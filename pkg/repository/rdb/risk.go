package rdb

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskledger/pkg/domain/model"
	"github.com/secmon-lab/riskledger/pkg/domain/types"
	"github.com/secmon-lab/riskledger/pkg/utils/safe"
)

const riskColumns = `id, risk_no, department, name, description, impact, likelihood, status,
	owner_id, created_by_user_id, identification, existing_control_in_place,
	plan_of_action, category, level, created_at, updated_at`

type riskRepository struct {
	c *conn
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRisk(row rowScanner) (*model.Risk, error) {
	var (
		r                    model.Risk
		id, ownerID, creator string
		impact, likelihood   string
		status, ident        string
		createdAt, updatedAt int64
	)
	if err := row.Scan(&id, &r.RiskNo, &r.Department, &r.Name, &r.Description,
		&impact, &likelihood, &status, &ownerID, &creator, &ident,
		&r.ExistingControlInPlace, &r.PlanOfAction, &r.Category, &r.Level,
		&createdAt, &updatedAt); err != nil {
		return nil, err
	}

	r.ID = model.RiskID(id)
	r.Impact = types.Impact(impact)
	r.Likelihood = types.Likelihood(likelihood)
	r.Status = types.RiskStatus(status)
	r.OwnerID = model.OwnerID(ownerID)
	r.CreatedByUserID = model.UserID(creator)
	r.Identification = types.Identification(ident)
	r.CreatedAt = fromNanos(createdAt)
	r.UpdatedAt = fromNanos(updatedAt)
	return &r, nil
}

func (r *riskRepository) Create(ctx context.Context, risk *model.Risk) (*model.Risk, error) {
	_, err := r.c.exec(ctx, r.c.db, `INSERT INTO risks (`+riskColumns+`, department_key) VALUES (`+placeholders(18)+`)`,
		string(risk.ID), risk.RiskNo, risk.Department, risk.Name, risk.Description,
		string(risk.Impact), string(risk.Likelihood), string(risk.Status),
		string(risk.OwnerID), string(risk.CreatedByUserID), string(risk.Identification),
		risk.ExistingControlInPlace, risk.PlanOfAction, risk.Category, risk.Level,
		toNanos(risk.CreatedAt), toNanos(risk.UpdatedAt), model.FoldDepartment(risk.Department))
	if err != nil {
		return nil, storeError(err, "failed to create risk",
			goerr.V(model.RiskIDKey, risk.ID),
			goerr.V(model.DepartmentKey, risk.Department),
			goerr.V(model.RiskNoKey, risk.RiskNo))
	}
	return risk.Clone(), nil
}

func (r *riskRepository) get(ctx context.Context, q querier, id model.RiskID) (*model.Risk, error) {
	risk, err := scanRisk(r.c.queryRow(ctx, q, `SELECT `+riskColumns+` FROM risks WHERE id = ?`, string(id)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, goerr.Wrap(model.ErrNotFound, "risk not found", goerr.V(model.RiskIDKey, id))
		}
		return nil, storeError(err, "failed to get risk", goerr.V(model.RiskIDKey, id))
	}
	return risk, nil
}

func (r *riskRepository) Get(ctx context.Context, id model.RiskID) (*model.Risk, error) {
	return r.get(ctx, r.c.db, id)
}

func (r *riskRepository) Update(ctx context.Context, risk *model.Risk) (*model.Risk, error) {
	var updated *model.Risk
	err := r.c.inTx(ctx, func(tx *sql.Tx) error {
		res, err := r.c.exec(ctx, tx, `UPDATE risks SET
			name = ?, description = ?, impact = ?, likelihood = ?, status = ?,
			owner_id = ?, created_by_user_id = ?, identification = ?,
			existing_control_in_place = ?, plan_of_action = ?, category = ?,
			level = ?, updated_at = ?
			WHERE id = ?`,
			risk.Name, risk.Description, string(risk.Impact), string(risk.Likelihood), string(risk.Status),
			string(risk.OwnerID), string(risk.CreatedByUserID), string(risk.Identification),
			risk.ExistingControlInPlace, risk.PlanOfAction, risk.Category,
			risk.Level, toNanos(risk.UpdatedAt),
			string(risk.ID))
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return goerr.Wrap(model.ErrNotFound, "risk not found", goerr.V(model.RiskIDKey, risk.ID))
		}

		updated, err = r.get(ctx, tx, risk.ID)
		return err
	})
	if err != nil {
		return nil, storeError(err, "failed to update risk", goerr.V(model.RiskIDKey, risk.ID))
	}
	return updated, nil
}

func (r *riskRepository) Delete(ctx context.Context, id model.RiskID) error {
	res, err := r.c.exec(ctx, r.c.db, `DELETE FROM risks WHERE id = ?`, string(id))
	if err != nil {
		return storeError(err, "failed to delete risk", goerr.V(model.RiskIDKey, id))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storeError(err, "failed to delete risk", goerr.V(model.RiskIDKey, id))
	}
	if n == 0 {
		return goerr.Wrap(model.ErrNotFound, "risk not found", goerr.V(model.RiskIDKey, id))
	}
	return nil
}

func (r *riskRepository) Query(ctx context.Context, q model.RiskQuery) ([]*model.Risk, error) {
	var (
		conds []string
		args  []any
	)
	if q.Department != nil {
		conds = append(conds, "department_key = ?")
		args = append(args, model.FoldDepartment(*q.Department))
	}
	if q.OwnerID != "" {
		conds = append(conds, "owner_id = ?")
		args = append(args, string(q.OwnerID))
	}
	if !q.CreatedBefore.IsZero() {
		conds = append(conds, "created_at < ?")
		args = append(args, toNanos(q.CreatedBefore))
	}
	if len(q.Statuses) > 0 {
		conds = append(conds, "status IN ("+placeholders(len(q.Statuses))+")")
		for _, s := range q.Statuses {
			args = append(args, string(s))
		}
	}

	query := `SELECT ` + riskColumns + ` FROM risks`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY created_at, risk_no`

	rows, err := r.c.query(ctx, r.c.db, query, args...)
	if err != nil {
		return nil, storeError(err, "failed to query risks")
	}
	defer safe.Close(ctx, rows)

	var risks []*model.Risk
	for rows.Next() {
		risk, err := scanRisk(rows)
		if err != nil {
			return nil, storeError(err, "failed to scan risk")
		}
		risks = append(risks, risk)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError(err, "failed to iterate risks")
	}
	return risks, nil
}

func (r *riskRepository) ListRiskNos(ctx context.Context, department string) ([]string, error) {
	rows, err := r.c.query(ctx, r.c.db, `SELECT risk_no FROM risks WHERE department_key = ? ORDER BY risk_no`,
		model.FoldDepartment(department))
	if err != nil {
		return nil, storeError(err, "failed to list risk numbers", goerr.V(model.DepartmentKey, department))
	}
	defer safe.Close(ctx, rows)

	var numbers []string
	for rows.Next() {
		var no string
		if err := rows.Scan(&no); err != nil {
			return nil, storeError(err, "failed to scan risk number")
		}
		numbers = append(numbers, no)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError(err, "failed to iterate risk numbers")
	}
	return numbers, nil
}
