package rdb

import (
	"context"
	"database/sql"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskledger/pkg/domain/model"
	"github.com/secmon-lab/riskledger/pkg/utils/safe"
)

type historyRepository struct {
	c *conn
}

func (r *historyRepository) Append(ctx context.Context, entries ...*model.RiskHistory) error {
	if len(entries) == 0 {
		return nil
	}

	err := r.c.inTx(ctx, func(tx *sql.Tx) error {
		for _, e := range entries {
			if _, err := r.c.exec(ctx, tx, `INSERT INTO risk_history
				(id, risk_id, changed_at, changed_by_user_id, field_name, old_value, new_value)
				VALUES (?, ?, ?, ?, ?, ?, ?)`,
				string(e.ID), string(e.RiskID), toNanos(e.ChangedAt), string(e.ChangedByUserID),
				e.FieldName, e.OldValue, e.NewValue); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return storeError(err, "failed to append risk history", goerr.V("count", len(entries)))
	}
	return nil
}

func (r *historyRepository) ListByRisk(ctx context.Context, riskID model.RiskID) ([]*model.RiskHistory, error) {
	rows, err := r.c.query(ctx, r.c.db, `SELECT id, risk_id, changed_at, changed_by_user_id, field_name, old_value, new_value
		FROM risk_history WHERE risk_id = ? ORDER BY changed_at, field_name`, string(riskID))
	if err != nil {
		return nil, storeError(err, "failed to list risk history", goerr.V(model.RiskIDKey, riskID))
	}
	defer safe.Close(ctx, rows)

	var entries []*model.RiskHistory
	for rows.Next() {
		var (
			id, rid, changedBy string
			changedAt          int64
			e                  model.RiskHistory
		)
		if err := rows.Scan(&id, &rid, &changedAt, &changedBy, &e.FieldName, &e.OldValue, &e.NewValue); err != nil {
			return nil, storeError(err, "failed to scan risk history")
		}
		e.ID = model.RiskHistoryID(id)
		e.RiskID = model.RiskID(rid)
		e.ChangedAt = fromNanos(changedAt)
		e.ChangedByUserID = model.UserID(changedBy)
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError(err, "failed to iterate risk history")
	}
	return entries, nil
}
