package rdb

import (
	"context"
	"database/sql"
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskledger/pkg/domain/model"
	"github.com/secmon-lab/riskledger/pkg/utils/safe"
)

const incidentColumns = `id, risk_id, summary, description, mitigation_steps, current_status_text,
	occurred_at, closed_date, department, created_at, updated_at`

type incidentRepository struct {
	c *conn
}

func scanIncident(row rowScanner) (*model.Incident, error) {
	var (
		i                                model.Incident
		id, riskID                       string
		occurredAt, createdAt, updatedAt int64
		closedDate                       sql.NullInt64
	)
	if err := row.Scan(&id, &riskID, &i.Summary, &i.Description, &i.MitigationSteps, &i.CurrentStatusText,
		&occurredAt, &closedDate, &i.Department, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	i.ID = model.IncidentID(id)
	i.RiskID = model.RiskID(riskID)
	i.OccurredAt = fromNanos(occurredAt)
	if closedDate.Valid {
		closed := fromNanos(closedDate.Int64)
		i.ClosedDate = &closed
	}
	i.CreatedAt = fromNanos(createdAt)
	i.UpdatedAt = fromNanos(updatedAt)
	return &i, nil
}

func closedDateValue(i *model.Incident) sql.NullInt64 {
	if i.ClosedDate == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: i.ClosedDate.UnixNano(), Valid: true}
}

func (r *incidentRepository) Create(ctx context.Context, incident *model.Incident) (*model.Incident, error) {
	if _, err := r.c.exec(ctx, r.c.db, `INSERT INTO incidents (`+incidentColumns+`) VALUES (`+placeholders(11)+`)`,
		string(incident.ID), string(incident.RiskID), incident.Summary, incident.Description,
		incident.MitigationSteps, incident.CurrentStatusText, toNanos(incident.OccurredAt),
		closedDateValue(incident), incident.Department,
		toNanos(incident.CreatedAt), toNanos(incident.UpdatedAt)); err != nil {
		return nil, storeError(err, "failed to create incident", goerr.V(model.IncidentIDKey, incident.ID))
	}
	return incident.Clone(), nil
}

func (r *incidentRepository) get(ctx context.Context, q querier, id model.IncidentID) (*model.Incident, error) {
	incident, err := scanIncident(r.c.queryRow(ctx, q, `SELECT `+incidentColumns+` FROM incidents WHERE id = ?`, string(id)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, goerr.Wrap(model.ErrNotFound, "incident not found", goerr.V(model.IncidentIDKey, id))
		}
		return nil, storeError(err, "failed to get incident", goerr.V(model.IncidentIDKey, id))
	}
	return incident, nil
}

func (r *incidentRepository) Get(ctx context.Context, id model.IncidentID) (*model.Incident, error) {
	return r.get(ctx, r.c.db, id)
}

func (r *incidentRepository) Update(ctx context.Context, incident *model.Incident) (*model.Incident, error) {
	var updated *model.Incident
	err := r.c.inTx(ctx, func(tx *sql.Tx) error {
		res, err := r.c.exec(ctx, tx, `UPDATE incidents SET
			summary = ?, description = ?, mitigation_steps = ?, current_status_text = ?,
			occurred_at = ?, closed_date = ?, updated_at = ?
			WHERE id = ?`,
			incident.Summary, incident.Description, incident.MitigationSteps, incident.CurrentStatusText,
			toNanos(incident.OccurredAt), closedDateValue(incident), toNanos(incident.UpdatedAt),
			string(incident.ID))
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return goerr.Wrap(model.ErrNotFound, "incident not found", goerr.V(model.IncidentIDKey, incident.ID))
		}

		updated, err = r.get(ctx, tx, incident.ID)
		return err
	})
	if err != nil {
		return nil, storeError(err, "failed to update incident", goerr.V(model.IncidentIDKey, incident.ID))
	}
	return updated, nil
}

func (r *incidentRepository) Delete(ctx context.Context, id model.IncidentID) error {
	res, err := r.c.exec(ctx, r.c.db, `DELETE FROM incidents WHERE id = ?`, string(id))
	if err != nil {
		return storeError(err, "failed to delete incident", goerr.V(model.IncidentIDKey, id))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storeError(err, "failed to delete incident", goerr.V(model.IncidentIDKey, id))
	}
	if n == 0 {
		return goerr.Wrap(model.ErrNotFound, "incident not found", goerr.V(model.IncidentIDKey, id))
	}
	return nil
}

func (r *incidentRepository) List(ctx context.Context) ([]*model.Incident, error) {
	return r.list(ctx, `SELECT `+incidentColumns+` FROM incidents ORDER BY occurred_at DESC, id`)
}

func (r *incidentRepository) ListByRisk(ctx context.Context, riskID model.RiskID) ([]*model.Incident, error) {
	return r.list(ctx, `SELECT `+incidentColumns+` FROM incidents WHERE risk_id = ? ORDER BY occurred_at DESC, id`, string(riskID))
}

func (r *incidentRepository) list(ctx context.Context, query string, args ...any) ([]*model.Incident, error) {
	rows, err := r.c.query(ctx, r.c.db, query, args...)
	if err != nil {
		return nil, storeError(err, "failed to list incidents")
	}
	defer safe.Close(ctx, rows)

	var incidents []*model.Incident
	for rows.Next() {
		incident, err := scanIncident(rows)
		if err != nil {
			return nil, storeError(err, "failed to scan incident")
		}
		incidents = append(incidents, incident)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError(err, "failed to iterate incidents")
	}
	return incidents, nil
}
