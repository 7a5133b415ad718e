package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskledger/pkg/domain/interfaces"
	"github.com/secmon-lab/riskledger/pkg/domain/model"
	"github.com/secmon-lab/riskledger/pkg/domain/model/config"
	"github.com/secmon-lab/riskledger/pkg/domain/types"
	"github.com/secmon-lab/riskledger/pkg/utils/logging"
)

type RiskUseCase struct {
	repo    interfaces.Repository
	policy  *config.Policy
	clock   func() time.Time
	metrics *Metrics
}

func NewRiskUseCase(repo interfaces.Repository, policy *config.Policy, clock func() time.Time, metrics *Metrics) *RiskUseCase {
	if policy == nil {
		policy = config.DefaultPolicy()
	}
	if clock == nil {
		clock = time.Now
	}
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	return &RiskUseCase{
		repo:    repo,
		policy:  policy,
		clock:   clock,
		metrics: metrics,
	}
}

func (uc *RiskUseCase) now() time.Time {
	return uc.clock().UTC()
}

// CreateRisk validates input, resolves department and owner, assigns the next
// risk number and stores the new risk
func (uc *RiskUseCase) CreateRisk(ctx context.Context, input model.RiskInput, creator *model.User) (*model.Risk, error) {
	if creator == nil {
		return nil, goerr.Wrap(model.ErrValidation, "creator is required")
	}
	if !creator.Role.IsValid() {
		return nil, goerr.Wrap(model.ErrValidation, "creator has invalid role",
			goerr.V(model.UserIDKey, creator.ID), goerr.V(ViewerRoleKey, creator.Role))
	}

	// The creator's profile wins over caller input
	department := creator.Department
	if department == "" {
		department = strings.TrimSpace(input.Department)
	}
	if department == "" && creator.Role != types.RoleAdmin {
		return nil, goerr.Wrap(model.ErrValidation, "department is required",
			goerr.V(model.UserIDKey, creator.ID), goerr.V(model.FieldKey, "department"))
	}

	now := uc.now()
	risk := &model.Risk{
		ID:                     model.NewRiskID(),
		Department:             department,
		Name:                   input.Name,
		Description:            input.Description,
		Impact:                 input.Impact,
		Likelihood:             input.Likelihood,
		Status:                 model.InitialStatus(creator.Role, input.Status),
		OwnerID:                input.OwnerID,
		CreatedByUserID:        creator.ID,
		Identification:         input.Identification,
		ExistingControlInPlace: input.ExistingControlInPlace,
		PlanOfAction:           input.PlanOfAction,
		Category:               input.Category,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
	if err := model.ValidateRiskFields(risk); err != nil {
		return nil, err
	}

	department, err := uc.canonicalDepartment(ctx, department)
	if err != nil {
		return nil, err
	}
	risk.Department = department

	ownerID, err := uc.resolveOwner(ctx, input.OwnerID, department)
	if err != nil {
		return nil, err
	}
	risk.OwnerID = ownerID
	if err := model.ValidateRisk(risk); err != nil {
		return nil, err
	}

	created, err := uc.createNumbered(ctx, risk)
	if err != nil {
		return nil, err
	}

	uc.metrics.risksCreated.WithLabelValues(string(created.Status)).Inc()
	logging.From(ctx).Info("risk created",
		"risk_id", created.ID,
		"risk_no", created.RiskNo,
		"department", created.Department,
		"status", created.Status)

	return created, nil
}

// canonicalDepartment returns the spelling already in use for department,
// taken from its owners first and then from its risks
func (uc *RiskUseCase) canonicalDepartment(ctx context.Context, department string) (string, error) {
	if department == "" {
		return "", nil
	}

	owners, err := uc.repo.Owner().List(ctx)
	if err != nil {
		return "", goerr.Wrap(err, "failed to list owners")
	}
	for _, o := range owners {
		if strings.EqualFold(o.Department, department) {
			return o.Department, nil
		}
	}

	risks, err := uc.repo.Risk().Query(ctx, model.RiskQuery{Department: &department})
	if err != nil {
		return "", goerr.Wrap(err, "failed to query risks", goerr.V(model.DepartmentKey, department))
	}
	if len(risks) > 0 {
		return risks[0].Department, nil
	}
	return department, nil
}

// resolveOwner returns ownerID after checking it exists. Without one, the
// first owner of the department is picked, and a default owner is created
// when the department has none.
func (uc *RiskUseCase) resolveOwner(ctx context.Context, ownerID model.OwnerID, department string) (model.OwnerID, error) {
	if ownerID != "" {
		if _, err := uc.repo.Owner().Get(ctx, ownerID); err != nil {
			return "", goerr.Wrap(err, "failed to get owner", goerr.V(model.OwnerIDKey, ownerID))
		}
		return ownerID, nil
	}

	owners, err := uc.repo.Owner().List(ctx)
	if err != nil {
		return "", goerr.Wrap(err, "failed to list owners")
	}
	for _, o := range owners {
		if strings.EqualFold(o.Department, department) {
			return o.ID, nil
		}
	}

	owner, err := uc.repo.Owner().Create(ctx, &model.Owner{
		ID:         model.NewOwnerID(),
		Name:       uc.policy.DefaultOwnerName,
		Department: department,
		CreatedAt:  uc.now(),
	})
	if err != nil {
		return "", goerr.Wrap(err, "failed to create default owner", goerr.V(model.DepartmentKey, department))
	}

	logging.From(ctx).Info("default owner created",
		"owner_id", owner.ID,
		"department", department)
	return owner.ID, nil
}

// getNormalized reads a risk and upgrades it if it was written by an older schema
func (uc *RiskUseCase) getNormalized(ctx context.Context, id model.RiskID) (*model.Risk, error) {
	risk, err := uc.repo.Risk().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get risk", goerr.V(model.RiskIDKey, id))
	}
	normalized, _ := model.NormalizeRisk(risk)
	return normalized, nil
}

// GetRisk returns a risk visible to viewer. Risks outside the viewer's scope
// are reported as not found.
func (uc *RiskUseCase) GetRisk(ctx context.Context, viewer *model.User, id model.RiskID) (*model.Risk, error) {
	risk, err := uc.getNormalized(ctx, id)
	if err != nil {
		return nil, err
	}
	if !model.CanViewRisk(viewer, risk, uc.policy.UnitHeadScope) {
		return nil, goerr.Wrap(model.ErrNotFound, "risk not found", goerr.V(model.RiskIDKey, id))
	}
	return risk, nil
}

// UpdateRisk applies patch and records one history entry per changed field.
// A patch that changes nothing is not written.
func (uc *RiskUseCase) UpdateRisk(ctx context.Context, id model.RiskID, patch *model.RiskPatch, changedBy model.UserID) (*model.Risk, error) {
	prev, err := uc.getNormalized(ctx, id)
	if err != nil {
		return nil, err
	}

	next := patch.Apply(prev)
	if err := model.ValidateRisk(next); err != nil {
		return nil, err
	}
	if next.OwnerID != prev.OwnerID {
		if _, err := uc.repo.Owner().Get(ctx, next.OwnerID); err != nil {
			return nil, goerr.Wrap(err, "failed to get owner", goerr.V(model.OwnerIDKey, next.OwnerID))
		}
	}

	return uc.save(ctx, prev, next, changedBy)
}

// save persists next when it differs from prev and records the changes
func (uc *RiskUseCase) save(ctx context.Context, prev, next *model.Risk, changedBy model.UserID) (*model.Risk, error) {
	if !model.RiskChanged(prev, next) {
		return prev, nil
	}

	next.UpdatedAt = model.Touch(prev.UpdatedAt, uc.now())
	updated, err := uc.repo.Risk().Update(ctx, next)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update risk", goerr.V(model.RiskIDKey, next.ID))
	}

	if _, err := uc.recordChanges(ctx, prev, updated, changedBy); err != nil {
		return nil, err
	}
	return updated, nil
}

// ApproveRisk moves a risk to New. Only managers and admins may approve, and
// only risks they can see.
func (uc *RiskUseCase) ApproveRisk(ctx context.Context, id model.RiskID, approver *model.User) (*model.Risk, error) {
	if approver == nil || !approver.Role.CanApprove() {
		var role any
		if approver != nil {
			role = approver.Role
		}
		return nil, goerr.Wrap(model.ErrPermissionDenied, "only managers and admins can approve risks",
			goerr.V(model.RiskIDKey, id), goerr.V(ViewerRoleKey, role))
	}

	prev, err := uc.getNormalized(ctx, id)
	if err != nil {
		return nil, err
	}
	if !model.CanViewRisk(approver, prev, uc.policy.UnitHeadScope) {
		return nil, goerr.Wrap(model.ErrPermissionDenied, "risk is outside approver's scope",
			goerr.V(model.RiskIDKey, id), goerr.V(ViewerIDKey, approver.ID))
	}

	approved, err := uc.save(ctx, prev, model.Approve(prev, uc.now()), approver.ID)
	if err != nil {
		return nil, err
	}

	logging.From(ctx).Info("risk approved",
		"risk_id", approved.ID,
		"risk_no", approved.RiskNo,
		"approver", approver.ID)
	return approved, nil
}

// DeleteRisk removes a risk. Risks with incidents are only deleted together
// with their incidents when cascade is set. History entries are kept.
func (uc *RiskUseCase) DeleteRisk(ctx context.Context, id model.RiskID, cascade bool) error {
	if _, err := uc.repo.Risk().Get(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to get risk", goerr.V(model.RiskIDKey, id))
	}

	incidents, err := uc.repo.Incident().ListByRisk(ctx, id)
	if err != nil {
		return goerr.Wrap(err, "failed to list incidents of risk", goerr.V(model.RiskIDKey, id))
	}
	if len(incidents) > 0 && !cascade {
		return goerr.Wrap(model.ErrReferentialIntegrity, "risk has incidents",
			goerr.V(model.RiskIDKey, id),
			goerr.V("incidents", len(incidents)))
	}

	for _, incident := range incidents {
		if err := uc.repo.Incident().Delete(ctx, incident.ID); err != nil {
			return goerr.Wrap(err, "failed to delete incident",
				goerr.V(model.RiskIDKey, id),
				goerr.V(model.IncidentIDKey, incident.ID))
		}
	}

	if err := uc.repo.Risk().Delete(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to delete risk", goerr.V(model.RiskIDKey, id))
	}

	logging.From(ctx).Info("risk deleted",
		"risk_id", id,
		"cascaded_incidents", len(incidents))
	return nil
}

// ListVisibleRisks returns the normalized risks the viewer may see, narrowed by filter
func (uc *RiskUseCase) ListVisibleRisks(ctx context.Context, viewer *model.User, filter model.RiskFilter) ([]*model.Risk, error) {
	if viewer == nil {
		return nil, goerr.Wrap(model.ErrPermissionDenied, "viewer is required")
	}

	risks, err := uc.repo.Risk().Query(ctx, model.RiskQuery{})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query risks")
	}

	normalized, _ := model.NormalizeRisks(risks)
	return model.VisibleRisks(viewer, normalized, filter, uc.policy.UnitHeadScope), nil
}

// ListHistory returns the change history of a risk visible to viewer, oldest first
func (uc *RiskUseCase) ListHistory(ctx context.Context, viewer *model.User, id model.RiskID) ([]*model.RiskHistory, error) {
	if _, err := uc.GetRisk(ctx, viewer, id); err != nil {
		return nil, err
	}

	entries, err := uc.repo.History().ListByRisk(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list risk history", goerr.V(model.RiskIDKey, id))
	}
	return entries, nil
}
