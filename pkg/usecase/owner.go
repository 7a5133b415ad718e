package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskledger/pkg/domain/interfaces"
	"github.com/secmon-lab/riskledger/pkg/domain/model"
	"github.com/secmon-lab/riskledger/pkg/domain/model/config"
	"github.com/secmon-lab/riskledger/pkg/utils/logging"
)

type OwnerUseCase struct {
	repo   interfaces.Repository
	policy *config.Policy
	clock  func() time.Time
}

func NewOwnerUseCase(repo interfaces.Repository, policy *config.Policy, clock func() time.Time) *OwnerUseCase {
	if policy == nil {
		policy = config.DefaultPolicy()
	}
	if clock == nil {
		clock = time.Now
	}
	return &OwnerUseCase{
		repo:   repo,
		policy: policy,
		clock:  clock,
	}
}

func (uc *OwnerUseCase) CreateOwner(ctx context.Context, name, department string) (*model.Owner, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, goerr.Wrap(model.ErrValidation, "owner name is required", goerr.V(model.FieldKey, "name"))
	}

	owner, err := uc.repo.Owner().Create(ctx, &model.Owner{
		ID:         model.NewOwnerID(),
		Name:       name,
		Department: strings.TrimSpace(department),
		CreatedAt:  uc.clock().UTC(),
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create owner", goerr.V(model.DepartmentKey, department))
	}
	return owner, nil
}

// DeleteOwner removes an owner that no risk references. Only managers and
// admins may delete, and only owners of departments in their scope.
func (uc *OwnerUseCase) DeleteOwner(ctx context.Context, id model.OwnerID, viewer *model.User) error {
	if viewer == nil || !viewer.Role.CanApprove() {
		return goerr.Wrap(model.ErrPermissionDenied, "role cannot delete owners", goerr.V(model.OwnerIDKey, id))
	}

	owner, err := uc.repo.Owner().Get(ctx, id)
	if err != nil {
		return goerr.Wrap(err, "failed to get owner", goerr.V(model.OwnerIDKey, id))
	}
	if !model.CanViewDepartment(viewer, owner.Department, uc.policy.UnitHeadScope) {
		return goerr.Wrap(model.ErrNotFound, "owner not found",
			goerr.V(model.OwnerIDKey, id), goerr.V(model.UserIDKey, viewer.ID))
	}

	referencing, err := uc.repo.Risk().Query(ctx, model.RiskQuery{OwnerID: id})
	if err != nil {
		return goerr.Wrap(err, "failed to query risks of owner", goerr.V(model.OwnerIDKey, id))
	}
	if len(referencing) > 0 {
		return goerr.Wrap(model.ErrReferentialIntegrity, "owner is referenced by risks",
			goerr.V(model.OwnerIDKey, id),
			goerr.V("risks", len(referencing)))
	}

	if err := uc.repo.Owner().Delete(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to delete owner", goerr.V(model.OwnerIDKey, id))
	}

	logging.From(ctx).Info("owner deleted", "owner_id", id)
	return nil
}

// ListVisibleOwners returns owners of the departments in the viewer's scope
func (uc *OwnerUseCase) ListVisibleOwners(ctx context.Context, viewer *model.User) ([]*model.Owner, error) {
	if viewer == nil {
		return nil, goerr.Wrap(model.ErrPermissionDenied, "viewer is required")
	}

	owners, err := uc.repo.Owner().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list owners")
	}
	return model.VisibleOwners(viewer, owners, uc.policy.UnitHeadScope), nil
}
