package firestore

import (
	"context"
	"errors"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskledger/pkg/domain/interfaces"
	"github.com/secmon-lab/riskledger/pkg/domain/model"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type Firestore struct {
	client   *firestore.Client
	risk     *riskRepository
	history  *historyRepository
	owner    *ownerRepository
	user     *userRepository
	incident *incidentRepository
	sweep    *sweepRepository
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.risk.collectionPrefix = prefix
		f.history.collectionPrefix = prefix
		f.owner.collectionPrefix = prefix
		f.user.collectionPrefix = prefix
		f.incident.collectionPrefix = prefix
		f.sweep.collectionPrefix = prefix
	}
}

func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	var client *firestore.Client
	var err error
	if databaseID != "" {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	} else {
		client, err = firestore.NewClient(ctx, projectID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID),
			goerr.V("databaseID", databaseID))
	}

	f := &Firestore{
		client:   client,
		risk:     newRiskRepository(client),
		history:  newHistoryRepository(client),
		owner:    newOwnerRepository(client),
		user:     newUserRepository(client),
		incident: newIncidentRepository(client),
		sweep:    newSweepRepository(client),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *Firestore) Risk() interfaces.RiskRepository {
	return f.risk
}

func (f *Firestore) History() interfaces.HistoryRepository {
	return f.history
}

func (f *Firestore) Owner() interfaces.OwnerRepository {
	return f.owner
}

func (f *Firestore) User() interfaces.UserRepository {
	return f.user
}

func (f *Firestore) Incident() interfaces.IncidentRepository {
	return f.incident
}

func (f *Firestore) Sweep() interfaces.SweepRepository {
	return f.sweep
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}

func collectionName(prefix, name string) string {
	if prefix != "" {
		return prefix + "_" + name
	}
	return name
}

// RisksCollection returns the name of the risk collection under prefix
func RisksCollection(prefix string) string {
	return collectionName(prefix, risksCollection)
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

// storeError marks err as a backend failure unless it already carries a
// domain classification
func storeError(err error, msg string, opts ...goerr.Option) error {
	if errors.Is(err, model.ErrNotFound) || errors.Is(err, model.ErrConflict) {
		return goerr.Wrap(err, msg, opts...)
	}
	return goerr.Wrap(errors.Join(model.ErrStoreUnavailable, err), msg, opts...)
}
