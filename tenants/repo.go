package tenants

import (
	"context"

	"github.com/pkg/errors"
)

// Repo stores registered tenant contexts.
type Repo interface {
	Upsert(tenantContext *Context) error
	Delete(tenantID string) error
	Get(tenantID string) (*Context, error)
	List(offset, limit int) ([]*Context, error)
}

// Resolver resolves the verification context for one authentication
// attempt. Resolution may suspend (e.g. discovery or cache fill), hence
// the context parameter.
type Resolver interface {
	Resolve(ctx context.Context, tenantID string) (*Context, error)
}

// RepoResolver resolves tenant contexts straight from a Repo.
type RepoResolver struct {
	repo Repo
}

// NewRepoResolver creates a Resolver backed by a tenant repository.
func NewRepoResolver(repo Repo) (*RepoResolver, error) {
	if repo == nil {
		return nil, errors.New("[NewRepoResolver] tenant repo is required")
	}
	return &RepoResolver{repo: repo}, nil
}

// Resolve implements Resolver.
func (r *RepoResolver) Resolve(_ context.Context, tenantID string) (*Context, error) {
	tenantContext, err := r.repo.Get(tenantID)
	if err != nil {
		return nil, errors.Wrap(err, "[RepoResolver.Resolve] tenant lookup")
	}
	return tenantContext, nil
}
