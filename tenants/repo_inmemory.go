package tenants

import (
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var ErrTenantNotFound = errors.New("tenant not found")

var _ Repo = (*InMemoryRepo)(nil)

// InMemoryRepo is a Repo backed by a map. Safe for concurrent use.
type InMemoryRepo struct {
	tenants map[string]*Context
	lock    sync.RWMutex
}

func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{
		tenants: make(map[string]*Context),
	}
}

func (tr *InMemoryRepo) Upsert(tenantContext *Context) error {
	tr.lock.Lock()
	defer tr.lock.Unlock()
	if tenantContext.Config.ID == "" {
		tenantContext.Config.ID = uuid.New().String()
	}
	tr.tenants[tenantContext.Config.ID] = tenantContext
	return nil
}

func (tr *InMemoryRepo) Delete(tenantID string) error {
	tr.lock.Lock()
	defer tr.lock.Unlock()
	delete(tr.tenants, tenantID)
	return nil
}

func (tr *InMemoryRepo) Get(tenantID string) (*Context, error) {
	tr.lock.RLock()
	defer tr.lock.RUnlock()
	tenantContext, ok := tr.tenants[tenantID]
	if !ok {
		return nil, errors.Wrapf(ErrTenantNotFound, "%q", tenantID)
	}
	return tenantContext, nil
}

func (tr *InMemoryRepo) List(offset, limit int) ([]*Context, error) {
	tr.lock.RLock()
	defer tr.lock.RUnlock()

	all := make([]*Context, 0, len(tr.tenants))
	for _, t := range tr.tenants {
		all = append(all, t)
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].Config.ID < all[j].Config.ID
	})

	if offset > len(all)-1 {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}
