package providers

import (
	"fmt"

	"github.com/Zaheeroo/tejidosyami-sub000/internal/domain"
)

// Registry resolves a provider name from a webhook route or checkout
// request to the adapter configured for it.
type Registry struct {
	providers map[domain.Provider]domain.PaymentProvider
}

func NewRegistry(adapters ...domain.PaymentProvider) *Registry {
	r := &Registry{providers: make(map[domain.Provider]domain.PaymentProvider, len(adapters))}
	for _, adapter := range adapters {
		r.providers[adapter.Name()] = adapter
	}
	return r
}

func (r *Registry) Get(name domain.Provider) (domain.PaymentProvider, error) {
	adapter, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownProvider, name)
	}
	return adapter, nil
}

func (r *Registry) Names() []domain.Provider {
	names := make([]domain.Provider, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	return names
}
