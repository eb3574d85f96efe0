package inventory

import "context"

type Store interface {
	Get(ctx context.Context, id string) (SKU, error)
	Create(ctx context.Context, actor string, in Input) (SKU, error)
	Update(ctx context.Context, actor, id string, in Input) (SKU, error)
	UpdateStock(ctx context.Context, actor, id string, quantity int) (SKU, error)
	List(ctx context.Context, p ListParams) ([]SKU, int, error)
	Search(ctx context.Context, query string) ([]SKU, error)
}

type Invalidator interface {
	Invalidate(ctx context.Context)
}

// Service drops cached dashboard numbers after every catalogue write.
type Service struct {
	Store Store
	Stats Invalidator
}

func (s *Service) touched(ctx context.Context) {
	if s.Stats != nil {
		s.Stats.Invalidate(ctx)
	}
}

func (s *Service) Create(ctx context.Context, actor string, in Input) (SKU, error) {
	if err := in.Validate(); err != nil {
		return SKU{}, err
	}
	out, err := s.Store.Create(ctx, actor, in)
	if err == nil {
		s.touched(ctx)
	}
	return out, err
}

func (s *Service) Update(ctx context.Context, actor, id string, in Input) (SKU, error) {
	if err := in.Validate(); err != nil {
		return SKU{}, err
	}
	out, err := s.Store.Update(ctx, actor, id, in)
	if err == nil {
		s.touched(ctx)
	}
	return out, err
}

func (s *Service) UpdateStock(ctx context.Context, actor, id string, quantity int) (SKU, error) {
	if quantity < 0 {
		return SKU{}, ErrNegativeStock
	}
	out, err := s.Store.UpdateStock(ctx, actor, id, quantity)
	if err == nil {
		s.touched(ctx)
	}
	return out, err
}

func (s *Service) Get(ctx context.Context, id string) (SKU, error) { return s.Store.Get(ctx, id) }

func (s *Service) List(ctx context.Context, p ListParams) ([]SKU, int, error) {
	return s.Store.List(ctx, p)
}

func (s *Service) Search(ctx context.Context, query string) ([]SKU, error) {
	return s.Store.Search(ctx, query)
}
