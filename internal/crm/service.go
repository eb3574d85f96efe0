package crm

import "context"

type Store interface {
	Create(ctx context.Context, actor string, in Input) (Client, error)
	Update(ctx context.Context, actor, id string, in Input) (Client, error)
	List(ctx context.Context, p ListParams) ([]Client, int, error)
	Search(ctx context.Context, query string) ([]Client, error)
}

type Invalidator interface {
	Invalidate(ctx context.Context)
}

type Service struct {
	Store Store
	Stats Invalidator
}

func (s *Service) Create(ctx context.Context, actor string, in Input) (Client, error) {
	in, err := in.Normalize()
	if err != nil {
		return Client{}, err
	}
	c, err := s.Store.Create(ctx, actor, in)
	if err == nil && s.Stats != nil {
		s.Stats.Invalidate(ctx)
	}
	return c, err
}

func (s *Service) Update(ctx context.Context, actor, id string, in Input) (Client, error) {
	in, err := in.Normalize()
	if err != nil {
		return Client{}, err
	}
	return s.Store.Update(ctx, actor, id, in)
}

func (s *Service) List(ctx context.Context, p ListParams) ([]Client, int, error) {
	return s.Store.List(ctx, p)
}

func (s *Service) Search(ctx context.Context, query string) ([]Client, error) {
	return s.Store.Search(ctx, query)
}
