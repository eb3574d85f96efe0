package settings

import (
	"context"
	"strings"
)

type Store interface {
	Get(ctx context.Context) (Settings, error)
	Update(ctx context.Context, actor string, fields map[string]any) (Settings, error)
}

type Service struct{ Store Store }

func (s *Service) Get(ctx context.Context) (Settings, error) {
	return s.Store.Get(ctx)
}

func (s *Service) Update(ctx context.Context, actor string, fields map[string]any) (Settings, error) {
	if len(fields) == 0 {
		return Settings{}, ErrNoFields
	}
	for k := range fields {
		if strings.TrimSpace(k) == "" {
			return Settings{}, ErrInvalidKey
		}
	}
	return s.Store.Update(ctx, actor, fields)
}
