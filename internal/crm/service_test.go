package crm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct{ byEmail map[string]Client }

func (m *memStore) Create(_ context.Context, _ string, in Input) (Client, error) {
	if _, ok := m.byEmail[in.Email]; ok {
		return Client{}, ErrDuplicateEmail
	}
	c := Client{ID: in.Email, Name: in.Name, Email: in.Email, Phone: in.Phone}
	m.byEmail[in.Email] = c
	return c, nil
}

func (m *memStore) Update(_ context.Context, _, id string, in Input) (Client, error) {
	return Client{ID: id, Name: in.Name, Email: in.Email, Phone: in.Phone}, nil
}

func (m *memStore) List(context.Context, ListParams) ([]Client, int, error) { return nil, 0, nil }
func (m *memStore) Search(context.Context, string) ([]Client, error)      { return nil, nil }

type counter struct{ n int }

func (c *counter) Invalidate(context.Context) { c.n++ }

func TestCreateNormalizesAndRejectsDuplicates(t *testing.T) {
	st := &memStore{byEmail: map[string]Client{}}
	c := &counter{}
	svc := &Service{Store: st, Stats: c}
	ctx := context.Background()

	got, err := svc.Create(ctx, "u-1", Input{Name: " Cyberdyne Systems ", Email: "Ops@Cyberdyne.io", Phone: "(415) 555-0132"})
	require.NoError(t, err)
	assert.Equal(t, "Cyberdyne Systems", got.Name)
	assert.Equal(t, "ops@cyberdyne.io", got.Email)
	assert.Equal(t, "+14155550132", got.Phone)
	assert.Equal(t, 1, c.n)

	_, err = svc.Create(ctx, "u-1", Input{Name: "Other", Email: "ops@cyberdyne.io"})
	assert.EqualError(t, err, "Email already registered")
	assert.Equal(t, 1, c.n)
}

func TestUpdateRejectsBadPhone(t *testing.T) {
	svc := &Service{Store: &memStore{byEmail: map[string]Client{}}}
	_, err := svc.Update(context.Background(), "u-1", "c-1", Input{Name: "X", Email: "x@y.z", Phone: "not a phone"})
	assert.ErrorIs(t, err, ErrInvalidPhone)
}
