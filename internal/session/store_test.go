package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kozymacro/papara-checkout/internal/checkout"
	"github.com/kozymacro/papara-checkout/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopGateway struct{}

func (nopGateway) Purchase(context.Context, model.PurchaseRequest) (string, error) {
	return "https://pay.example/1", nil
}

func factory() (*checkout.Form, error) {
	return checkout.NewForm(nopGateway{})
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		ttl     time.Duration
		factory Factory
		wantErr bool
	}{
		{"valid", time.Minute, factory, false},
		{"zero ttl", 0, factory, true},
		{"negative ttl", -time.Second, factory, true},
		{"nil factory", time.Minute, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.ttl, tt.factory)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, s)
				return
			}
			require.NoError(t, err)
			s.Close()
			s.Close()
		})
	}
}

func TestCreateAndGet(t *testing.T) {
	s, err := New(time.Minute, factory)
	require.NoError(t, err)
	defer s.Close()

	id, form, err := s.Create()
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	require.NotNil(t, form)

	got, ok := s.Get(id)
	require.True(t, ok)
	assert.Same(t, form, got)

	_, ok = s.Get("unknown")
	assert.False(t, ok)

	id2, _, err := s.Create()
	require.NoError(t, err)
	assert.NotEqual(t, id, id2)
	assert.Equal(t, 2, s.Len())
}

func TestCreateFactoryError(t *testing.T) {
	s, err := New(time.Minute, func() (*checkout.Form, error) {
		return nil, errors.New("boom")
	})
	require.NoError(t, err)
	defer s.Close()

	_, _, err = s.Create()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.Equal(t, 0, s.Len())
}

func TestCleanup(t *testing.T) {
	s, err := New(time.Minute, factory)
	require.NoError(t, err)
	defer s.Close()

	now := time.Now()
	s.now = func() time.Time { return now }

	stale, _, err := s.Create()
	require.NoError(t, err)

	now = now.Add(45 * time.Second)
	fresh, _, err := s.Create()
	require.NoError(t, err)

	now = now.Add(30 * time.Second)
	s.cleanup()

	_, ok := s.Get(stale)
	assert.False(t, ok)
	_, ok = s.Get(fresh)
	assert.True(t, ok)
}

func TestGetRefreshesExpiry(t *testing.T) {
	s, err := New(time.Minute, factory)
	require.NoError(t, err)
	defer s.Close()

	now := time.Now()
	s.now = func() time.Time { return now }

	id, _, err := s.Create()
	require.NoError(t, err)

	now = now.Add(50 * time.Second)
	_, ok := s.Get(id)
	require.True(t, ok)

	now = now.Add(50 * time.Second)
	s.cleanup()

	_, ok = s.Get(id)
	assert.True(t, ok)
}
