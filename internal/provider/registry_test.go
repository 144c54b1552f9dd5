package provider

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"videogen-gateway/internal/models"
)

type stubProvider struct{ name string }

func (s stubProvider) Name() string { return s.name }

func (s stubProvider) Run(context.Context, string, map[string]any) (Result, error) {
	return "https://example.com/v.mp4", nil
}

func TestRegistryPreservesOrder(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.RegisterProvider(stubProvider{name: "a"}, []models.ProviderConfig{
		{Name: "first", Identifier: "a/first"},
		{Name: "second", Identifier: "a/second"},
	}))
	require.NoError(t, r.RegisterProvider(stubProvider{name: "b"}, []models.ProviderConfig{
		{Name: "third", Identifier: "b/third"},
	}))

	got := r.Candidates()
	require.Len(t, got, 3)
	assert.Equal(t, "first", got[0].Config.Name)
	assert.Equal(t, "second", got[1].Config.Name)
	assert.Equal(t, "third", got[2].Config.Name)
	assert.Equal(t, "b", got[2].Provider.Name())
	assert.Equal(t, 3, r.Len())

	got[0].Config.Name = "mutated"
	assert.Equal(t, "first", r.Candidates()[0].Config.Name)
}

func TestRegistryRejects(t *testing.T) {
	t.Run("nil provider", func(t *testing.T) {
		assert.Error(t, NewRegistry().RegisterProvider(nil, nil))
	})

	t.Run("duplicate provider", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, r.RegisterProvider(stubProvider{name: "a"}, nil))
		assert.Error(t, r.RegisterProvider(stubProvider{name: "a"}, nil))
	})

	t.Run("duplicate model leaves registry untouched", func(t *testing.T) {
		r := NewRegistry()
		err := r.RegisterProvider(stubProvider{name: "a"}, []models.ProviderConfig{
			{Name: "same", Identifier: "a/one"},
			{Name: "same", Identifier: "a/two"},
		})
		require.ErrorIs(t, err, ErrDuplicateModel)
		assert.Zero(t, r.Len())
	})
}
