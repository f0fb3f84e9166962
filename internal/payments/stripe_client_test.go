package payments

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assetmanage/assetmanage-backend/pkg/config"
	pkgstripe "github.com/assetmanage/assetmanage-backend/pkg/stripe"
)

func TestNewStripeClientNilStaysNil(t *testing.T) {
	t.Parallel()

	assert.Nil(t, NewStripeClient(nil))
}

func TestNewStripeClientHoldsInjectedClient(t *testing.T) {
	t.Parallel()

	api, err := pkgstripe.NewClient(context.Background(), config.StripeConfig{APIKey: "sk_test_wiring"}, nil)
	require.NoError(t, err)

	wrapped := NewStripeClient(api)
	require.NotNil(t, wrapped)

	// Calls must go through the injected client, not package-level state.
	impl, ok := wrapped.(*stripeClientWrapper)
	require.True(t, ok)
	assert.Same(t, api, impl.api)
	assert.NotNil(t, impl.api.API())
}
