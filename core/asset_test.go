package core

import (
	"testing"

	"github.com/fox-one/mixin-sdk-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	btcAssetId = "c6d0c728-2624-429b-8e0d-d9d19b6592fa"
	ethAssetId = "43d61dcd-e413-450d-80b8-101d5e903357"
)

func TestNewAssetRegistry(t *testing.T) {
	btc := &CollateralAsset{AssetId: btcAssetId, Symbol: "BTC", Decimals: 8}
	eth := &CollateralAsset{AssetId: ethAssetId, Symbol: "ETH", Decimals: 18, PriceFeedId: "ignored"}

	tests := []struct {
		name    string
		assets  []*CollateralAsset
		feeds   []string
		wantErr error
	}{
		{
			name:   "ok",
			assets: []*CollateralAsset{btc, eth},
			feeds:  []string{"btc-usd", "eth-usd"},
		},
		{
			name:    "length mismatch",
			assets:  []*CollateralAsset{btc, eth},
			feeds:   []string{"btc-usd"},
			wantErr: ErrLengthMismatch,
		},
		{
			name:    "duplicate asset",
			assets:  []*CollateralAsset{btc, btc},
			feeds:   []string{"btc-usd", "btc-usd-2"},
			wantErr: ErrDuplicateAsset,
		},
		{
			name:    "empty feed",
			assets:  []*CollateralAsset{btc},
			feeds:   []string{""},
			wantErr: ErrEmptyIdentifier,
		},
		{
			name:    "empty asset id",
			assets:  []*CollateralAsset{{Symbol: "X"}},
			feeds:   []string{"x-usd"},
			wantErr: ErrEmptyIdentifier,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewAssetRegistry(tt.assets, tt.feeds)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, InvalidInput, KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, []string{btcAssetId, ethAssetId}, r.AssetIds())
			assert.Equal(t, 2, r.Len())

			a, err := r.Get(ethAssetId)
			require.NoError(t, err)
			assert.Equal(t, "eth-usd", a.PriceFeedId)
			assert.Equal(t, "ignored", eth.PriceFeedId)
		})
	}
}

func TestAssetRegistry_Get(t *testing.T) {
	r, err := NewAssetRegistry([]*CollateralAsset{{AssetId: btcAssetId, Decimals: 8}}, []string{"btc-usd"})
	require.NoError(t, err)

	assert.True(t, r.IsRegistered(btcAssetId))
	assert.False(t, r.IsRegistered(ethAssetId))

	_, err = r.Get(ethAssetId)
	assert.ErrorIs(t, err, ErrUnknownAsset)

	a, _ := r.Get(btcAssetId)
	a.Decimals = 2
	b, _ := r.Get(btcAssetId)
	assert.Equal(t, int32(8), b.Decimals)

	ids := r.AssetIds()
	ids[0] = "changed"
	assert.Equal(t, btcAssetId, r.AssetIds()[0])
}

func TestNewCollateralAssetFromMixin(t *testing.T) {
	a := NewCollateralAssetFromMixin(&mixin.SafeAsset{
		AssetID:   btcAssetId,
		Symbol:    "BTC",
		Name:      "Bitcoin",
		Precision: 8,
	}, "btc-usd")

	assert.Equal(t, btcAssetId, a.AssetId)
	assert.Equal(t, "BTC", a.Symbol)
	assert.Equal(t, int32(8), a.Decimals)
	assert.Equal(t, "btc-usd", a.PriceFeedId)
}
