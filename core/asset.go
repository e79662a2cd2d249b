package core

import (
	"github.com/fox-one/mixin-sdk-go/v2"
	"github.com/pkg/errors"
)

type CollateralAsset struct {
	AssetId     string `json:"assetId"`
	Symbol      string `json:"symbol,omitempty"`
	Name        string `json:"name,omitempty"`
	Decimals    int32  `json:"decimals"`
	PriceFeedId string `json:"priceFeedId"`
}

func NewCollateralAssetFromMixin(asset *mixin.SafeAsset, priceFeedId string) *CollateralAsset {
	return &CollateralAsset{
		AssetId:     asset.AssetID,
		Symbol:      asset.Symbol,
		Name:        asset.Name,
		Decimals:    asset.Precision,
		PriceFeedId: priceFeedId,
	}
}

// AssetRegistry is the immutable set of recognized collateral assets.
type AssetRegistry struct {
	assets map[string]*CollateralAsset
	order  []string
}

// NewAssetRegistry pairs assets with price feeds positionally. A non-empty
// PriceFeedId already set on an asset is overwritten by the paired feed id.
func NewAssetRegistry(assets []*CollateralAsset, priceFeedIds []string) (*AssetRegistry, error) {
	if len(assets) != len(priceFeedIds) {
		return nil, errors.Wrapf(ErrLengthMismatch, "%d assets, %d price feeds", len(assets), len(priceFeedIds))
	}

	r := &AssetRegistry{
		assets: make(map[string]*CollateralAsset, len(assets)),
		order:  make([]string, 0, len(assets)),
	}
	for i, a := range assets {
		if a == nil || a.AssetId == "" || priceFeedIds[i] == "" {
			return nil, errors.Wrapf(ErrEmptyIdentifier, "registration %d", i)
		}
		if _, ok := r.assets[a.AssetId]; ok {
			return nil, errors.Wrapf(ErrDuplicateAsset, "asset %s", a.AssetId)
		}
		if a.Decimals < 0 {
			return nil, errors.Errorf("asset %s has negative decimals", a.AssetId)
		}
		cp := *a
		cp.PriceFeedId = priceFeedIds[i]
		r.assets[cp.AssetId] = &cp
		r.order = append(r.order, cp.AssetId)
	}
	return r, nil
}

func (r *AssetRegistry) Get(assetId string) (*CollateralAsset, error) {
	a, ok := r.assets[assetId]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownAsset, "asset %s", assetId)
	}
	cp := *a
	return &cp, nil
}

func (r *AssetRegistry) IsRegistered(assetId string) bool {
	_, ok := r.assets[assetId]
	return ok
}

// AssetIds returns registered asset ids in registration order.
func (r *AssetRegistry) AssetIds() []string {
	ids := make([]string, len(r.order))
	copy(ids, r.order)
	return ids
}

func (r *AssetRegistry) Len() int {
	return len(r.order)
}
