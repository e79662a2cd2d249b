package metrics

import (
	"context"

	"github.com/DomeLiquid/dsc/core"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "dsc"
	subsystem = "engine"
)

// Collector exports engine activity as prometheus metrics.
type Collector struct {
	events        *prometheus.CounterVec
	collateralIn  *prometheus.CounterVec
	collateralOut *prometheus.CounterVec
	dscMinted     prometheus.Counter
	dscBurned     prometheus.Counter
	liquidations  *prometheus.CounterVec
	rejections    *prometheus.CounterVec
}

var (
	_ core.EventSink     = (*Collector)(nil)
	_ core.RejectionSink = (*Collector)(nil)
)

func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "events_total",
			Help:      "Committed engine events by action",
		}, []string{"action"}),
		collateralIn: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "collateral_deposited_total",
			Help:      "Raw units of collateral deposited by asset",
		}, []string{"asset"}),
		collateralOut: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "collateral_redeemed_total",
			Help:      "Raw units of collateral redeemed or seized by asset",
		}, []string{"asset"}),
		dscMinted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "dsc_minted_total",
			Help:      "Debt units minted",
		}),
		dscBurned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "dsc_burned_total",
			Help:      "Debt units burned",
		}),
		liquidations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "liquidations_total",
			Help:      "Liquidations by seized asset",
		}, []string{"asset"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "rejections_total",
			Help:      "Rolled back operations by action and error kind",
		}, []string{"action", "kind"}),
	}
	reg.MustRegister(c.events, c.collateralIn, c.collateralOut, c.dscMinted, c.dscBurned, c.liquidations, c.rejections)
	return c
}

func (c *Collector) HandleEvent(ctx context.Context, event *core.Event) {
	c.events.WithLabelValues(event.Action.String()).Inc()

	amount := event.Extra.Amount.InexactFloat64()
	switch event.Action {
	case core.ActionDeposit:
		c.collateralIn.WithLabelValues(event.Extra.AssetId).Add(amount)
	case core.ActionRedeem:
		c.collateralOut.WithLabelValues(event.Extra.AssetId).Add(amount)
	case core.ActionMint:
		c.dscMinted.Add(amount)
	case core.ActionBurn:
		c.dscBurned.Add(amount)
	case core.ActionLiquidate:
		c.liquidations.WithLabelValues(event.Extra.AssetId).Inc()
	}
}

func (c *Collector) HandleRejection(ctx context.Context, action core.ActionType, err error) {
	c.rejections.WithLabelValues(action.String(), core.KindOf(err).String()).Inc()
}
