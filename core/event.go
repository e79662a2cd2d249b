package core

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"strconv"

	"github.com/DomeLiquid/dsc/utils"
	"github.com/facebookgo/clock"
	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
)

type ActionType uint8

const (
	ActionDeposit ActionType = iota + 1
	ActionRedeem
	ActionMint
	ActionBurn
	ActionLiquidate
)

func (a ActionType) String() string {
	switch a {
	case ActionDeposit:
		return "CollateralDeposited"
	case ActionRedeem:
		return "CollateralRedeemed"
	case ActionMint:
		return "DscMinted"
	case ActionBurn:
		return "DscBurned"
	case ActionLiquidate:
		return "Liquidated"
	default:
		return "Unknown"
	}
}

func (a ActionType) Valid() bool {
	switch a {
	case ActionDeposit,
		ActionRedeem,
		ActionMint,
		ActionBurn,
		ActionLiquidate:
		return true
	default:
		return false
	}
}

func ValidActionTypeString(action string) (ActionType, bool) {
	for a := ActionDeposit; a <= ActionLiquidate; a++ {
		if a.String() == action {
			return a, true
		}
	}
	return 0, false
}

type (
	// EventSink receives events of committed operations, in commit order.
	EventSink interface {
		HandleEvent(ctx context.Context, event *Event)
	}

	// RejectionSink is optionally implemented by an EventSink that also wants
	// to see operations which failed and were rolled back.
	RejectionSink interface {
		HandleRejection(ctx context.Context, action ActionType, err error)
	}

	Event struct {
		Id        uuid.UUID   `json:"id"`
		TxId      uuid.UUID   `json:"txId"`
		Action    ActionType  `json:"action"`
		UserId    uuid.UUID   `json:"userId"`
		Extra     EventDetail `json:"extra"`
		CreatedAt int64       `json:"createdAt"`
	}

	// EventDetail carries the action payload. From/To are set on collateral
	// redemptions, where the recipient may differ from the owner.
	EventDetail struct {
		AssetId string          `json:"assetId,omitempty"`
		Amount  decimal.Decimal `json:"amount"`
		From    uuid.UUID       `json:"from,omitempty"`
		To      uuid.UUID       `json:"to,omitempty"`
		Payer   uuid.UUID       `json:"payer,omitempty"`

		Liquidator   uuid.UUID        `json:"liquidator,omitempty"`
		DebtCovered  *decimal.Decimal `json:"debtCovered,omitempty"`
		Bonus        *decimal.Decimal `json:"bonus,omitempty"`
		HealthBefore *decimal.Decimal `json:"healthBefore,omitempty"`
		HealthAfter  *decimal.Decimal `json:"healthAfter,omitempty"`
	}
)

func NewEvent(clk clock.Clock, txId uuid.UUID, seq int, action ActionType, userId uuid.UUID, extra EventDetail) *Event {
	return &Event{
		Id:        utils.GenOrderedUuid(txId.String(), strconv.Itoa(seq)),
		TxId:      txId,
		Action:    action,
		UserId:    userId,
		Extra:     extra,
		CreatedAt: clk.Now().Unix(),
	}
}

func (j EventDetail) Value() (driver.Value, error) {
	valueString, err := json.Marshal(j)
	return string(valueString), err
}

func (j *EventDetail) Scan(value any) error {
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	}
	return json.Unmarshal(raw, j)
}
