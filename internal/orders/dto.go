package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/aventra-health/benefits-store-backend/pkg/db/models"
	"github.com/aventra-health/benefits-store-backend/pkg/enums"
)

// Split reports how an order's total was covered.
type Split struct {
	Wallet  float64 `json:"wallet"`
	Rewards float64 `json:"rewards"`
	Cash    float64 `json:"cash"`
}

// Summary is the list-view shape for a committed order.
type Summary struct {
	ID            uuid.UUID           `json:"id"`
	TotalAmount   float64             `json:"total_amount"`
	Split         Split               `json:"split"`
	Status        enums.OrderStatus   `json:"status"`
	PaymentMethod enums.PaymentMethod `json:"payment_method"`
	CreatedAt     time.Time           `json:"created_at"`
}

// ItemView is one frozen order line.
type ItemView struct {
	ProductID       uuid.UUID `json:"product_id"`
	Name            string    `json:"name"`
	Quantity        int       `json:"quantity"`
	PriceAtPurchase float64   `json:"price_at_purchase"`
}

// Detail is the full order shape including line snapshots.
type Detail struct {
	Summary
	ShippingAddress string     `json:"shipping_address"`
	BeneficiaryName string     `json:"beneficiary_name"`
	Items           []ItemView `json:"items"`
}

func toSummary(o models.Order) Summary {
	return Summary{
		ID:          o.ID,
		TotalAmount: o.TotalAmount,
		Split: Split{
			Wallet:  o.WalletAmount,
			Rewards: o.RewardsAmount,
			Cash:    o.CashAmount,
		},
		Status:        o.Status,
		PaymentMethod: o.PaymentMethod,
		CreatedAt:     o.CreatedAt,
	}
}

func toDetail(o models.Order) Detail {
	detail := Detail{
		Summary:         toSummary(o),
		ShippingAddress: o.ShippingAddress,
		BeneficiaryName: o.BeneficiaryName,
		Items:           make([]ItemView, 0, len(o.Items)),
	}
	for _, item := range o.Items {
		detail.Items = append(detail.Items, ItemView{
			ProductID:       item.ProductID,
			Name:            item.ProductNameSnapshot,
			Quantity:        item.Quantity,
			PriceAtPurchase: item.PriceAtPurchase,
		})
	}
	return detail
}
