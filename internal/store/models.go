// Package store reads sale records from the backing database and caches
// snapshots of them.
package store

import (
	"time"

	"cyberdock/internal/sales"
)

// SaleRecord is the persisted order line, one row of the sales table.
type SaleRecord struct {
	ID                   uint       `gorm:"primaryKey;autoIncrement"`
	OrderID              string     `gorm:"column:order_id;index;not null"`
	DateAdjusted         *time.Time `gorm:"column:date_adjusted;index"`
	ItemID               string     `gorm:"column:item_id"`
	ItemTitle            string     `gorm:"column:item_title"`
	Status               string     `gorm:"column:status;index"`
	Quantity             *float64   `gorm:"column:quantity"`
	UnitPrice            float64    `gorm:"column:unit_price"`
	TotalAmount          float64    `gorm:"column:total_amount;not null;default:0"`
	MLUserID             string     `gorm:"column:ml_user_id;index"`
	BuyerNickname        string     `gorm:"column:buyer_nickname"`
	SellerSKU            *string    `gorm:"column:seller_sku"`
	UnitCost             *float64   `gorm:"column:custo_unitario"`
	QuantitySKU          *float64   `gorm:"column:quantity_sku"`
	MLFee                *float64   `gorm:"column:ml_fee"`
	Level1               *string    `gorm:"column:level1"`
	Level2               *string    `gorm:"column:level2"`
	FreightAdjust        *float64   `gorm:"column:frete_adjust"`
	ShipmentStatus       string     `gorm:"column:shipment_status"`
	ShipmentSubstatus    string     `gorm:"column:shipment_substatus"`
	ShipmentLogisticType string     `gorm:"column:shipment_logistic_type"`
	ShipmentReceiverName string     `gorm:"column:shipment_receiver_name"`
	ShipmentDeliverySLA  *time.Time `gorm:"column:shipment_delivery_sla"`
}

func (SaleRecord) TableName() string {
	return "sales"
}

// UserToken is a connected seller account. Tokens are stored for the
// marketplace sync and never leave this package.
type UserToken struct {
	ID           uint       `gorm:"primaryKey;autoIncrement"`
	MLUserID     string     `gorm:"column:ml_user_id;uniqueIndex;not null"`
	Nickname     string     `gorm:"column:nickname"`
	AccessToken  string     `gorm:"column:access_token"`
	RefreshToken string     `gorm:"column:refresh_token"`
	ExpiresAt    *time.Time `gorm:"column:expires_at"`
}

func (UserToken) TableName() string {
	return "user_tokens"
}

// Models lists every table the store owns, for migrations.
func Models() []any {
	return []any{&SaleRecord{}, &UserToken{}}
}

// ToSale converts a persisted row plus its account nickname.
func (r SaleRecord) ToSale(nickname string) sales.Sale {
	return sales.Sale{
		OrderID:              r.OrderID,
		DateAdjusted:         r.DateAdjusted,
		AccountID:            r.MLUserID,
		Nickname:             nickname,
		ItemID:               r.ItemID,
		ItemTitle:            r.ItemTitle,
		SellerSKU:            r.SellerSKU,
		Status:               r.Status,
		StatusLabel:          sales.StatusLabel(r.Status),
		Quantity:             r.Quantity,
		QuantitySKU:          r.QuantitySKU,
		UnitPrice:            r.UnitPrice,
		TotalAmount:          r.TotalAmount,
		UnitCost:             r.UnitCost,
		MarketplaceFee:       r.MLFee,
		FreightAdjust:        r.FreightAdjust,
		Level1:               r.Level1,
		Level2:               r.Level2,
		ShipmentLogisticType: r.ShipmentLogisticType,
		ShipmentDeliverySLA:  r.ShipmentDeliverySLA,
		ShipmentStatus:       r.ShipmentStatus,
		ShipmentSubstatus:    r.ShipmentSubstatus,
		ShipmentReceiverName: r.ShipmentReceiverName,
	}
}

// FromSale builds a persistable row, used by the seeder and tests.
func FromSale(s sales.Sale) SaleRecord {
	return SaleRecord{
		OrderID:              s.OrderID,
		DateAdjusted:         s.DateAdjusted,
		ItemID:               s.ItemID,
		ItemTitle:            s.ItemTitle,
		Status:               s.Status,
		Quantity:             s.Quantity,
		UnitPrice:            s.UnitPrice,
		TotalAmount:          s.TotalAmount,
		MLUserID:             s.AccountID,
		SellerSKU:            s.SellerSKU,
		UnitCost:             s.UnitCost,
		QuantitySKU:          s.QuantitySKU,
		MLFee:                s.MarketplaceFee,
		Level1:               s.Level1,
		Level2:               s.Level2,
		FreightAdjust:        s.FreightAdjust,
		ShipmentStatus:       s.ShipmentStatus,
		ShipmentSubstatus:    s.ShipmentSubstatus,
		ShipmentLogisticType: s.ShipmentLogisticType,
		ShipmentReceiverName: s.ShipmentReceiverName,
		ShipmentDeliverySLA:  s.ShipmentDeliverySLA,
	}
}
