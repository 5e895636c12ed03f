package models

import "time"

// PriceListEntry is one base tariff line for a service type. The sum of a
// type's entries is the price-list default shown while a request is unpaid.
type PriceListEntry struct {
	ID          int       `json:"id"`
	ServiceType string    `json:"service_type"` // IMPORT or EXPORT
	ItemCode    string    `json:"item_code"`
	Label       string    `json:"label"`
	Amount      float64   `json:"amount"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type UpsertPriceListEntryRequest struct {
	ServiceType string  `json:"service_type"`
	ItemCode    string  `json:"item_code"`
	Label       string  `json:"label"`
	Amount      float64 `json:"amount"`
}
