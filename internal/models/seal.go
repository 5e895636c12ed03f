package models

import "time"

// Seal is a purchased batch of numbered security seals.
// QuantityRemaining is derived (purchased - exported) and kept in sync by
// the issue path; handlers never write it directly.
type Seal struct {
	ID                int       `json:"id"`
	SealPrefix        string    `json:"seal_prefix"`
	UnitPrice         float64   `json:"unit_price"`
	QuantityPurchased int       `json:"quantity_purchased"`
	QuantityExported  int       `json:"quantity_exported"`
	QuantityRemaining int       `json:"quantity_remaining"`
	PurchasedAt       time.Time `json:"purchased_at"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// SealUsage records a single seal being fixed to a container. The booking
// number is back-filled from the owning service request's booking reference
// when it was not known at issue time.
type SealUsage struct {
	ID            int       `json:"id"`
	SealID        int       `json:"seal_id"`
	SealNumber    string    `json:"seal_number"`
	ContainerNo   string    `json:"container_number"`
	BookingNumber *string   `json:"booking_number,omitempty"`
	IssuedByID    int       `json:"issued_by_user_id"`
	UsedAt        time.Time `json:"used_at"`
}

type CreateSealRequest struct {
	SealPrefix        string  `json:"seal_prefix"`
	UnitPrice         float64 `json:"unit_price"`
	QuantityPurchased int     `json:"quantity_purchased"`
}

type IssueSealRequest struct {
	SealID      int    `json:"seal_id"`
	SealNumber  string `json:"seal_number"`
	ContainerNo string `json:"container_number"`
}

// SealSyncResult is the per-container outcome of a booking back-fill run.
// A failed container records its error and the batch moves on.
type SealSyncResult struct {
	ContainerNo      string `json:"container_no"`
	BookingReference string `json:"booking_reference,omitempty"`
	UpdatedCount     int    `json:"updated_count"`
	Error            string `json:"error,omitempty"`
}
