package models

import "time"

// Invoice is a bill for one completed service cycle. TotalAmount is only
// authoritative once IsPaid is true; until then display code must fall back
// to the price-list default for the request type.
type Invoice struct {
	ID               int        `json:"id"`
	InvoiceNumber    string     `json:"invoice_number"`
	ServiceRequestID int        `json:"service_request_id"`
	ContainerNo      string     `json:"container_no"`
	TotalAmount      float64    `json:"total_amount"`
	IsPaid           bool       `json:"is_paid"`
	PaidAt           *time.Time `json:"paid_at,omitempty"`
	IssuedByUserID   int        `json:"issued_by_user_id"`
	Notes            string     `json:"notes"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// InvoiceItem is one line on an invoice.
type InvoiceItem struct {
	ID        int       `json:"id"`
	InvoiceID int       `json:"invoice_id"`
	ItemCode  string    `json:"item_code"` // BASE, REPAIR, LOLO, SEAL
	Label     string    `json:"label"`
	Amount    float64   `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

// Invoice line item codes.
const (
	ItemCodeBase   = "BASE"
	ItemCodeRepair = "REPAIR"
	ItemCodeLOLO   = "LOLO"
	ItemCodeSeal   = "SEAL"
)

// InvoiceWithItems includes the invoice lines.
type InvoiceWithItems struct {
	Invoice
	Items []InvoiceItem `json:"items"`
}

// CostBreakdown is the output of the cost aggregator. The repair
// contribution uses the ticket's estimated cost only; labor cost is
// already covered by the base price list and must not double-count.
type CostBreakdown struct {
	ContainerNo    string  `json:"container_no"`
	RequestType    string  `json:"request_type"`
	BaseAmount     float64 `json:"base_amount"`
	RepairAmount   float64 `json:"repair_amount"`
	ForkliftAmount float64 `json:"forklift_amount"`
	SealAmount     float64 `json:"seal_amount"`
	Total          float64 `json:"total"`
}
