package dto

// RowUpdateResponse describes one rewritten installment
type RowUpdateResponse struct {
	RowID     string `json:"row_id"`
	Kind      string `json:"kind"`
	Number    int    `json:"number"`
	OldAmount string `json:"old_amount"`
	NewAmount string `json:"new_amount"`
}

// RecalculationResponse summarizes a recalculation
type RecalculationResponse struct {
	PurchaseID       string              `json:"purchase_id"`
	Outcome          string              `json:"outcome"`
	Reason           string              `json:"reason,omitempty"`
	BaseAmount       string              `json:"base_amount"`
	SumPaid          string              `json:"sum_paid"`
	RemainingToPay   string              `json:"remaining_to_pay"`
	SumUnpaidWeights string              `json:"sum_unpaid_weights"`
	UpdatedRows      int                 `json:"updated_rows"`
	Updates          []RowUpdateResponse `json:"updates"`
}

// GoodsReceivedRequest reports a posted goods receipt for a purchase
// A client retrying a delivery resends the same event_id so that it is
// processed once.
type GoodsReceivedRequest struct {
	ReceiptID string `json:"receipt_id" binding:"required,uuid"`
	EventID   string `json:"event_id" binding:"omitempty,uuid"`
}

// GoodsReceivedResponse acknowledges a goods receipt notification
type GoodsReceivedResponse struct {
	EventID string `json:"event_id"`
}
