package models

type LoginRequest struct {
	StaffID string `json:"staff_id" form:"staff_id" binding:"required"`
	PIN     string `json:"pin" form:"pin" binding:"required"`
}

type SelectBranchRequest struct {
	BranchID int64 `json:"branch_id" form:"branch_id" binding:"required"`
}

type AddItemRequest struct {
	ProductID int64 `json:"product_id" form:"product_id" binding:"required"`
}

type ScanRequest struct {
	Barcode string `json:"barcode" form:"barcode" binding:"required"`
}

type BeginCheckoutRequest struct {
	Method PaymentMethod `json:"method" form:"method" binding:"required,oneof=CASH CARD"`
}

type CashPaymentRequest struct {
	Tendered string `json:"tendered" form:"tendered" binding:"required"`
}

type CardPaymentRequest struct {
	CardID string `json:"card_id" form:"card_id" binding:"required"`
}
