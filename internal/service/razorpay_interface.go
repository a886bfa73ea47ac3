package service

import "github.com/Desktoo/WorkEzy-demo/internal/razorpay"

// RazorpayClient is the gateway surface the payment service needs.
// Interface for easier testing.
type RazorpayClient interface {
	CreateOrder(params razorpay.OrderParams) (*razorpay.Order, error)
	VerifySignature(orderID, paymentID, signature string) bool
}
