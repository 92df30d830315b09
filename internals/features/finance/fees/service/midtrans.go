package service

import (
	"crypto/sha512"
	"encoding/hex"
	"strings"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/shopspring/decimal"

	"schoolhub_backend/internals/constants"
)

// SnapRequest is what the checkout needs from a payment gateway.
type SnapRequest struct {
	OrderID  string
	Amount   decimal.Decimal
	ItemName string
	Category string
	Customer Customer
}

type Customer struct {
	FullName string
	Email    string
	Phone    string
}

type PaymentGateway interface {
	CreateSnap(req SnapRequest) (token, redirectURL string, err error)
}

type MidtransGateway struct {
	client snap.Client
}

func NewMidtransGateway(serverKey string, useProduction bool) *MidtransGateway {
	g := &MidtransGateway{}
	if useProduction {
		g.client.New(serverKey, midtrans.Production)
	} else {
		g.client.New(serverKey, midtrans.Sandbox)
	}
	return g
}

func (g *MidtransGateway) CreateSnap(r SnapRequest) (string, string, error) {
	first, last, _ := strings.Cut(strings.TrimSpace(r.Customer.FullName), " ")
	gross := r.Amount.Round(0).IntPart()
	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  r.OrderID,
			GrossAmt: gross,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: first,
			LName: last,
			Email: r.Customer.Email,
			Phone: r.Customer.Phone,
		},
		Items: &[]midtrans.ItemDetails{{
			ID:       r.OrderID,
			Price:    gross,
			Qty:      1,
			Name:     truncate(r.ItemName, 50),
			Category: r.Category,
		}},
	}
	resp, mErr := g.client.CreateTransaction(req)
	if mErr != nil {
		return "", "", mErr
	}
	return resp.Token, resp.RedirectURL, nil
}

// Signature is SHA512(order_id + status_code + gross_amount + server_key), hex encoded.
func Signature(orderID, statusCode, grossAmount, serverKey string) string {
	h := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(h[:])
}

// MapGatewayStatus maps a Midtrans transaction status to a fee payment status.
// ok is false for statuses that leave the payment untouched.
func MapGatewayStatus(transactionStatus, fraudStatus string) (status string, ok bool) {
	switch strings.ToLower(transactionStatus) {
	case "capture":
		switch strings.ToLower(fraudStatus) {
		case "", "accept":
			return constants.PaymentPaid, true
		case "challenge":
			return constants.PaymentPending, true
		}
		return constants.PaymentCancelled, true
	case "settlement":
		return constants.PaymentPaid, true
	case "pending":
		return constants.PaymentPending, true
	case "deny", "cancel", "expire", "failure":
		return constants.PaymentCancelled, true
	}
	return "", false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
