package booking

import (
	"context"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"go.uber.org/zap"

	appointmentRepo "prescripto/database/repository/appointment"
	"prescripto/utils"
)

// PaymentOrder is the order handle returned to the client for settlement.
type PaymentOrder struct {
	OrderID      string  `json:"orderId"`
	ClientSecret string  `json:"clientSecret"`
	Amount       float64 `json:"amount"`
	Currency     string  `json:"currency"`
}

// PaymentService creates and verifies payment orders for appointments. The
// payment flag is set only after the gateway reports settlement.
type PaymentService interface {
	CreatePayment(ctx context.Context, userID, appointmentID string) (*PaymentOrder, error)
	VerifyPayment(ctx context.Context, userID, appointmentID string) error
}

// StripePaymentService is the Stripe PaymentIntents implementation.
type StripePaymentService struct {
	ApptRepo appointmentRepo.AppointmentRepository
	Currency string
}

// CreatePayment creates a PaymentIntent for the appointment's fee and stores
// its id on the appointment record.
func (s *StripePaymentService) CreatePayment(ctx context.Context, userID, appointmentID string) (*PaymentOrder, error) {
	appt, err := s.ApptRepo.GetByID(appointmentID)
	if err != nil {
		return nil, NewTransientError("payment failed, please try again")
	}
	if appt == nil {
		return nil, NewNotFoundError("appointment not found")
	}
	if appt.UserID != userID {
		return nil, NewUnauthorizedError("not permitted to pay for this appointment")
	}
	if appt.Cancelled {
		return nil, NewConflictError("cannot pay for a cancelled appointment")
	}
	if appt.Payment {
		return nil, NewConflictError("appointment is already paid")
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(int64(appt.Amount * 100)),
		Currency: stripe.String(s.Currency),
	}
	params.AddMetadata("appointmentId", appt.ID)

	pi, err := paymentintent.New(params)
	if err != nil {
		utils.GetLogger().Error("CreatePayment: stripe error", zap.String("appointmentId", appt.ID), zap.Error(err))
		return nil, NewTransientError("payment gateway unavailable, please try again")
	}

	if err := s.ApptRepo.SetPaymentIntent(appt.ID, pi.ID); err != nil {
		return nil, NewTransientError("payment failed, please try again")
	}

	return &PaymentOrder{
		OrderID:      pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       appt.Amount,
		Currency:     s.Currency,
	}, nil
}

// VerifyPayment re-reads the PaymentIntent from Stripe and marks the
// appointment paid only when the gateway reports success.
func (s *StripePaymentService) VerifyPayment(ctx context.Context, userID, appointmentID string) error {
	appt, err := s.ApptRepo.GetByID(appointmentID)
	if err != nil {
		return NewTransientError("payment verification failed, please try again")
	}
	if appt == nil {
		return NewNotFoundError("appointment not found")
	}
	if appt.UserID != userID {
		return NewUnauthorizedError("not permitted to verify this appointment")
	}
	if appt.Payment {
		return nil
	}
	if appt.PaymentIntentID == "" {
		return NewValidationError("no payment order exists for this appointment")
	}

	pi, err := paymentintent.Get(appt.PaymentIntentID, nil)
	if err != nil {
		utils.GetLogger().Error("VerifyPayment: stripe error", zap.String("appointmentId", appt.ID), zap.Error(err))
		return NewTransientError("payment gateway unavailable, please try again")
	}
	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		return NewConflictError("payment has not completed")
	}

	if err := s.ApptRepo.MarkPaid(appt.ID); err != nil {
		return NewTransientError("payment verification failed, please try again")
	}
	return nil
}
