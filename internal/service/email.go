package service

import (
	"context"
	"fmt"

	"nftflow-backend/internal/config"
	"nftflow-backend/internal/logger"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// emailService sends transactional notifications through SendGrid. Delivery
// failures are logged and swallowed: notifications ride on settlement paths
// that have already committed, so they must never fail an engine operation.
type emailService struct {
	apiKey   string
	from     string
	fromName string
}

func NewEmailService(cfg config.EmailConfig) EmailService {
	return &emailService{
		apiKey:   cfg.APIKey,
		from:     cfg.From,
		fromName: cfg.FromName,
	}
}

func (s *emailService) send(ctx context.Context, to, subject, plainText, htmlContent string) error {
	from := mail.NewEmail(s.fromName, s.from)
	recipient := mail.NewEmail("", to)
	message := mail.NewSingleEmail(from, subject, recipient, plainText, htmlContent)

	logger.ExternalServiceCall("sendgrid", "send", "to", to, "subject", subject)
	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err == nil && response.StatusCode >= 400 {
		err = fmt.Errorf("sendgrid status %d: %s", response.StatusCode, response.Body)
	}
	logger.ExternalServiceResult("sendgrid", "send", err, "to", to)
	if err != nil {
		logger.Error("Email delivery failed", "to", to, "subject", subject, "error", err)
	}
	return nil
}

func (s *emailService) SendRentalCreatedNotification(ctx context.Context, lenderEmail, tenantName, asset string) error {
	subject := fmt.Sprintf("Your asset %s was rented", asset)
	plain := fmt.Sprintf("%s started a rental of %s. Payment is now streaming to your account.", tenantName, asset)
	html := fmt.Sprintf("<p><strong>%s</strong> started a rental of %s.</p><p>Payment is now streaming to your account.</p>", tenantName, asset)
	return s.send(ctx, lenderEmail, subject, plain, html)
}

func (s *emailService) SendRentalCompletedNotification(ctx context.Context, email, role, asset string, amount int64) error {
	subject := fmt.Sprintf("Rental of %s completed", asset)
	plain := fmt.Sprintf("The rental of %s has completed and settled. Collateral of %d was released. You were the %s.", asset, amount, role)
	html := fmt.Sprintf("<p>The rental of %s has completed and settled.</p><p>Collateral of %d was released. You were the %s.</p>", asset, amount, role)
	return s.send(ctx, email, subject, plain, html)
}

func (s *emailService) SendRentalCancelledNotification(ctx context.Context, lenderEmail, tenantName, asset, reason string) error {
	subject := fmt.Sprintf("Rental of %s cancelled", asset)
	plain := fmt.Sprintf("%s cancelled the rental of %s. Reason: %s", tenantName, asset, reason)
	html := fmt.Sprintf("<p><strong>%s</strong> cancelled the rental of %s.</p><p>Reason: %s</p>", tenantName, asset, reason)
	return s.send(ctx, lenderEmail, subject, plain, html)
}

func (s *emailService) SendDisputeOpenedNotification(ctx context.Context, email, asset, reason string) error {
	subject := fmt.Sprintf("Dispute opened on rental of %s", asset)
	plain := fmt.Sprintf("A dispute was opened on the rental of %s. Reason: %s. An arbiter will review it.", asset, reason)
	html := fmt.Sprintf("<p>A dispute was opened on the rental of %s.</p><p>Reason: %s</p><p>An arbiter will review it.</p>", asset, reason)
	return s.send(ctx, email, subject, plain, html)
}

func (s *emailService) SendDisputeResolvedNotification(ctx context.Context, email, asset string, favorTenant bool) error {
	verdict := "in favor of the lender"
	if favorTenant {
		verdict = "in favor of the tenant"
	}
	subject := fmt.Sprintf("Dispute resolved on rental of %s", asset)
	plain := fmt.Sprintf("The dispute on the rental of %s was resolved %s. Settlement has been applied to your balance.", asset, verdict)
	html := fmt.Sprintf("<p>The dispute on the rental of %s was resolved %s.</p><p>Settlement has been applied to your balance.</p>", asset, verdict)
	return s.send(ctx, email, subject, plain, html)
}
