package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"fitfunnel/internal/config"
)

// EmailJSMailer posts template parameters to the EmailJS REST API.
type EmailJSMailer struct {
	HTTP *http.Client
	cfg  config.EmailJSConfig
}

func NewEmailJSMailer(cfg config.EmailJSConfig, timeout time.Duration) *EmailJSMailer {
	return &EmailJSMailer{
		HTTP: &http.Client{Timeout: timeout},
		cfg:  cfg,
	}
}

func (m *EmailJSMailer) Name() string { return "emailjs" }

func (m *EmailJSMailer) Configured() bool {
	return !anyPlaceholder(m.cfg.Endpoint, m.cfg.ServiceID, m.cfg.TemplateID, m.cfg.PublicKey)
}

type emailJSRequest struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	AccessToken    string            `json:"accessToken,omitempty"`
	TemplateParams map[string]string `json:"template_params"`
}

func (m *EmailJSMailer) SendLead(ctx context.Context, params LeadParams) error {
	if !m.Configured() {
		return ErrMailerNotConfigured
	}

	body, err := json.Marshal(emailJSRequest{
		ServiceID:      m.cfg.ServiceID,
		TemplateID:     m.cfg.TemplateID,
		UserID:         m.cfg.PublicKey,
		AccessToken:    m.cfg.AccessToken,
		TemplateParams: params.Map(),
	})
	if err != nil {
		return fmt.Errorf("emailjs encode: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("emailjs request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("emailjs http error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("emailjs bad status: %s: %s", resp.Status, bytes.TrimSpace(msg))
	}
	return nil
}
