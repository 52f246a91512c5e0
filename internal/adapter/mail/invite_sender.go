package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mewayz/onboarding/internal/config"
	"github.com/mewayz/onboarding/internal/domain"
)

// InvitationSender delivers workspace invitations to teammates.
type InvitationSender interface {
	Send(ctx context.Context, workspace domain.Workspace, invitation domain.Invitation) error
}

// HTTPInvitationSender posts templated invitation emails to a transactional
// mail provider.
type HTTPInvitationSender struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	sender     string
	inviteBase string
}

var _ InvitationSender = (*HTTPInvitationSender)(nil)

// NewHTTPInvitationSender constructs the default sender.
func NewHTTPInvitationSender(client *http.Client, cfg config.Config) *HTTPInvitationSender {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPInvitationSender{
		httpClient: client,
		endpoint:   cfg.MailEndpoint,
		apiKey:     cfg.MailAPIKey,
		sender:     cfg.MailSender,
		inviteBase: strings.TrimRight(cfg.InviteBaseURL, "/"),
	}
}

type mailMessage struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// Send delivers one invitation. Failures are returned per call so the caller
// can report partial delivery rather than a single aggregate outcome.
func (s *HTTPInvitationSender) Send(ctx context.Context, workspace domain.Workspace, invitation domain.Invitation) error {
	if strings.TrimSpace(s.endpoint) == "" {
		return domain.ErrMailNotConfigured
	}

	msg := mailMessage{
		From:    s.sender,
		To:      invitation.Email,
		Subject: fmt.Sprintf("You've been invited to join %s on Mewayz", workspace.Name),
		HTML:    s.renderBody(workspace, invitation),
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode invitation mail: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build mail request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send invitation mail: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))

	if resp.StatusCode >= 300 {
		return fmt.Errorf("send invitation mail: status=%d", resp.StatusCode)
	}
	return nil
}

func (s *HTTPInvitationSender) renderBody(workspace domain.Workspace, invitation domain.Invitation) string {
	acceptURL := fmt.Sprintf("%s/%s?code=%s", s.inviteBase, workspace.Slug, invitation.Code)
	var b strings.Builder
	fmt.Fprintf(&b, "<p>You have been invited to join <strong>%s</strong> as %s.</p>", workspace.Name, invitation.Role)
	if strings.TrimSpace(invitation.Message) != "" {
		fmt.Fprintf(&b, "<blockquote>%s</blockquote>", invitation.Message)
	}
	fmt.Fprintf(&b, `<p><a href="%s">Accept invitation</a></p>`, acceptURL)
	return b.String()
}
