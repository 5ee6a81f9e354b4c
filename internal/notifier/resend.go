package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/subastando/auction-api/internal/auction/domain"
	"github.com/subastando/auction-api/internal/shared/logger"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

const defaultEndpoint = "https://api.resend.com/emails"

// ResendNotifier delivers auction outcome emails to the configured operator
// address through the Resend REST API. With no API key configured it logs
// the outcome and reports success, so settlement never depends on email.
type ResendNotifier struct {
	apiKey   string
	from     string
	to       string
	endpoint string
	client   *http.Client
}

type Option func(*ResendNotifier)

// WithEndpoint overrides the Resend API URL, used by tests.
func WithEndpoint(url string) Option {
	return func(n *ResendNotifier) { n.endpoint = url }
}

func WithHTTPClient(c *http.Client) Option {
	return func(n *ResendNotifier) { n.client = c }
}

func NewResendNotifier(apiKey, from, to string, opts ...Option) *ResendNotifier {
	n := &ResendNotifier{
		apiKey:   apiKey,
		from:     from,
		to:       to,
		endpoint: defaultEndpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

type sendRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// AuctionEnded implements domain.Notifier.
func (n *ResendNotifier) AuctionEnded(ctx context.Context, notice domain.AuctionEndedNotice) error {
	if n.apiKey == "" {
		log.Info("Email delivery disabled, skipping auction end notification",
			zap.String("auctionID", notice.AuctionID.String()),
			zap.String("winner", notice.WinnerEmail),
		)
		return nil
	}

	payload := sendRequest{
		From:    n.from,
		To:      n.to,
		Subject: fmt.Sprintf("Auction ended: %s", notice.Title),
		HTML:    renderAuctionEndedHTML(notice),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("notifier: failed to encode email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("notifier: failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+n.apiKey)

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("notifier: resend request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("notifier: resend returned status %d: %s", resp.StatusCode, detail)
	}

	log.Info("Auction end notification sent",
		zap.String("auctionID", notice.AuctionID.String()),
		zap.String("to", n.to),
	)
	return nil
}

func renderAuctionEndedHTML(notice domain.AuctionEndedNotice) string {
	return fmt.Sprintf(`<h1>Auction ended</h1>
<p><strong>Title:</strong> %s</p>
<p><strong>Winner:</strong> %s (%s)</p>
<p><strong>Final price:</strong> $%s</p>
<p><strong>Auction ID:</strong> %s</p>
<p>You can contact the winner to arrange delivery.</p>`,
		notice.Title,
		notice.WinnerName,
		notice.WinnerEmail,
		notice.FinalPrice.StringFixed(2),
		notice.AuctionID,
	)
}
