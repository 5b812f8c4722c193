// Package notify delivers best-effort email notifications about
// accepted rental applications. Delivery failures are logged and never
// affect the outcome of a reservation.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/camping-heater-rental/backend/internal/storage/models"
)

// Notifier is the outbound notification boundary. Implementations must
// be safe for concurrent use.
type Notifier interface {
	ApplicationReceived(ctx context.Context, app *models.RentalApplication) error
}

// Nop is a Notifier that does nothing. Used when email is not configured.
type Nop struct{}

// ApplicationReceived implements Notifier.
func (Nop) ApplicationReceived(ctx context.Context, app *models.RentalApplication) error {
	return nil
}

const resendBaseURL = "https://api.resend.com"

// Client sends notification emails through the Resend API.
type Client struct {
	apiKey     string
	from       string
	adminEmail string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Resend email client.
func NewClient(apiKey, from, adminEmail string) *Client {
	return &Client{
		apiKey:     apiKey,
		from:       from,
		adminEmail: adminEmail,
		baseURL:    resendBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type sendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// ApplicationReceived emails the admin about a newly accepted application.
func (c *Client) ApplicationReceived(ctx context.Context, app *models.RentalApplication) error {
	subject := fmt.Sprintf("[캠핑난로] 새로운 대여 신청 - %s님", app.Name)
	return c.send(ctx, subject, applicationHTML(app))
}

// SendDigest emails the admin a summary of rentals starting today.
func (c *Client) SendDigest(ctx context.Context, day models.Date, apps []models.RentalApplication) error {
	subject := fmt.Sprintf("[캠핑난로] %s 시작 예정 대여 %d건", day, len(apps))
	return c.send(ctx, subject, digestHTML(day, apps))
}

func (c *Client) send(ctx context.Context, subject, html string) error {
	body, err := json.Marshal(sendEmailRequest{
		From:    c.from,
		To:      []string{c.adminEmail},
		Subject: subject,
		HTML:    html,
	})
	if err != nil {
		return fmt.Errorf("encoding email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building email request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("email API returned %d: %s", resp.StatusCode, detail)
	}

	return nil
}

// formatKorean renders a date as a Korean long-form date.
func formatKorean(d models.Date) string {
	t, err := time.Parse("2006-01-02", d.String())
	if err != nil {
		return d.String()
	}
	return fmt.Sprintf("%d년 %d월 %d일", t.Year(), int(t.Month()), t.Day())
}

func applicationHTML(app *models.RentalApplication) string {
	var b strings.Builder
	b.WriteString(`<div style="font-family: 'Noto Sans KR', sans-serif; max-width: 600px; margin: 0 auto;">`)
	b.WriteString(`<h1>새로운 캠핑난로 대여 신청</h1>`)

	b.WriteString(`<h2>신청자 정보</h2><table>`)
	row(&b, "이름", app.Name)
	row(&b, "연락처", app.Phone)
	if app.Email != nil {
		row(&b, "이메일", *app.Email)
	}
	b.WriteString(`</table>`)

	b.WriteString(`<h2>대여 정보</h2><table>`)
	row(&b, "대여 시작일", formatKorean(app.StartDate))
	row(&b, "반납 예정일", formatKorean(app.EndDate))
	row(&b, "대여 기간", models.RentalPeriodLabel(app.RentalPeriod))
	b.WriteString(`</table>`)

	if app.AdditionalRequests != nil {
		b.WriteString(`<h2>추가 요청사항</h2>`)
		fmt.Fprintf(&b, `<p style="white-space: pre-wrap;">%s</p>`, *app.AdditionalRequests)
	}

	fmt.Fprintf(&b, `<p style="color: #888; font-size: 12px;">신청 ID: %s</p>`, app.ID)
	b.WriteString(`</div>`)
	return b.String()
}

func digestHTML(day models.Date, apps []models.RentalApplication) string {
	var b strings.Builder
	b.WriteString(`<div style="font-family: 'Noto Sans KR', sans-serif; max-width: 600px; margin: 0 auto;">`)
	fmt.Fprintf(&b, `<h1>%s 시작 예정 대여</h1>`, formatKorean(day))

	for _, app := range apps {
		b.WriteString(`<table>`)
		row(&b, "이름", app.Name)
		row(&b, "연락처", app.Phone)
		row(&b, "반납 예정일", formatKorean(app.EndDate))
		row(&b, "대여 기간", models.RentalPeriodLabel(app.RentalPeriod))
		b.WriteString(`</table><hr/>`)
	}

	b.WriteString(`</div>`)
	return b.String()
}

func row(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, `<tr><td style="color: #666; width: 120px;">%s</td><td style="font-weight: bold;">%s</td></tr>`, label, value)
}
