package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/resend/resend-go/v2"
)

// EmailService отправляет транзакционные письма.
type EmailService interface {
	SendRetakeReminder(ctx context.Context, toEmail, quizName string, frequencyDays int) error
}

// NoopEmailService используется, когда отправка почты выключена.
type NoopEmailService struct{}

func (s *NoopEmailService) SendRetakeReminder(ctx context.Context, toEmail, quizName string, frequencyDays int) error {
	log.Printf("[EmailService] noop send retake reminder to=%s quiz=%q", toEmail, quizName)
	return nil
}

// ResendEmailService отправляет письма через Resend REST API.
type ResendEmailService struct {
	from    string
	client  *resend.Client
	retries int
}

func NewResendEmailService(apiKey, from string) (*ResendEmailService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("resend api key is required")
	}
	if from == "" {
		return nil, fmt.Errorf("email from is required")
	}
	return &ResendEmailService{
		from:    from,
		client:  resend.NewClient(apiKey),
		retries: 3,
	}, nil
}

// SendRetakeReminder отправляет напоминание о повторном прохождении викторины
func (s *ResendEmailService) SendRetakeReminder(ctx context.Context, toEmail, quizName string, frequencyDays int) error {
	if toEmail == "" || quizName == "" {
		return fmt.Errorf("toEmail and quizName are required")
	}

	subject := fmt.Sprintf("Time to retake the quiz %q", quizName)
	text := fmt.Sprintf(
		"More than %d days passed since your last attempt at %q. Take it again to keep your knowledge fresh.",
		frequencyDays, quizName)
	html := fmt.Sprintf(
		"<p>More than <strong>%d days</strong> passed since your last attempt at <strong>%s</strong>.</p><p>Take it again to keep your knowledge fresh.</p>",
		frequencyDays, quizName)

	return s.send(ctx, toEmail, subject, text, html)
}

// send выполняет запрос к Resend с ограниченным числом повторов.
// Повторяются только rate limit (с учетом Retry-After) и сетевые тайм-ауты.
func (s *ResendEmailService) send(ctx context.Context, toEmail, subject, text, html string) error {
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{toEmail},
		Subject: subject,
		Text:    text,
		Html:    html,
	}

	var lastErr error
	for attempt := 0; attempt < s.retries; attempt++ {
		_, err := s.client.Emails.SendWithOptions(ctx, params, &resend.SendEmailOptions{})
		if err == nil {
			return nil
		}
		lastErr = err

		wait, retryable := retryDelay(err, attempt)
		if !retryable {
			return fmt.Errorf("resend send failed: %w", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}

	return fmt.Errorf("resend send failed after retries: %w", lastErr)
}

func retryDelay(err error, attempt int) (time.Duration, bool) {
	var rateLimitErr *resend.RateLimitError
	if errors.As(err, &rateLimitErr) {
		seconds, convErr := strconv.Atoi(strings.TrimSpace(rateLimitErr.RetryAfter))
		if convErr != nil || seconds <= 0 {
			return time.Duration(attempt+1) * time.Second, true
		}
		if seconds > 30 {
			seconds = 30
		}
		return time.Duration(seconds) * time.Second, true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return time.Duration(attempt+1) * 500 * time.Millisecond, true
	}
	if strings.Contains(strings.ToLower(err.Error()), "timeout") {
		return time.Duration(attempt+1) * 500 * time.Millisecond, true
	}

	return 0, false
}
