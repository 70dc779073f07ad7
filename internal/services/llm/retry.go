package llm

import (
	"context"
	"errors"
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/ternarybob/arbor"
	"google.golang.org/genai"

	"github.com/ternarybob/magstudio/internal/common"
)

// RetryConfig defines bounded retry for transient provider failures.
// Only rate limit and 5xx responses are retried; everything else fails immediately.
type RetryConfig struct {
	// MaxRetries is the number of additional attempts after the first (0 = fail fast)
	MaxRetries int

	// InitialBackoff is the wait before the first retry
	InitialBackoff time.Duration

	// MaxBackoff caps the wait between retries, before jitter
	MaxBackoff time.Duration

	// BackoffMultiplier is applied to backoff on each retry
	BackoffMultiplier float64

	// JitterFraction adds up to this fraction of the backoff as random delay
	JitterFraction float64
}

const (
	DefaultInitialBackoff    = 2 * time.Second
	DefaultMaxBackoff        = 60 * time.Second
	DefaultBackoffMultiplier = 2.0
	DefaultJitterFraction    = 0.5
)

// NewRetryConfig builds the retry policy from the [llm] section
func NewRetryConfig(config *common.LLMConfig) *RetryConfig {
	maxRetries := config.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &RetryConfig{
		MaxRetries:        maxRetries,
		InitialBackoff:    common.ParseDurationOr(config.RetryBackoff, DefaultInitialBackoff),
		MaxBackoff:        DefaultMaxBackoff,
		BackoffMultiplier: DefaultBackoffMultiplier,
		JitterFraction:    DefaultJitterFraction,
	}
}

// IsTransientError reports whether err is worth retrying: HTTP 429, 5xx,
// RESOURCE_EXHAUSTED or UNAVAILABLE. Context cancellation is never transient.
func IsTransientError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	if code := statusCode(err); code != 0 {
		return code == 429 || code >= 500
	}

	errStr := err.Error()
	return strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "RESOURCE_EXHAUSTED") ||
		strings.Contains(errStr, "UNAVAILABLE")
}

// statusCode extracts the HTTP status from provider SDK errors, 0 if unknown
func statusCode(err error) int {
	var geminiErr genai.APIError
	if errors.As(err, &geminiErr) {
		return geminiErr.Code
	}
	var geminiErrPtr *genai.APIError
	if errors.As(err, &geminiErrPtr) && geminiErrPtr != nil {
		return geminiErrPtr.Code
	}
	var claudeErr *anthropic.Error
	if errors.As(err, &claudeErr) && claudeErr != nil {
		return claudeErr.StatusCode
	}
	return 0
}

// retryDelayRegex matches "Please retry in Xs" or "retryDelay:Xs" patterns
var retryDelayRegex = regexp.MustCompile(`(?i)(?:Please retry in |retryDelay[:\s]+)(\d+(?:\.\d+)?)\s*s`)

// ExtractRetryDelay parses the API-suggested retry delay from a provider error.
// Returns 0 if no delay is found in the error message.
//
// Example error message:
// "Error 429, Message: ... Please retry in 45.387061394s., Status: RESOURCE_EXHAUSTED"
func ExtractRetryDelay(err error) time.Duration {
	if err == nil {
		return 0
	}

	matches := retryDelayRegex.FindStringSubmatch(err.Error())
	if len(matches) < 2 {
		return 0
	}

	seconds, parseErr := strconv.ParseFloat(matches[1], 64)
	if parseErr != nil {
		return 0
	}

	return time.Duration(seconds * float64(time.Second))
}

// CalculateBackoff computes the deterministic part of the wait for a given attempt.
// An API-suggested delay replaces InitialBackoff as the base. The result is capped at MaxBackoff.
func (c *RetryConfig) CalculateBackoff(attempt int, apiDelay time.Duration) time.Duration {
	base := c.InitialBackoff
	if apiDelay > 0 {
		base = apiDelay
	}

	multiplier := 1.0
	for i := 0; i < attempt; i++ {
		multiplier *= c.BackoffMultiplier
	}

	backoff := time.Duration(float64(base) * multiplier)
	if c.MaxBackoff > 0 && backoff > c.MaxBackoff {
		backoff = c.MaxBackoff
	}
	return backoff
}

// withJitter adds a random delay in [0, JitterFraction*backoff)
func (c *RetryConfig) withJitter(backoff time.Duration) time.Duration {
	window := int64(float64(backoff) * c.JitterFraction)
	if window <= 0 {
		return backoff
	}
	return backoff + time.Duration(rand.Int64N(window))
}

// Do runs call until it succeeds, fails with a non-transient error, or retries are exhausted
func (c *RetryConfig) Do(ctx context.Context, logger arbor.ILogger, provider string, call func() error) error {
	var err error
	for attempt := 0; attempt <= c.MaxRetries; attempt++ {
		err = call()
		if err == nil {
			return nil
		}

		if attempt == c.MaxRetries || !IsTransientError(err) {
			break
		}

		backoff := c.withJitter(c.CalculateBackoff(attempt, ExtractRetryDelay(err)))

		logger.Warn().
			Str("provider", provider).
			Int("attempt", attempt+1).
			Int("max_retries", c.MaxRetries).
			Dur("backoff", backoff).
			Err(err).
			Msg("Retrying transient provider failure")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
	return err
}
