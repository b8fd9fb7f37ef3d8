package submit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/quangtd/vidxu/internal/config"
	"github.com/quangtd/vidxu/internal/domain"
	"github.com/quangtd/vidxu/pkg/clients"
	"github.com/quangtd/vidxu/pkg/metrics"
)

const (
	// maxRetries counts retries after the initial attempt, so a job gets
	// maxRetries+1 tries before the budget is exhausted.
	maxRetries    = 3
	maxAttempts   = maxRetries + 1
	retryInterval = time.Second * 1
)

var (
	ErrUnsupportedService = errors.New("service is not supported by the provider")
	ErrInvalidInput       = errors.New("invalid job input")
)

// Error is a submission failure. Definitive failures (validation, 4xx) are
// never retried; everything else is transient and retried until the budget
// is exhausted.
type Error struct {
	Definitive bool
	Status     int
	Message    string
}

func (e *Error) Error() string {
	if e.Definitive {
		return fmt.Sprintf("provider rejected job: %s", e.Message)
	}
	return fmt.Sprintf("provider unavailable: %s", e.Message)
}

// JobStatus is the provider's view of a submitted job.
type JobStatus struct {
	Ref    string
	Status string
	Error  string
}

func (s *JobStatus) Succeeded() bool { return s.Status == "succeeded" }
func (s *JobStatus) Failed() bool    { return s.Status == "failed" }

type jobRequest struct {
	Kind        string `json:"kind"`
	Prompt      string `json:"prompt,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	DurationSec int    `json:"duration_sec,omitempty"`
}

type jobResponse struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
	Error  string `json:"error"`
}

// Submitter maps an order's service-specific inputs into the inference
// provider's request shape and performs the submission call.
type Submitter struct {
	url    string
	token  string
	client clients.HTTPClientI
}

func NewSubmitter(cfg *config.Config, client clients.HTTPClientI) *Submitter {
	return &Submitter{
		url:    cfg.ProviderAddress,
		token:  cfg.ProviderToken,
		client: client,
	}
}

func (s *Submitter) Supports(slug string) bool {
	switch slug {
	case "text-to-video", "image-to-video":
		return true
	}
	return false
}

func mapInputs(slug string, inputs map[string]string) (*jobRequest, error) {
	switch slug {
	case "text-to-video":
		prompt := inputs["prompt"]
		if prompt == "" {
			return nil, fmt.Errorf("%w: prompt is required", ErrInvalidInput)
		}
		duration := 5
		if raw := inputs["duration_sec"]; raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 || parsed > 60 {
				return nil, fmt.Errorf("%w: duration_sec must be 1-60", ErrInvalidInput)
			}
			duration = parsed
		}
		return &jobRequest{Kind: slug, Prompt: prompt, DurationSec: duration}, nil
	case "image-to-video":
		imageURL := inputs["image_url"]
		if imageURL == "" {
			return nil, fmt.Errorf("%w: image_url is required", ErrInvalidInput)
		}
		return &jobRequest{Kind: slug, ImageURL: imageURL, Prompt: inputs["prompt"]}, nil
	}
	return nil, ErrUnsupportedService
}

// Submit sends the job, retrying transient provider failures with an
// attempt-scaled backoff. The order id rides along as the idempotency key,
// so a retried submission can never create a second job.
func (s *Submitter) Submit(ctx context.Context, order *domain.Order, slug string, inputs map[string]string) (string, error) {
	request, err := mapInputs(slug, inputs)
	if err != nil {
		return "", err
	}
	body, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to encode job request: %w", err)
	}

	headers := http.Header{}
	headers.Set("Authorization", "Bearer "+s.token)
	headers.Set("Idempotency-Key", strconv.Itoa(order.ID))

	url := s.url + "/v1/jobs"
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		statusCode, respBody, respHeaders, err := s.client.Post(url, headers, body)
		if err != nil {
			lastErr = err
			zap.L().Warn("job submission attempt failed", zap.Int("orderID", order.ID), zap.Int("attempt", attempt), zap.Error(err))
			s.wait(attempt, "")
			continue
		}

		switch {
		case statusCode == http.StatusOK || statusCode == http.StatusCreated || statusCode == http.StatusAccepted:
			var resp jobResponse
			if err := json.Unmarshal(respBody, &resp); err != nil || resp.JobID == "" {
				metrics.JobSubmissions.WithLabelValues("rejected").Inc()
				return "", &Error{Definitive: true, Status: statusCode, Message: "provider returned no job id"}
			}
			metrics.JobSubmissions.WithLabelValues("accepted").Inc()
			zap.L().Info("job submitted", zap.Int("orderID", order.ID), zap.String("jobRef", resp.JobID))
			return resp.JobID, nil

		case statusCode == http.StatusTooManyRequests:
			lastErr = fmt.Errorf("provider rate limit: status %d", statusCode)
			zap.L().Warn("provider rate limit, retrying", zap.Int("orderID", order.ID), zap.Int("attempt", attempt))
			s.wait(attempt, respHeaders.Get("Retry-After"))

		case statusCode >= http.StatusInternalServerError:
			lastErr = fmt.Errorf("provider error: status %d", statusCode)
			zap.L().Warn("provider error, retrying", zap.Int("orderID", order.ID), zap.Int("status", statusCode), zap.Int("attempt", attempt))
			s.wait(attempt, "")

		default:
			metrics.JobSubmissions.WithLabelValues("rejected").Inc()
			return "", &Error{Definitive: true, Status: statusCode, Message: providerMessage(respBody, statusCode)}
		}
	}

	metrics.JobSubmissions.WithLabelValues("exhausted").Inc()
	return "", &Error{Message: fmt.Sprintf("gave up after %d attempts: %v", maxAttempts, lastErr)}
}

// QueryJob fetches the current status of a previously submitted job by its
// provider reference. Used by the recovery sweep and the poll path.
func (s *Submitter) QueryJob(ctx context.Context, jobRef string) (*JobStatus, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	headers := http.Header{}
	headers.Set("Authorization", "Bearer "+s.token)

	statusCode, respBody, _, err := s.client.Get(s.url+"/v1/jobs/"+jobRef, headers)
	if err != nil {
		return nil, fmt.Errorf("failed to query job %s: %w", jobRef, err)
	}

	switch statusCode {
	case http.StatusOK:
		var resp jobResponse
		if err := json.Unmarshal(respBody, &resp); err != nil {
			return nil, fmt.Errorf("failed to parse job status for %s: %w", jobRef, err)
		}
		return &JobStatus{Ref: resp.JobID, Status: resp.Status, Error: resp.Error}, nil
	case http.StatusNotFound:
		// The provider no longer knows the job; there is nothing to wait
		// for, so the order can settle as failed.
		zap.L().Warn("job not found at provider", zap.String("jobRef", jobRef))
		return &JobStatus{Ref: jobRef, Status: "failed", Error: "job not found at provider"}, nil
	default:
		return nil, fmt.Errorf("unexpected status %d querying job %s", statusCode, jobRef)
	}
}

func (s *Submitter) wait(attempt int, retryAfterHeader string) {
	retryAfter := retryInterval * time.Duration(attempt)
	if retryAfterHeader != "" {
		if seconds, err := strconv.Atoi(retryAfterHeader); err == nil {
			retryAfter = time.Duration(seconds) * time.Second
		}
	}
	time.Sleep(retryAfter)
}

func providerMessage(respBody []byte, statusCode int) string {
	var resp jobResponse
	if err := json.Unmarshal(respBody, &resp); err == nil && resp.Error != "" {
		return resp.Error
	}
	return fmt.Sprintf("status %d", statusCode)
}
