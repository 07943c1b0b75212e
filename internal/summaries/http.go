package summaries

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/lox/analogwx/internal/httputil"
	"github.com/lox/analogwx/internal/models"
)

// HTTPSource fetches per-day summaries from the upstream summary service,
// for runs without a local summary mirror.
type HTTPSource struct {
	BaseURL string
	client  *http.Client
}

// NewHTTPSource returns a source rooted at baseURL, which serves
// <baseURL>/<airport>/<date>.json.
func NewHTTPSource(baseURL string) *HTTPSource {
	return &HTTPSource{
		BaseURL: baseURL,
		client:  httputil.NewClient(),
	}
}

// DaySummary implements Source. A 404 is a missing day; transient statuses
// are retried with exponential backoff; other failures are logged and the
// day is skipped.
func (s *HTTPSource) DaySummary(airport string, date time.Time) (*models.DaySummary, error) {
	url := fmt.Sprintf("%s/%s/%s.json", s.BaseURL, airport, date.Format("2006-01-02"))

	var body []byte
	missing := false
	operation := func() error {
		resp, err := s.client.Get(url)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("fetch summary: %w", err))
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			missing = true
			return nil
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			return fmt.Errorf("transient: status %d", resp.StatusCode)
		case resp.StatusCode != http.StatusOK:
			b, _ := io.ReadAll(resp.Body)
			return backoff.Permanent(fmt.Errorf("fetch summary: status %d: %s", resp.StatusCode, string(b)))
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("read body: %w", err))
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 2 * time.Minute
	if err := backoff.Retry(operation, bo); err != nil {
		log.Printf("summaries: %s %s: %v", airport, date.Format("2006-01-02"), err)
		return nil, nil
	}
	if missing {
		return nil, nil
	}
	return Parse(airport, date, body)
}
