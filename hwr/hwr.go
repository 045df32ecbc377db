package hwr

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/sync/semaphore"

	"github.com/juruen/inkpaper/log"
)

var NoContent = errors.New("no page content")

// BatchConfig holds credentials and limits for batch recognition
type BatchConfig struct {
	ApplicationKey string
	HmacKey        string
	Parameters     TextParameter
	BatchSize      int64
}

// RecognizeBatch recognizes every request with at most cfg.BatchSize
// calls in flight. Results and errors are indexed like reqs.
func RecognizeBatch(ctx context.Context, client *RESTClient, cfg BatchConfig, reqs []*RecognizeRequest) ([]*Result, []error) {
	if cfg.BatchSize < 1 {
		cfg.BatchSize = 1
	}
	results := make([]*Result, len(reqs))
	errs := make([]error, len(reqs))

	sem := semaphore.NewWeighted(cfg.BatchSize)
	for p, req := range reqs {
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Trace.Printf("Failed to acquire semaphore: %v", err)
			for i := p; i < len(reqs); i++ {
				errs[i] = err
			}
			break
		}
		go func(p int, req *RecognizeRequest) {
			defer sem.Release(1)
			if len(req.Components) == 0 {
				errs[p] = NoContent
				return
			}
			if req.ApplicationKey == "" {
				req.ApplicationKey = cfg.ApplicationKey
				req.HmacKey = cfg.HmacKey
			}
			if req.Parameters.Language == "" {
				req.Parameters = cfg.Parameters
			}

			res, err := client.Recognize(ctx, req)
			if err != nil {
				log.Trace.Printf("Failed to send request for page %d: %v", p, err)
				errs[p] = err
				return
			}
			log.Trace.Printf("Page %d: recognized %q", p, preview(res.Text()))
			results[p] = res
		}(p, req)
	}

	// Wait for all goroutines to finish
	if err := sem.Acquire(context.Background(), cfg.BatchSize); err != nil {
		log.Trace.Printf("Failed to acquire semaphore: %v", err)
	}

	return results, errs
}

func preview(s string) string {
	const previewLen = 200
	s = strings.TrimSpace(s)
	if len(s) > previewLen {
		return s[:previewLen]
	}
	return s
}
