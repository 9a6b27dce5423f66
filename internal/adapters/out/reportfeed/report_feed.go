// Package reportfeed retrieves the cargo carrier's free-text tracking
// report. The carrier publishes one document covering every consignment;
// it is fetched once per reconciliation run and parsed downstream.
package reportfeed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"
)

// HTTPReportFeed fetches the report document from a fixed URL.
type HTTPReportFeed struct {
	client *http.Client
	url    string
	logger *zap.Logger
}

func NewHTTPReportFeed(url string, logger *zap.Logger) *HTTPReportFeed {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPReportFeed{
		client: &http.Client{Timeout: 30 * time.Second},
		url:    url,
		logger: logger,
	}
}

func (f *HTTPReportFeed) FetchReport(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	start := time.Now()

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch report: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("report feed returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read report: %w", err)
	}

	f.logger.Debug("report fetched",
		zap.Int("bytes", len(body)),
		zap.Duration("duration", time.Since(start)))

	return string(body), nil
}

// FileReportFeed reads the report document from a local file. Used when the
// report is dropped onto disk by an external transfer instead of served
// over HTTP.
type FileReportFeed struct {
	path string
}

func NewFileReportFeed(path string) *FileReportFeed {
	return &FileReportFeed{path: path}
}

func (f *FileReportFeed) FetchReport(_ context.Context) (string, error) {
	body, err := os.ReadFile(f.path)
	if err != nil {
		return "", fmt.Errorf("failed to read report file: %w", err)
	}
	return string(body), nil
}
