// Command healthcheck probes a running accountdesk server and exits non-zero
// unless the server answers and its storage backend is readable.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"
)

const (
	defaultAddr = "127.0.0.1:8080"
	healthPath  = "/api/v1/health"
)

// healthReport mirrors the JSON body of the health endpoint.
type healthReport struct {
	Status  string `json:"status"`
	Storage string `json:"storage"`
}

func main() {
	os.Exit(check(os.Getenv("ACCOUNTDESK_LISTEN_ADDR"), os.Stderr))
}

// check probes the server at rawAddr and returns the process exit code.
// Failures are reported on errOut.
func check(rawAddr string, errOut io.Writer) int {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	client := &http.Client{Timeout: 2 * time.Second}
	url := fmt.Sprintf("http://%s%s", normalizeAddr(rawAddr), healthPath)

	if err := probe(ctx, client, url); err != nil {
		_, _ = fmt.Fprintf(errOut, "healthcheck: %v\n", err)
		return 1
	}
	return 0
}

// probe fetches url and fails unless the server reports both itself and its
// storage as ok.
func probe(ctx context.Context, client *http.Client, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request health: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var report healthReport
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return fmt.Errorf("decode health response (status %d): %w", resp.StatusCode, err)
	}

	if report.Storage != "ok" {
		return fmt.Errorf("storage %q", report.Storage)
	}
	if resp.StatusCode != http.StatusOK || report.Status != "ok" {
		return fmt.Errorf("server status %q (HTTP %d)", report.Status, resp.StatusCode)
	}
	return nil
}

// normalizeAddr ensures the healthcheck connects to loopback rather than the
// bind-all address. Docker containers bind 0.0.0.0 but the healthcheck runs
// inside the same container, so loopback is reachable and more correct.
func normalizeAddr(raw string) string {
	if raw == "" {
		return defaultAddr
	}

	host, port, err := net.SplitHostPort(raw)
	if err != nil {
		return defaultAddr
	}

	if host == "" || host == "0.0.0.0" {
		host = "127.0.0.1"
	}

	return net.JoinHostPort(host, port)
}
