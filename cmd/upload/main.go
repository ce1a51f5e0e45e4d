// Command upload posts a local station CSV to the ingestion API and prints
// the resulting summary.
//
// Usage:
//
//	upload -url http://localhost:8080/upload station.CSV
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

func main() {
	url := flag.String("url", "http://localhost:8080/upload", "upload endpoint")
	timeout := flag.Duration("timeout", 2*time.Minute, "request timeout")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: upload [-url endpoint] <file.csv>")
		os.Exit(2)
	}

	if err := upload(*url, flag.Arg(0), *timeout); err != nil {
		fmt.Fprintln(os.Stderr, "upload failed:", err)
		os.Exit(1)
	}
}

func upload(url, path string, timeout time.Duration) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return err
	}
	if _, err := part.Write(raw); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, url, &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close() //nolint:errcheck // read-only

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned %s: %s", resp.Status, payload)
	}

	var result struct {
		Filename    string `json:"filename"`
		ObjectName  string `json:"object_name"`
		Records     int    `json:"records"`
		SkippedRows int    `json:"skipped_rows"`
		DateRange   struct {
			Start string `json:"start"`
			End   string `json:"end"`
		} `json:"date_range"`
	}
	if err := json.Unmarshal(payload, &result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	fmt.Printf("uploaded %s\n", path)
	fmt.Printf("  stored as:    %s\n", result.ObjectName)
	fmt.Printf("  records:      %d (skipped %d)\n", result.Records, result.SkippedRows)
	fmt.Printf("  period:       %s to %s\n", result.DateRange.Start, result.DateRange.End)
	return nil
}
