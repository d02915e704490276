package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// TestContext carries per-scenario HTTP state.
type TestContext struct {
	BaseURL string
	Client  *http.Client

	LastStatus int
	LastBody   []byte
	LastHeader http.Header

	submitted  map[string]string
	createdIDs []string
}

func NewTestContext(baseURL string) *TestContext {
	return &TestContext{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (tc *TestContext) reset() {
	tc.LastStatus = 0
	tc.LastBody = nil
	tc.LastHeader = nil
	tc.submitted = nil
	tc.createdIDs = nil
}

func (tc *TestContext) do(ctx context.Context, method, path, body string, headers map[string]string) error {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, tc.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := tc.Client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	tc.LastStatus = resp.StatusCode
	tc.LastHeader = resp.Header
	tc.LastBody, err = io.ReadAll(resp.Body)
	return err
}

func (tc *TestContext) jsonObject() (map[string]any, error) {
	var out map[string]any
	if err := json.Unmarshal(tc.LastBody, &out); err != nil {
		return nil, fmt.Errorf("response is not a JSON object: %w (body %q)", err, tc.LastBody)
	}
	return out, nil
}
