package summary

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/clinscribe/platform/pkg/gateway/httpclient"
)

// HFClient calls the Hugging Face hosted inference API. It is a thin
// pass-through: any transport or HTTP failure is returned to the caller,
// which decides whether to fall back to the local heuristic.
type HFClient struct {
	client       *http.Client
	baseURL      string
	apiToken     string
	maxNewTokens int
}

func NewHFClient(baseURL, apiToken string, maxNewTokens int, timeout time.Duration) *HFClient {
	if maxNewTokens <= 0 {
		maxNewTokens = 512
	}
	return &HFClient{
		client:       httpclient.New(timeout),
		baseURL:      strings.TrimRight(baseURL, "/"),
		apiToken:     apiToken,
		maxNewTokens: maxNewTokens,
	}
}

func (c *HFClient) Generate(ctx context.Context, prompt, model string) (string, error) {
	payload := map[string]interface{}{
		"inputs": prompt,
		"parameters": map[string]interface{}{
			"max_new_tokens": c.maxNewTokens,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshaling inference payload: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s", c.baseURL, model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiToken)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("inference API returned status %d", resp.StatusCode)
	}

	return parseGeneratedText(raw)
}

// parseGeneratedText handles the response shapes the inference API is known
// to return: a list of objects with generated_text, a single object, or a
// bare list of strings.
func parseGeneratedText(raw []byte) (string, error) {
	var asList []map[string]interface{}
	if err := json.Unmarshal(raw, &asList); err == nil && len(asList) > 0 {
		if text, ok := asList[0]["generated_text"].(string); ok {
			return text, nil
		}
		var parts []string
		for _, item := range asList {
			if text, ok := item["generated_text"].(string); ok {
				parts = append(parts, text)
			}
		}
		if len(parts) > 0 {
			return strings.Join(parts, "\n"), nil
		}
	}

	var asObject map[string]interface{}
	if err := json.Unmarshal(raw, &asObject); err == nil {
		if text, ok := asObject["generated_text"].(string); ok {
			return text, nil
		}
	}

	var asStrings []string
	if err := json.Unmarshal(raw, &asStrings); err == nil && len(asStrings) > 0 {
		return strings.Join(asStrings, "\n"), nil
	}

	return "", fmt.Errorf("unrecognized inference response shape")
}
