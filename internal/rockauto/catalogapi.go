package rockauto

import (
	"context"
	"encoding/json"
	"fmt"
)

// CallCatalogAPI invokes a function on the catalog AJAX endpoint using
// the same form encoding, headers and bypass token a browser sends.
// The decoded JSON response is returned as-is.
func (c *Client) CallCatalogAPI(ctx context.Context, function string, payload any) (map[string]any, error) {
	c.ensureSession(ctx)

	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode catalog api payload: %w", err)
	}

	form := map[string]string{
		"func":             function,
		"payload":          string(encoded),
		"api_json_request": "1",
	}
	if token := c.bypassParam(); token != "" {
		form["_jnck"] = token
	}

	res, err := c.http.R().
		SetContext(ctx).
		SetFormData(form).
		SetHeaders(map[string]string{
			"Accept":           "text/plain, */*; q=0.01",
			"X-Requested-With": "XMLHttpRequest",
			"Referer":          c.baseURL + "/",
		}).
		Post(catalogAPIPath)
	if err != nil {
		return nil, fmt.Errorf("catalog api call %q failed: %w", function, err)
	}
	if res.IsError() {
		return nil, &UpstreamStatusError{StatusCode: res.StatusCode(), URL: c.baseURL + catalogAPIPath}
	}

	var decoded map[string]any
	if err := json.Unmarshal(res.Body(), &decoded); err != nil {
		return nil, fmt.Errorf("catalog api returned invalid json: %w", err)
	}
	return decoded, nil
}
