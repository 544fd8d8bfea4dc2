package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/hashicorp/go-version"
)

// Settings is the per-organization configuration the service reports for a
// run.
type Settings struct {
	Org         string `json:"org,omitempty"`
	SastEnabled bool   `json:"sastEnabled"`
	APIVersion  string `json:"apiVersion,omitempty"`
}

// supportedAPIVersions is the service API range this client understands.
var supportedAPIVersions = version.MustConstraints(version.NewConstraint(">= 1.0, < 2.0"))

// GetSastSettings fetches the analysis settings for an organization.
// An empty org falls back to the client's default org.
func (c *Client) GetSastSettings(ctx context.Context, org string) (*Settings, error) {
	if org == "" {
		org = c.DefaultOrg
	}
	u := c.BaseURL + "/api/v1/sast-settings"
	if org != "" {
		u += "?org=" + url.QueryEscape(org)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create a settings request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get analysis settings: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newServiceError("sast-settings", resp, "")
	}
	settings := &Settings{}
	if err := json.NewDecoder(resp.Body).Decode(settings); err != nil {
		return nil, fmt.Errorf("decode analysis settings: %w", err)
	}
	if err := checkAPIVersion(settings.APIVersion); err != nil {
		return nil, err
	}
	return settings, nil
}

func checkAPIVersion(raw string) error {
	if raw == "" {
		return nil
	}
	v, err := version.NewVersion(raw)
	if err != nil {
		return fmt.Errorf("parse the service API version %q: %w", raw, err)
	}
	if !supportedAPIVersions.Check(v) {
		return fmt.Errorf("the service API version %s isn't supported (supported: %s)", raw, supportedAPIVersions)
	}
	return nil
}
