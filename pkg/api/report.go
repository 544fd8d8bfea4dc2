package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sastctl/sastctl/pkg/apperr"
	"github.com/sastctl/sastctl/pkg/sarif"
)

// ReportRequest carries everything needed to publish a result set as a
// shareable report.
type ReportRequest struct {
	Org         string
	ProjectID   string
	ProjectName string
	TargetRef   string
	Results     *sarif.Log
}

// ReportOutcome identifies the uploaded report. A fresh value is created
// per upload.
type ReportOutcome struct {
	ProjectPublicID  string `json:"projectPublicId"`
	SnapshotPublicID string `json:"snapshotPublicId"`
	ProjectURL       string `json:"projectUrl"`
}

type reportBody struct {
	ProjectID   string     `json:"projectId,omitempty"`
	ProjectName string     `json:"projectName,omitempty"`
	TargetRef   string     `json:"targetRef,omitempty"`
	Results     *sarif.Log `json:"results"`
}

// UploadReport submits a result set to the sharing endpoint. A 401 response
// becomes an authentication failure; any other non-2xx response becomes a
// validation failure carrying the service's reported error when present.
func (c *Client) UploadReport(ctx context.Context, r *ReportRequest) (*ReportOutcome, error) {
	org := r.Org
	if org == "" {
		org = c.DefaultOrg
	}
	body, err := json.Marshal(&reportBody{
		ProjectID:   r.ProjectID,
		ProjectName: r.ProjectName,
		TargetRef:   r.TargetRef,
		Results:     r.Results,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal the report request: %w", err)
	}
	u := c.BaseURL + "/api/v1/sast/report"
	if org != "" {
		u += "?org=" + url.QueryEscape(org)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create a report request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload a report: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusUnauthorized {
		return nil, apperr.New(apperr.CodeAuthenticationFailure, "Unauthorized: the provided credentials were rejected by the report endpoint")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := readErrorMessage(resp.Body)
		if msg == "" {
			msg = "Failed to upload the report results"
		}
		return nil, apperr.New(apperr.CodeValidationFailure, msg)
	}
	outcome := &ReportOutcome{}
	if err := json.NewDecoder(resp.Body).Decode(outcome); err != nil {
		return nil, fmt.Errorf("decode the report response: %w", err)
	}
	return outcome, nil
}
