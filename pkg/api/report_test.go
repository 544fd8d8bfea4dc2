package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sastctl/sastctl/pkg/api"
	"github.com/sastctl/sastctl/pkg/apperr"
	"github.com/sastctl/sastctl/pkg/sarif"
)

func testLog() *sarif.Log {
	return &sarif.Log{
		Runs: []sarif.Run{
			{
				Results: []sarif.Result{
					{
						RuleID:  "go/sql-injection",
						Level:   "error",
						Message: sarif.Message{Text: "SQL injection"},
					},
				},
			},
		},
	}
}

func TestClient_UploadReport(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("wanted POST, got %s", r.Method)
		}
		if r.URL.Path != "/api/v1/sast/report" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if org := r.URL.Query().Get("org"); org != "my-org" {
			t.Errorf("wanted org my-org, got %q", org)
		}
		body := struct {
			ProjectID   string     `json:"projectId"`
			ProjectName string     `json:"projectName"`
			TargetRef   string     `json:"targetRef"`
			Results     *sarif.Log `json:"results"`
		}{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Error(err)
		}
		if body.ProjectName != "my-project" {
			t.Errorf("wanted project name my-project, got %q", body.ProjectName)
		}
		if body.Results.IssueCount() != 1 {
			t.Errorf("wanted 1 result, got %d", body.Results.IssueCount())
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{ //nolint:errcheck,errchkjson
			"projectPublicId":  "proj-1",
			"snapshotPublicId": "snap-1",
			"projectUrl":       "https://app.example.com/project/proj-1",
		})
	}))
	defer srv.Close()

	client := api.New(context.Background(), srv.URL, "token", "")
	outcome, err := client.UploadReport(context.Background(), &api.ReportRequest{
		Org:         "my-org",
		ProjectName: "my-project",
		TargetRef:   "main",
		Results:     testLog(),
	})
	if err != nil {
		t.Fatal(err)
	}
	exp := &api.ReportOutcome{
		ProjectPublicID:  "proj-1",
		SnapshotPublicID: "snap-1",
		ProjectURL:       "https://app.example.com/project/proj-1",
	}
	if diff := cmp.Diff(exp, outcome); diff != "" {
		t.Fatal(diff)
	}
}

func TestClient_UploadReport_defaultOrg(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if org := r.URL.Query().Get("org"); org != "default-org" {
			t.Errorf("wanted org default-org, got %q", org)
		}
		json.NewEncoder(w).Encode(map[string]string{}) //nolint:errcheck,errchkjson
	}))
	defer srv.Close()

	client := api.New(context.Background(), srv.URL, "token", "default-org")
	if _, err := client.UploadReport(context.Background(), &api.ReportRequest{
		ProjectName: "my-project",
		Results:     testLog(),
	}); err != nil {
		t.Fatal(err)
	}
}

func TestClient_UploadReport_failures(t *testing.T) {
	t.Parallel()
	data := []struct {
		name       string
		statusCode int
		body       string
		expCode    apperr.Code
		expMsg     string
	}{
		{
			name:       "unauthorized",
			statusCode: http.StatusUnauthorized,
			expCode:    apperr.CodeAuthenticationFailure,
		},
		{
			name:       "validation failure with a service message",
			statusCode: http.StatusUnprocessableEntity,
			body:       `{"error": "project name contains invalid characters"}`,
			expCode:    apperr.CodeValidationFailure,
			expMsg:     "project name contains invalid characters",
		},
		{
			name:       "validation failure without a service message",
			statusCode: http.StatusBadRequest,
			expCode:    apperr.CodeValidationFailure,
			expMsg:     "Failed to upload the report results",
		},
	}
	for _, d := range data {
		d := d
		t.Run(d.name, func(t *testing.T) {
			t.Parallel()
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(d.statusCode)
				if d.body != "" {
					w.Write([]byte(d.body)) //nolint:errcheck
				}
			}))
			defer srv.Close()

			client := api.New(context.Background(), srv.URL, "token", "")
			_, err := client.UploadReport(context.Background(), &api.ReportRequest{
				Org:         "my-org",
				ProjectName: "my-project",
				Results:     testLog(),
			})
			appErr := &apperr.Error{}
			if !errors.As(err, &appErr) {
				t.Fatalf("a classified error must be returned: %v", err)
			}
			if appErr.Code != d.expCode {
				t.Fatalf("wanted code %s, got %s", d.expCode, appErr.Code)
			}
			if d.expMsg != "" && appErr.Message != d.expMsg {
				t.Fatalf("wanted message %q, got %q", d.expMsg, appErr.Message)
			}
		})
	}
}
