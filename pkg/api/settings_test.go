package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sastctl/sastctl/pkg/api"
)

func TestClient_GetSastSettings(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/sast-settings" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if org := r.URL.Query().Get("org"); org != "my-org" {
			t.Errorf("wanted org my-org, got %q", org)
		}
		json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck,errchkjson
			"org":         "my-org",
			"sastEnabled": true,
			"apiVersion":  "1.3.0",
		})
	}))
	defer srv.Close()

	client := api.New(context.Background(), srv.URL, "token", "")
	settings, err := client.GetSastSettings(context.Background(), "my-org")
	if err != nil {
		t.Fatal(err)
	}
	exp := &api.Settings{
		Org:         "my-org",
		SastEnabled: true,
		APIVersion:  "1.3.0",
	}
	if diff := cmp.Diff(exp, settings); diff != "" {
		t.Fatal(diff)
	}
}

func TestClient_GetSastSettings_unsupportedAPIVersion(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck,errchkjson
			"sastEnabled": true,
			"apiVersion":  "2.0.0",
		})
	}))
	defer srv.Close()

	client := api.New(context.Background(), srv.URL, "token", "")
	_, err := client.GetSastSettings(context.Background(), "")
	if err == nil {
		t.Fatal("error must be returned")
	}
	if !strings.Contains(err.Error(), "isn't supported") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClient_GetSastSettings_serviceError(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := api.New(context.Background(), srv.URL, "", "")
	_, err := client.GetSastSettings(context.Background(), "")
	serviceErr := &api.ServiceError{}
	if !errors.As(err, &serviceErr) {
		t.Fatalf("a service error must be returned: %v", err)
	}
	if serviceErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("wanted 401, got %d", serviceErr.StatusCode)
	}
	if serviceErr.APIName != "sast-settings" {
		t.Fatalf("unexpected API name %q", serviceErr.APIName)
	}
	if !serviceErr.Unauthorized() {
		t.Fatal("the error must report unauthorized")
	}
}
