package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/sastctl/sastctl/pkg/sarif"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// maxSourceFileSize caps the size of a single file sent for analysis.
const maxSourceFileSize = 1024 * 1024

// supportedExtensions lists the file types the analysis service accepts.
var supportedExtensions = map[string]struct{}{
	".c":    {},
	".cpp":  {},
	".cs":   {},
	".go":   {},
	".java": {},
	".js":   {},
	".jsx":  {},
	".kt":   {},
	".php":  {},
	".py":   {},
	".rb":   {},
	".rs":   {},
	".ts":   {},
	".tsx":  {},
}

// Analyzer submits source bundles for analysis.
type Analyzer struct {
	client *Client
	fs     afero.Fs
}

func NewAnalyzer(client *Client, fs afero.Fs) *Analyzer {
	return &Analyzer{client: client, fs: fs}
}

type analysisRequest struct {
	Org   string            `json:"org,omitempty"`
	Files map[string]string `json:"files"`
}

// Analyze scans the files under path and returns the parsed result log.
// A nil log with a nil error means the service has nothing it can analyze
// at that path. requestID only labels the request for diagnostics.
func (a *Analyzer) Analyze(ctx context.Context, logE *logrus.Entry, path, org, requestID string) (*sarif.Log, error) {
	files, err := a.collectSources(path)
	if err != nil {
		return nil, fmt.Errorf("collect source files: %w", err)
	}
	logE.WithFields(logrus.Fields{
		"request_id": requestID,
		"file_count": len(files),
	}).Debug("collected source files")
	if len(files) == 0 {
		return nil, nil //nolint:nilnil
	}

	body, err := json.Marshal(&analysisRequest{Org: org, Files: files})
	if err != nil {
		return nil, fmt.Errorf("marshal the analysis request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.client.BaseURL+"/api/v1/analysis", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create an analysis request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", requestID)
	resp, err := a.client.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request an analysis: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNoContent {
		return nil, nil //nolint:nilnil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newServiceError("analysis", resp, readErrorMessage(resp.Body))
	}
	result := &sarif.Log{}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return nil, fmt.Errorf("decode the analysis result: %w", err)
	}
	return result, nil
}

// readErrorMessage extracts the service's reported error from a failure
// response body. An unreadable or unexpected body yields an empty string.
func readErrorMessage(r io.Reader) string {
	body := struct {
		Error string `json:"error"`
	}{}
	if err := json.NewDecoder(r).Decode(&body); err != nil {
		return ""
	}
	return body.Error
}

func (a *Analyzer) collectSources(root string) (map[string]string, error) {
	files := map[string]string{}
	if err := afero.Walk(a.fs, root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return nil //nolint:nilerr
		}
		name := info.Name()
		if info.IsDir() {
			if p != root && (strings.HasPrefix(name, ".") || name == "vendor" || name == "node_modules") {
				return filepath.SkipDir
			}
			return nil
		}
		if _, ok := supportedExtensions[filepath.Ext(name)]; !ok {
			return nil
		}
		if info.Size() > maxSourceFileSize {
			return nil
		}
		content, err := afero.ReadFile(a.fs, p)
		if err != nil {
			return fmt.Errorf("read a source file: %w", err)
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			rel = p
		}
		files[filepath.ToSlash(rel)] = string(content)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return files, nil
}
