package webui

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestMarketingHandlerPathTraversal(t *testing.T) {
	tempDir := t.TempDir()

	marketingDir := filepath.Join(tempDir, "marketing")
	if err := os.MkdirAll(marketingDir, 0755); err != nil {
		t.Fatalf("failed to create marketing directory: %v", err)
	}
	validFile := filepath.Join(marketingDir, "index.html")
	if err := os.WriteFile(validFile, []byte("<html>Valid</html>"), 0644); err != nil {
		t.Fatalf("failed to create valid file: %v", err)
	}

	secretDir := filepath.Join(tempDir, "marketing-secret")
	if err := os.MkdirAll(secretDir, 0755); err != nil {
		t.Fatalf("failed to create secret directory: %v", err)
	}
	secretFile := filepath.Join(secretDir, "secret.html")
	if err := os.WriteFile(secretFile, []byte("SECRET"), 0644); err != nil {
		t.Fatalf("failed to create secret file: %v", err)
	}

	originalWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	if err := os.Chdir(tempDir); err != nil {
		t.Fatalf("failed to change to temp directory: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Chdir(originalWd)
	})

	webUI := &WebUI{}

	tests := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{
			name:       "valid file access",
			path:       "/marketing/index.html",
			wantStatus: http.StatusOK,
		},
		{
			name:       "path traversal attempt",
			path:       "/marketing/../../../etc/passwd",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "sibling directory bypass",
			path:       "/marketing/../marketing-secret/secret.html",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "backslash traversal",
			path:       "/marketing/..\\marketing-secret\\secret.html",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "disallowed extension",
			path:       "/marketing/config.json",
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			rr := httptest.NewRecorder()

			webUI.marketingHandler(rr, req)

			got := rr.Code

			if got == tt.wantStatus {
				return
			}

			if tt.name == "backslash traversal" && got == http.StatusBadRequest {
				return
			}

			t.Errorf("handler returned wrong status code: got %v want %v", got, tt.wantStatus)
		})
	}
}
