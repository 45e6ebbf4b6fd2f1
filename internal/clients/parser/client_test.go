package parser

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestParseDocument_SendsMultipartFileField(t *testing.T) {
	var gotField, gotFilename string
	var gotContent []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != "/parse-docx" {
			t.Errorf("path = %s, want /parse-docx", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		for field, headers := range r.MultipartForm.File {
			gotField = field
			gotFilename = headers[0].Filename
			f, err := headers[0].Open()
			if err != nil {
				t.Fatalf("open part: %v", err)
			}
			gotContent, _ = io.ReadAll(f)
			f.Close()
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"portfolio": map[string]any{"accounts": []any{}}})
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	portfolio, err := client.ParseDocument(context.Background(), "overview.docx", []byte("docx-bytes"))
	if err != nil {
		t.Fatalf("ParseDocument returned error: %v", err)
	}

	if gotField != "file" {
		t.Errorf("multipart field = %q, want %q", gotField, "file")
	}
	if gotFilename != "overview.docx" {
		t.Errorf("filename = %q, want %q", gotFilename, "overview.docx")
	}
	if string(gotContent) != "docx-bytes" {
		t.Errorf("uploaded content = %q, want %q", gotContent, "docx-bytes")
	}

	var decoded map[string]any
	if err := json.Unmarshal(portfolio, &decoded); err != nil {
		t.Fatalf("returned portfolio is not JSON: %v", err)
	}
	if _, ok := decoded["accounts"]; !ok {
		t.Errorf("portfolio = %v, want accounts key", decoded)
	}
}

func TestParseDocument_NonOKStatusIsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "cannot parse document", http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	_, err := client.ParseDocument(context.Background(), "bad.docx", []byte("x"))
	if err == nil {
		t.Fatal("expected error for non-200 response")
	}

	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("error type = %T, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("StatusCode = %d, want %d", apiErr.StatusCode, http.StatusUnprocessableEntity)
	}
}

func TestParseDocument_MissingPortfolioFieldFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"unexpected": true}`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	if _, err := client.ParseDocument(context.Background(), "a.docx", []byte("x")); err == nil {
		t.Fatal("expected error for body without portfolio field")
	}
}

func TestParseDocument_MalformedBodyFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	if _, err := client.ParseDocument(context.Background(), "a.docx", []byte("x")); err == nil {
		t.Fatal("expected error for malformed response body")
	}
}
