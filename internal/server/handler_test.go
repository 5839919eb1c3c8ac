package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/shipbill-extractor/internal/export"
	"github.com/joseph-ayodele/shipbill-extractor/internal/extract"
	"github.com/joseph-ayodele/shipbill-extractor/internal/pipeline"
)

type stubExtractor struct{}

func (stubExtractor) Extract(_ context.Context, doc extract.Document) (extract.TextExtractionResult, error) {
	return extract.TextExtractionResult{Text: string(doc.Content), Pages: 1}, nil
}

type stubGenerator struct{}

var reSource = regexp.MustCompile(`"Source":"([^"]+)"`)

func (stubGenerator) Generate(_ context.Context, prompt string) (string, error) {
	source := reSource.FindStringSubmatch(prompt)[1]
	return `[{"SB No":"123","SB date":"01-01-2025","LUT":"Y","IGST AMT":"0.00","Port code":"INMAA1","Source":"` + source + `"}]`, nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	proc := pipeline.NewProcessor(nil, pipeline.Config{}, stubExtractor{}, stubGenerator{})
	h := NewHandler(nil, proc, export.NewService(nil), 8)
	srv := httptest.NewServer(NewRouter(h))
	t.Cleanup(srv.Close)
	return srv
}

func multipartBody(t *testing.T, names ...string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, name := range names {
		fw, err := w.CreateFormFile("files", name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write([]byte("pdf content for " + name)); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, w.FormDataContentType()
}

func TestExtractEndpoint(t *testing.T) {
	srv := newTestServer(t)
	body, ct := multipartBody(t, "a.pdf", "b.pdf")

	resp, err := http.Post(srv.URL+"/api/extract", ct, body)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var res pipeline.BatchResult
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		t.Fatal(err)
	}
	if len(res.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(res.Records))
	}
	if res.Records[0]["Source"] != "a.pdf" || res.Records[1]["Source"] != "b.pdf" {
		t.Errorf("upload order not preserved: %v", res.Records)
	}
}

func TestExtractEndpointNoFiles(t *testing.T) {
	srv := newTestServer(t)
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	_ = w.WriteField("other", "x")
	_ = w.Close()

	resp, err := http.Post(srv.URL+"/api/extract", w.FormDataContentType(), &buf)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestExtractEndpointRejectsNonPDF(t *testing.T) {
	srv := newTestServer(t)
	body, ct := multipartBody(t, "notes.txt")

	resp, err := http.Post(srv.URL+"/api/extract", ct, body)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestExtractXLSXEndpoint(t *testing.T) {
	srv := newTestServer(t)
	body, ct := multipartBody(t, "a.pdf")

	resp, err := http.Post(srv.URL+"/api/extract/xlsx", ct, body)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Content-Type"); got != export.ContentType {
		t.Errorf("content type = %q", got)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, export.DefaultFilename) {
		t.Errorf("content disposition = %q", cd)
	}

	var data bytes.Buffer
	if _, err := data.ReadFrom(resp.Body); err != nil {
		t.Fatal(err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data.Bytes()))
	if err != nil {
		t.Fatalf("response is not a workbook: %v", err)
	}
	defer f.Close()
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/extract")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", resp.StatusCode)
	}
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}
