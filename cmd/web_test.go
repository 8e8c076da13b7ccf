package cmd

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"gonum.org/v1/plot/vg"

	"github.com/zalepa/benito/chart"
	"github.com/zalepa/benito/parser"
)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	res, err := parser.Normalize([]byte(testCSV), parser.FormatCSV)
	if err != nil {
		t.Fatal(err)
	}
	s := newServer(res, 4*vg.Inch, 3*vg.Inch, zerolog.Nop())
	ts := httptest.NewServer(s.routes())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, ts *httptest.Server, path string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, string(body)
}

// tableOrder returns the page names in the order the HTML table lists them.
func tableOrder(body string, names ...string) []string {
	tbody := body[strings.Index(body, "<tbody>"):]
	var got []string
	for len(got) < len(names) {
		best, at := "", len(tbody)
		for _, n := range names {
			if i := strings.Index(tbody, n); i >= 0 && i < at {
				best, at = n, i
			}
		}
		if best == "" {
			break
		}
		got = append(got, best)
		tbody = tbody[at+len(best):]
	}
	return got
}

func TestServer_Pages(t *testing.T) {
	ts := testServer(t)
	names := []string{"Candidate A", "Candidate B", "Candidate C"}

	tests := []struct {
		path string
		want []string
	}{
		{"/", []string{"Candidate A", "Candidate B", "Candidate C"}},
		{"/original", []string{"Candidate A", "Candidate B", "Candidate C"}},
		{"/amount", []string{"Candidate B", "Candidate C", "Candidate A"}},
		{"/ads", []string{"Candidate C", "Candidate A", "Candidate B"}},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, body := get(t, ts, tt.path)
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d", resp.StatusCode)
			}
			if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
				t.Errorf("content type = %q", ct)
			}
			for _, s := range []string{Title, Subtitle, "<svg", SourceURL, `href="/amount"`, `href="/ads"`} {
				if !strings.Contains(body, s) {
					t.Errorf("page missing %q", s)
				}
			}
			got := tableOrder(body, names...)
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("table order = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestServer_DroppedRowsNoted(t *testing.T) {
	ts := testServer(t)
	_, body := get(t, ts, "/")
	if !strings.Contains(body, "1 fila(s)") {
		t.Error("page does not mention the dropped row")
	}
}

func TestServer_NotFound(t *testing.T) {
	ts := testServer(t)
	for _, path := range []string{
		"/name",
		"/api/records/name",
		"/charts/name/bar.svg",
		"/charts/amount/donut.svg",
		"/charts/amount/bar.gif",
	} {
		resp, _ := get(t, ts, path)
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("GET %s status = %d, want 404", path, resp.StatusCode)
		}
	}
}

func TestServer_Records(t *testing.T) {
	ts := testServer(t)
	resp, body := get(t, ts, "/api/records/amount")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var got recordsResponse
	if err := json.Unmarshal([]byte(body), &got); err != nil {
		t.Fatal(err)
	}
	if got.Order != chart.OrderAmount {
		t.Errorf("order = %q", got.Order)
	}
	var amounts []int64
	for _, r := range got.Records {
		amounts = append(amounts, r.AmountSpentMXN)
	}
	if len(amounts) != 3 || amounts[0] != 300 || amounts[1] != 200 || amounts[2] != 100 {
		t.Errorf("amounts = %v, want [300 200 100]", amounts)
	}
	if got.Dropped != 1 {
		t.Errorf("dropped = %d, want 1", got.Dropped)
	}
	if len(got.Warnings) != 1 || got.Warnings[0].Kind != parser.KindInvalidAmount {
		t.Errorf("warnings = %v", got.Warnings)
	}
	if len(got.Projection.Pie) != 3 || got.Projection.Pie[0].Text != "Candidate: 50%" {
		t.Errorf("pie = %+v", got.Projection.Pie)
	}
}

func TestServer_Charts(t *testing.T) {
	ts := testServer(t)
	tests := []struct {
		path, contentType string
	}{
		{"/charts/original/bar.svg", "image/svg+xml"},
		{"/charts/ads/pie.svg", "image/svg+xml"},
		{"/charts/amount/bar.png", "image/png"},
	}
	for _, tt := range tests {
		resp, body := get(t, ts, tt.path)
		if resp.StatusCode != http.StatusOK {
			t.Errorf("GET %s status = %d", tt.path, resp.StatusCode)
			continue
		}
		if ct := resp.Header.Get("Content-Type"); ct != tt.contentType {
			t.Errorf("GET %s content type = %q, want %q", tt.path, ct, tt.contentType)
		}
		if len(body) == 0 {
			t.Errorf("GET %s: empty body", tt.path)
		}
	}
}

func TestServer_Health(t *testing.T) {
	ts := testServer(t)
	_, body := get(t, ts, "/api/health")
	var got map[string]any
	if err := json.Unmarshal([]byte(body), &got); err != nil {
		t.Fatal(err)
	}
	if got["status"] != "ok" || got["records"] != float64(3) || got["warnings"] != float64(1) || got["dropped"] != float64(1) {
		t.Errorf("health = %v", got)
	}
}
