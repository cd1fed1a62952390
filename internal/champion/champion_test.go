package champion

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestLoadBundled(t *testing.T) {
	table, err := LoadBundled()
	if err != nil {
		t.Fatalf("LoadBundled failed: %v", err)
	}

	if table.Len() < 150 {
		t.Errorf("Expected the full roster, got %d champions", table.Len())
	}
	if table.Version() == "" {
		t.Error("Expected bundled data to carry a version")
	}
}

func TestByKey_EveryKeyResolvesToItself(t *testing.T) {
	table, err := LoadBundled()
	if err != nil {
		t.Fatalf("LoadBundled failed: %v", err)
	}

	for _, key := range table.keys() {
		c, err := table.ByKey(key)
		if err != nil {
			t.Fatalf("ByKey(%s) failed: %v", key, err)
		}
		if c.Key != key {
			t.Errorf("ByKey(%s) returned champion with key %s", key, c.Key)
		}
		if c.Name == "" {
			t.Errorf("ByKey(%s) returned champion without a name", key)
		}
	}
}

func TestByKey_KnownChampions(t *testing.T) {
	table, err := LoadBundled()
	if err != nil {
		t.Fatalf("LoadBundled failed: %v", err)
	}

	tests := []struct {
		key  string
		name string
	}{
		{"103", "Ahri"},
		{"62", "Wukong"},
		{"1", "Annie"},
		{"145", "Kai'Sa"},
	}

	for _, tt := range tests {
		c, err := table.ByKey(tt.key)
		if err != nil {
			t.Errorf("ByKey(%s) failed: %v", tt.key, err)
			continue
		}
		if c.Name != tt.name {
			t.Errorf("ByKey(%s): expected %s, got %s", tt.key, tt.name, c.Name)
		}
	}
}

func TestByKey_NotFound(t *testing.T) {
	table, err := LoadBundled()
	if err != nil {
		t.Fatalf("LoadBundled failed: %v", err)
	}

	for _, key := range []string{"0", "99999", "", "Ahri", "-1"} {
		_, err := table.ByKey(key)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("ByKey(%q): expected ErrNotFound, got %v", key, err)
		}
	}
}

func TestLoad_Rejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `nope`},
		{"empty data", `{"data":{}}`},
		{"missing key", `{"data":{"Ahri":{"id":"Ahri","name":"Ahri"}}}`},
		{"duplicate key", `{"data":{"Ahri":{"id":"Ahri","key":"103"},"Fake":{"id":"Fake","key":"103"}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(strings.NewReader(tt.body)); err == nil {
				t.Error("Expected an error")
			}
		})
	}
}

func TestKeys_NumericOrder(t *testing.T) {
	table, err := Load(strings.NewReader(`{"data":{
		"A":{"id":"A","key":"103"},
		"B":{"id":"B","key":"9"},
		"C":{"id":"C","key":"22"}
	}}`))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	got := strings.Join(table.keys(), ",")
	if got != "9,22,103" {
		t.Errorf("Expected 9,22,103, got %s", got)
	}
}

func TestFetcher_FetchLatest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/versions.json":
			fmt.Fprint(w, `["15.20.1","15.19.1"]`)
		case "/cdn/15.20.1/data/en_US/champion.json":
			fmt.Fprint(w, `{"type":"champion","version":"15.20.1","data":{"Ahri":{"id":"Ahri","key":"103","name":"Ahri"}}}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := &Fetcher{BaseURL: srv.URL + "/", Client: srv.Client()}
	ds, err := f.FetchLatest(context.Background(), "en_US")
	if err != nil {
		t.Fatalf("FetchLatest failed: %v", err)
	}

	if ds.Version != "15.20.1" {
		t.Errorf("Expected version 15.20.1, got %s", ds.Version)
	}
	if ds.Data["Ahri"].Key != "103" {
		t.Errorf("Expected Ahri with key 103, got %+v", ds.Data["Ahri"])
	}
}

func TestFetcher_NoVersions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	}))
	defer srv.Close()

	f := &Fetcher{BaseURL: srv.URL + "/", Client: srv.Client()}
	if _, err := f.LatestVersion(context.Background()); err == nil {
		t.Error("Expected error when no versions are listed")
	}
}

func TestFetcher_RejectsInvalidDataset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/versions.json":
			fmt.Fprint(w, `["15.20.1"]`)
		case "/cdn/15.20.1/data/en_US/champion.json":
			fmt.Fprint(w, `{"version":"15.20.1","data":{"Ahri":{"id":"Ahri","name":"Ahri"}}}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := &Fetcher{BaseURL: srv.URL + "/", Client: srv.Client()}
	if ds, err := f.FetchLatest(context.Background(), "en_US"); err == nil {
		t.Errorf("Expected a champion without a key to be rejected, got %+v", ds)
	}
}
