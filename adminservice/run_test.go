package adminservice

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	bloblocal "github.com/tourkita/admin-backend/internal/blob/local"
	"github.com/tourkita/admin-backend/internal/config"
	"github.com/tourkita/admin-backend/internal/model"
	"github.com/tourkita/admin-backend/internal/store/sqlite"
)

const testAPIKey = "sk_test_key"

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	st, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("sqlite: %v", err)
	}
	blobs, err := bloblocal.New(t.TempDir(), "http://localhost:8080/assets")
	if err != nil {
		t.Fatalf("blob store: %v", err)
	}
	cfg := config.NewForTesting()
	cfg.APIKey = testAPIKey

	srv := httptest.NewServer(buildRouter(st, blobs, cfg, zerolog.Nop()))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, payload interface{}, authed bool) (*http.Response, []byte) {
	t.Helper()
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer "+testAPIKey)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	data, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, data
}

func TestRouter_LocationCRUD(t *testing.T) {
	srv := newTestServer(t)

	resp, data := doJSON(t, "POST", srv.URL+"/api/locations", map[string]interface{}{
		"name": "Fort Santiago", "category": "Historical",
		"address": "Intramuros", "lat": 14.5958, "lng": 120.9772,
	}, true)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: %d %s", resp.StatusCode, data)
	}
	var loc model.Location
	if err := json.Unmarshal(data, &loc); err != nil || loc.LocationID == "" {
		t.Fatalf("create body: %s err=%v", data, err)
	}

	// Reads pass without a key.
	resp, data = doJSON(t, "GET", srv.URL+"/api/locations/"+loc.LocationID, nil, false)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get: %d %s", resp.StatusCode, data)
	}

	resp, data = doJSON(t, "PATCH", srv.URL+"/api/locations/"+loc.LocationID,
		map[string]interface{}{"address": "Santa Clara St"}, true)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("patch: %d %s", resp.StatusCode, data)
	}
	var patched model.Location
	_ = json.Unmarshal(data, &patched)
	if patched.Address != "Santa Clara St" || patched.Name != "Fort Santiago" {
		t.Fatalf("merge update: %+v", patched)
	}

	resp, _ = doJSON(t, "DELETE", srv.URL+"/api/locations/"+loc.LocationID, nil, true)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete: %d", resp.StatusCode)
	}
	resp, _ = doJSON(t, "GET", srv.URL+"/api/locations/"+loc.LocationID, nil, false)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("get after delete: %d", resp.StatusCode)
	}
}

func TestRouter_MutationsRequireAPIKey(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := doJSON(t, "POST", srv.URL+"/api/locations", map[string]interface{}{
		"name": "X", "category": "Y", "lat": 0.0, "lng": 0.0,
	}, false)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unauthenticated mutation: %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, "GET", srv.URL+"/api/locations", nil, false)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unauthenticated read: %d", resp.StatusCode)
	}
}

func TestRouter_ARTargetMultipartLifecycle(t *testing.T) {
	srv := newTestServer(t)

	resp, data := doJSON(t, "POST", srv.URL+"/api/locations", map[string]interface{}{
		"name": "Fort Santiago", "category": "Historical",
		"address": "Intramuros", "lat": 14.5958, "lng": 120.9772,
	}, true)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create location: %d %s", resp.StatusCode, data)
	}
	var loc model.Location
	_ = json.Unmarshal(data, &loc)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("locationId", loc.LocationID)
	_ = mw.WriteField("category", model.CategoryBuilding)
	_ = mw.WriteField("name", "Fort Santiago")
	_ = mw.WriteField("physicalWidth", "2.5")
	for field, name := range map[string]string{"image": "fort.jpg", "model": "fort.glb"} {
		fw, err := mw.CreateFormFile(field, name)
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		_, _ = io.Copy(fw, strings.NewReader("binary-"+name))
	}
	_ = mw.Close()

	req, _ := http.NewRequest("POST", srv.URL+"/api/ar-targets", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+testAPIKey)
	resp2, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("post target: %v", err)
	}
	body, _ := io.ReadAll(resp2.Body)
	_ = resp2.Body.Close()
	if resp2.StatusCode != http.StatusCreated {
		t.Fatalf("save target: %d %s", resp2.StatusCode, body)
	}
	var tgt model.ARTarget
	if err := json.Unmarshal(body, &tgt); err != nil || tgt.TargetID != loc.Name {
		t.Fatalf("target body: %s err=%v", body, err)
	}

	resp, data = doJSON(t, "GET", srv.URL+"/api/locations/"+loc.LocationID, nil, false)
	var after model.Location
	_ = json.Unmarshal(data, &after)
	if !after.ARCameraSupported || after.ModelURL == nil {
		t.Fatalf("location ar state after save: %s", data)
	}

	resp, data = doJSON(t, "GET", srv.URL+"/api/ar-targets?category="+
		"Building", nil, false)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(data), tgt.TargetID) {
		t.Fatalf("list targets: %d %s", resp.StatusCode, data)
	}

	resp, _ = doJSON(t, "DELETE", srv.URL+"/api/ar-targets/"+tgt.TargetID, nil, true)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete target: %d", resp.StatusCode)
	}
	resp, data = doJSON(t, "GET", srv.URL+"/api/locations/"+loc.LocationID, nil, false)
	after = model.Location{}
	_ = json.Unmarshal(data, &after)
	if after.ARCameraSupported || after.ModelURL != nil {
		t.Fatalf("location ar state after last delete: %s", data)
	}
}

func TestRouter_EventValidationSurfacesAs400(t *testing.T) {
	srv := newTestServer(t)

	resp, data := doJSON(t, "POST", srv.URL+"/api/events", map[string]interface{}{
		"title": "Night Tour", "recurring": true,
	}, true)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("invalid event: %d %s", resp.StatusCode, data)
	}
	var e struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &e); err != nil || e.Code != http.StatusBadRequest {
		t.Fatalf("error envelope: %s err=%v", data, err)
	}
}

func TestRouter_UserArchiveFlow(t *testing.T) {
	srv := newTestServer(t)

	resp, data := doJSON(t, "POST", srv.URL+"/api/users", map[string]interface{}{
		"userId": "u1", "email": "u1@example.test", "userType": "registered",
	}, true)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create user: %d %s", resp.StatusCode, data)
	}

	resp, data = doJSON(t, "POST", srv.URL+"/api/users/u1/archive",
		map[string]string{"reason": "account closure request"}, true)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("archive: %d %s", resp.StatusCode, data)
	}

	resp, _ = doJSON(t, "GET", srv.URL+"/api/users/u1", nil, false)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("user after archive: %d", resp.StatusCode)
	}

	resp, data = doJSON(t, "GET", srv.URL+"/api/archived-users", nil, false)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(data), "u1") {
		t.Fatalf("archived list: %d %s", resp.StatusCode, data)
	}

	// Fresh archive is inside the retention window; sweep removes nothing.
	resp, data = doJSON(t, "POST", srv.URL+"/api/archived-users/sweep", nil, true)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("sweep: %d %s", resp.StatusCode, data)
	}
	var sw struct {
		Removed int `json:"removed"`
	}
	if err := json.Unmarshal(data, &sw); err != nil || sw.Removed != 0 {
		t.Fatalf("sweep result: %s err=%v", data, err)
	}
}

func TestCalculateStartupHealthTimeout(t *testing.T) {
	if got := calculateStartupHealthTimeout(15); got != 60 {
		t.Fatalf("short interval: %d", got)
	}
	if got := calculateStartupHealthTimeout(45); got != 90 {
		t.Fatalf("long interval: %d", got)
	}
}
