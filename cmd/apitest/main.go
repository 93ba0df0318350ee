// Command apitest runs a smoke test against a running bazi API server.
//
// Usage:
//
//	go run ./cmd/apitest -url http://localhost:8080 -key $API_KEY
//
// The profile checks create, select and delete one profile.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/zapponejosh/bazi-api/internal/api"
)

// =============================================================================
// Response Types
// =============================================================================

type pillar struct {
	Stem   string `json:"stem"`
	Branch string `json:"branch"`
}

type chartResponse struct {
	SolarTime   string            `json:"solar_time"`
	FourPillars map[string]pillar `json:"four_pillars"`
	Dayun       []json.RawMessage `json:"dayun"`
	Liunian     []json.RawMessage `json:"liunian"`
	Liuyue      []json.RawMessage `json:"liuyue"`
}

type profileResponse struct {
	ID             int64  `json:"id"`
	Nickname       string `json:"nickname"`
	IsLastSelected bool   `json:"is_last_selected"`
}

// sampleProfile has a known chart: 庚辰 丙寅 己酉 戊辰. The equation of
// time carries it onto 2000-01-02.
var sampleProfile = map[string]interface{}{
	"gender":          "male",
	"birth_date_time": "2000-01-01T08:30:00",
	"time_zone":       "Asia/Shanghai",
	"birth_place":     "Beijing",
	"birth_latitude":  39.9042,
	"birth_longitude": 116.4074,
}

// =============================================================================
// Test Runner
// =============================================================================

type TestRunner struct {
	baseURL      string
	apiKey       string
	client       *http.Client
	verbose      bool
	successCount int
	errorCount   int
	errors       []string
}

func NewTestRunner(baseURL, apiKey string, verbose bool) *TestRunner {
	return &TestRunner{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		verbose: verbose,
	}
}

func (tr *TestRunner) Run() {
	fmt.Println("==============================================")
	fmt.Println("BaZi API Smoke Test")
	fmt.Println("==============================================")
	fmt.Printf("Base URL: %s\n", tr.baseURL)

	tr.testHealth()
	tr.testChart()
	tr.testCalendar()
	tr.testEdgeCases()
	tr.testProfiles()

	tr.printSummary()
}

// =============================================================================
// Test Groups
// =============================================================================

func (tr *TestRunner) testHealth() {
	tr.printSection("Health Check")

	var health map[string]string
	if _, err := tr.do("GET", "/health", nil, &health); err != nil {
		tr.recordError("Health", err.Error())
		return
	}
	if health["status"] == "healthy" {
		tr.recordSuccess("Health check passed")
	} else {
		tr.recordError("Health", fmt.Sprintf("Unexpected status: %s", health["status"]))
	}
}

func (tr *TestRunner) testChart() {
	tr.printSection("Chart")

	body := withNickname("smoke-chart")
	var chart chartResponse
	if _, err := tr.do("POST", "/api/v1/charts?at=2024-06-15T12:00", body, &chart); err != nil {
		tr.recordError("Chart", err.Error())
		return
	}

	want := map[string]string{"year": "庚辰", "month": "丙寅", "day": "己酉", "hour": "戊辰"}
	for _, name := range []string{"year", "month", "day", "hour"} {
		p := chart.FourPillars[name]
		if got := p.Stem + p.Branch; got == want[name] {
			tr.recordSuccess(fmt.Sprintf("%s pillar %s", name, got))
		} else {
			tr.recordError("Chart", fmt.Sprintf("%s pillar: expected %s, got %s", name, want[name], got))
		}
	}

	if len(chart.Dayun) == 10 && len(chart.Liunian) == 11 && len(chart.Liuyue) == 12 {
		tr.recordSuccess("Cycle counts 10/11/12")
	} else {
		tr.recordError("Chart", fmt.Sprintf("cycle counts %d/%d/%d",
			len(chart.Dayun), len(chart.Liunian), len(chart.Liuyue)))
	}
	if tr.verbose {
		fmt.Printf("    Solar time: %s\n", chart.SolarTime)
	}
}

func (tr *TestRunner) testCalendar() {
	tr.printSection("Calendar")

	var terms struct {
		Terms []struct {
			Term string `json:"term"`
			Date string `json:"date"`
		} `json:"terms"`
	}
	if _, err := tr.do("GET", "/api/v1/solar-terms/2024", nil, &terms); err != nil {
		tr.recordError("Solar terms", err.Error())
	} else if len(terms.Terms) == 24 && terms.Terms[0].Term == "立春" {
		tr.recordSuccess(fmt.Sprintf("24 solar terms, Lichun on %s", terms.Terms[0].Date))
	} else {
		tr.recordError("Solar terms", fmt.Sprintf("unexpected terms: %+v", terms.Terms))
	}

	var lunar struct {
		Lunar struct {
			CyclicYear string `json:"cyclic_year"`
			Zodiac     string `json:"zodiac"`
		} `json:"lunar"`
	}
	if _, err := tr.do("GET", "/api/v1/lunar/2024-02-04", nil, &lunar); err != nil {
		tr.recordError("Lunar", err.Error())
	} else if lunar.Lunar.CyclicYear == "甲辰" {
		tr.recordSuccess(fmt.Sprintf("Lunar year %s %s", lunar.Lunar.CyclicYear, lunar.Lunar.Zodiac))
	} else {
		tr.recordError("Lunar", fmt.Sprintf("expected 甲辰, got %q", lunar.Lunar.CyclicYear))
	}
}

func (tr *TestRunner) testEdgeCases() {
	tr.printSection("Edge Cases")

	cases := []struct {
		name   string
		method string
		path   string
		body   interface{}
		status int
	}{
		{"Unknown timezone", "POST", "/api/v1/charts", map[string]interface{}{
			"nickname": "x", "gender": "male", "birth_date_time": "2000-01-01T08:30", "time_zone": "Mars/Olympus",
		}, http.StatusBadRequest},
		{"Invalid lunar date", "GET", "/api/v1/lunar/2024-02-30", nil, http.StatusBadRequest},
		{"Invalid year", "GET", "/api/v1/solar-terms/abc", nil, http.StatusBadRequest},
		{"Unknown route", "GET", "/api/v1/unknown", nil, http.StatusNotFound},
	}

	for _, c := range cases {
		status, _ := tr.do(c.method, c.path, c.body, nil)
		if status == c.status {
			tr.recordSuccess(fmt.Sprintf("%s → %d", c.name, status))
		} else {
			tr.recordError(c.name, fmt.Sprintf("expected %d, got %d", c.status, status))
		}
	}
}

func (tr *TestRunner) testProfiles() {
	tr.printSection("Profiles")

	nickname := fmt.Sprintf("smoke-%d", time.Now().UnixNano())
	var created profileResponse
	if _, err := tr.do("POST", "/api/v1/profiles", withNickname(nickname), &created); err != nil {
		tr.recordError("Create profile", err.Error())
		return
	}
	tr.recordSuccess(fmt.Sprintf("Created profile %d", created.ID))
	path := fmt.Sprintf("/api/v1/profiles/%d", created.ID)

	if status, _ := tr.do("POST", "/api/v1/profiles", withNickname(nickname), nil); status == http.StatusConflict {
		tr.recordSuccess("Duplicate profile rejected")
	} else {
		tr.recordError("Duplicate profile", fmt.Sprintf("expected 409, got %d", status))
	}

	var selected profileResponse
	if _, err := tr.do("POST", path+"/select", nil, nil); err != nil {
		tr.recordError("Select profile", err.Error())
	} else if _, err := tr.do("GET", "/api/v1/profiles/last-selected", nil, &selected); err != nil {
		tr.recordError("Last selected", err.Error())
	} else if selected.ID == created.ID {
		tr.recordSuccess("Profile selected")
	} else {
		tr.recordError("Last selected", fmt.Sprintf("expected %d, got %d", created.ID, selected.ID))
	}

	var chart chartResponse
	if _, err := tr.do("GET", path+"/chart", nil, &chart); err != nil {
		tr.recordError("Profile chart", err.Error())
	} else if day := chart.FourPillars["day"]; day.Stem+day.Branch == "己酉" {
		tr.recordSuccess("Profile chart computed")
	} else {
		tr.recordError("Profile chart", fmt.Sprintf("unexpected day pillar %s%s", day.Stem, day.Branch))
	}

	if _, err := tr.do("DELETE", path, nil, nil); err != nil {
		tr.recordError("Delete profile", err.Error())
	} else if status, _ := tr.do("GET", path, nil, nil); status == http.StatusNotFound {
		tr.recordSuccess("Profile deleted")
	} else {
		tr.recordError("Delete profile", fmt.Sprintf("expected 404 after delete, got %d", status))
	}
}

// =============================================================================
// Helper Methods
// =============================================================================

// do sends a request and decodes the envelope's data into target, which may
// be nil. The status code is returned even when err is set.
func (tr *TestRunner) do(method, path string, body, target interface{}) (int, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, tr.baseURL+path, reader)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if tr.apiKey != "" {
		req.Header.Set("X-API-Key", tr.apiKey)
	}

	resp, err := tr.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("read error: %w", err)
	}

	var envelope struct {
		api.Response
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return resp.StatusCode, fmt.Errorf("parse error: %w", err)
	}
	if !envelope.Success {
		errMsg := "unknown error"
		if envelope.Error != nil {
			errMsg = envelope.Error.Message
		}
		return resp.StatusCode, fmt.Errorf("API error (%d): %s", resp.StatusCode, errMsg)
	}
	if target != nil {
		if err := json.Unmarshal(envelope.Data, target); err != nil {
			return resp.StatusCode, fmt.Errorf("decode data: %w", err)
		}
	}
	return resp.StatusCode, nil
}

func withNickname(nickname string) map[string]interface{} {
	body := make(map[string]interface{}, len(sampleProfile)+1)
	for k, v := range sampleProfile {
		body[k] = v
	}
	body["nickname"] = nickname
	return body
}

func (tr *TestRunner) printSection(name string) {
	fmt.Println()
	fmt.Printf("--- %s ---\n", name)
	fmt.Println()
}

func (tr *TestRunner) recordSuccess(msg string) {
	tr.successCount++
	fmt.Printf("  ✓ %s\n", msg)
}

func (tr *TestRunner) recordError(context, msg string) {
	tr.errorCount++
	errStr := fmt.Sprintf("%s: %s", context, msg)
	tr.errors = append(tr.errors, errStr)
	fmt.Printf("  ✗ %s\n", errStr)
}

func (tr *TestRunner) printSummary() {
	fmt.Println()
	fmt.Println("==============================================")
	fmt.Println("Summary")
	fmt.Println("==============================================")
	fmt.Printf("  Passed: %d\n", tr.successCount)
	fmt.Printf("  Failed: %d\n", tr.errorCount)
	fmt.Println()

	if tr.errorCount > 0 {
		fmt.Println("Failures:")
		for _, err := range tr.errors {
			fmt.Printf("  • %s\n", err)
		}
		fmt.Println()
		fmt.Printf("Tests completed with %d failure(s)\n", tr.errorCount)
		return
	}
	fmt.Println("All tests passed! ✓")
}

// =============================================================================
// Main
// =============================================================================

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the API")
	apiKey := flag.String("key", os.Getenv("API_KEY"), "API key for the profile endpoints")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	// Check if server is reachable
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(*baseURL + "/health")
	if err != nil {
		fmt.Printf("Error: Cannot connect to %s\n", *baseURL)
		fmt.Println("Make sure the API server is running.")
		os.Exit(1)
	}
	resp.Body.Close()

	runner := NewTestRunner(*baseURL, *apiKey, *verbose)
	runner.Run()

	// Exit with error code if tests failed
	if runner.errorCount > 0 {
		os.Exit(1)
	}
}
