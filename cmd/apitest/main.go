// Command apitest runs a smoke test suite against a running Hijri API.
//
// Usage:
//
//	go run ./cmd/apitest -url http://localhost:8080 -v
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// =============================================================================
// Response Types - Match the actual API response structure
// =============================================================================

type APIResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *ErrorInfo      `json:"error,omitempty"`
}

type ErrorInfo struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// HijriResponse is the response for /hijri/today and /hijri/from-gregorian
type HijriResponse struct {
	Hijri struct {
		Year     int `json:"year"`
		Month    int `json:"month"`
		Day      int `json:"day"`
		Weekday  int `json:"weekday"`
		Lunation int `json:"lunation"`
	} `json:"hijri"`
	Formatted   string `json:"formatted"`
	MonthName   string `json:"month_name"`
	WeekdayName string `json:"weekday_name"`
	Gregorian   string `json:"gregorian"`
}

// GregorianResponse is the response for /gregorian/from-hijri and /julian-day
type GregorianResponse struct {
	ISO       string  `json:"iso"`
	Formatted string  `json:"formatted"`
	JulianDay float64 `json:"julian_day"`
}

// LunationResponse is the response for /lunations/{n}
type LunationResponse struct {
	NewMoonDate string `json:"new_moon_date"`
	VisibleDate string `json:"visible_date"`
}

// YearResponse is the response for /hijri/years/{year}/months
type YearResponse struct {
	Year   int `json:"year"`
	Days   int `json:"days"`
	Months []struct {
		HijriMonth     int    `json:"hijri_month"`
		GregorianStart string `json:"gregorian_start"`
		LengthDays     int    `json:"length_days"`
	} `json:"months"`
}

// HealthResponse is the response for /health
type HealthResponse struct {
	Status string `json:"status"`
}

// =============================================================================
// Test Runner
// =============================================================================

type TestRunner struct {
	baseURL      string
	client       *http.Client
	verbose      bool
	successCount int
	errorCount   int
	errors       []string
}

func NewTestRunner(baseURL string, verbose bool) *TestRunner {
	return &TestRunner{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		verbose: verbose,
	}
}

func (tr *TestRunner) Run() {
	fmt.Println("==============================================")
	fmt.Println("Hijri API Test Suite")
	fmt.Println("==============================================")
	fmt.Printf("Base URL: %s\n", tr.baseURL)
	fmt.Println()

	tr.testHealth()
	tr.testToday()
	tr.testKnownDates()
	tr.testRoundTrip()
	tr.testJulianDay()
	tr.testYearTable()
	tr.testEdgeCases()

	tr.printSummary()
}

// =============================================================================
// Test Groups
// =============================================================================

func (tr *TestRunner) testHealth() {
	tr.printSection("Health Check")

	var health HealthResponse
	if err := tr.getData("/health", &health); err != nil {
		tr.recordError("Health", err.Error())
		return
	}

	if health.Status == "healthy" {
		tr.recordSuccess("Health check passed")
	} else {
		tr.recordError("Health", fmt.Sprintf("Unexpected status: %s", health.Status))
	}
}

func (tr *TestRunner) testToday() {
	tr.printSection("Today")

	var data HijriResponse
	if err := tr.getData("/api/v1/hijri/today", &data); err != nil {
		tr.recordError("Today (UTC)", err.Error())
		return
	}
	tr.recordSuccess(fmt.Sprintf("Today (%s): %s", data.Gregorian, data.Formatted))

	if err := tr.getData("/api/v1/hijri/today?tz=Asia/Riyadh", &data); err != nil {
		tr.recordError("Today (Riyadh)", err.Error())
		return
	}
	tr.recordSuccess(fmt.Sprintf("Today in Riyadh (%s): %s", data.Gregorian, data.Formatted))
}

func (tr *TestRunner) testKnownDates() {
	tr.printSection("Known Dates")

	testCases := []struct {
		date        string
		year, month int
		day         int
		description string
	}{
		{"2000-01-01", 1420, 9, 24, "Y2K"},
		{"2024-03-12", 1445, 9, 1, "First of Ramadan 1445"},
		{"2023-04-22", 1444, 10, 1, "Eid al-Fitr 1444"},
		{"1999-12-09", 1420, 9, 1, "First of Ramadan 1420"},
	}

	for _, tc := range testCases {
		var data HijriResponse
		if err := tr.getData("/api/v1/hijri/from-gregorian/"+tc.date, &data); err != nil {
			tr.recordError(tc.date, err.Error())
			continue
		}

		h := data.Hijri
		if h.Year == tc.year && h.Month == tc.month && h.Day == tc.day {
			tr.recordSuccess(fmt.Sprintf("%s: %s (%s)", tc.date, data.Formatted, tc.description))
		} else {
			tr.recordError(tc.date, fmt.Sprintf("Expected %d/%d/%d, got %d/%d/%d",
				tc.day, tc.month, tc.year, h.Day, h.Month, h.Year))
		}

		if tr.verbose {
			fmt.Printf("    %s, lunation %d\n", data.WeekdayName, h.Lunation)
		}
	}
}

func (tr *TestRunner) testRoundTrip() {
	tr.printSection("Round Trip (Hijri -> Gregorian -> Hijri)")

	for _, hd := range [][3]int{{1445, 9, 1}, {1446, 1, 1}, {1420, 12, 10}} {
		var g GregorianResponse
		path := fmt.Sprintf("/api/v1/gregorian/from-hijri/%d/%d/%d", hd[0], hd[1], hd[2])
		if err := tr.getData(path, &g); err != nil {
			tr.recordError(path, err.Error())
			continue
		}

		var h HijriResponse
		if err := tr.getData("/api/v1/hijri/from-gregorian/"+g.ISO, &h); err != nil {
			tr.recordError(g.ISO, err.Error())
			continue
		}

		if h.Hijri.Year == hd[0] && h.Hijri.Month == hd[1] && h.Hijri.Day == hd[2] {
			tr.recordSuccess(fmt.Sprintf("%d/%d/%d -> %s -> back", hd[2], hd[1], hd[0], g.ISO))
		} else {
			tr.recordError(path, fmt.Sprintf("Round trip landed on %s", h.Formatted))
		}
	}
}

func (tr *TestRunner) testJulianDay() {
	tr.printSection("Julian Day")

	var g GregorianResponse
	if err := tr.getData("/api/v1/julian-day?year=2000&month=1&day=1&time=0.5", &g); err != nil {
		tr.recordError("J2000", err.Error())
		return
	}
	if g.JulianDay == 2451545.0 {
		tr.recordSuccess("2000-01-01 12:00 is JD 2451545.0")
	} else {
		tr.recordError("J2000", fmt.Sprintf("Expected 2451545.0, got %v", g.JulianDay))
	}

	if err := tr.getData("/api/v1/julian-day/2299160.5", &g); err != nil {
		tr.recordError("Crossover", err.Error())
		return
	}
	if g.ISO == "1582-10-15" {
		tr.recordSuccess("JD 2299160.5 is 1582-10-15")
	} else {
		tr.recordError("Crossover", fmt.Sprintf("Expected 1582-10-15, got %s", g.ISO))
	}

	var l LunationResponse
	if err := tr.getData("/api/v1/lunations/1536", &l); err != nil {
		tr.recordError("Lunation", err.Error())
		return
	}
	tr.recordSuccess(fmt.Sprintf("Lunation 1536: new moon %s, visible %s", l.NewMoonDate, l.VisibleDate))
}

func (tr *TestRunner) testYearTable() {
	tr.printSection("Hijri Year 1445")

	var y YearResponse
	if err := tr.getData("/api/v1/hijri/years/1445/months", &y); err != nil {
		tr.recordError("Year 1445", err.Error())
		return
	}

	if len(y.Months) != 12 {
		tr.recordError("Year 1445", fmt.Sprintf("Expected 12 months, got %d", len(y.Months)))
		return
	}
	tr.recordSuccess(fmt.Sprintf("Year 1445 has 12 months, %d days", y.Days))

	if tr.verbose {
		for _, m := range y.Months {
			fmt.Printf("    %2d: %s (%d days)\n", m.HijriMonth, m.GregorianStart, m.LengthDays)
		}
	}
}

func (tr *TestRunner) testEdgeCases() {
	tr.printSection("Edge Cases")

	cases := []struct {
		path   string
		status int
		desc   string
	}{
		{"/api/v1/hijri/from-gregorian/invalid", http.StatusBadRequest, "Invalid date format rejected"},
		{"/api/v1/hijri/from-gregorian/2023-02-29", http.StatusBadRequest, "Non-leap 29 February rejected"},
		{"/api/v1/hijri/from-gregorian/1582-10-10", http.StatusBadRequest, "Date in the 1582 gap rejected"},
		{"/api/v1/gregorian/from-hijri/1445/13/1", http.StatusBadRequest, "Hijri month 13 rejected"},
		{"/api/v1/hijri/years/0/months", http.StatusBadRequest, "Hijri year 0 rejected"},
		{"/api/v1/hijri/today?tz=Mars/Olympus", http.StatusBadRequest, "Unknown time zone rejected"},
		{"/api/v1/nope", http.StatusNotFound, "Unknown route returns 404"},
	}

	for _, tc := range cases {
		resp, err := tr.getRaw(tc.path)
		if err != nil {
			tr.recordError(tc.path, err.Error())
			continue
		}
		resp.Body.Close()

		if resp.StatusCode == tc.status {
			tr.recordSuccess(tc.desc)
		} else {
			tr.recordError(tc.path, fmt.Sprintf("Expected HTTP %d, got %d", tc.status, resp.StatusCode))
		}
	}

	var data HijriResponse
	if err := tr.getData("/api/v1/hijri/from-gregorian/2024-02-29", &data); err != nil {
		tr.recordError("Leap year", err.Error())
	} else {
		tr.recordSuccess("Leap year date (2024-02-29) handled")
	}
}

// =============================================================================
// Helper Methods
// =============================================================================

// getData fetches path and decodes the envelope's data into target.
func (tr *TestRunner) getData(path string, target any) error {
	resp, err := tr.getRaw(path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read error: %w", err)
	}

	var apiResp APIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return fmt.Errorf("parse error: %w", err)
	}

	if !apiResp.Success {
		errMsg := "unknown error"
		if apiResp.Error != nil {
			errMsg = apiResp.Error.Message
		}
		return fmt.Errorf("API error: %s", errMsg)
	}

	if err := json.Unmarshal(apiResp.Data, target); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}

func (tr *TestRunner) getRaw(path string) (*http.Response, error) {
	return tr.client.Get(tr.baseURL + path)
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
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(*baseURL + "/health")
	if err != nil {
		fmt.Printf("Error: Cannot connect to %s\n", *baseURL)
		fmt.Println("Make sure the API server is running.")
		os.Exit(1)
	}
	resp.Body.Close()

	runner := NewTestRunner(*baseURL, *verbose)
	runner.Run()

	if runner.errorCount > 0 {
		os.Exit(1)
	}
}
