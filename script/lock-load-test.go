package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// transferLock is the POST /locks/transfer payload
type transferLock struct {
	To          string `json:"to"`
	Reason      string `json:"reason"`
	Amount      string `json:"amount"`
	ReleaseTime uint64 `json:"releaseTime"`
}

// TestResult contains metrics for a single request
type TestResult struct {
	Scenario     string
	Success      bool
	ResponseTime time.Duration
	StatusCode   int
	Error        error
}

// TestStats contains aggregated test statistics
type TestStats struct {
	TotalRequests      int
	SuccessfulRequests int
	FailedRequests     int
	TotalTime          time.Duration
	MinResponseTime    time.Duration
	MaxResponseTime    time.Duration
	TotalResponseTime  time.Duration
	ResponseTimes      []time.Duration
	ErrorCounts        map[string]int
	ScenarioStats      map[string]int
	Lock               sync.Mutex
}

// Scenario defines one kind of request sent by the workers
type Scenario struct {
	Name   string
	Amount string
	Unlock bool // sweep the recipient instead of locking
	Hold   time.Duration
}

func main() {
	concurrency := flag.Int("c", 5, "Number of concurrent workers")
	totalRequests := flag.Int("n", 100, "Total number of requests to make")
	baseURL := flag.String("url", "http://localhost:8080", "Base URL for the API")
	caller := flag.String("caller", "0x00000000000000000000000000000000000000a1", "Authorized caller address, debited for every lock")
	recipientsStr := flag.String("to", "0x00000000000000000000000000000000000000b0,0x00000000000000000000000000000000000000c0", "Comma-separated recipient addresses")
	delayMs := flag.Int("delay", 100, "Delay between requests in milliseconds")
	flag.Parse()

	var recipients []string
	for _, r := range strings.Split(*recipientsStr, ",") {
		if r = strings.TrimSpace(r); r != "" {
			recipients = append(recipients, r)
		}
	}
	if len(recipients) == 0 {
		recipients = []string{*caller}
	}

	scenarios := []Scenario{
		{Name: "Lock Short", Amount: "1", Hold: 2 * time.Second},
		{Name: "Lock Medium", Amount: "5", Hold: 30 * time.Second},
		{Name: "Lock Long", Amount: "10", Hold: time.Hour},
		{Name: "Unlock", Unlock: true},
	}

	fmt.Printf("Load testing lock API as %s across %d recipients\n", *caller, len(recipients))
	fmt.Printf("Concurrency: %d workers, total requests: %d, delay: %d ms\n", *concurrency, *totalRequests, *delayMs)

	stats := &TestStats{
		TotalRequests:   *totalRequests,
		MinResponseTime: time.Hour,
		ErrorCounts:     make(map[string]int),
		ResponseTimes:   make([]time.Duration, 0, *totalRequests),
		ScenarioStats:   make(map[string]int),
	}

	client := &http.Client{Timeout: 10 * time.Second}

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(*concurrency)

	startTime := time.Now()
	ticker := time.NewTicker(time.Second)
	go func() {
		for range ticker.C {
			stats.Lock.Lock()
			completed := stats.SuccessfulRequests + stats.FailedRequests
			if completed > 0 {
				fmt.Printf("Progress: %d/%d requests completed (%.1f%%)\n",
					completed, stats.TotalRequests, float64(completed)/float64(stats.TotalRequests)*100)
			}
			stats.Lock.Unlock()
		}
	}()

	for i := 0; i < *totalRequests; i++ {
		g.Go(func() error {
			if *delayMs > 0 {
				time.Sleep(time.Duration(*delayMs) * time.Millisecond)
			}
			scenario := scenarios[rand.Intn(len(scenarios))]
			recipient := recipients[rand.Intn(len(recipients))]
			stats.record(send(ctx, client, *baseURL, *caller, recipient, scenario))
			return nil
		})
	}

	_ = g.Wait()
	ticker.Stop()
	stats.TotalTime = time.Since(startTime)

	printResults(stats)
}

// send issues one scenario request and measures it
func send(ctx context.Context, client *http.Client, baseURL, caller, recipient string, scenario Scenario) TestResult {
	result := TestResult{Scenario: scenario.Name}

	var (
		url  string
		body []byte
	)
	if scenario.Unlock {
		url = fmt.Sprintf("%s/accounts/%s/unlock", baseURL, recipient)
	} else {
		url = baseURL + "/locks/transfer"
		payload := transferLock{
			To:          recipient,
			Reason:      "LT-" + uuid.NewString()[:8],
			Amount:      scenario.Amount,
			ReleaseTime: uint64(time.Now().Add(scenario.Hold).Unix()),
		}
		var err error
		if body, err = json.Marshal(payload); err != nil {
			result.Error = err
			return result
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		result.Error = err
		return result
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Caller-Address", caller)

	started := time.Now()
	resp, err := client.Do(req)
	result.ResponseTime = time.Since(started)
	if err != nil {
		result.Error = err
		return result
	}
	defer resp.Body.Close()

	result.StatusCode = resp.StatusCode
	result.Success = resp.StatusCode >= 200 && resp.StatusCode < 300
	if !result.Success {
		var apiErr struct {
			Code int `json:"code"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		result.Error = fmt.Errorf("HTTP status code %d (code %d)", resp.StatusCode, apiErr.Code)
	}
	return result
}

func (s *TestStats) record(result TestResult) {
	s.Lock.Lock()
	defer s.Lock.Unlock()

	s.ScenarioStats[result.Scenario]++
	if result.Success {
		s.SuccessfulRequests++
	} else {
		s.FailedRequests++
		errMsg := "unknown"
		if result.Error != nil {
			errMsg = result.Error.Error()
		}
		s.ErrorCounts[errMsg]++
	}

	s.ResponseTimes = append(s.ResponseTimes, result.ResponseTime)
	s.TotalResponseTime += result.ResponseTime
	s.MinResponseTime = min(s.MinResponseTime, result.ResponseTime)
	s.MaxResponseTime = max(s.MaxResponseTime, result.ResponseTime)
}

func printResults(stats *TestStats) {
	tps := float64(stats.SuccessfulRequests) / stats.TotalTime.Seconds()

	var avgResponseTime time.Duration
	if len(stats.ResponseTimes) > 0 {
		avgResponseTime = stats.TotalResponseTime / time.Duration(len(stats.ResponseTimes))
	}

	var p50, p90, p99 time.Duration
	if len(stats.ResponseTimes) > 0 {
		sortedTimes := slices.Clone(stats.ResponseTimes)
		slices.Sort(sortedTimes)

		p50 = sortedTimes[len(sortedTimes)*50/100]
		p90 = sortedTimes[len(sortedTimes)*90/100]
		p99 = sortedTimes[len(sortedTimes)*99/100]
	}

	fmt.Println("\n================= TEST RESULTS =================")
	fmt.Printf("Total Requests:      %d\n", stats.TotalRequests)
	fmt.Printf("Successful Requests: %d (%.1f%%)\n", stats.SuccessfulRequests,
		float64(stats.SuccessfulRequests)/float64(stats.TotalRequests)*100)
	fmt.Printf("Failed Requests:     %d (%.1f%%)\n", stats.FailedRequests,
		float64(stats.FailedRequests)/float64(stats.TotalRequests)*100)
	fmt.Printf("Total Test Time:     %.2f seconds\n", stats.TotalTime.Seconds())
	fmt.Printf("Successful TPS:      %.2f\n", tps)

	fmt.Println("\n----------------- RESPONSE TIMES -----------------")
	fmt.Printf("Average Response:    %v\n", avgResponseTime)
	fmt.Printf("Minimum Response:    %v\n", stats.MinResponseTime)
	fmt.Printf("Maximum Response:    %v\n", stats.MaxResponseTime)
	fmt.Printf("P50 Response:        %v\n", p50)
	fmt.Printf("P90 Response:        %v\n", p90)
	fmt.Printf("P99 Response:        %v\n", p99)

	fmt.Println("\n----------------- SCENARIO DISTRIBUTION -----------------")
	for scenario, count := range stats.ScenarioStats {
		fmt.Printf("%-15s: %d requests (%.1f%%)\n", scenario, count,
			float64(count)/float64(stats.TotalRequests)*100)
	}

	if stats.FailedRequests > 0 {
		fmt.Println("\n----------------- ERROR DISTRIBUTION -----------------")
		for errMsg, count := range stats.ErrorCounts {
			fmt.Printf("%-40s: %d (%.1f%%)\n", errMsg, count,
				float64(count)/float64(stats.TotalRequests)*100)
		}
	}
	fmt.Println("================================================")
}
