package main

import (
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"net"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/atomic"
)

var (
	baseURL      = flag.String("url", "http://127.0.0.1:18090", "guessd HTTP address")
	numWorkers   = flag.Int("workers", 50, "concurrent clients")
	testDuration = flag.Duration("duration", 10*time.Second, "length of each phase")
)

var httpClient = &http.Client{
	Timeout: 5 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        200,
		MaxIdleConnsPerHost: 200,
		IdleConnTimeout:     30 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   2 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	},
}

type result struct {
	endpoint string
	status   int
	latency  time.Duration
	err      bool
}

type stats struct {
	count     int64
	errors    int64
	latencies []time.Duration
}

type pageInfo struct {
	TotalPages int `json:"total_pages"`
	Entries    []struct {
		ID string `json:"id"`
	} `json:"entries"`
}

func main() {
	flag.Parse()
	fmt.Println("=== guessd Load Test ===")
	fmt.Printf("Workers: %d | Duration: %s\n\n", *numWorkers, *testDuration)

	fmt.Print("Waiting for server... ")
	var info pageInfo
	for i := 0; ; i++ {
		if err := fetchJSON(*baseURL+"/leaderboard", &info); err == nil {
			break
		}
		if i == 29 {
			fmt.Println("FAILED: server not responding")
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
	fmt.Printf("OK (%d leaderboard pages)\n", info.TotalPages)

	ids := make([]string, 0, len(info.Entries))
	for _, e := range info.Entries {
		ids = append(ids, e.ID)
	}
	pages := max(info.TotalPages, 1)

	fmt.Println("\n--- Phase 1: Leaderboard paging ---")
	runPhase(func(rng *rand.Rand) result {
		return doGet("GET /leaderboard", fmt.Sprintf("/leaderboard?page=%d", rng.IntN(pages+1)))
	})

	fmt.Println("\n--- Phase 2: Mixed reads (50% leaderboard, 30% profile, 15% sessions, 5% health) ---")
	runPhase(func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.50:
			return doGet("GET /leaderboard", fmt.Sprintf("/leaderboard?page=%d", rng.IntN(pages)))
		case r < 0.80 && len(ids) > 0:
			return doGet("GET /profile", "/profile?id="+ids[rng.IntN(len(ids))])
		case r < 0.95:
			return doGet("GET /sessions", "/sessions")
		default:
			return doGet("GET /health", "/health")
		}
	})
}

func runPhase(workFn func(rng *rand.Rand) result) {
	results := make(chan result, 10000)
	var wg sync.WaitGroup
	var totalOps atomic.Int64
	stop := make(chan struct{})

	for i := 0; i < *numWorkers; i++ {
		wg.Add(1)
		go func(seed uint64) {
			defer wg.Done()
			rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
			for {
				select {
				case <-stop:
					return
				default:
					results <- workFn(rng)
					totalOps.Inc()
				}
			}
		}(rand.Uint64() + uint64(i))
	}

	allResults := make(map[string]*stats)
	done := make(chan struct{})
	go func() {
		for r := range results {
			s, ok := allResults[r.endpoint]
			if !ok {
				s = &stats{}
				allResults[r.endpoint] = s
			}
			s.count++
			if r.err {
				s.errors++
			}
			s.latencies = append(s.latencies, r.latency)
		}
		close(done)
	}()

	time.Sleep(*testDuration)
	close(stop)
	wg.Wait()
	close(results)
	<-done

	printResults(allResults, totalOps.Load())
}

func printResults(allResults map[string]*stats, totalOps int64) {
	var totalErrors int64

	endpoints := make([]string, 0, len(allResults))
	for ep := range allResults {
		endpoints = append(endpoints, ep)
	}
	sort.Strings(endpoints)

	fmt.Printf("\n  %-18s %8s %6s %10s %10s %10s %10s\n", "Endpoint", "Reqs", "Errs", "Avg", "P50", "P95", "P99")
	fmt.Println("  " + strings.Repeat("-", 84))

	for _, ep := range endpoints {
		s := allResults[ep]
		totalErrors += s.errors
		sort.Slice(s.latencies, func(i, j int) bool { return s.latencies[i] < s.latencies[j] })

		fmt.Printf("  %-18s %8d %6d %10s %10s %10s %10s\n", ep, s.count, s.errors,
			fmtDur(avgDuration(s.latencies)), fmtDur(percentile(s.latencies, 0.50)),
			fmtDur(percentile(s.latencies, 0.95)), fmtDur(percentile(s.latencies, 0.99)))
	}

	fmt.Println("  " + strings.Repeat("-", 84))
	if totalOps == 0 {
		fmt.Println("  No requests completed")
		return
	}
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, float64(totalOps)/testDuration.Seconds())
}

func doGet(endpoint, path string) result {
	start := time.Now()
	resp, err := httpClient.Get(*baseURL + path)
	lat := time.Since(start)
	if err != nil {
		return result{endpoint, 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{endpoint, resp.StatusCode, lat, resp.StatusCode != http.StatusOK}
}

func fetchJSON(url string, out any) error {
	resp, err := httpClient.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func avgDuration(d []time.Duration) time.Duration {
	if len(d) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range d {
		sum += v
	}
	return sum / time.Duration(len(d))
}

func percentile(d []time.Duration, p float64) time.Duration {
	if len(d) == 0 {
		return 0
	}
	idx := min(int(float64(len(d))*p), len(d)-1)
	return d[idx]
}

func fmtDur(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}
