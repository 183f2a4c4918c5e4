package main

import (
	"bytes"
	"fmt"
	"io"
	"math/rand/v2"
	"net"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	json "github.com/goccy/go-json"
)

const (
	baseURL      = "http://127.0.0.1:8080"
	numWorkers   = 50
	testDuration = 10 * time.Second
	numTokens    = 500
)

var channels = []string{"jururu", "jingburger", "viichan", "gosegu", "lilpa", "ine"}

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

func main() {
	accessKey := os.Getenv("STREAMWATCH_ACCESS_KEY")

	fmt.Println("=== StreamWatch Load Test ===")
	fmt.Printf("Workers: %d | Duration: %s\n", numWorkers, testDuration)
	fmt.Printf("Tokens: %d | Channels: %d\n\n", numTokens, len(channels))

	// Wait for server
	fmt.Print("Waiting for server... ")
	for i := 0; i < 30; i++ {
		resp, err := httpClient.Get(baseURL + "/health")
		if err == nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			break
		}
		if i == 29 {
			fmt.Println("FAILED: server not responding")
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
	fmt.Println("OK")

	fmt.Println("\n--- Phase 1: Seeding subscriptions (PUT /subscriptions) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		return doPutSubscription(rng)
	})

	fmt.Println("\n--- Phase 2: Mixed load (40% PUT, 60% GET) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.40:
			return doPutSubscription(rng)
		case r < 0.60:
			return doGetSubscription(rng)
		case r < 0.95:
			return doGetStreams()
		default:
			return doGetHealth()
		}
	})

	fmt.Println("\n--- Phase 3: Read-heavy load with triggered passes ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.01 && accessKey != "":
			return doTick(accessKey)
		case r < 0.10:
			return doPutSubscription(rng)
		case r < 0.90:
			return doGetStreams()
		default:
			return doGetSubscription(rng)
		}
	})
}

func runPhase(duration time.Duration, workFn func(rng *rand.Rand) result) {
	results := make(chan result, 10000)
	var wg sync.WaitGroup
	var totalOps atomic.Int64
	stop := make(chan struct{})

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(seed uint64) {
			defer wg.Done()
			rng := rand.New(rand.NewPCG(seed, seed>>1))
			for {
				select {
				case <-stop:
					return
				default:
					r := workFn(rng)
					totalOps.Add(1)
					results <- r
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

	time.Sleep(duration)
	close(stop)
	wg.Wait()
	close(results)
	<-done

	printResults(allResults, duration)
}

func printResults(allResults map[string]*stats, duration time.Duration) {
	var totalOps int64
	var totalErrors int64

	endpoints := make([]string, 0, len(allResults))
	for ep := range allResults {
		endpoints = append(endpoints, ep)
	}
	sort.Strings(endpoints)

	fmt.Printf("\n  %-22s %8s %6s %10s %10s %10s %10s\n",
		"Endpoint", "Reqs", "Errs", "Avg", "P50", "P95", "P99")
	fmt.Println("  " + strings.Repeat("-", 88))

	for _, ep := range endpoints {
		s := allResults[ep]
		totalOps += s.count
		totalErrors += s.errors

		sort.Slice(s.latencies, func(i, j int) bool {
			return s.latencies[i] < s.latencies[j]
		})

		fmt.Printf("  %-22s %8d %6d %10s %10s %10s %10s\n",
			ep, s.count, s.errors,
			fmtDur(avgDuration(s.latencies)),
			fmtDur(percentile(s.latencies, 0.50)),
			fmtDur(percentile(s.latencies, 0.95)),
			fmtDur(percentile(s.latencies, 0.99)))
	}

	rps := float64(totalOps) / duration.Seconds()
	fmt.Println("  " + strings.Repeat("-", 88))
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, rps)
}

func randomToken(rng *rand.Rand) string {
	return fmt.Sprintf("loadtest-token-%d", rng.IntN(numTokens))
}

func do(endpoint string, req *http.Request, ok func(status int) bool) result {
	start := time.Now()
	resp, err := httpClient.Do(req)
	lat := time.Since(start)
	if err != nil {
		return result{endpoint, 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{endpoint, resp.StatusCode, lat, !ok(resp.StatusCode)}
}

func statusIs(codes ...int) func(int) bool {
	return func(status int) bool {
		for _, c := range codes {
			if status == c {
				return true
			}
		}
		return false
	}
}

func doPutSubscription(rng *rand.Rand) result {
	picked := make([]string, 0, len(channels))
	for _, ch := range channels {
		if rng.Float64() < 0.5 {
			picked = append(picked, ch)
		}
	}
	data, _ := json.Marshal(map[string]interface{}{
		"token":    randomToken(rng),
		"channels": picked,
	})
	req, _ := http.NewRequest(http.MethodPut, baseURL+"/subscriptions", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return do("PUT /subscriptions", req, statusIs(http.StatusOK))
}

func doGetSubscription(rng *rand.Rand) result {
	req, _ := http.NewRequest(http.MethodGet, baseURL+"/subscriptions?token="+randomToken(rng), nil)
	return do("GET /subscriptions", req, statusIs(http.StatusOK))
}

func doGetStreams() result {
	req, _ := http.NewRequest(http.MethodGet, baseURL+"/streams", nil)
	return do("GET /streams", req, statusIs(http.StatusOK))
}

func doGetHealth() result {
	req, _ := http.NewRequest(http.MethodGet, baseURL+"/health", nil)
	return do("GET /health", req, statusIs(http.StatusOK))
}

// doTick expects most triggers to be refused by the min gap guard.
func doTick(accessKey string) result {
	req, _ := http.NewRequest(http.MethodPost, baseURL+"/tick?key="+accessKey, nil)
	return do("POST /tick", req, statusIs(http.StatusOK, http.StatusTooManyRequests, http.StatusConflict))
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
	idx := int(float64(len(d)) * p)
	if idx >= len(d) {
		idx = len(d) - 1
	}
	return d[idx]
}

func fmtDur(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}
