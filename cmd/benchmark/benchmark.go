package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	cache "github.com/krisalay/computation-cache"
)

// ================= WORKLOAD =================

// price stands in for an expensive valuation keyed by an integer scenario id.
func price(computed *atomic.Int64, id int, cost time.Duration) func(context.Context) (float64, error) {
	return func(context.Context) (float64, error) {
		computed.Add(1)
		time.Sleep(cost)
		return float64(id) * 1.0001, nil
	}
}

// pick draws a key: mostly from a hot working set, sometimes a one-off scan key.
func pick(r *rand.Rand, hot, scan int) int {
	if r.IntN(10) < 8 {
		return r.IntN(hot)
	}
	return hot + r.IntN(scan)
}

// ================= BENCHMARK =================

func main() {
	maxSize := flag.Int("max-size", 1000, "cache capacity")
	hot := flag.Int("hot", 800, "size of the hot working set")
	scan := flag.Int("scan", 100000, "size of the one-off scan key space")
	goroutines := flag.Int("goroutines", 200, "concurrent callers")
	ops := flag.Int("ops", 2000, "operations per goroutine")
	cost := flag.Duration("cost", 200*time.Microsecond, "simulated computation time")
	async := flag.Bool("async", false, "use the suspending front-end")
	flag.Parse()

	fmt.Println("\n================ CACHE LOAD BENCHMARK =================")
	fmt.Println("CONFIG")
	fmt.Println("---------------------------------")
	fmt.Println("Front-end    :", map[bool]string{false: "blocking", true: "suspending"}[*async])
	fmt.Println("Max Size     :", *maxSize)
	fmt.Println("Hot Keys     :", *hot)
	fmt.Println("Scan Keys    :", *scan)
	fmt.Println("Goroutines   :", *goroutines)
	fmt.Println("Ops/Goroutine:", *ops)
	fmt.Println("---------------------------------")

	cfg := cache.Config{MaxSize: *maxSize, TTL: time.Minute}

	var (
		get   func(ctx context.Context, id int) error
		count func() int
		stop  = func() {}
	)
	var computed atomic.Int64

	if *async {
		a, err := cache.NewAsync(cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, "config:", err)
			os.Exit(2)
		}
		get = func(ctx context.Context, id int) error {
			_, err := cache.Do(ctx, a, fmt.Sprintf("scenario-%d", id), price(&computed, id, *cost))
			return err
		}
		count = a.Count
		stop = func() { _ = a.Close() }
	} else {
		c, err := cache.New(cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, "config:", err)
			os.Exit(2)
		}
		get = func(ctx context.Context, id int) error {
			_, err := cache.GetOrCompute(ctx, c, fmt.Sprintf("scenario-%d", id), price(&computed, id, *cost))
			return err
		}
		count = c.Count
	}
	defer stop()

	fmt.Println("Running concurrency benchmark...")
	start := time.Now()

	g, ctx := errgroup.WithContext(context.Background())
	for i := 0; i < *goroutines; i++ {
		seed := uint64(i)
		g.Go(func() error {
			r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
			for j := 0; j < *ops; j++ {
				if err := get(ctx, pick(r, *hot, *scan)); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		fmt.Fprintln(os.Stderr, "benchmark:", err)
		stop() // os.Exit skips deferred calls
		os.Exit(1)
	}

	duration := time.Since(start)
	totalOps := *goroutines * *ops

	fmt.Println("\n================ RESULTS =================")
	fmt.Printf("Total Operations : %d\n", totalOps)
	fmt.Printf("Computations     : %d\n", computed.Load())
	fmt.Printf("Resident Entries : %d\n", count())
	fmt.Printf("Total Time       : %v\n", duration)
	fmt.Printf("Throughput       : %.2f ops/sec\n", float64(totalOps)/duration.Seconds())
	fmt.Println("=========================================")
}
