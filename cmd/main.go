package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	cache "github.com/krisalay/computation-cache"
	"github.com/krisalay/computation-cache/metrics"
)

// ================= VALUATION WORKLOAD =================

// evaluations counts how many times the expensive math actually ran.
var evaluations atomic.Int64

// npv discounts cash flows at rate. It sleeps to stand in for real valuation work.
func npv(rate float64, flows []float64) float64 {
	evaluations.Add(1)
	time.Sleep(50 * time.Millisecond)

	var total float64
	for t, cf := range flows {
		total += cf / math.Pow(1+rate, float64(t))
	}
	return total
}

func npvKey(rate float64) string {
	return fmt.Sprintf("npv:%.4f", rate)
}

func valuation(ctx context.Context, c *cache.Cache, rate float64) float64 {
	flows := []float64{-1000, 300, 400, 500}
	v, err := cache.GetOrCompute(ctx, c, npvKey(rate), func(context.Context) (float64, error) {
		return npv(rate, flows), nil
	})
	if err != nil {
		fmt.Println("VALUATION → error:", err)
	}
	return v
}

// ================= MAIN =================

func main() {
	maxSize := flag.Int("max-size", 2, "maximum number of resident entries")
	ttl := flag.Duration("ttl", time.Second, "freshness window of a computed value")
	seen := flag.Int("seen-capacity", 0, "admission ledger bound (0 = derived from max-size)")
	verbose := flag.Bool("v", false, "log cache decisions to stderr")
	flag.Parse()

	ctx := context.Background()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	reg := prometheus.NewRegistry()
	m := metrics.NewPrometheus(reg, "demo")

	c, err := cache.New(cache.Config{
		MaxSize:          *maxSize,
		TTL:              *ttl,
		SeenKeysCapacity: *seen,
		Metrics:          m,
		Logger:           logger,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(2)
	}

	fmt.Println("\n==================== SYSTEM BOOT ====================")
	fmt.Println("CACHE ID        :", c.ID())
	fmt.Println("EVICTION POLICY : LRU + seen-key admission")
	fmt.Println("MAX SIZE        :", *maxSize)
	fmt.Println("TTL             :", *ttl)

	// ====================================================
	fmt.Println("\n==================== 1) MISS THEN HIT ====================")
	fmt.Printf("CACHE  → npv@5%% = %.2f\n", valuation(ctx, c, 0.05))
	fmt.Printf("CACHE  → npv@5%% = %.2f (evaluations so far: %d)\n", valuation(ctx, c, 0.05), evaluations.Load())

	// ====================================================
	fmt.Println("\n==================== 2) SINGLE-FLIGHT ====================")
	before := evaluations.Load()
	var g errgroup.Group
	for i := 0; i < 5; i++ {
		id := i
		g.Go(func() error {
			fmt.Printf("GOROUTINE-%d → npv@7%% = %.2f\n", id, valuation(ctx, c, 0.07))
			return nil
		})
	}
	_ = g.Wait()
	fmt.Println("EVALUATIONS for 5 concurrent callers:", evaluations.Load()-before)

	// ====================================================
	fmt.Println("\n==================== 3) EVICTION ====================")
	valuation(ctx, c, 0.09)
	fmt.Println("CACHE  → admitted npv@9% as a new key, COUNT =", c.Count())

	// ====================================================
	fmt.Println("\n==================== 4) SCAN RESISTANCE ====================")
	before = evaluations.Load()
	valuation(ctx, c, 0.05)
	fmt.Println("CACHE  → recomputed evicted npv@5%, COUNT =", c.Count(),
		"evaluations:", evaluations.Load()-before)

	// ====================================================
	fmt.Println("\n==================== 5) REMOVE ====================")
	c.Remove(npvKey(0.05))
	valuation(ctx, c, 0.05)
	fmt.Println("CACHE  → removed npv@5% is admitted again, COUNT =", c.Count())

	// ====================================================
	fmt.Println("\n==================== 6) TTL EXPIRATION ====================")
	time.Sleep(*ttl + 100*time.Millisecond)
	before = evaluations.Load()
	valuation(ctx, c, 0.05)
	fmt.Println("CACHE  → after TTL, evaluations:", evaluations.Load()-before)

	// ====================================================
	fmt.Println("\n==================== METRICS ====================")
	families, err := reg.Gather()
	if err != nil {
		fmt.Fprintln(os.Stderr, "metrics:", err)
		os.Exit(1)
	}
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			fmt.Printf("%-36s: %.0f\n", mf.GetName(), metric.GetCounter().GetValue())
		}
	}
}
