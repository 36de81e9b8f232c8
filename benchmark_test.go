package cache_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	cache "github.com/krisalay/computation-cache"
)

func newBenchmarkCache(b *testing.B) *cache.Cache {
	c, err := cache.New(cache.Config{MaxSize: 100000})
	if err != nil {
		b.Fatal(err)
	}
	return c
}

func identity(v int) func(context.Context) (int, error) {
	return func(context.Context) (int, error) { return v, nil }
}

//
// ================= SINGLE THREAD BENCH =================
//

func BenchmarkGetOrComputeHit(b *testing.B) {
	ctx := context.Background()
	c := newBenchmarkCache(b)
	_, _ = cache.GetOrCompute(ctx, c, "key", identity(1))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = cache.GetOrCompute(ctx, c, "key", identity(1))
	}
}

func BenchmarkGetOrComputeMiss(b *testing.B) {
	ctx := context.Background()
	c := newBenchmarkCache(b)

	keys := make([]string, b.N)
	for i := range keys {
		keys[i] = fmt.Sprintf("miss-%d", i)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = cache.GetOrCompute(ctx, c, keys[i], identity(i))
	}
}

//
// ================= PARALLEL BENCH =================
//

func BenchmarkGetOrComputeParallelHit(b *testing.B) {
	ctx := context.Background()
	c := newBenchmarkCache(b)

	for i := 0; i < 1000; i++ {
		_, _ = cache.GetOrCompute(ctx, c, fmt.Sprintf("key-%d", i), identity(i))
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_, _ = cache.GetOrCompute(ctx, c, "key-42", identity(42))
		}
	})
}

func BenchmarkAsyncParallelHit(b *testing.B) {
	ctx := context.Background()
	a, err := cache.NewAsync(cache.Config{MaxSize: 100000})
	if err != nil {
		b.Fatal(err)
	}
	defer a.Close()

	_, _ = cache.Do(ctx, a, "key", identity(1))

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_, _ = cache.Do(ctx, a, "key", identity(1))
		}
	})
}

//
// ================= HIGH CONCURRENCY TEST =================
//

func BenchmarkGetOrComputeHighConcurrency(b *testing.B) {
	ctx := context.Background()
	c := newBenchmarkCache(b)

	keys := make([]string, 10000)
	for i := range keys {
		keys[i] = fmt.Sprintf("key-%d", i)
		_, _ = cache.GetOrCompute(ctx, c, keys[i], identity(i))
	}

	b.ResetTimer()

	wg := sync.WaitGroup{}
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < b.N/100; j++ {
				_, _ = cache.GetOrCompute(ctx, c, keys[j%len(keys)], identity(j%len(keys)))
			}
		}()
	}
	wg.Wait()
}
