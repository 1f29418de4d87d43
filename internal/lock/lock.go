// Package lock serializes ledger mutations per key (product code, batch,
// order) across concurrent requests.
package lock

import (
	"context"
	"sort"
)

// Locker acquires every key or none. Keys are taken in sorted order so two
// callers with overlapping sets cannot deadlock.
type Locker interface {
	Acquire(ctx context.Context, keys ...string) (release func(), err error)
}

func ProductKey(code string) string { return "lock:product:" + code }

func BatchKey(batchNumber string) string { return "lock:wip:" + batchNumber }

func OrderKey(orderID string) string { return "lock:order:" + orderID }

func ProductKeys(codes []string) []string {
	keys := make([]string, 0, len(codes))
	for _, c := range codes {
		keys = append(keys, ProductKey(c))
	}
	return keys
}

func normalize(keys []string) []string {
	out := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
