package analytics

import (
	"container/heap"

	"ledger/internal/core"
)

type ranked struct {
	txn   core.Transaction
	order int // encounter order
}

// ranksBelow reports whether a ranks below b: a smaller amount, or the same
// amount encountered later.
func ranksBelow(a, b ranked) bool {
	if c := a.txn.Amount.Cmp(b.txn.Amount); c != 0 {
		return c < 0
	}
	return a.order > b.order
}

// minHeap keeps the weakest of the current top-k at the root.
type minHeap []ranked

func (h minHeap) Len() int           { return len(h) }
func (h minHeap) Less(i, j int) bool { return ranksBelow(h[i], h[j]) }
func (h minHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *minHeap) Push(x any) {
	*h = append(*h, x.(ranked))
}

func (h *minHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// topKByAmount returns the k largest transactions by amount in descending
// order without sorting the rest. Equal amounts keep their input order.
func topKByAmount(txns []core.Transaction, k int) []core.Transaction {
	if k <= 0 || len(txns) == 0 {
		return []core.Transaction{}
	}
	if k > len(txns) {
		k = len(txns)
	}

	h := make(minHeap, 0, k)
	for i, txn := range txns {
		r := ranked{txn: txn, order: i}
		if h.Len() < k {
			heap.Push(&h, r)
			continue
		}
		if ranksBelow(h[0], r) {
			h[0] = r
			heap.Fix(&h, 0)
		}
	}

	out := make([]core.Transaction, h.Len())
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = heap.Pop(&h).(ranked).txn
	}
	return out
}
