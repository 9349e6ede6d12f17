package analytics

import (
	"testing"

	"ledger/internal/core"
)

func TestTopKByAmountKeepsEncounterOrderOnTies(t *testing.T) {
	amounts := []int64{5, 9, 5, 1, 9, 3}
	txns := make([]core.Transaction, len(amounts))
	for i, a := range amounts {
		txns[i] = core.Transaction{Seq: uint64(i + 1), Amount: core.NewMoney(a), Type: core.Payment}
	}

	tests := []struct {
		k        int
		wantSeqs []uint64
	}{
		{1, []uint64{2}},
		{2, []uint64{2, 5}},
		{4, []uint64{2, 5, 1, 3}},
		{10, []uint64{2, 5, 1, 3, 6, 4}},
		{0, []uint64{}},
	}
	for _, tt := range tests {
		got := topKByAmount(txns, tt.k)
		if len(got) != len(tt.wantSeqs) {
			t.Fatalf("k=%d: got %d items, want %d", tt.k, len(got), len(tt.wantSeqs))
		}
		for i, seq := range tt.wantSeqs {
			if got[i].Seq != seq {
				t.Fatalf("k=%d position %d: got seq %d, want %d", tt.k, i, got[i].Seq, seq)
			}
		}
	}
}
