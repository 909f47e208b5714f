package bal

import (
	"reflect"
	"testing"

	"github.com/holiman/uint256"

	"github.com/balkit/balkit/types"
)

func TestBuildDependencyGraph(t *testing.T) {
	conflicts := []Conflict{
		{TxA: 0, TxB: 2, Type: ConflictBalance, Address: testAddr1},
		{TxA: 1, TxB: 3, Type: ConflictStorage, Address: testAddr2, Slot: testSlot1},
		// Duplicate pair through a different field collapses to one edge.
		{TxA: 0, TxB: 2, Type: ConflictNonce, Address: testAddr1},
	}
	g := BuildDependencyGraph(conflicts, 4)

	if got := g.Dependencies(2); !reflect.DeepEqual(got, []uint64{0}) {
		t.Fatalf("tx 2 deps = %v, want [0]", got)
	}
	if got := g.Dependencies(3); !reflect.DeepEqual(got, []uint64{1}) {
		t.Fatalf("tx 3 deps = %v, want [1]", got)
	}
	if got := g.IndependentNodes(); !reflect.DeepEqual(got, []uint64{0, 1}) {
		t.Fatalf("independent = %v, want [0 1]", got)
	}
	if got := g.Nodes(); !reflect.DeepEqual(got, []uint64{0, 1, 2, 3}) {
		t.Fatalf("nodes = %v", got)
	}
}

func TestScheduleWaves(t *testing.T) {
	// Chain 0 <- 2 <- 3 plus independent tx 1 gives three waves.
	conflicts := []Conflict{
		{TxA: 0, TxB: 2, Type: ConflictBalance, Address: testAddr1},
		{TxA: 2, TxB: 3, Type: ConflictStorage, Address: testAddr1, Slot: testSlot1},
	}
	g := BuildDependencyGraph(conflicts, 4)
	slots := ScheduleFromGraph(g)

	if got := WaveCount(slots); got != 3 {
		t.Fatalf("wave count = %d, want 3", got)
	}
	waves := Waves(slots)
	want := [][]uint64{{0, 1}, {2}, {3}}
	if !reflect.DeepEqual(waves, want) {
		t.Fatalf("waves = %v, want %v", waves, want)
	}
}

func TestScheduleConflictFree(t *testing.T) {
	g := BuildDependencyGraph(nil, 5)
	slots := ScheduleFromGraph(g)
	if got := WaveCount(slots); got != 1 {
		t.Fatalf("conflict-free block should run in one wave, got %d", got)
	}
	if waves := Waves(slots); !reflect.DeepEqual(waves, [][]uint64{{0, 1, 2, 3, 4}}) {
		t.Fatalf("waves = %v", waves)
	}
}

func TestScheduleEmpty(t *testing.T) {
	if slots := ScheduleFromGraph(nil); slots != nil {
		t.Fatalf("nil graph should yield nil schedule, got %v", slots)
	}
	if slots := ScheduleFromGraph(NewDependencyGraph()); slots != nil {
		t.Fatalf("empty graph should yield nil schedule, got %v", slots)
	}
	if Waves(nil) != nil {
		t.Fatal("empty schedule should yield nil waves")
	}
}

func TestScheduleFromAccessList(t *testing.T) {
	// End to end: access list to conflicts to waves. Both txs write the
	// same slot, so they serialize; the balance-only tx runs in wave 0.
	b := NewBuilder()
	acct := b.Account(testAddr1)
	acct.AppendStorageChange(testSlot1, 0, types.HexToHash("0x01"))
	acct.AppendStorageChange(testSlot1, 2, types.HexToHash("0x02"))
	b.Account(testAddr2).AppendBalanceChange(1, uint256.NewInt(5))
	list, err := b.Finalize()
	if err != nil {
		t.Fatal(err)
	}

	g := BuildDependencyGraph(DetectConflicts(list), 3)
	waves := Waves(ScheduleFromGraph(g))
	want := [][]uint64{{0, 1}, {2}}
	if !reflect.DeepEqual(waves, want) {
		t.Fatalf("waves = %v, want %v", waves, want)
	}
}
