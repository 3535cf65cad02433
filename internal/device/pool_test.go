package device

import (
	"sync"
	"testing"

	"github.com/reduct-ml/reduct/internal/tensor"
)

func testDesc(t *testing.T, dims ...int) *tensor.Descriptor {
	t.Helper()
	d, err := tensor.NewDescriptor(tensor.Shape(dims), tensor.Float32, 1)
	if err != nil {
		t.Fatalf("NewDescriptor: %v", err)
	}
	return d
}

func TestGroupAllocateBindsPaddedStorage(t *testing.T) {
	g := NewGroup(NewPool())

	b := NewBuffer(testDesc(t, 300, 2))
	b.ExtendBorder(84)
	if b.Allocated() {
		t.Fatal("buffer allocated before Allocate")
	}

	g.Allocate(b)

	if !b.Allocated() {
		t.Fatal("buffer not allocated")
	}
	// (300+84) * 2 rows * 4 bytes
	if len(b.Data()) != 3072 {
		t.Errorf("allocation size = %d, want 3072", len(b.Data()))
	}
	if b.PaddedDim0() != 384 {
		t.Errorf("PaddedDim0() = %d, want 384", b.PaddedDim0())
	}
}

func TestExtendBorderAfterAllocatePanics(t *testing.T) {
	g := NewGroup(NewPool())
	b := NewBuffer(testDesc(t, 300))
	g.Allocate(b)

	defer func() {
		if recover() == nil {
			t.Error("ExtendBorder on allocated buffer did not panic")
		}
	}()
	b.ExtendBorder(84)
}

func TestClaimWindow(t *testing.T) {
	g := NewGroup(NewPool())
	b := NewBuffer(testDesc(t, 16))
	g.Register(b)
	g.Allocate(b)

	g.ClaimAll()
	if !g.Claimed() {
		t.Error("group not claimed")
	}
	g.ReleaseAll()
	if g.Claimed() {
		t.Error("group still claimed")
	}

	// The window reopens freely.
	g.ClaimAll()
	g.ReleaseAll()
}

func TestDoubleClaimPanics(t *testing.T) {
	g := NewGroup(NewPool())
	g.ClaimAll()

	defer func() {
		if recover() == nil {
			t.Error("double claim did not panic")
		}
	}()
	g.ClaimAll()
}

func TestClaimUnallocatedBufferPanics(t *testing.T) {
	g := NewGroup(NewPool())
	g.Register(NewBuffer(testDesc(t, 16)))

	defer func() {
		if recover() == nil {
			t.Error("claim over unallocated buffer did not panic")
		}
	}()
	g.ClaimAll()
}

func TestFreeAllRecyclesIntoPool(t *testing.T) {
	pool := NewPool()
	g := NewGroup(pool)

	b := NewBuffer(testDesc(t, 1024))
	g.Register(b)
	g.Allocate(b)
	g.FreeAll()

	if b.Allocated() {
		t.Error("buffer still allocated after FreeAll")
	}
	if g.Size() != 0 {
		t.Errorf("group size = %d after FreeAll", g.Size())
	}

	// A second group reuses the freed block.
	g2 := NewGroup(pool)
	b2 := NewBuffer(testDesc(t, 256))
	g2.Register(b2)
	g2.Allocate(b2)

	_, hits, _, _ := pool.Stats()
	if hits != 1 {
		t.Errorf("pool hits = %d, want 1", hits)
	}
}

func TestRecycledBlocksAreZeroed(t *testing.T) {
	pool := NewPool()
	g := NewGroup(pool)

	b := NewBuffer(testDesc(t, 8))
	g.Register(b)
	g.Allocate(b)
	for i := range b.Float32() {
		b.Float32()[i] = 5
	}
	g.FreeAll()

	b2 := NewBuffer(testDesc(t, 8))
	g.Register(b2)
	g.Allocate(b2)
	for i, v := range b2.Float32() {
		if v != 0 {
			t.Errorf("recycled block not zeroed at %d: %v", i, v)
			break
		}
	}
}

func TestConcurrentGroupsShareOnePool(t *testing.T) {
	pool := NewPool()
	desc := testDesc(t, 128)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			g := NewGroup(pool)
			for j := 0; j < 50; j++ {
				b := NewBuffer(desc)
				g.Register(b)
				g.Allocate(b)
				g.ClaimAll()
				g.ReleaseAll()
				g.FreeAll()
			}
		}()
	}
	wg.Wait()
}
