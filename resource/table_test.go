package resource

import (
	"errors"
	"sync"
	"testing"
)

type testObserver struct {
	events []Event
}

func (o *testObserver) OnResourceEvent(e Event) {
	o.events = append(o.events, e)
}

type dropCounter struct {
	drops int
}

func (d *dropCounter) Drop() { d.drops++ }

func TestTable_Basic(t *testing.T) {
	table := NewTable[string]()

	h, err := table.Insert("Utils", "test")
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if h == 0 {
		t.Fatal("Expected non-zero handle")
	}

	val, ok := table.Get(h)
	if !ok || val != "test" {
		t.Fatalf("Get = %q, %v", val, ok)
	}
	if class, _ := table.Class(h); class != "Utils" {
		t.Errorf("Class = %q", class)
	}

	val, err = table.Remove(h)
	if err != nil || val != "test" {
		t.Fatalf("Remove = %q, %v", val, err)
	}
	if table.Len() != 0 {
		t.Fatal("Expected Len() == 0 after Remove")
	}
	if _, ok := table.Get(h); ok {
		t.Fatal("Expected Get to fail after Remove")
	}
}

func TestTable_InvalidHandles(t *testing.T) {
	table := NewTable[int]()
	h, _ := table.Insert("A", 1)

	for _, bad := range []Handle{0, h + 1, 1000} {
		if _, ok := table.Get(bad); ok {
			t.Errorf("Get(%d) succeeded", bad)
		}
		if _, err := table.Remove(bad); !errors.Is(err, ErrInvalidHandle) {
			t.Errorf("Remove(%d) err = %v", bad, err)
		}
		if _, ok := table.Borrow(bad); ok {
			t.Errorf("Borrow(%d) succeeded", bad)
		}
	}

	table.Remove(h)
	if _, err := table.Remove(h); !errors.Is(err, ErrInvalidHandle) {
		t.Errorf("double Remove err = %v", err)
	}
}

func TestTable_HandleReuse(t *testing.T) {
	table := NewTable[int]()
	h1, _ := table.Insert("A", 1)
	h2, _ := table.Insert("A", 2)
	table.Remove(h1)

	h3, _ := table.Insert("B", 3)
	if h3 != h1 {
		t.Errorf("expected freed handle %d to be reused, got %d", h1, h3)
	}
	if v, _ := table.Get(h2); v != 2 {
		t.Errorf("Get(h2) = %d", v)
	}
	if class, _ := table.Class(h3); class != "B" {
		t.Errorf("reused handle class = %q", class)
	}
	if table.Len() != 2 {
		t.Errorf("Len = %d", table.Len())
	}
}

func TestTable_Borrow(t *testing.T) {
	table := NewTable[string]()
	h, _ := table.Insert("A", "v")

	if _, ok := table.Borrow(h); !ok {
		t.Fatal("Borrow failed")
	}
	if _, err := table.Remove(h); !errors.Is(err, ErrOutstandingBorrow) {
		t.Fatalf("Remove while borrowed err = %v", err)
	}
	if !table.ReturnBorrow(h) {
		t.Fatal("ReturnBorrow failed")
	}
	if table.ReturnBorrow(h) {
		t.Error("ReturnBorrow without borrow should fail")
	}
	if _, err := table.Remove(h); err != nil {
		t.Fatalf("Remove after return failed: %v", err)
	}
}

func TestTable_Observer(t *testing.T) {
	table := NewTable[string]()
	obs := &testObserver{}
	table.Subscribe(obs)

	h, _ := table.Insert("Instant", "x")
	table.Remove(h)

	if len(obs.events) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(obs.events))
	}
	if obs.events[0].Type != EventCreated || obs.events[1].Type != EventDropped {
		t.Errorf("event types = %s, %s", obs.events[0].Type, obs.events[1].Type)
	}
	for _, e := range obs.events {
		if e.Handle != h || e.Class != "Instant" {
			t.Errorf("event = %+v", e)
		}
	}

	var seen int
	table.Subscribe(ObserverFunc(func(Event) { seen++ }))
	table.Insert("A", "y")
	if seen != 1 {
		t.Errorf("ObserverFunc saw %d events", seen)
	}
}

func TestTable_Dropper(t *testing.T) {
	table := NewTable[*dropCounter]()
	a, b := &dropCounter{}, &dropCounter{}

	h, _ := table.Insert("A", a)
	table.Insert("B", b)

	table.Remove(h)
	if a.drops != 1 {
		t.Errorf("Remove called Drop %d times", a.drops)
	}

	table.Close()
	if b.drops != 1 {
		t.Errorf("Close called Drop %d times", b.drops)
	}
	if _, err := table.Insert("C", &dropCounter{}); !errors.Is(err, ErrClosed) {
		t.Errorf("Insert after Close err = %v", err)
	}
	if table.Close() != nil {
		t.Error("second Close should be a no-op")
	}
}

func TestTable_Each(t *testing.T) {
	table := NewTable[int]()
	for i := 1; i <= 3; i++ {
		table.Insert("A", i*10)
	}

	var sum int
	table.Each(func(_ Handle, _ string, v int) bool {
		sum += v
		return true
	})
	if sum != 60 {
		t.Errorf("sum = %d", sum)
	}

	var visited int
	table.Each(func(Handle, string, int) bool {
		visited++
		return false
	})
	if visited != 1 {
		t.Errorf("Each did not stop early: %d", visited)
	}
}

func TestTable_Concurrent(t *testing.T) {
	table := NewTable[int]()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				h, err := table.Insert("A", i*1000+j)
				if err != nil {
					t.Error(err)
					return
				}
				if v, ok := table.Get(h); !ok || v != i*1000+j {
					t.Errorf("Get(%d) = %d, %v", h, v, ok)
				}
				if _, err := table.Remove(h); err != nil {
					t.Error(err)
				}
			}
		}(i)
	}
	wg.Wait()
	if table.Len() != 0 {
		t.Errorf("Len = %d", table.Len())
	}
}
