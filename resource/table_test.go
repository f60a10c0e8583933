package resource

import (
	"testing"
)

type testObserver struct {
	events []Event
}

func (o *testObserver) OnResourceEvent(e Event) {
	o.events = append(o.events, e)
}

func TestTable_Basic(t *testing.T) {
	table := NewTable(DefaultLimits())

	// Insert
	h, err := table.Insert(TypeBuffer, "test")
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if h == 0 {
		t.Fatal("Expected non-zero handle")
	}

	// Get
	val, ok := table.Get(h)
	if !ok {
		t.Fatal("Get failed")
	}
	if val != "test" {
		t.Fatalf("Expected 'test', got %v", val)
	}

	// GetTyped with correct type
	_, ok = table.GetTyped(h, TypeBuffer)
	if !ok {
		t.Fatal("GetTyped with correct type failed")
	}

	// GetTyped with wrong type
	_, ok = table.GetTyped(h, TypeBigInt)
	if ok {
		t.Fatal("GetTyped with wrong type should fail")
	}

	if table.Len() != 1 {
		t.Fatalf("Expected Len() == 1, got %d", table.Len())
	}
}

func TestTable_Observer(t *testing.T) {
	table := NewTable(DefaultLimits())
	obs := &testObserver{}
	unsubscribe := table.Subscribe(obs)

	// Insert should trigger EventCreated
	h, _ := table.Insert(TypeBigInt, 1)
	if len(obs.events) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(obs.events))
	}
	if obs.events[0].Type != EventCreated {
		t.Fatal("Expected EventCreated")
	}
	if obs.events[0].Handle != h || obs.events[0].TypeID != TypeBigInt {
		t.Fatal("Wrong handle or type in event")
	}

	// Reset should trigger EventReset with the released count
	table.Insert(TypeBuffer, 2)
	table.Reset()
	if len(obs.events) != 3 {
		t.Fatalf("Expected 3 events, got %d", len(obs.events))
	}
	if obs.events[2].Type != EventReset || obs.events[2].Handle != 2 {
		t.Fatalf("Expected EventReset releasing 2 handles, got %+v", obs.events[2])
	}

	unsubscribe()
	unsubscribe()
	table.Insert(TypeBuffer, 3)
	if len(obs.events) != 3 {
		t.Fatal("Should not receive events after Unsubscribe")
	}
}

func TestTable_ObserverFunc(t *testing.T) {
	table := NewTable(DefaultLimits())
	var created, other int
	unsubscribe := table.Subscribe(ObserverFunc(func(e Event) {
		if e.Type == EventCreated {
			created++
		}
	}))
	table.Subscribe(ObserverFunc(func(Event) { other++ }))

	table.Insert(TypeBuffer, "a")
	table.Insert(TypeBuffer, "b")

	if created != 2 {
		t.Fatalf("Expected 2 created events, got %d", created)
	}

	unsubscribe()
	table.Insert(TypeBuffer, "c")
	if created != 2 {
		t.Fatalf("Expected no events after unsubscribe, got %d", created)
	}
	if other != 3 {
		t.Fatalf("Expected the remaining observer to see 3 events, got %d", other)
	}
}

func TestTable_Reset(t *testing.T) {
	table := NewTable(DefaultLimits())

	a, _ := table.Insert(TypeBuffer, "a")
	table.Insert(TypeBuffer, "b")
	table.Insert(TypeBuffer, "c")

	if table.Len() != 3 {
		t.Fatal("Expected Len() == 3")
	}

	table.Reset()

	if table.Len() != 0 {
		t.Fatal("Expected Len() == 0 after Reset")
	}
	if _, ok := table.Get(a); ok {
		t.Fatal("Handle should be invalid after Reset")
	}
}
