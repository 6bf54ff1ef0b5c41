package ecs

import "testing"

func TestSpawnInsertQueryDespawn(t *testing.T) {
	w := NewWorld()
	e := w.Spawn(Position{X: 1, Y: 2, Z: 3}, Named{Name: "bob"})

	if !w.Alive(e) {
		t.Fatal("expected entity alive after spawn")
	}

	pos, ok := Get[Position](w, e)
	if !ok || pos.X != 1 {
		t.Fatalf("expected Position{X:1,...}, got %+v ok=%v", pos, ok)
	}

	named, ok := Get[Named](w, e)
	if !ok || named.Name != "bob" {
		t.Fatalf("expected Named{bob}, got %+v ok=%v", named, ok)
	}

	Insert(w, e, StateTag{State: StatePlaying})
	tag, ok := Get[StateTag](w, e)
	if !ok || tag.State != StatePlaying {
		t.Fatalf("expected StatePlaying tag, got %+v", tag)
	}

	Remove[Named](w, e)
	if Has[Named](w, e) {
		t.Fatal("expected Named removed")
	}

	w.Despawn(e)
	if w.Alive(e) {
		t.Fatal("expected entity dead after despawn")
	}
	if Has[Position](w, e) {
		t.Fatal("expected components gone after despawn")
	}
}

func TestQueryReturnsAllMatchingEntities(t *testing.T) {
	w := NewWorld()
	a := w.Spawn(StateTag{State: StatePlaying})
	b := w.Spawn(StateTag{State: StateLogin})
	c := w.Spawn(StateTag{State: StatePlaying})

	playing := 0
	for e, tag := range Query[StateTag](w) {
		if tag.State == StatePlaying {
			playing++
		}
		_ = e
	}
	if playing != 2 {
		t.Fatalf("expected 2 playing entities, got %d", playing)
	}
	if Count[StateTag](w) != 3 {
		t.Fatalf("expected 3 total tagged entities, got %d", Count[StateTag](w))
	}
	_ = a
	_ = b
	_ = c
}

func TestPlayerEntityDBAddRemove(t *testing.T) {
	db := NewPlayerEntityDB()
	db.Add(Entity(1))
	db.Add(Entity(2))
	if !db.Contains(Entity(1)) {
		t.Fatal("expected 1 in visible list")
	}
	db.Remove(Entity(1))
	if db.Contains(Entity(1)) {
		t.Fatal("expected 1 removed")
	}
	if !db.Contains(Entity(2)) {
		t.Fatal("expected 2 still present")
	}
}
