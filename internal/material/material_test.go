package material

import "testing"

func TestLookupIsOrderIndependent(t *testing.T) {
	tbl := NewTable()
	tbl.Set("grass", "steel", Pair{Friction: 0.8, Restitution: 0.1, Threshold: 0.001})
	got := tbl.Lookup("steel", "grass")
	if got.Friction != 0.8 || got.Restitution != 0.1 {
		t.Fatalf("got %+v", got)
	}
	if tbl.Len() != 1 {
		t.Fatalf("Len = %d, want 1", tbl.Len())
	}
}

func TestLookupFallsBackToDefault(t *testing.T) {
	tbl := NewTable()
	if got := tbl.Lookup("ice", "steel"); got != DefaultPair {
		t.Fatalf("got %+v, want %+v", got, DefaultPair)
	}
	custom := Pair{Friction: 0.8, Restitution: 0, Threshold: 0.001}
	custom.Friction = 0.5
	tbl.SetDefault(custom)
	if got := tbl.Lookup("ice", "steel"); got != custom {
		t.Fatalf("got %+v, want %+v", got, custom)
	}
}

func TestSetOverwrites(t *testing.T) {
	tbl := NewTable()
	tbl.Set("sand", "steel", Pair{Friction: 0.3})
	tbl.Set("steel", "sand", Pair{Friction: 0.2})
	if got := tbl.Lookup("sand", "steel").Friction; got != 0.2 {
		t.Fatalf("friction = %v, want 0.2", got)
	}
}
