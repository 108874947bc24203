package state

import "testing"

func TestMemoryManagerStateTransitions(t *testing.T) {
	m := NewMemoryManager()
	const userID = int64(42)

	if m.HasState(userID) {
		t.Fatal("fresh manager reports active state")
	}
	if got := m.GetState(userID); got != StateIdle {
		t.Fatalf("GetState = %q, want idle", got)
	}

	m.SetState(userID, State("brand_add_name"))
	if !m.InProgress(userID) {
		t.Fatal("InProgress = false after SetState")
	}
	if got := m.GetState(userID); got != State("brand_add_name") {
		t.Fatalf("GetState = %q", got)
	}

	m.ClearState(userID)
	if m.InProgress(userID) {
		t.Fatal("InProgress = true after ClearState")
	}
}

func TestMemoryManagerTempData(t *testing.T) {
	m := NewMemoryManager()
	const userID = int64(7)

	m.SetTemp(userID, "brand_id", int64(11))
	m.SetTemp(userID, "name", "Acme")

	if v, ok := m.GetTempInt64(userID, "brand_id"); !ok || v != 11 {
		t.Fatalf("GetTempInt64 = %d, %v", v, ok)
	}
	if v, ok := m.GetTempString(userID, "name"); !ok || v != "Acme" {
		t.Fatalf("GetTempString = %q, %v", v, ok)
	}

	// Wrong type assertion must not succeed
	if _, ok := m.GetTempInt64(userID, "name"); ok {
		t.Fatal("GetTempInt64 succeeded on a string value")
	}

	m.ClearTemp(userID, "brand_id")
	if _, ok := m.GetTemp(userID, "brand_id"); ok {
		t.Fatal("temp value survives ClearTemp")
	}
}

func TestMemoryManagerClearDropsEverything(t *testing.T) {
	m := NewMemoryManager()
	const userID = int64(9)

	m.SetState(userID, State("product_add_price"))
	m.SetTemp(userID, "category_id", int64(3))

	m.Clear(userID)

	if m.InProgress(userID) {
		t.Fatal("state survives Clear")
	}
	if _, ok := m.GetTemp(userID, "category_id"); ok {
		t.Fatal("temp data survives Clear")
	}
}

func TestMemoryManagerIsolatesUsers(t *testing.T) {
	m := NewMemoryManager()

	m.SetState(1, State("category_add_name"))
	if m.InProgress(2) {
		t.Fatal("state leaked between users")
	}
}
