package catalog

import "testing"

func TestPages(t *testing.T) {
	cases := []struct {
		total, perPage, want int
	}{
		{0, 10, 1},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 10, 3},
		{5, 0, 1},
	}
	for _, c := range cases {
		if got := Pages(c.total, c.perPage); got != c.want {
			t.Errorf("Pages(%d, %d) = %d, want %d", c.total, c.perPage, got, c.want)
		}
	}
}

// An empty list still occupies one page; ClampPage must land on page 0,
// never a negative index.
func TestPagesZeroTotalKeepsOnePage(t *testing.T) {
	if got := Pages(0, 10); got != 1 {
		t.Fatalf("Pages(0, 10) = %d, want 1", got)
	}
	if got := ClampPage(3, 0, 10); got != 0 {
		t.Fatalf("ClampPage(3, 0, 10) = %d, want 0", got)
	}
}

func TestPageSlicing(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	first := Page(items, 0, 3)
	if len(first) != 3 || first[0] != 1 {
		t.Fatalf("page 0 = %v", first)
	}

	last := Page(items, 2, 3)
	if len(last) != 1 || last[0] != 7 {
		t.Fatalf("page 2 = %v", last)
	}

	clamped := Page(items, 99, 3)
	if len(clamped) != 1 || clamped[0] != 7 {
		t.Fatalf("overflow page = %v", clamped)
	}

	negative := Page(items, -5, 3)
	if len(negative) != 3 || negative[0] != 1 {
		t.Fatalf("negative page = %v", negative)
	}
}

func TestPageEmpty(t *testing.T) {
	var items []string
	if got := Page(items, 0, 10); len(got) != 0 {
		t.Fatalf("empty slice page = %v", got)
	}
}

func TestClampPage(t *testing.T) {
	if got := ClampPage(5, 12, 10); got != 1 {
		t.Errorf("ClampPage(5, 12, 10) = %d, want 1", got)
	}
	if got := ClampPage(-1, 12, 10); got != 0 {
		t.Errorf("ClampPage(-1, 12, 10) = %d, want 0", got)
	}
	if got := ClampPage(0, 0, 10); got != 0 {
		t.Errorf("ClampPage(0, 0, 10) = %d, want 0", got)
	}
}
