package pagination

import "testing"

func TestWindow(t *testing.T) {
	cases := []struct {
		name       string
		page       int
		total      int64
		wantOffset int
		wantLimit  int
		wantPage   int
		wantPages  int
		hasNext    bool
		hasPrev    bool
	}{
		{"first of many", 1, 25, 0, 10, 1, 3, true, false},
		{"middle", 2, 25, 10, 10, 2, 3, true, true},
		{"last partial", 3, 25, 20, 10, 3, 3, false, true},
		{"past the end clamps to last", 99, 25, 20, 10, 3, 3, false, true},
		{"zero clamps to first", 0, 25, 0, 10, 1, 3, true, false},
		{"negative clamps to first", -4, 25, 0, 10, 1, 3, true, false},
		{"empty set", 1, 0, 0, 10, 1, 1, false, false},
		{"exact boundary", 2, 20, 10, 10, 2, 2, false, true},
		{"single item", 5, 1, 0, 10, 1, 1, false, false},
	}

	for _, tc := range cases {
		offset, limit, meta := NewSpec(tc.page).Window(tc.total)
		if offset != tc.wantOffset || limit != tc.wantLimit {
			t.Fatalf("%s: got offset=%d limit=%d, want %d/%d", tc.name, offset, limit, tc.wantOffset, tc.wantLimit)
		}
		if meta.CurrentPage != tc.wantPage || meta.TotalPages != tc.wantPages {
			t.Fatalf("%s: got page=%d pages=%d, want %d/%d", tc.name, meta.CurrentPage, meta.TotalPages, tc.wantPage, tc.wantPages)
		}
		if meta.HasNext != tc.hasNext || meta.HasPrev != tc.hasPrev {
			t.Fatalf("%s: got hasNext=%v hasPrev=%v, want %v/%v", tc.name, meta.HasNext, meta.HasPrev, tc.hasNext, tc.hasPrev)
		}
		if meta.TotalItems != tc.total {
			t.Fatalf("%s: got totalItems=%d, want %d", tc.name, meta.TotalItems, tc.total)
		}
	}
}

func TestWindowPageContents(t *testing.T) {
	// For N items and page size 10, page k covers [(k-1)*10, k*10).
	for page := 1; page <= 4; page++ {
		offset, limit, _ := NewSpec(page).Window(40)
		if offset != (page-1)*10 {
			t.Fatalf("page %d: offset %d", page, offset)
		}
		if limit != 10 {
			t.Fatalf("page %d: limit %d", page, limit)
		}
	}
}
