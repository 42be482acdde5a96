package state

import "testing"

var keys = []string{
	"/catalog",
	"/catalog/item[1]",
	"/catalog/item[1]/@sku",
	"/catalog/item[2]",
	"/catalog/item[2]/@sku",
	"/catalog/note",
}

func TestBestMatchIndex(t *testing.T) {
	cases := []struct {
		query string
		want  int
	}{
		{"/catalog/note", 5},
		{"@sku", 2},
		{"/catalog/item", 1},
		{"item[2]", 3},
		{"ctlgnt", 5},
		{"", -1},
		{"zzz", -1},
	}
	for _, tc := range cases {
		if got := BestMatchIndex(keys, tc.query); got != tc.want {
			t.Fatalf("query %q: expected %d, got %d", tc.query, tc.want, got)
		}
	}
}

func TestMatchPathsPutsBestFirst(t *testing.T) {
	got := MatchPaths(keys, "sku")
	if len(got) != 2 {
		t.Fatalf("expected two sku matches, got %v", got)
	}
	if got[0] != "/catalog/item[1]/@sku" {
		t.Fatalf("expected first sku first, got %v", got)
	}
	if MatchPaths(keys, "  ") != nil {
		t.Fatalf("expected blank query to match nothing")
	}
	if MatchPaths(nil, "sku") != nil {
		t.Fatalf("expected no matches without keys")
	}
}
