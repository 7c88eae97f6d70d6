package job

import "testing"

func TestStatusLabel(t *testing.T) {
	cases := map[Status]string{
		StatusDraft:        "草稿",
		StatusPublished:    "已发布",
		StatusClosed:       "已关闭",
		Status("ARCHIVED"): "",
	}
	for s, want := range cases {
		if got := s.Label(); got != want {
			t.Fatalf("%s: expected label %q, got %q", s, want, got)
		}
	}
}

func TestStatusValid(t *testing.T) {
	if !StatusPublished.Valid() {
		t.Fatalf("expected PUBLISHED to be valid")
	}
	if Status("published").Valid() {
		t.Fatalf("expected lower-case status to be invalid")
	}
}
