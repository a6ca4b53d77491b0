package ports

import "testing"

func TestPageCheck(t *testing.T) {
	if fields := (Page{Skip: 0, Limit: DefaultPageLimit}).Check(); len(fields) != 0 {
		t.Fatalf("expected default page to pass, got %+v", fields)
	}
	if fields := (Page{Skip: 5, Limit: MaxPageLimit}).Check(); len(fields) != 0 {
		t.Fatalf("expected max limit to pass, got %+v", fields)
	}

	fields := (Page{Skip: -1, Limit: 0}).Check()
	if len(fields) != 2 || fields[0].Field != "skip" || fields[1].Field != "limit" {
		t.Fatalf("expected skip and limit errors, got %+v", fields)
	}
	fields = (Page{Limit: MaxPageLimit + 1}).Check()
	if len(fields) != 1 || fields[0].Field != "limit" {
		t.Fatalf("expected limit error, got %+v", fields)
	}
}
