package model

import (
	"testing"
	"time"
)

func TestWeekdaysScan(t *testing.T) {
	var w Weekdays
	if err := w.Scan([]byte("mon, tue,,fri")); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(w) != 3 || w[0] != "mon" || w[1] != "tue" || w[2] != "fri" {
		t.Fatalf("unexpected weekdays: %#v", w)
	}
	if err := w.Scan(nil); err != nil || len(w) != 0 {
		t.Fatalf("nil scan: %v %#v", err, w)
	}
	if err := w.Scan(42); err == nil {
		t.Fatal("expected error for int source")
	}
}

func TestWeekdaysValue(t *testing.T) {
	v, err := Weekdays{"sat", "sun"}.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}
	if v != "sat,sun" {
		t.Fatalf("got %v", v)
	}
}

func TestWeekdayName(t *testing.T) {
	if got := WeekdayName(time.Thursday); got != "thu" {
		t.Fatalf("got %q", got)
	}
	if !IsWeekdayName("wed") || IsWeekdayName("Wednesday") {
		t.Fatal("IsWeekdayName mismatch")
	}
	if !(Weekdays{"mon"}).Contains("mon") || (Weekdays{"mon"}).Contains("tue") {
		t.Fatal("Contains mismatch")
	}
}
