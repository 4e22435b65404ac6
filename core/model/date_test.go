package model

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if d.Year != 2024 || d.Month != time.February || d.Day != 29 {
		t.Fatalf("unexpected date %#v", d)
	}
	if d.String() != "2024-02-29" {
		t.Fatalf("format %s", d.String())
	}
	if _, err := ParseDate("2024-13-01"); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate got %v", err)
	}
}

func TestDateJSON(t *testing.T) {
	var out struct {
		Date Date `json:"date"`
	}
	if err := json.Unmarshal([]byte(`{"date":"2025-01-31"}`), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := out.Date.AddDays(1).String(); got != "2025-02-01" {
		t.Fatalf("expected 2025-02-01 got %s", got)
	}
	data, _ := json.Marshal(out)
	if string(data) != `{"date":"2025-01-31"}` {
		t.Fatalf("encode %s", data)
	}
}

func TestScheduleRecordJSONNulls(t *testing.T) {
	rec := ScheduleRecord{ProgramID: "p1", ForecasterID: ID("f1")}
	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"programId":"p1","casterId":null,"forecasterId":"f1","hasCrosstalk":false}`
	if string(data) != want {
		t.Fatalf("got %s", data)
	}
	if ID("") != nil {
		t.Fatalf("empty id must be unset")
	}
}

func TestCloneRecordsIsDeep(t *testing.T) {
	in := []ScheduleRecord{{ProgramID: "p1", CasterID: ID("c1")}}
	out := CloneRecords(in)
	*out[0].CasterID = "c2"
	if in[0].Caster() != "c1" {
		t.Fatalf("clone shares caster pointer")
	}
}

func TestDateOrdering(t *testing.T) {
	a := Date{Year: 2025, Month: time.January, Day: 31}
	b := a.AddDays(1)
	if !a.Before(b) || !b.After(a) || a.After(a) {
		t.Fatalf("ordering of %s and %s", a, b)
	}
	if b.String() != "2025-02-01" {
		t.Fatalf("AddDays across month got %s", b)
	}
}
