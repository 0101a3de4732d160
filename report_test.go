package settings

import (
	"encoding/json"
	"testing"
)

func TestReportToJSON(t *testing.T) {
	_, report := decodeLink(t, newTestDecoder(t), "rate=q&tab=graph")
	data, err := report.ToJSON()
	if err != nil {
		t.Fatalf("to json: %v", err)
	}
	var decoded struct {
		PassID      string       `json:"pass_id"`
		Fields      []FieldTrace `json:"fields"`
		Diagnostics []struct {
			Field string `json:"field"`
			Error string `json:"error"`
		} `json:"diagnostics"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.PassID != report.PassID || len(decoded.Fields) != len(FieldOrder()) {
		t.Fatalf("unexpected report json: %s", data)
	}
	if len(decoded.Diagnostics) != 1 || decoded.Diagnostics[0].Field != FieldRate {
		t.Fatalf("expected one rate diagnostic, got %+v", decoded.Diagnostics)
	}
	if decoded.Diagnostics[0].Error != `settings: field rate value="q": rate unit: unknown value` {
		t.Fatalf("unexpected diagnostic text %q", decoded.Diagnostics[0].Error)
	}
}

func TestReportLookupMissingField(t *testing.T) {
	var report Report
	if _, ok := report.Field(FieldTab); ok {
		t.Fatalf("expected no trace in empty report")
	}
	if diags := report.DiagnosticsFor(FieldTab); diags != nil {
		t.Fatalf("expected nil diagnostics, got %v", diags)
	}
}

func TestReportFieldNamesKeepOrder(t *testing.T) {
	report := Report{Fields: []FieldTrace{{Field: "title"}, {Field: "items"}, {Field: "tab"}}}
	got := report.FieldNames()
	if len(got) != 3 || got[0] != "title" || got[1] != "items" || got[2] != "tab" {
		t.Fatalf("unexpected field names: %v", got)
	}
	if n := len(Report{}.FieldNames()); n != 0 {
		t.Fatalf("expected no names for an empty report, got %d", n)
	}
}
