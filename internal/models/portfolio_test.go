package models

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestParsePortfolio_ValidJSON(t *testing.T) {
	in := []byte(`  {"accounts": [{"name": "super", "balance": 100000}]}  `)

	p, err := ParsePortfolio(in)
	if err != nil {
		t.Fatalf("ParsePortfolio returned error: %v", err)
	}

	var got, want any
	if err := json.Unmarshal(p, &got); err != nil {
		t.Fatalf("stored portfolio is not valid JSON: %v", err)
	}
	if err := json.Unmarshal(in, &want); err != nil {
		t.Fatalf("unmarshal input: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("stored portfolio = %v, want deep-equal to input %v", got, want)
	}
}

func TestParsePortfolio_RejectsInvalid(t *testing.T) {
	cases := []string{``, `   `, `{not json`, `{"a": }`}
	for _, c := range cases {
		if _, err := ParsePortfolio([]byte(c)); err == nil {
			t.Errorf("ParsePortfolio(%q) = nil error, want rejection", c)
		}
	}
}

func TestParsePortfolio_ScalarValuesAccepted(t *testing.T) {
	// Any JSON-serializable value is a legal portfolio; shape is owned
	// by the upstream services.
	for _, c := range []string{`42`, `"text"`, `[1,2,3]`, `true`} {
		if _, err := ParsePortfolio([]byte(c)); err != nil {
			t.Errorf("ParsePortfolio(%q) returned error: %v", c, err)
		}
	}
}

func TestIndentPortfolio(t *testing.T) {
	p := Portfolio(`{"a":1}`)
	want := "{\n  \"a\": 1\n}"
	if got := IndentPortfolio(p); got != want {
		t.Errorf("IndentPortfolio = %q, want %q", got, want)
	}
}

func TestSessionState_HasPortfolio(t *testing.T) {
	s := &SessionState{}
	if s.HasPortfolio() {
		t.Error("empty session reports a portfolio")
	}
	s.Portfolio = json.RawMessage(`{}`)
	if !s.HasPortfolio() {
		t.Error("session with portfolio reports none")
	}
}
