package domain

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestMetadataValue_UnmarshalJSON(t *testing.T) {
	cases := []struct {
		raw  string
		kind MetadataKind
		want interface{}
	}{
		{`"BRL"`, MetadataString, "BRL"},
		{`""`, MetadataString, ""},
		{`1500`, MetadataNumber, float64(1500)},
		{`-0.25`, MetadataNumber, -0.25},
		{`true`, MetadataBool, true},
		{`false`, MetadataBool, false},
		{`null`, MetadataNull, nil},
	}

	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			var v MetadataValue
			if err := json.Unmarshal([]byte(tc.raw), &v); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if v.Kind() != tc.kind {
				t.Fatalf("expected kind %s, got %s", tc.kind, v.Kind())
			}
			if v.Interface() != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, v.Interface())
			}

			out, err := json.Marshal(v)
			if err != nil {
				t.Fatalf("unexpected marshal error: %v", err)
			}
			var back MetadataValue
			if err := json.Unmarshal(out, &back); err != nil || !back.Equal(v) {
				t.Fatalf("expected %s to encode back to the same value, got %s (%v)", tc.raw, out, err)
			}
		})
	}
}

func TestMetadataValue_RejectsComposites(t *testing.T) {
	for _, raw := range []string{`{"a":1}`, `[1,2]`} {
		var v MetadataValue
		if err := json.Unmarshal([]byte(raw), &v); err == nil {
			t.Fatalf("expected %s to be rejected", raw)
		}
	}

	var m Metadata
	if err := json.Unmarshal([]byte(`{"ok":"x","nested":{"a":1}}`), &m); err == nil {
		t.Fatalf("expected metadata with a nested object to be rejected")
	}
}

func TestMetadataValueOf(t *testing.T) {
	cases := []struct {
		name string
		in   interface{}
		kind MetadataKind
	}{
		{"nil", nil, MetadataNull},
		{"string", "x", MetadataString},
		{"bool", true, MetadataBool},
		{"float64", 1.5, MetadataNumber},
		{"float32", float32(2), MetadataNumber},
		{"int", 3, MetadataNumber},
		{"int32", int32(4), MetadataNumber},
		{"int64", int64(5), MetadataNumber},
		{"json number", json.Number("6.5"), MetadataNumber},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v, err := MetadataValueOf(tc.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if v.Kind() != tc.kind {
				t.Fatalf("expected kind %s, got %s", tc.kind, v.Kind())
			}
		})
	}

	if _, err := MetadataValueOf(json.Number("not-a-number")); err == nil || !strings.Contains(err.Error(), "invalid metadata number") {
		t.Fatalf("expected invalid number error, got %v", err)
	}
	if _, err := MetadataValueOf([]string{"a"}); err == nil {
		t.Fatalf("expected slices to be rejected")
	}
}

func TestMetadataValue_Accessors(t *testing.T) {
	if s, ok := StringValue("x").Str(); !ok || s != "x" {
		t.Fatalf("unexpected Str result %q %v", s, ok)
	}
	if n, ok := NumberValue(2).Number(); !ok || n != 2 {
		t.Fatalf("unexpected Number result %v %v", n, ok)
	}
	if b, ok := BoolValue(true).Bool(); !ok || !b {
		t.Fatalf("unexpected Bool result %v %v", b, ok)
	}
	if _, ok := StringValue("x").Bool(); ok {
		t.Fatalf("expected Bool on a string to report false")
	}
	if !OptionalString("").IsNull() || OptionalString("BRL").IsNull() {
		t.Fatalf("expected OptionalString to map only the empty string to null")
	}
	if StringValue("1").Equal(NumberValue(1)) {
		t.Fatalf("expected values of different kinds to differ")
	}

	names := map[MetadataKind]string{
		MetadataNull:   "null",
		MetadataString: "string",
		MetadataNumber: "number",
		MetadataBool:   "bool",
	}
	for kind, want := range names {
		if kind.String() != want {
			t.Fatalf("expected %q, got %q", want, kind.String())
		}
	}
}

func TestMetadata_MapConversion(t *testing.T) {
	m, err := MetadataFromMap(map[string]interface{}{
		"currency":    "USD",
		"spend_cap":   int32(1500),
		"managed":     false,
		"business_id": nil,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	plain := m.ToMap()
	if plain["currency"] != "USD" || plain["spend_cap"] != float64(1500) || plain["managed"] != false || plain["business_id"] != nil {
		t.Fatalf("unexpected plain map %v", plain)
	}
	if _, ok := plain["business_id"]; !ok {
		t.Fatalf("expected null keys to be kept")
	}

	clone := m.Clone()
	clone["currency"] = StringValue("EUR")
	if s, _ := m["currency"].Str(); s != "USD" {
		t.Fatalf("expected clone to be independent of the original")
	}

	if _, err := MetadataFromMap(map[string]interface{}{"nested": map[string]interface{}{}}); err == nil {
		t.Fatalf("expected nested maps to be rejected")
	}
	if got, _ := MetadataFromMap(nil); got != nil || Metadata(nil).Clone() != nil || Metadata(nil).ToMap() != nil {
		t.Fatalf("expected nil metadata to stay nil")
	}
}
