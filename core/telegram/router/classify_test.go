package router

import (
	"testing"

	"finbot/core/telegram/args"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		raw  string
		kind DecisionKind
		ref  string
	}{
		{"dummy", DecisionDummy, ""},
		{"cancel", DecisionCancel, ""},
		{"g:m", DecisionMenu, "m"},
		{"g:acc;p=i2", DecisionMenu, "acc"},
		{"a:ca", DecisionAction, "ca"},
		{"a:ar;a=i5", DecisionAction, "ar"},
		{"", DecisionMalformed, ""},
		{"g:", DecisionMalformed, ""},
		{"x:m", DecisionMalformed, ""},
		{"garbage", DecisionMalformed, ""},
	}
	for _, tc := range cases {
		d := Classify(tc.raw)
		if d.Kind != tc.kind || d.Ref != tc.ref {
			t.Errorf("Classify(%q) = {%v %q}, want {%v %q}", tc.raw, d.Kind, d.Ref, tc.kind, tc.ref)
		}
	}
}

func TestClassifyDecodesArgs(t *testing.T) {
	d := Classify("g:a;a=i5,p=i2")
	if d.Kind != DecisionMenu {
		t.Fatalf("kind %v", d.Kind)
	}
	want := args.Map{"a": int64(5), "p": int64(2)}
	if !args.Equal(d.Args, want) {
		t.Fatalf("args %v, want %v", d.Args, want)
	}
}
