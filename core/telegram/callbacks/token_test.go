package callbacks

import (
	"errors"
	"strings"
	"testing"

	"finbot/core/telegram/args"
)

func TestFormatParseRoundTrip(t *testing.T) {
	a := args.Map{"a": int64(12), "p": int64(3), "n": "Cash"}
	raw, err := Goto("acc", a)
	if err != nil {
		t.Fatalf("Goto: %v", err)
	}
	tok, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse(%q): %v", raw, err)
	}
	if tok.Kind != KindGoto || tok.Ref != "acc" {
		t.Fatalf("unexpected token %+v", tok)
	}
	if !args.Equal(tok.Args, a) {
		t.Fatalf("args mismatch: %v vs %v", tok.Args, a)
	}
}

func TestFormatWithoutArgs(t *testing.T) {
	raw, err := Action("ca", nil)
	if err != nil {
		t.Fatalf("Action: %v", err)
	}
	if raw != "a:ca" {
		t.Fatalf("unexpected token %q", raw)
	}
	tok, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if tok.Kind != KindAction || tok.Ref != "ca" || len(tok.Args) != 0 {
		t.Fatalf("unexpected token %+v", tok)
	}
}

func TestSentinels(t *testing.T) {
	for _, raw := range []string{TokenCancel, TokenDummy} {
		tok, err := Parse(raw)
		if err != nil {
			t.Fatalf("Parse(%q): %v", raw, err)
		}
		if tok.Kind != raw || tok.Ref != "" {
			t.Fatalf("sentinel parsed as %+v", tok)
		}
	}
}

func TestFormatLengthCeiling(t *testing.T) {
	long := args.Map{"note": strings.Repeat("x", MaxDataLen)}
	if _, err := Goto("acc", long); !errors.Is(err, ErrTooLong) {
		t.Fatalf("expected ErrTooLong, got %v", err)
	}
	// Exactly at the limit is fine: "g:m;" is 4 bytes of framing plus "k=s".
	fit := args.Map{"k": strings.Repeat("y", MaxDataLen-4-len("k=s"))}
	raw, err := Goto("m", fit)
	if err != nil {
		t.Fatalf("token at limit rejected: %v", err)
	}
	if len(raw) != MaxDataLen {
		t.Fatalf("expected %d bytes, got %d", MaxDataLen, len(raw))
	}
}

func TestFormatRejectsBadRefs(t *testing.T) {
	for _, ref := range []string{"", "a:b", "a;b"} {
		if _, err := Format(KindGoto, ref, nil); !errors.Is(err, ErrMalformed) {
			t.Errorf("ref %q accepted", ref)
		}
	}
	if _, err := Format("x", "acc", nil); !errors.Is(err, ErrMalformed) {
		t.Error("unknown kind accepted")
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	cases := []string{
		"",
		"noseparator",
		"z:acc",       // unknown kind
		"g:",          // empty ref
		"cancelled",   // not a sentinel
		"goto|acc|x1", // foreign delimiter scheme
	}
	for _, raw := range cases {
		if _, err := Parse(raw); !errors.Is(err, ErrMalformed) {
			t.Errorf("Parse(%q) accepted", raw)
		}
	}
}

func TestParseToleratesUnknownArgKeys(t *testing.T) {
	tok, err := Parse("g:chA;a=i1,zz=i9")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if v, _ := tok.Args.Int64("a"); v != 1 {
		t.Fatalf("recognized key lost: %v", tok.Args)
	}
	// Unknown keys ride along; it is the renderer that ignores them.
	if v, _ := tok.Args.Int64("zz"); v != 9 {
		t.Fatalf("extra key mangled: %v", tok.Args)
	}
}
