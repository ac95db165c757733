// Package callbacks defines the opaque token embedded in inline buttons.
//
// A token is `<kind>:<ref>[;<args>]` where kind is a single byte ("g" jumps
// to a menu, "a" starts an action), ref is the registry short name, and args
// is an encoded args.Map fragment. Two full-token sentinels exist: "cancel"
// stops the active action and "dummy" is a no-op used for spacer and
// disabled buttons. The whole token must fit Telegram's callback data limit;
// Format fails loudly instead of truncating, because a truncated fragment
// would decode into the wrong key.
package callbacks

import (
	"errors"
	"fmt"
	"strings"

	"finbot/core/telegram/args"
)

// Kinds and sentinels of the token wire format.
const (
	KindGoto   = "g"
	KindAction = "a"

	TokenCancel = "cancel"
	TokenDummy  = "dummy"
)

// MaxDataLen is Telegram's ceiling for callback data, in bytes.
const MaxDataLen = 64

const (
	refSep  = ":"
	argsSep = ";"
)

var (
	// ErrTooLong reports that an encoded token would exceed MaxDataLen.
	ErrTooLong = errors.New("callbacks: token exceeds callback data limit")
	// ErrMalformed reports a token whose shape cannot be parsed.
	ErrMalformed = errors.New("callbacks: malformed token")
)

// Token is a parsed button payload. For the sentinels Kind holds the full
// sentinel name and Ref is empty.
type Token struct {
	Kind string
	Ref  string
	Args args.Map
}

// Format assembles a token for the given kind and registry reference.
func Format(kind, ref string, a args.Map) (string, error) {
	if kind != KindGoto && kind != KindAction {
		return "", fmt.Errorf("%w: kind %q", ErrMalformed, kind)
	}
	if ref == "" || strings.ContainsAny(ref, refSep+argsSep) {
		return "", fmt.Errorf("%w: ref %q", ErrMalformed, ref)
	}
	token := kind + refSep + ref
	if frag := args.Encode(a); frag != "" {
		token += argsSep + frag
	}
	if len(token) > MaxDataLen {
		return "", fmt.Errorf("%w: %d bytes for %s%s%s", ErrTooLong, len(token), kind, refSep, ref)
	}
	return token, nil
}

// Goto builds a menu navigation token.
func Goto(ref string, a args.Map) (string, error) {
	return Format(KindGoto, ref, a)
}

// Action builds an action start token.
func Action(ref string, a args.Map) (string, error) {
	return Format(KindAction, ref, a)
}

// Parse decodes a raw token. Shape errors (missing separator, unknown kind,
// empty reference) are hard errors: the caller is expected to log and drop,
// never to guess. The args fragment itself is decoded forgivingly.
func Parse(raw string) (Token, error) {
	switch raw {
	case TokenCancel:
		return Token{Kind: TokenCancel}, nil
	case TokenDummy:
		return Token{Kind: TokenDummy}, nil
	}

	kind, rest, ok := strings.Cut(raw, refSep)
	if !ok {
		return Token{}, fmt.Errorf("%w: no reference separator in %q", ErrMalformed, clip(raw))
	}
	if kind != KindGoto && kind != KindAction {
		return Token{}, fmt.Errorf("%w: unknown kind %q", ErrMalformed, clip(kind))
	}
	ref, frag, _ := strings.Cut(rest, argsSep)
	if ref == "" {
		return Token{}, fmt.Errorf("%w: empty reference", ErrMalformed)
	}
	return Token{Kind: kind, Ref: ref, Args: args.Decode(frag)}, nil
}

func clip(s string) string {
	const max = 32
	if len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
