package router

import (
	"finbot/core/telegram/args"
	"finbot/core/telegram/callbacks"
)

// DecisionKind tags what a pressed button asks the bot to do.
type DecisionKind int

const (
	// DecisionMalformed marks data that does not parse as a token.
	DecisionMalformed DecisionKind = iota
	// DecisionDummy acknowledges the press and does nothing else.
	DecisionDummy
	// DecisionCancel stops the active action, if any.
	DecisionCancel
	// DecisionMenu navigates to a menu screen.
	DecisionMenu
	// DecisionAction starts a guided flow.
	DecisionAction
)

// Decision is the classified form of one callback payload.
type Decision struct {
	Kind DecisionKind
	Ref  string
	Args args.Map
}

// Classify maps raw callback data onto a routing decision. It is pure so the
// token grammar can be exercised without a live bot.
func Classify(raw string) Decision {
	tok, err := callbacks.Parse(raw)
	if err != nil {
		return Decision{Kind: DecisionMalformed}
	}
	switch tok.Kind {
	case callbacks.TokenDummy:
		return Decision{Kind: DecisionDummy}
	case callbacks.TokenCancel:
		return Decision{Kind: DecisionCancel}
	case callbacks.KindGoto:
		return Decision{Kind: DecisionMenu, Ref: tok.Ref, Args: tok.Args}
	case callbacks.KindAction:
		return Decision{Kind: DecisionAction, Ref: tok.Ref, Args: tok.Args}
	}
	return Decision{Kind: DecisionMalformed}
}
