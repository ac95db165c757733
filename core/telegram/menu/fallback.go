package menu

import "finbot/core/telegram/callbacks"

const fallbackText = "Something went wrong. Use the button below to get back."

// FallbackScreen is the uniform "something went wrong" screen: short plain
// text and a single button back to the landing menu. Every failure path that
// still owes the user a screen shows this one, never a raw error.
func FallbackScreen(homeShort string) *Screen {
	token, err := callbacks.Goto(homeShort, nil)
	if err != nil {
		// A home short name long enough to overflow the token is a wiring
		// bug; degrade to a harmless no-op button rather than panic.
		token = callbacks.TokenDummy
	}
	return &Screen{
		Text: fallbackText,
		Keyboard: [][]Button{
			{{Label: "« Back", Token: token}},
		},
	}
}
