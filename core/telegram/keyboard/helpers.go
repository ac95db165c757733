// Package keyboard lowers screen keyboards to telebot markup.
package keyboard

import (
	"finbot/core/telegram/menu"

	tele "gopkg.in/telebot.v4"
)

// FromScreen converts a screen keyboard into telebot markup. Button tokens
// are written into Data verbatim; Unique stays empty so telebot does not
// prefix the payload.
func FromScreen(rows [][]menu.Button) *tele.ReplyMarkup {
	if len(rows) == 0 {
		return nil
	}
	inline := make([][]tele.InlineButton, len(rows))
	for i, row := range rows {
		r := make([]tele.InlineButton, len(row))
		for j, btn := range row {
			r[j] = tele.InlineButton{Text: btn.Label, Data: btn.Token}
		}
		inline[i] = r
	}
	return &tele.ReplyMarkup{InlineKeyboard: inline}
}
