package app

import (
	coretelegram "finbot/core/telegram"
	"finbot/core/telegram/commands"
	tghelpers "finbot/core/telegram/helpers"
	"finbot/core/telegram/router"

	tele "gopkg.in/telebot.v4"
)

const helpText = `*Finance tracker*

This bot tracks your money across accounts.

/start - open the main menu
/cancel - abort the current dialogue
/help - this message

Everything else happens through the buttons.`

func (a *App) registerCommands(reg *coretelegram.Registry, deps router.Deps) {
	reg.RegisterCommand("/start", commands.Command{
		Description: "Open the main menu",
		Handler: func(c tele.Context) error {
			ctx, profile, err := a.resolveFor(c, deps)
			if err != nil {
				return err
			}
			// A running flow would swallow the next message; stop it first.
			if err := deps.Actions.Stop(ctx, c.Sender().ID, profile); err != nil {
				return err
			}
			return deps.Menus.SendMenu(ctx, a.cfg.Bot.DefaultMenu, nil, c.Sender().ID, profile)
		},
	})

	reg.RegisterCommand("/cancel", commands.Command{
		Description: "Abort the current dialogue",
		Aliases:     []string{"abort"},
		Handler: func(c tele.Context) error {
			ctx, profile, err := a.resolveFor(c, deps)
			if err != nil {
				return err
			}
			if !deps.Actions.InProgress(c.Sender().ID) {
				return tghelpers.SendText(c, "Nothing to cancel.")
			}
			return deps.Actions.Stop(ctx, c.Sender().ID, profile)
		},
	})

	reg.RegisterCommand("/help", commands.Command{
		Description: "How to use the bot",
		Handler: func(c tele.Context) error {
			return tghelpers.SendMD(c, helpText)
		},
	})

	reg.SetTextFallback(func(c tele.Context) error {
		return tghelpers.SendText(c, "I didn't get that. Use the buttons, or /start for the menu.")
	})
}
