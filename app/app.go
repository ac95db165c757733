// Package app wires the finance bot: configuration, storage, screens, flows,
// and the Telegram runtime glue.
package app

import (
	"context"
	"fmt"

	"finbot/app/actions"
	"finbot/app/menus"
	"finbot/finance"

	"finbot/core/bootstrap"
	corecmd "finbot/core/cmd"
	coretelegram "finbot/core/telegram"
	"finbot/core/telegram/action"
	tghelpers "finbot/core/telegram/helpers"
	"finbot/core/telegram/menu"
	"finbot/core/telegram/router"
	"finbot/core/telegram/session"

	"github.com/jmoiron/sqlx"
	tele "gopkg.in/telebot.v4"
)

// App is the assembled finance bot.
type App struct {
	cfg *Config
	db  *sqlx.DB
	svc *finance.Service

	sessions   session.Manager
	transport  *coretelegram.LazyTransport
	menus      *menu.Router
	dispatcher *action.Dispatcher
}

// Bootstrap initializes infrastructure and assembles the bot. It satisfies
// the corecmd.Bootstrap contract.
func Bootstrap(carrier corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
	cfg, ok := carrier.(*Config)
	if !ok {
		return nil, fmt.Errorf("app: unexpected config type %T", carrier)
	}

	res, err := bootstrap.Run(bootstrap.Options{
		Config:   cfg.CoreConfig(),
		Database: cfg.Database,
	})
	if err != nil {
		return nil, err
	}

	svc := finance.NewService(finance.NewPostgresStorage(res.DB))

	return &App{
		cfg:      cfg,
		db:       res.DB,
		svc:      svc,
		sessions: session.NewMemoryManager(cfg.Bot.DefaultMenu),
	}, nil
}

// TelegramRunOptions builds the full runtime wiring. Registration failures
// abort startup; a bot with a missing screen is worse than no bot.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	menuReg := menu.NewRegistry()
	if err := menus.Register(menuReg, a.svc, a.cfg.Bot.PageSize); err != nil {
		return coretelegram.RunOptions{}, fmt.Errorf("app: menu registration: %w", err)
	}
	homeShort, ok := menuReg.ShortOf(a.cfg.Bot.DefaultMenu)
	if !ok {
		return coretelegram.RunOptions{}, fmt.Errorf("app: default menu %q is not registered", a.cfg.Bot.DefaultMenu)
	}

	a.transport = &coretelegram.LazyTransport{}
	a.menus = menu.NewRouter(menuReg, a.sessions, a.transport, homeShort)

	actionReg := action.NewRegistry()
	err := actions.Register(actionReg, a.svc, actions.Options{
		DefaultCurrency: a.cfg.Bot.DefaultCurrency,
	})
	if err != nil {
		return coretelegram.RunOptions{}, fmt.Errorf("app: action registration: %w", err)
	}
	a.dispatcher = action.NewDispatcher(actionReg, a.sessions, a.menus, a.transport)

	deps := router.Deps{
		Menus:    a.menus,
		Actions:  a.dispatcher,
		Profiles: profileResolver{svc: a.svc},
	}

	reg := coretelegram.NewRegistry()
	a.registerCommands(reg, deps)

	coreCfg := a.cfg.CoreConfig()
	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminID: coreCfg.Telegram.AdminID,
	})
	routes = append(routes,
		router.CallbackRoute(deps),
		router.TextRoute(deps, reg, router.TextOptions{}),
	)

	return coretelegram.RunOptions{
		Config:      coreCfg,
		Registry:    reg,
		Middlewares: coretelegram.DefaultMiddlewares(coreCfg, nil),
		Routes:      routes,
		OnStart: func(_ context.Context, rt coretelegram.Runtime) error {
			a.transport.Bind(rt.Bot, rt.Dispatcher)
			return nil
		},
		OnStop: func(_ context.Context, _ coretelegram.Runtime) error {
			a.transport.Unbind()
			return a.db.Close()
		},
	}, nil
}

// profileResolver adapts the finance service to the router's resolver shape.
type profileResolver struct {
	svc *finance.Service
}

func (r profileResolver) Resolve(ctx context.Context, userID int64) (any, error) {
	return tghelpers.CurrentProfile[finance.Profile](ctx, r.svc, userID)
}

// resolveFor builds the logging context and profile for a command handler.
func (a *App) resolveFor(c tele.Context, deps router.Deps) (context.Context, any, error) {
	ctx := tghelpers.BuildContext(c)
	profile, err := deps.Profiles.Resolve(ctx, c.Sender().ID)
	return ctx, profile, err
}
