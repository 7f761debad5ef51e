// Package app wires the shop services into a Telegram bot.
package app

import (
	"context"
	"fmt"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/burgerbot/core/bootstrap"
	coretelegram "github.com/m3rciful/burgerbot/core/telegram"
	"github.com/m3rciful/burgerbot/core/telegram/commands"
	"github.com/m3rciful/burgerbot/core/telegram/router"
	"github.com/m3rciful/burgerbot/shop/cart"
	"github.com/m3rciful/burgerbot/shop/catalog"
	"github.com/m3rciful/burgerbot/shop/checkout"
	"github.com/m3rciful/burgerbot/shop/state"
	"github.com/m3rciful/burgerbot/shop/store"
)

// App holds the assembled services of the shop bot.
type App struct {
	cfg *Config

	store    store.Store
	states   *state.Service
	cart     *cart.Manager
	checkout *checkout.Service
}

// Bootstrap initializes logging, storage and services from configuration.
func Bootstrap(ctx context.Context, cfg *Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("app: nil config")
	}

	res, err := bootstrap.Run(ctx, bootstrap.Options{
		Config:   cfg.CoreConfig(),
		Database: cfg.Database,
		Seeders: []bootstrap.Seeder{
			catalog.Seeder{Path: cfg.Shop.CatalogFile},
		},
	})
	if err != nil {
		return nil, err
	}

	return NewApp(cfg, store.NewPG(res.DB)), nil
}

// NewApp assembles the application over an arbitrary store implementation.
func NewApp(cfg *Config, st store.Store) *App {
	mgr := cart.NewManager(st)
	return &App{
		cfg:    cfg,
		store:  st,
		states: state.NewService(st),
		cart:   mgr,
		checkout: checkout.NewService(st, mgr, checkout.Options{
			Title:       cfg.Shop.InvoiceTitle,
			Description: cfg.Shop.InvoiceDescription,
			Currency:    cfg.Shop.Currency,
		}),
	}
}

// TelegramRunOptions builds the registry, routes and middleware for RunTelegram.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	reg := coretelegram.NewRegistry()

	reg.RegisterCommand("/start", commands.Command{
		Handler:     a.handleStart,
		Description: "Start over",
	})
	reg.RegisterCommand("/help", commands.Command{
		Handler:     a.handleHelp,
		Description: "List commands",
	})
	reg.RegisterCommand("/menu", commands.Command{
		Handler:     a.handleMenu,
		Description: "Browse the menu",
		Aliases:     []string{"burgers"},
	})
	reg.RegisterCommand("/cart", commands.Command{
		Handler:     a.handleCart,
		Description: "View your cart",
	})

	for key, h := range map[string]tele.HandlerFunc{
		cbItem:       a.cbItemCard,
		cbInc:        a.cbIncrease,
		cbDec:        a.cbDecrease,
		cbAdd:        a.cbAddToCart,
		cbBuy:        a.cbBuy,
		cbClear:      a.cbClearCart,
		cbPickRemove: a.cbPickRemove,
		cbRemove:     a.cbRemove,
	} {
		if err := reg.RegisterCallback(key, h); err != nil {
			return coretelegram.RunOptions{}, err
		}
	}

	core := a.cfg.CoreConfig()

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminID: core.Telegram.AdminID,
	})
	routes = append(routes,
		router.CallbackRoute(reg, router.CallbackOptions{}),
		router.TextRoute(reg, router.TextOptions{UnknownText: a.handleUnknownText}),
		coretelegram.Route{Endpoint: tele.OnCheckout, Handler: a.onCheckout},
		coretelegram.Route{Endpoint: tele.OnPayment, Handler: a.onPayment},
	)

	return coretelegram.RunOptions{
		Config:      core,
		Registry:    reg,
		Middlewares: coretelegram.DefaultMiddlewares(core, nil),
		Routes:      routes,
	}, nil
}
