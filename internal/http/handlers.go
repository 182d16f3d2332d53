package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"cyberdock/internal/engine"
	"cyberdock/internal/pkg/async"
	"cyberdock/internal/sales"
	"cyberdock/internal/store"
)

// Pinger checks the database behind a source.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handlers serves the JSON API and the exports.
type Handlers struct {
	Source store.Source
	Engine *engine.Engine
	DB       Pinger
	Logger   *slog.Logger
	Defaults QueryDefaults

	pool *async.Pool
}

func NewHandlers(source store.Source, eng *engine.Engine, db Pinger, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		Source:   source,
		Engine:   eng,
		DB:       db,
		Logger:   logger,
		Defaults: DefaultQueryDefaults(),
		pool:     async.NewPool(2),
	}
}

type snapshot struct {
	Records  []sales.Sale
	Accounts []sales.Account
}

// fetchSnapshot loads the sales and the account list concurrently.
func (h *Handlers) fetchSnapshot(ctx context.Context, accountID string) (snapshot, error) {
	results := h.pool.Execute(ctx, []async.Task{
		{
			Name: "sales",
			Execute: func(ctx context.Context) (interface{}, error) {
				return h.Source.ListSales(ctx, accountID)
			},
		},
		{
			Name: "accounts",
			Execute: func(ctx context.Context) (interface{}, error) {
				return h.Source.ListAccounts(ctx)
			},
		},
	})

	for _, name := range []string{"sales", "accounts"} {
		if err := results[name].Err; err != nil {
			return snapshot{}, fmt.Errorf("error fetching %s: %w", name, err)
		}
	}

	records, _ := results["sales"].Data.([]sales.Sale)
	accounts, _ := results["accounts"].Data.([]sales.Account)
	return snapshot{Records: records, Accounts: accounts}, nil
}

// ErrorHandler maps schema validation failures to 422 and keeps fiber's
// status for everything else.
func ErrorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		var fe *fiber.Error
		switch {
		case errors.Is(err, sales.ErrMissingColumn):
			code = fiber.StatusUnprocessableEntity
		case errors.As(err, &fe):
			code = fe.Code
		}

		if code >= fiber.StatusInternalServerError {
			logger.Error("Request failed", slog.String("path", c.Path()), slog.Any("error", err))
		}
		return c.Status(code).JSON(fiber.Map{"error": err.Error()})
	}
}

func badRequest(err error) error {
	return fiber.NewError(fiber.StatusBadRequest, err.Error())
}

type accountView struct {
	sales.Account
	Name string `json:"name"`
}

// AccountsIndexAction lists the connected accounts.
func (h *Handlers) AccountsIndexAction(c *fiber.Ctx) error {
	accounts, err := h.Source.ListAccounts(c.UserContext())
	if err != nil {
		return fmt.Errorf("error fetching accounts: %w", err)
	}
	views := make([]accountView, len(accounts))
	for i, a := range accounts {
		views[i] = accountView{Account: a, Name: a.Name()}
	}
	return c.JSON(fiber.Map{"accounts": views})
}

type dashboardPayload struct {
	engine.DashboardResponse
	Accounts []sales.Account `json:"accounts"`
}

// DashboardIndexAction runs the dashboard pass.
func (h *Handlers) DashboardIndexAction(c *fiber.Ctx) error {
	req, err := parseDashboardRequest(c, h.Engine.Location(), h.Defaults)
	if err != nil {
		return badRequest(err)
	}

	snap, err := h.fetchSnapshot(c.UserContext(), query(c, "account_id"))
	if err != nil {
		return err
	}

	res, err := h.Engine.Begin().Dashboard(snap.Records, req)
	if err != nil {
		return badRequest(err)
	}
	return c.JSON(dashboardPayload{DashboardResponse: res, Accounts: snap.Accounts})
}

// ReportIndexAction runs the report pass.
func (h *Handlers) ReportIndexAction(c *fiber.Ctx) error {
	state, err := parseState(c, h.Engine.Location(), h.Defaults)
	if err != nil {
		return badRequest(err)
	}

	records, err := h.Source.ListSales(c.UserContext(), query(c, "account_id"))
	if err != nil {
		return fmt.Errorf("error fetching sales: %w", err)
	}

	res, err := h.Engine.Begin().Report(records, state)
	if err != nil {
		return badRequest(err)
	}
	return c.JSON(res)
}

func (h *Handlers) shipments(c *fiber.Ctx) (engine.ShipmentsResponse, error) {
	state, err := parseShipmentState(c, h.Engine.Location(), h.Defaults)
	if err != nil {
		return engine.ShipmentsResponse{}, badRequest(err)
	}

	records, err := h.Source.ListSales(c.UserContext(), query(c, "account_id"))
	if err != nil {
		return engine.ShipmentsResponse{}, fmt.Errorf("error fetching sales: %w", err)
	}

	res, err := h.Engine.Begin().Shipments(records, state)
	if err != nil {
		return engine.ShipmentsResponse{}, badRequest(err)
	}
	return res, nil
}

// ShipmentsIndexAction runs the expedition pass.
func (h *Handlers) ShipmentsIndexAction(c *fiber.Ctx) error {
	res, err := h.shipments(c)
	if err != nil {
		return err
	}
	return c.JSON(res)
}
