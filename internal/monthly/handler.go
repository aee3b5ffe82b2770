package monthly

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/fintrack-app/fintrack-backend/internal/auth"
	"github.com/fintrack-app/fintrack-backend/internal/money"
)

type Handler struct {
	Repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{Repo: repo}
}

func (h *Handler) List(c *fiber.Ctx) error {
	userID, ok := auth.UserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	items, err := h.Repo.List(c.UserContext(), userID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to list monthly data")
	}

	out := make([]MonthlyDataResponse, 0, len(items))
	for i := range items {
		out = append(out, items[i].Response())
	}
	return c.JSON(fiber.Map{"count": len(out), "data": out})
}

func (h *Handler) Get(c *fiber.Ctx) error {
	userID, ok := auth.UserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}
	month, err := c.ParamsInt("month")
	if err != nil || month < 1 || month > 12 {
		return fiber.NewError(fiber.StatusBadRequest, "month must be 1-12")
	}
	year, err := c.ParamsInt("year")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid year")
	}

	m, err := h.Repo.Get(c.UserContext(), userID, month, year)
	if errors.Is(err, ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "no data for that month")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch monthly data")
	}
	return c.JSON(m.Response())
}

func (h *Handler) Upsert(c *fiber.Ctx) error {
	userID, ok := auth.UserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req UpsertRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if req.Month < 1 || req.Month > 12 {
		return fiber.NewError(fiber.StatusBadRequest, "month must be 1-12")
	}
	if req.Year == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "year required")
	}

	totalIncome, err := centsOrNil(req.TotalIncome)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid total_income")
	}
	totalExpenses, err := centsOrNil(req.TotalExpenses)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid total_expenses")
	}
	availableBalance, err := centsOrNil(req.AvailableBalance)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid available_balance")
	}
	netWorth, err := centsOrNil(req.NetWorth)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid net_worth")
	}

	m, inserted, err := h.Repo.Upsert(c.UserContext(), userID, req.Month, req.Year, totalIncome, totalExpenses, availableBalance, netWorth)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to save monthly data")
	}

	status := fiber.StatusOK
	if inserted {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(m.Response())
}

func centsOrNil(d *decimal.Decimal) (*int64, error) {
	if d == nil {
		return nil, nil
	}
	cents, err := money.FromDecimal(*d)
	if err != nil {
		return nil, err
	}
	return &cents, nil
}

func (h *Handler) Summary(c *fiber.Ctx) error {
	userID, ok := auth.UserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	now := time.Now()
	curMonth, curYear := int(now.Month()), now.Year()
	preMonth, preYear := prevMonth(curMonth, curYear)

	ctx := c.UserContext()
	current, err := h.Repo.Get(ctx, userID, curMonth, curYear)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch monthly summary")
	}
	if current == nil {
		current = &MonthlyData{Month: curMonth, Year: curYear}
	}

	previous, err := h.Repo.Get(ctx, userID, preMonth, preYear)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch monthly summary")
	}
	if previous == nil {
		previous = &MonthlyData{Month: preMonth, Year: preYear}
	}

	return c.JSON(SummaryResponse{
		CurrentMonth:  current.Response(),
		PreviousMonth: previous.Response(),
		Changes: SummaryChanges{
			IncomeChange:   pctChange(current.TotalIncome, previous.TotalIncome),
			ExpensesChange: pctChange(current.TotalExpenses, previous.TotalExpenses),
			BalanceChange:  pctChange(current.AvailableBalance, previous.AvailableBalance),
		},
	})
}

func (h *Handler) YearSummary(c *fiber.Ctx) error {
	userID, ok := auth.UserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}
	year, err := c.ParamsInt("year")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid year")
	}

	rows, err := h.Repo.ListYear(c.UserContext(), userID, year)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch year summary")
	}

	full := fillYear(year, rows)
	out := make([]MonthlyDataResponse, 0, len(full))
	for i := range full {
		out = append(out, full[i].Response())
	}
	return c.JSON(fiber.Map{"year": year, "data": out})
}
