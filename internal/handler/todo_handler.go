package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/suteetoe/honeydew/internal/apperror"
	"github.com/suteetoe/honeydew/internal/export"
	"github.com/suteetoe/honeydew/internal/service"
	"github.com/suteetoe/honeydew/pkg/logger"
)

// Paging limits applied before the request reaches the service.
const (
	defaultPageSize = 9
	minPageSize     = 3
	maxPageSize     = 99
	defaultTake     = 3
	maxTake         = 20
)

type TodoHandler struct {
	todos service.TodoService
}

func NewTodoHandler(todos service.TodoService) *TodoHandler {
	return &TodoHandler{todos: todos}
}

// List handles GET /api/todos
func (h *TodoHandler) List(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}

	req := service.ListTodosRequest{
		Search: c.QueryParam("search"),
		SortBy: c.QueryParam("sortBy"),
	}
	if req.Page, err = queryInt(c, "page", 1); err != nil {
		return err
	}
	if req.PageSize, err = queryInt(c, "pageSize", defaultPageSize); err != nil {
		return err
	}
	if req.OnlyMine, err = queryBool(c, "onlyMine", true); err != nil {
		return err
	}
	if req.IncludeCompleted, err = queryBool(c, "includeCompleted", false); err != nil {
		return err
	}
	if req.SortDesc, err = queryBool(c, "sortDesc", false); err != nil {
		return err
	}
	if req.AssignedTo, err = queryIDs(c, "assignedToUserIds", "assignedTo"); err != nil {
		return err
	}
	req.Page = max(req.Page, 1)
	req.PageSize = clamp(req.PageSize, minPageSize, maxPageSize)

	page, err := h.todos.List(c.Request().Context(), a, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

// AssignedToMe handles GET /api/todos/assigned-to-me
func (h *TodoHandler) AssignedToMe(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	take, err := queryInt(c, "take", defaultTake)
	if err != nil {
		return err
	}

	items, err := h.todos.AssignedToMe(c.Request().Context(), a, clamp(take, 1, maxTake))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (h *TodoHandler) Get(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	item, err := h.todos.Get(c.Request().Context(), a, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

func (h *TodoHandler) Create(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var req service.CreateTodoRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	item, err := h.todos.Create(c.Request().Context(), a, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

func (h *TodoHandler) Update(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req service.UpdateTodoRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	item, err := h.todos.Update(c.Request().Context(), a, id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

// Vote toggles the caller's vote and reports the resulting state
func (h *TodoHandler) Vote(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	voted, err := h.todos.ToggleVote(c.Request().Context(), a, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"voted": voted})
}

// Export streams the caller's visible todos as todos.csv or todos.xlsx
func (h *TodoHandler) Export(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	onlyMine, err := queryBool(c, "onlyMine", true)
	if err != nil {
		return err
	}
	format := strings.ToLower(strings.TrimSpace(c.QueryParam("format")))
	if format != "" && format != "csv" && format != "xlsx" {
		return apperror.Validation("Format must be csv or xlsx.")
	}

	items, err := h.todos.Export(c.Request().Context(), a, onlyMine)
	if err != nil {
		return err
	}

	var (
		data        []byte
		contentType = export.CSVContentType
		fileName    = export.CSVFileName
	)
	if format == "xlsx" {
		if data, err = export.XLSX(items); err != nil {
			return err
		}
		contentType, fileName = export.XLSXContentType, export.XLSXFileName
	} else {
		data = export.CSV(items)
	}

	logger.FromEcho(c).Info("Todos exported", zap.String("file", fileName), zap.Int("count", len(items)))
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+fileName+`"`)
	return c.Blob(http.StatusOK, contentType, data)
}
