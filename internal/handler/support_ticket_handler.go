package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/suteetoe/honeydew/internal/service"
)

type SupportTicketHandler struct {
	tickets service.SupportTicketService
}

func NewSupportTicketHandler(tickets service.SupportTicketService) *SupportTicketHandler {
	return &SupportTicketHandler{tickets: tickets}
}

func (h *SupportTicketHandler) List(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}

	tickets, err := h.tickets.List(c.Request().Context(), a)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tickets)
}

func (h *SupportTicketHandler) Get(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	ticket, err := h.tickets.Get(c.Request().Context(), a, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ticket)
}

func (h *SupportTicketHandler) Create(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var req service.CreateSupportTicketRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	ticket, err := h.tickets.Create(c.Request().Context(), a, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ticket)
}

func (h *SupportTicketHandler) AddReply(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req service.AddSupportTicketReplyRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	reply, err := h.tickets.AddReply(c.Request().Context(), a, id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, reply)
}

// UpdateStatus answers 204 on success
func (h *SupportTicketHandler) UpdateStatus(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req service.UpdateSupportTicketStatusRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	if _, err := h.tickets.UpdateStatus(c.Request().Context(), a, id, req); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
