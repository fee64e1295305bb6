package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"

	"estatehub-backend/internal/middleware"
	"estatehub-backend/internal/model"
	"estatehub-backend/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type PropertyHandler struct {
	svc *service.PropertyService
}

func NewPropertyHandler(svc *service.PropertyService) *PropertyHandler {
	return &PropertyHandler{svc: svc}
}

// GET /properties
func (h *PropertyHandler) List(c *fiber.Ctx) error {
	f, err := parseFilter(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	ident, err := h.svc.ResolveIdentity(c.Context(), callerID(c))
	if err != nil {
		return c.Status(403).JSON(fiber.Map{"error": "forbidden"})
	}

	res, err := h.svc.Search(c.Context(), ident, f)
	if err != nil {
		log.Printf("[PROPERTY] search error: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(res)
}

// GET /properties/:id
//
// Lookup failures, including a missing row, map to 500 here. Storefront
// clients rely on that, so it stays until they migrate.
func (h *PropertyHandler) GetByID(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid property id"})
	}
	pa, err := h.svc.FindOne(c.Context(), id)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(pa)
}

// GET /properties/related/:id
func (h *PropertyHandler) Related(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid property id"})
	}
	rows, err := h.svc.Related(c.Context(), id)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"data": rows})
}

// GET /properties/agents
func (h *PropertyHandler) AllAgents(c *fiber.Ctx) error {
	agents, err := h.svc.AllAgents(c.Context())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"data": agents})
}

// GET /properties/agents/:name
func (h *PropertyHandler) ByAgentName(c *fiber.Ctx) error {
	res, err := h.svc.ByAgentName(c.Context(), c.Params("name"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(res)
}

// GET /properties/site-paths
func (h *PropertyHandler) SitePaths(c *fiber.Ctx) error {
	paths, err := h.svc.SitePaths(c.Context())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"data": paths})
}

// POST /properties
func (h *PropertyHandler) Create(c *fiber.Ctx) error {
	ident, err := h.svc.ResolveIdentity(c.Context(), callerID(c))
	if err != nil || ident == nil {
		return c.Status(403).JSON(fiber.Map{"error": "forbidden"})
	}

	var req model.SavePropertyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}

	property, err := h.svc.Create(c.Context(), ident, &req)
	if err != nil {
		return propertyError(c, err)
	}
	return c.Status(201).JSON(property)
}

// PUT /properties/:id
func (h *PropertyHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid property id"})
	}

	ident, err := h.svc.ResolveIdentity(c.Context(), callerID(c))
	if err != nil || ident == nil {
		return c.Status(403).JSON(fiber.Map{"error": "forbidden"})
	}

	var req model.SavePropertyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}

	property, err := h.svc.Update(c.Context(), ident, id, &req)
	if err != nil {
		return propertyError(c, err)
	}
	return c.JSON(property)
}

// DELETE /properties/:id
func (h *PropertyHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid property id"})
	}

	ident, err := h.svc.ResolveIdentity(c.Context(), callerID(c))
	if err != nil || ident == nil {
		return c.Status(403).JSON(fiber.Map{"error": "forbidden"})
	}

	property, err := h.svc.Delete(c.Context(), ident, id)
	if err != nil {
		return propertyError(c, err)
	}
	return c.JSON(property)
}

type updateConfigurationsRequest struct {
	Configurations json.RawMessage `json:"configurations"`
}

// PUT /properties/configurations/:id
func (h *PropertyHandler) UpdateConfigurations(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid property id"})
	}

	ident, err := h.svc.ResolveIdentity(c.Context(), callerID(c))
	if err != nil || ident == nil {
		return c.Status(403).JSON(fiber.Map{"error": "forbidden"})
	}

	var req updateConfigurationsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}

	property, err := h.svc.UpdateConfigurations(c.Context(), ident, id, req.Configurations)
	if err != nil {
		return propertyError(c, err)
	}
	return c.JSON(property)
}

func propertyError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidPayload):
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		return c.Status(403).JSON(fiber.Map{"error": "forbidden"})
	default:
		log.Printf("[PROPERTY] store error: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
}

func callerID(c *fiber.Ctx) *uuid.UUID {
	if id, ok := middleware.UserID(c); ok {
		return &id
	}
	return nil
}

func parseID(c *fiber.Ctx) (int32, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 32)
	return int32(id), err
}

// parseFilter maps query parameters 1:1 onto the filter struct.
// Non-positive page/limit values are treated as absent: the composer applies
// them verbatim, so they must never reach it.
func parseFilter(c *fiber.Ctx) (*model.PropertyFilter, error) {
	f := &model.PropertyFilter{}

	if s := c.Query("s"); s != "" {
		f.Search = &s
	}
	if v := c.Query("province"); v != "" {
		f.Province = &v
	}
	if v := c.Query("regency"); v != "" {
		f.Regency = &v
	}
	if v := c.Query("street"); v != "" {
		f.Street = &v
	}
	if v := c.Query("building_type"); v != "" {
		f.BuildingType = &v
	}

	if v := c.Query("page"); v != "" {
		page, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid page %q", v)
		}
		if page > 0 {
			f.Page = &page
		}
	}
	if v := c.Query("limit"); v != "" {
		limit, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid limit %q", v)
		}
		if limit > 0 {
			f.Limit = &limit
		}
	}

	if v := c.Query("is_popular"); v != "" {
		popular, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid is_popular %q", v)
		}
		f.IsPopular = &popular
	}

	if v := c.Query("sold_status"); v != "" {
		status, err := model.ParseSoldStatus(v)
		if err != nil {
			return nil, err
		}
		f.SoldStatus = &status
	}
	if v := c.Query("purchase_status"); v != "" {
		status, err := model.ParsePurchaseStatus(v)
		if err != nil {
			return nil, err
		}
		f.PurchaseStatus = &status
	}
	if v := c.Query("sort"); v != "" {
		sort, err := model.ParseSortKey(v)
		if err != nil {
			return nil, err
		}
		f.Sort = &sort
	}
	if v := c.Query("developer_id"); v != "" {
		devID, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid developer_id %q", v)
		}
		id32 := int32(devID)
		f.DeveloperID = &id32
	}

	return f, nil
}
