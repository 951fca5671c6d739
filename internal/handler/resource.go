package handler

import (
    "context"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/resource-booking/internal/model"
    "github.com/iliyamo/resource-booking/internal/repository"
)

// ResourceHandler exposes the resource catalogue.  Reads are available to
// any authenticated user; all mutations are behind the ADMIN role.
type ResourceHandler struct {
    Resources *repository.ResourceRepo
}

func NewResourceHandler(r *repository.ResourceRepo) *ResourceHandler {
    return &ResourceHandler{Resources: r}
}

type resourceCreateReq struct {
    Name        string  `json:"name"`
    Description *string `json:"description"`
    ImageURL    *string `json:"image_url"`
    Category    string  `json:"category"`
    Capacity    int     `json:"capacity"`
}

type resourceUpdateReq struct {
    Name        *string `json:"name"`
    Description *string `json:"description"`
    ImageURL    *string `json:"image_url"`
    Category    *string `json:"category"`
}

type intValueReq struct {
    Value *int `json:"value"`
}

// resourceView is the read-side shape: stored fields verbatim except the
// status, which is capitalized for presentation.
type resourceView struct {
    ID             uint64    `json:"id"`
    Name           string    `json:"name"`
    Description    *string   `json:"description,omitempty"`
    ImageURL       *string   `json:"image_url,omitempty"`
    Category       string    `json:"category"`
    Capacity       int       `json:"capacity"`
    AvailableSlots int       `json:"available_slots"`
    Status         string    `json:"status"`
    Duration       *int      `json:"duration,omitempty"`
    CreatedAt      time.Time `json:"created_at"`
    UpdatedAt      time.Time `json:"updated_at"`
}

func toResourceView(r *model.Resource) resourceView {
    return resourceView{
        ID:             r.ID,
        Name:           r.Name,
        Description:    r.Description,
        ImageURL:       r.ImageURL,
        Category:       r.Category,
        Capacity:       r.Capacity,
        AvailableSlots: r.AvailableSlots,
        Status:         model.DisplayStatus(r.Status),
        Duration:       r.Duration,
        CreatedAt:      r.CreatedAt,
        UpdatedAt:      r.UpdatedAt,
    }
}

// List returns the whole catalogue.
func (h *ResourceHandler) List(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    items, err := h.Resources.List(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    out := make([]resourceView, 0, len(items))
    for _, r := range items {
        out = append(out, toResourceView(r))
    }
    return c.JSON(http.StatusOK, echo.Map{"resources": out})
}

// Get returns a single resource by ID.
func (h *ResourceHandler) Get(c echo.Context) error {
    id, ok := pathID(c)
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    res, err := h.Resources.GetByID(ctx, id)
    if err != nil {
        if err == repository.ErrResourceNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "resource not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"resource": toResourceView(res)})
}

// Create registers a new resource.  The availability counter starts at
// full capacity and the status at available.
func (h *ResourceHandler) Create(c echo.Context) error {
    var req resourceCreateReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }

    res := &model.Resource{
        Name:           strings.TrimSpace(req.Name),
        Description:    req.Description,
        ImageURL:       req.ImageURL,
        Category:       req.Category,
        Capacity:       req.Capacity,
        AvailableSlots: req.Capacity,
        Status:         model.StatusAvailable,
    }
    if err := model.CheckResource(res); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if err := h.Resources.Create(ctx, res); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
    }
    return c.JSON(http.StatusCreated, echo.Map{"resource": toResourceView(res)})
}

// Update rewrites the descriptive fields of a resource.  Capacity and
// availability have dedicated endpoints with their own bounds checks.
func (h *ResourceHandler) Update(c echo.Context) error {
    id, ok := pathID(c)
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req resourceUpdateReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    res, err := h.Resources.GetByID(ctx, id)
    if err != nil {
        if err == repository.ErrResourceNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "resource not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }

    if req.Name != nil {
        res.Name = strings.TrimSpace(*req.Name)
    }
    if req.Description != nil {
        res.Description = req.Description
    }
    if req.ImageURL != nil {
        res.ImageURL = req.ImageURL
    }
    if req.Category != nil {
        res.Category = *req.Category
    }
    if err := model.CheckResource(res); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    }

    if err := h.Resources.Update(ctx, res); err != nil {
        if err == repository.ErrResourceNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "resource not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
    }

    updated, err := h.Resources.GetByID(ctx, id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"resource": toResourceView(updated)})
}

// UpdateCapacity sets a new maximum capacity.  The availability counter is
// left as-is; a later counter update or booking mutation rederives status.
func (h *ResourceHandler) UpdateCapacity(c echo.Context) error {
    id, ok := pathID(c)
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req intValueReq
    if err := c.Bind(&req); err != nil || req.Value == nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "value required"})
    }
    if *req.Value < 1 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": model.ErrInvalidCapacity.Error()})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if err := h.Resources.UpdateCapacity(ctx, id, *req.Value); err != nil {
        if err == repository.ErrResourceNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "resource not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
    }
    res, err := h.Resources.GetByID(ctx, id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"resource": toResourceView(res)})
}

// UpdateDuration overwrites the informational duration scalar.
func (h *ResourceHandler) UpdateDuration(c echo.Context) error {
    id, ok := pathID(c)
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req intValueReq
    if err := c.Bind(&req); err != nil || req.Value == nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "value required"})
    }
    if *req.Value < 1 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "duration must be at least 1 hour"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if err := h.Resources.UpdateDuration(ctx, id, *req.Value); err != nil {
        if err == repository.ErrResourceNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "resource not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
    }
    res, err := h.Resources.GetByID(ctx, id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"resource": toResourceView(res)})
}

// UpdateAvailableSlots sets the availability counter directly and rederives
// the resource status from it.
func (h *ResourceHandler) UpdateAvailableSlots(c echo.Context) error {
    id, ok := pathID(c)
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req intValueReq
    if err := c.Bind(&req); err != nil || req.Value == nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "value required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    res, err := h.Resources.GetByID(ctx, id)
    if err != nil {
        if err == repository.ErrResourceNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "resource not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    if *req.Value < 0 || *req.Value > res.Capacity {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": model.ErrInvalidSlots.Error()})
    }

    status := model.DeriveStatus(res.Capacity, *req.Value)
    if err := h.Resources.UpdateAvailableSlots(ctx, id, *req.Value, status); err != nil {
        if err == repository.ErrResourceNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "resource not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
    }
    res.AvailableSlots = *req.Value
    res.Status = status
    return c.JSON(http.StatusOK, echo.Map{"resource": toResourceView(res)})
}

// Delete removes a resource.
func (h *ResourceHandler) Delete(c echo.Context) error {
    id, ok := pathID(c)
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if err := h.Resources.Delete(ctx, id); err != nil {
        if err == repository.ErrResourceNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "resource not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
    }
    return c.NoContent(http.StatusNoContent)
}
