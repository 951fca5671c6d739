package handler

import (
    "context"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/resource-booking/internal/model"
    "github.com/iliyamo/resource-booking/internal/repository"
)

// UserHandler exposes the administrative user endpoints.  All routes are
// behind the ADMIN role.
type UserHandler struct {
    Users *repository.UserRepo
}

func NewUserHandler(u *repository.UserRepo) *UserHandler { return &UserHandler{Users: u} }

// List returns all users with public fields only.
func (h *UserHandler) List(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    users, err := h.Users.List(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    out := make([]userPart, 0, len(users))
    for _, u := range users {
        out = append(out, userPart{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role})
    }
    return c.JSON(http.StatusOK, echo.Map{"users": out})
}

// ToggleRole flips a user between USER and ADMIN.  An admin cannot toggle
// their own role, so the last admin cannot lock everyone out.
func (h *UserHandler) ToggleRole(c echo.Context) error {
    id, ok := pathID(c)
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    if caller, err := getUserID(c); err == nil && caller == id {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot change your own role"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    u, err := h.Users.GetByID(ctx, id)
    if err != nil {
        if err == repository.ErrUserNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }

    newRole := model.RoleAdmin
    if u.Role == model.RoleAdmin {
        newRole = model.RoleUser
    }
    if err := h.Users.UpdateRole(ctx, id, newRole); err != nil {
        if err == repository.ErrUserNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "user": userPart{ID: u.ID, Name: u.Name, Email: u.Email, Role: newRole},
    })
}

// Delete removes a user.  Admins cannot delete themselves.
func (h *UserHandler) Delete(c echo.Context) error {
    id, ok := pathID(c)
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    if caller, err := getUserID(c); err == nil && caller == id {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot delete your own account"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if err := h.Users.Delete(ctx, id); err != nil {
        if err == repository.ErrUserNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
    }
    return c.NoContent(http.StatusNoContent)
}
