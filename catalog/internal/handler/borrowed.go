package handler

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Astemirdum/local-library/catalog/internal/errs"
	"github.com/Astemirdum/local-library/catalog/internal/model"
	"github.com/Astemirdum/local-library/pkg/auth"
)

const msgInvalidDate = "Enter a valid date."

// renewBody keeps the date raw so a malformed value becomes a field error
// rather than a bind error.
type renewBody struct {
	RenewalDate string `json:"renewal_date" form:"renewal_date"`
}

// renewFailure is the renewal form echoed back with its field errors.
type renewFailure struct {
	Message string `json:"message"`
	model.RenewForm
}

// @Summary Copies on loan to the caller
// @Tags loans
// @Produce json
// @Security Bearer
// @Param page query int false "page, 1-based"
// @Success 200 {object} model.ListBookInstances
// @Failure 401 {object} echo.HTTPError
// @Router /api/v1/mybooks [get]
func (h *Handler) ListMyBorrowed(c echo.Context) error {
	ctx := c.Request().Context()
	user, err := auth.GetUser(ctx)
	if err != nil {
		return h.httpError(err)
	}
	page, err := pageParam(c)
	if err != nil {
		return err
	}
	list, err := h.catalogSvc.ListMyBorrowed(ctx, user.Username, page)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, list)
}

// @Summary All copies on loan
// @Tags loans
// @Produce json
// @Security Bearer
// @Param page query int false "page, 1-based"
// @Success 200 {object} model.ListBookInstances
// @Failure 403 {object} echo.HTTPError
// @Router /api/v1/borrowed [get]
func (h *Handler) ListAllBorrowed(c echo.Context) error {
	page, err := pageParam(c)
	if err != nil {
		return err
	}
	list, err := h.catalogSvc.ListAllBorrowed(c.Request().Context(), page)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, list)
}

func instanceParam(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusNotFound, errs.ErrNotFound.Error())
	}
	return id, nil
}

// @Summary Renewal form with the proposed date
// @Tags loans
// @Produce json
// @Security Bearer
// @Param id path string true "book instance id"
// @Success 200 {object} model.RenewForm
// @Failure 403 {object} echo.HTTPError
// @Failure 404 {object} echo.HTTPError
// @Router /api/v1/bookinstances/{id}/renew [get]
func (h *Handler) RenewForm(c echo.Context) error {
	id, err := instanceParam(c)
	if err != nil {
		return err
	}
	form, err := h.catalogSvc.RenewForm(c.Request().Context(), id)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, form)
}

// @Summary Renew a loan
// @Tags loans
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Security Bearer
// @Param id path string true "book instance id"
// @Param request body model.RenewRequest true "renewal date, YYYY-MM-DD"
// @Success 303
// @Failure 400 {object} renewFailure
// @Failure 403 {object} echo.HTTPError
// @Failure 404 {object} echo.HTTPError
// @Router /api/v1/bookinstances/{id}/renew [post]
func (h *Handler) RenewBook(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := instanceParam(c)
	if err != nil {
		return err
	}

	var body renewBody
	if err := c.Bind(&body); err != nil {
		return err
	}
	var req model.RenewRequest
	if strings.TrimSpace(body.RenewalDate) != "" {
		date, err := model.ParseDate(body.RenewalDate)
		if err != nil {
			form, err := h.catalogSvc.RenewForm(ctx, id)
			if err != nil {
				return h.httpError(err)
			}
			form.Errors = map[string]string{"renewal_date": msgInvalidDate}
			return c.JSON(http.StatusBadRequest, renewFailure{Message: "validation failed", RenewForm: form})
		}
		req.RenewalDate = &date
	}

	form, err := h.catalogSvc.RenewBook(ctx, id, req)
	if err != nil {
		var verr *errs.ValidationError
		if errors.As(err, &verr) {
			form.Errors = verr.Fields
			return c.JSON(http.StatusBadRequest, renewFailure{Message: "validation failed", RenewForm: form})
		}
		return h.httpError(err)
	}
	return c.Redirect(http.StatusSeeOther, apiPrefix+"/borrowed")
}
