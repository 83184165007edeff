package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Astemirdum/local-library/catalog/internal/model"
)

const (
	sessionCookie    = "sessionid"
	sessionCookieAge = 14 * 24 * time.Hour
)

// sessionID returns the caller's session id, minting a cookie on first visit.
func sessionID(c echo.Context) string {
	if ck, err := c.Cookie(sessionCookie); err == nil && ck.Value != "" {
		return ck.Value
	}
	id := uuid.NewString()
	c.SetCookie(&http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int(sessionCookieAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// @Summary Catalog summary with the session visit counter
// @Tags catalog
// @Produce json
// @Success 200 {object} model.Index
// @Router /api/v1/ [get]
func (h *Handler) Index(c echo.Context) error {
	idx, err := h.catalogSvc.Index(c.Request().Context(), sessionID(c))
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, idx)
}

// @Summary List books
// @Tags books
// @Produce json
// @Param page query int false "page, 1-based"
// @Success 200 {object} model.ListBooks
// @Failure 404 {object} echo.HTTPError
// @Router /api/v1/books [get]
func (h *Handler) ListBooks(c echo.Context) error {
	page, err := pageParam(c)
	if err != nil {
		return err
	}
	books, err := h.catalogSvc.ListBooks(c.Request().Context(), page)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, books)
}

// @Summary Book detail
// @Tags books
// @Produce json
// @Param id path int true "book id"
// @Success 200 {object} model.BookDetail
// @Failure 404 {object} echo.HTTPError
// @Router /api/v1/books/{id} [get]
func (h *Handler) GetBook(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}
	book, err := h.catalogSvc.GetBook(c.Request().Context(), id)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, book)
}

// @Summary List authors
// @Tags authors
// @Produce json
// @Security Bearer
// @Param page query int false "page, 1-based"
// @Success 200 {object} model.ListAuthors
// @Router /api/v1/authors [get]
func (h *Handler) ListAuthors(c echo.Context) error {
	page, err := pageParam(c)
	if err != nil {
		return err
	}
	authors, err := h.catalogSvc.ListAuthors(c.Request().Context(), page)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, authors)
}

// @Summary Author detail
// @Tags authors
// @Produce json
// @Param id path int true "author id"
// @Success 200 {object} model.AuthorDetail
// @Failure 404 {object} echo.HTTPError
// @Router /api/v1/authors/{id} [get]
func (h *Handler) GetAuthor(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}
	author, err := h.catalogSvc.GetAuthor(c.Request().Context(), id)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, author)
}

func (h *Handler) bindAuthor(c echo.Context) (model.AuthorRequest, error) {
	var req model.AuthorRequest
	if err := c.Bind(&req); err != nil {
		return model.AuthorRequest{}, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return model.AuthorRequest{}, validationError(err)
	}
	return req, nil
}

func authorURL(id int) string {
	return fmt.Sprintf("%s/authors/%d", apiPrefix, id)
}

// @Summary Create an author
// @Tags authors
// @Accept json,x-www-form-urlencoded
// @Security Bearer
// @Param request body model.AuthorRequest true "author"
// @Success 303
// @Failure 400 {object} errs.ValidationErrorResponse
// @Router /api/v1/authors [post]
func (h *Handler) CreateAuthor(c echo.Context) error {
	req, err := h.bindAuthor(c)
	if err != nil {
		return err
	}
	author, err := h.catalogSvc.CreateAuthor(c.Request().Context(), req)
	if err != nil {
		return h.httpError(err)
	}
	return c.Redirect(http.StatusSeeOther, authorURL(author.ID))
}

// @Summary Update an author
// @Tags authors
// @Accept json,x-www-form-urlencoded
// @Security Bearer
// @Param id path int true "author id"
// @Param request body model.AuthorRequest true "author"
// @Success 303
// @Failure 400 {object} errs.ValidationErrorResponse
// @Failure 404 {object} echo.HTTPError
// @Router /api/v1/authors/{id} [put]
func (h *Handler) UpdateAuthor(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}
	req, err := h.bindAuthor(c)
	if err != nil {
		return err
	}
	author, err := h.catalogSvc.UpdateAuthor(c.Request().Context(), id, req)
	if err != nil {
		return h.httpError(err)
	}
	return c.Redirect(http.StatusSeeOther, authorURL(author.ID))
}

// @Summary Delete an author; their books are kept without an author
// @Tags authors
// @Security Bearer
// @Param id path int true "author id"
// @Success 303
// @Failure 404 {object} echo.HTTPError
// @Router /api/v1/authors/{id} [delete]
func (h *Handler) DeleteAuthor(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.catalogSvc.DeleteAuthor(c.Request().Context(), id); err != nil {
		return h.httpError(err)
	}
	return c.Redirect(http.StatusSeeOther, apiPrefix+"/authors")
}
