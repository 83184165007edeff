package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"github.com/Astemirdum/local-library/catalog/internal/errs"
	"github.com/Astemirdum/local-library/catalog/internal/model"
	"github.com/Astemirdum/local-library/pkg/auth"
	md "github.com/Astemirdum/local-library/pkg/middleware"
	"github.com/Astemirdum/local-library/pkg/validate"
	_ "github.com/Astemirdum/local-library/swagger"
)

const apiPrefix = "/api/v1"

type Handler struct {
	catalogSvc CatalogService
	issuer     *auth.Issuer
	log        *zap.Logger
}

func New(catalogSvc CatalogService, issuer *auth.Issuer, log *zap.Logger) *Handler {
	return &Handler{
		catalogSvc: catalogSvc,
		issuer:     issuer,
		log:        log,
	}
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))
	e.JSONSerializer = md.JSONSerializer{}
	e.Validator = validate.NewCustomValidator()

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)
	base.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group(apiPrefix,
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig(h.log)),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
		auth.Authenticate(h.issuer),
	)
	h.register(api)
	return e
}

func (h *Handler) register(api *echo.Group) {
	librarian := auth.PermissionRequired(auth.PermCanMarkReturned)

	api.POST("/login", h.Login)
	api.GET("/", h.Index)

	api.GET("/books", h.ListBooks)
	api.GET("/books/:id", h.GetBook)

	api.GET("/authors", h.ListAuthors, auth.LoginRequired)
	api.GET("/authors/:id", h.GetAuthor)
	api.POST("/authors", h.CreateAuthor, auth.LoginRequired)
	api.PUT("/authors/:id", h.UpdateAuthor, auth.LoginRequired)
	api.DELETE("/authors/:id", h.DeleteAuthor, auth.LoginRequired)

	api.GET("/mybooks", h.ListMyBorrowed, auth.LoginRequired)
	api.GET("/borrowed", h.ListAllBorrowed, librarian)
	api.GET("/bookinstances/:id/renew", h.RenewForm, librarian)
	api.POST("/bookinstances/:id/renew", h.RenewBook, librarian)

	api.GET("/stats", h.GetStats, librarian)
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// pageParam reads the 1-based ?page query value, defaulting to the first page.
func pageParam(c echo.Context) (int, error) {
	pageParam := c.QueryParam("page")
	if pageParam == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(pageParam)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "page is invalid")
	}
	return page, nil
}

// intParam parses a numeric path id; anything else cannot name a record.
func intParam(c echo.Context, name string) (int, error) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusNotFound, errs.ErrNotFound.Error())
	}
	return id, nil
}

func (h *Handler) httpError(err error) error {
	var verr *errs.ValidationError
	switch {
	case errors.Is(err, errs.ErrNotFound), errors.Is(err, errs.ErrInvalidPage):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, errs.ErrInvalidCredentials), errors.Is(err, auth.ErrNoUser):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	case errors.As(err, &verr):
		return echo.NewHTTPError(http.StatusBadRequest, errs.ValidationErrorResponse{
			Message: "validation failed",
			Errors:  verr.Fields,
		})
	}
	h.log.Error("internal", zap.Error(err))
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

// @Summary Obtain a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.AuthRequest true "credentials"
// @Success 200 {object} model.AuthResponse
// @Failure 401 {object} echo.HTTPError
// @Router /api/v1/login [post]
func (h *Handler) Login(c echo.Context) error {
	var req model.AuthRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return validationError(err)
	}
	resp, err := h.catalogSvc.Login(c.Request().Context(), req)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

// validationError renders validator failures as field errors.
func validationError(err error) error {
	fields, ok := validate.FieldErrors(err)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return echo.NewHTTPError(http.StatusBadRequest, errs.ValidationErrorResponse{
		Message: "validation failed",
		Errors:  fields,
	})
}
