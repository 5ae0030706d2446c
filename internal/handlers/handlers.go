package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/untibullet/issue-activity-report/internal/controller"
	"github.com/untibullet/issue-activity-report/internal/models"
	"github.com/untibullet/issue-activity-report/internal/store"
)

// Коды ошибок для API
const (
	ErrCodeInvalidRange = "INVALID_DATE_RANGE"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeInternal     = "INTERNAL"
)

type Handler struct {
	store    *store.Store
	siteDir  string
	topUsers int
	roster   []string
	logger   *zap.Logger
}

// New создает новый экземпляр обработчика
func New(st *store.Store, siteDir string, topUsers int, roster []string, logger *zap.Logger) *Handler {
	return &Handler{
		store:    st,
		siteDir:  siteDir,
		topUsers: topUsers,
		roster:   roster,
		logger:   logger,
	}
}

// ErrorResponse представляет структуру ошибки API
type ErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// newErrorResponse создает стандартный ответ с ошибкой
func newErrorResponse(code, message string) ErrorResponse {
	var resp ErrorResponse
	resp.Error.Code = code
	resp.Error.Message = message
	return resp
}

// MetadataResponse сведения о загруженном датасете
type MetadataResponse struct {
	Metadata    models.Metadata `json:"metadata"`
	WindowStart models.Date     `json:"window_start"`
	WindowEnd   models.Date     `json:"window_end"`
	Issues      int             `json:"issues"`
	Users       int             `json:"users"`
	Days        int             `json:"days"`
}

// ViewsResponse представления для одного состояния фильтра
type ViewsResponse struct {
	State models.FilterState  `json:"state"`
	Views models.DerivedViews `json:"views"`
}

// Health проверка доступности
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// GetMetadata возвращает сведения о датасете
func (h *Handler) GetMetadata(c echo.Context) error {
	start, end, _ := h.store.Window()
	return c.JSON(http.StatusOK, MetadataResponse{
		Metadata:    h.store.Metadata(),
		WindowStart: start,
		WindowEnd:   end,
		Issues:      len(h.store.Issues()),
		Users:       len(h.store.UserActivity()),
		Days:        len(h.store.DailyActivity()),
	})
}

// GetViews пересчитывает представления для окна из запроса.
// Без start и end используется полный период данных.
func (h *Handler) GetViews(c echo.Context) error {
	start := c.QueryParam("start")
	end := c.QueryParam("end")
	h.logger.Info("GetViews: пересчет представлений", zap.String("start", start), zap.String("end", end))

	subgroupOnly := false
	if raw := c.QueryParam("subgroup"); raw != "" {
		flag, err := strconv.ParseBool(raw)
		if err != nil {
			h.logger.Warn("GetViews: некорректный параметр subgroup", zap.String("subgroup", raw))
			return c.JSON(http.StatusBadRequest, newErrorResponse(ErrCodeBadRequest, "subgroup must be a boolean"))
		}
		subgroupOnly = flag
	}

	ctrl := controller.New(h.store, controller.Discard,
		controller.WithTopUsers(h.topUsers),
		controller.WithRoster(h.roster),
		controller.WithLogger(h.logger))

	if err := ctrl.SetSubgroupOnly(subgroupOnly); err != nil {
		return h.internalError(c, err)
	}

	var err error
	if start == "" && end == "" {
		err = ctrl.Start()
	} else {
		err = ctrl.ApplyDateInputs(start, end)
	}

	var vErr *controller.ValidationError
	if errors.As(err, &vErr) {
		h.logger.Warn("GetViews: окно дат отклонено", zap.Error(err))
		return c.JSON(http.StatusBadRequest, newErrorResponse(ErrCodeInvalidRange, vErr.UserMessage()))
	}
	if err != nil {
		return h.internalError(c, err)
	}

	return c.JSON(http.StatusOK, ViewsResponse{State: ctrl.State(), Views: ctrl.Views()})
}

func (h *Handler) internalError(c echo.Context, err error) error {
	h.logger.Error("GetViews: ошибка пересчета", zap.Error(err))
	return c.JSON(http.StatusInternalServerError, newErrorResponse(ErrCodeInternal, "failed to compute views"))
}

// RegisterRoutes регистрирует API и раздачу статического сайта
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)

	// API
	e.GET("/api/metadata", h.GetMetadata)
	e.GET("/api/views", h.GetViews)

	// Статический сайт отчета
	if h.siteDir != "" {
		e.Static("/", h.siteDir)
	}
}
