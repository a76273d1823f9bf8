package handler

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"net/url"

	"geocode-map/internal/geocoder/yandex"
	"geocode-map/internal/i18n"
	"geocode-map/internal/models"
	"geocode-map/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"github.com/rs/zerolog"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

const eventBuffer = 8

// MapSessions is the session registry the map handler works on.
type MapSessions interface {
	Open() *service.MapSession
	Session(id string) (*service.MapSession, error)
}

// MapHandler serves the map page, its sessions and their event streams.
type MapHandler struct {
	sessions  MapSessions
	loc       *i18n.Localizer
	widgetKey string
	log       zerolog.Logger
}

// NewMapHandler creates a new map handler. widgetKey is passed to the map widget script.
func NewMapHandler(sessions MapSessions, loc *i18n.Localizer, widgetKey string, log zerolog.Logger) *MapHandler {
	return &MapHandler{
		sessions:  sessions,
		loc:       loc,
		widgetKey: widgetKey,
		log:       log,
	}
}

type pageData struct {
	Lang         string
	Title        string
	WidgetScript string
	SessionID    string
	Map          models.MapState
	Panel        models.Panel
}

// Page handles GET / requests: every page load mounts a new session.
func (h *MapHandler) Page(c *gin.Context) {
	session := h.sessions.Open()

	c.Render(http.StatusOK, render.HTML{
		Template: templates,
		Name:     "page.html",
		Data: pageData{
			Lang:         h.loc.Tag().String(),
			Title:        h.loc.Sprintf(i18n.MsgTitle),
			WidgetScript: h.widgetScript(),
			SessionID:    session.ID(),
			Map:          session.Render(),
			Panel:        service.BuildPanel(session.View(), h.loc),
		},
	})
}

// OpenSession godoc
// @Summary      Open a map session
// @Tags         sessions
// @Produce      json
// @Success      201  {object}  SessionResponse
// @Router       /api/sessions [post]
func (h *MapHandler) OpenSession(c *gin.Context) {
	session := h.sessions.Open()
	c.JSON(http.StatusCreated, h.describe(session))
}

// GetSession godoc
// @Summary      Get the state of a map session
// @Tags         sessions
// @Produce      json
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  SessionResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /api/sessions/{id} [get]
func (h *MapHandler) GetSession(c *gin.Context) {
	session, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.describe(session))
}

// Click godoc
// @Summary      Click a point on the map
// @Description  Moves the marker and starts an asynchronous reverse geocode of the point.
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        id    path      string        true  "Session ID"
// @Param        body  body      ClickRequest  true  "Clicked point"
// @Success      202   {object}  ClickResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /api/sessions/{id}/clicks [post]
func (h *MapHandler) Click(c *gin.Context) {
	session, ok := h.lookup(c)
	if !ok {
		return
	}

	var req ClickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "body must contain numeric 'lat' and 'lon'"})
		return
	}

	coord := models.Coordinate{Lat: *req.Lat, Lon: *req.Lon}
	if err := coord.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "coordinates out of range"})
		return
	}

	seq, _ := session.Click(coord)
	c.JSON(http.StatusAccepted, ClickResponse{
		Seq:             seq,
		SessionResponse: h.describe(session),
	})
}

// Panel godoc
// @Summary      Render the address panel
// @Tags         sessions
// @Produce      html
// @Param        id   path      string  true  "Session ID"
// @Success      200  {string}  string
// @Failure      404  {object}  ErrorResponse
// @Router       /api/sessions/{id}/panel [get]
func (h *MapHandler) Panel(c *gin.Context) {
	session, ok := h.lookup(c)
	if !ok {
		return
	}

	c.Render(http.StatusOK, render.HTML{
		Template: templates,
		Name:     "panel.html",
		Data:     service.BuildPanel(session.View(), h.loc),
	})
}

// Events godoc
// @Summary      Stream view state changes
// @Description  Server-sent events named "view", one per state change, starting with the current state.
// @Tags         sessions
// @Produce      text/event-stream
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  ViewEvent
// @Failure      404  {object}  ErrorResponse
// @Router       /api/sessions/{id}/events [get]
func (h *MapHandler) Events(c *gin.Context) {
	session, ok := h.lookup(c)
	if !ok {
		return
	}

	updates, unsubscribe := session.Subscribe(eventBuffer)
	defer unsubscribe()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	log := h.log.With().Str("session", session.ID()).Logger()
	log.Debug().Msg("event stream connected")

	clientGone := c.Request.Context().Done()
	for {
		select {
		case <-clientGone:
			log.Debug().Msg("event stream disconnected")
			return
		case view, ok := <-updates:
			if !ok {
				return
			}
			c.SSEvent("view", h.viewEvent(session, view))
			c.Writer.Flush()
		}
	}
}

func (h *MapHandler) lookup(c *gin.Context) (*service.MapSession, bool) {
	session, err := h.sessions.Session(c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return nil, false
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return nil, false
	}
	return session, true
}

func (h *MapHandler) describe(session *service.MapSession) SessionResponse {
	view := session.View()
	event := h.viewEvent(session, view)
	return SessionResponse{
		ID:    session.ID(),
		Map:   event.Map,
		View:  event.View,
		Panel: event.Panel,
	}
}

// viewEvent derives the map from the same snapshot as the panel, so both show the same click.
func (h *MapHandler) viewEvent(session *service.MapSession, view models.ViewState) ViewEvent {
	state := session.Render()
	state.Marker = view.Coordinates
	return ViewEvent{
		Map:   state,
		View:  view,
		Panel: service.BuildPanel(view, h.loc),
	}
}

func (h *MapHandler) widgetScript() string {
	q := url.Values{}
	q.Set("lang", h.loc.YandexLang())
	if h.widgetKey != "" {
		q.Set("apikey", h.widgetKey)
	}
	return yandex.WidgetScript + "?" + q.Encode()
}
