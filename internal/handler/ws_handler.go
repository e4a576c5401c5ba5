package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/inkwell-edu/inkwell-backend/internal/middleware"
	"github.com/inkwell-edu/inkwell-backend/internal/service"
	ws "github.com/inkwell-edu/inkwell-backend/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler handles the WebSocket draft autosave stream.
type WSHandler struct {
	submissionService *service.SubmissionService
	log               zerolog.Logger
	upgrader          websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(submissionService *service.SubmissionService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		submissionService: submissionService,
		log:               log.With().Str("component", "ws_handler").Logger(),
		upgrader:          buildUpgrader(allowedOrigins),
	}
}

// DraftStream godoc
// WS /ws/v1/student/exams/:exam_id/draft
// Upgrades to WebSocket for low-latency draft autosave while the student
// types. The REST draft endpoint remains as a fallback.
func (h *WSHandler) DraftStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	examID, err := uuid.Parse(c.Param("exam_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid exam ID"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	userID := claims.UserID

	wsLog := h.log.With().
		Int("user_id", userID).
		Str("exam_id", examID.String()).
		Logger()

	wsLog.Info().Msg("Student connected")

	for {
		var msg ws.DraftRequest
		if err := ws.ReadJSON(conn, &msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			} else {
				wsLog.Debug().Msg("Connection closed")
			}
			break
		}

		switch msg.Action {
		case ws.ActionAutosave:
			h.handleAutosave(c, conn, examID, userID, msg.DraftText)
		case ws.ActionPing:
			ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong})
		default:
			wsLog.Warn().Str("action", string(msg.Action)).Msg("Unknown action")
			ws.WriteError(conn, "unknown action: "+string(msg.Action))
		}
	}
}

// handleAutosave stores the draft revision and queues it for persistence.
func (h *WSHandler) handleAutosave(c *gin.Context, conn *websocket.Conn, examID uuid.UUID, userID int, draftText string) {
	if draftText == "" {
		ws.WriteError(conn, "draft_text is required")
		return
	}

	if err := h.submissionService.SaveDraft(c.Request.Context(), examID, userID, draftText); err != nil {
		switch err {
		case service.ErrExamNotOpen, service.ErrExamClosed:
			ws.WriteError(conn, err.Error())
		default:
			h.log.Error().Err(err).Int("user_id", userID).Msg("Draft autosave failed")
			ws.WriteError(conn, "save failed")
		}
		return
	}

	ws.WriteTyped(conn, ws.DraftSavedResponse{Event: ws.EventSuccess, Status: "saved"})
}
