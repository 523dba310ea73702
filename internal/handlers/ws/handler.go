package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/KirkDiggler/bingo/internal/auth"
	"github.com/KirkDiggler/bingo/internal/common/uuid"
	"github.com/KirkDiggler/bingo/internal/models"
	"github.com/KirkDiggler/bingo/internal/services/game"
	"github.com/KirkDiggler/bingo/internal/services/messaging"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const actionTimeout = 5 * time.Second

// TokenIssuer signs and verifies room tokens
type TokenIssuer interface {
	Issue(roomID, playerID, name string) (string, error)
	Parse(token string) (*auth.Claims, error)
}

// Config holds configuration for the HTTP and websocket handler
type Config struct {
	GameService   game.Service
	TokenIssuer   TokenIssuer
	Hub           *Hub
	Messaging     messaging.Service
	UUIDGenerator uuid.UUID
	Logger        logrus.FieldLogger
}

// Handler serves the room API and the player websocket
type Handler struct {
	gameService   game.Service
	tokens        TokenIssuer
	hub           *Hub
	messaging     messaging.Service
	uuidGenerator uuid.UUID
	log           logrus.FieldLogger
	upgrader      websocket.Upgrader
}

// New creates a new handler
func New(cfg *Config) (*Handler, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.GameService == nil {
		return nil, ErrNilGameService
	}
	if cfg.TokenIssuer == nil {
		return nil, ErrNilTokenIssuer
	}
	if cfg.Hub == nil {
		return nil, ErrNilHub
	}
	if cfg.Messaging == nil {
		return nil, ErrNilMessaging
	}
	if cfg.UUIDGenerator == nil {
		return nil, ErrNilUUIDGenerator
	}

	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Handler{
		gameService:   cfg.GameService,
		tokens:        cfg.TokenIssuer,
		hub:           cfg.Hub,
		messaging:     cfg.Messaging,
		uuidGenerator: cfg.UUIDGenerator,
		log:           log.WithField("component", "http"),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins for game clients
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}, nil
}

// Routes returns the router for the whole HTTP surface
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.logRequests)

	r.Get("/healthz", h.healthz)
	r.Get("/ws", h.serveWS)

	r.Route("/api/rooms", func(r chi.Router) {
		r.Get("/", h.listRooms)
		r.Post("/", h.createRoom)
		r.Get("/{code}", h.getRoom)
		r.Post("/{code}/join", h.joinRoom)
	})

	return r
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		h.log.WithFields(logrus.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"duration":   time.Since(start),
			"request_id": middleware.GetReqID(r.Context()),
		}).Debug("request")
	})
}

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) createRoom(w http.ResponseWriter, r *http.Request) {
	var req CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, game.ErrInvalidInput)
		return
	}

	playerID := h.uuidGenerator.NewUUID()
	output, err := h.gameService.CreateGame(r.Context(), &game.CreateGameInput{
		HostID:        playerID,
		HostName:      strings.TrimSpace(req.Name),
		HostAvatar:    req.Avatar,
		Title:         req.Title,
		MaxPlayers:    req.MaxPlayers,
		SkillsEnabled: req.SkillsEnabled,
		BotsEnabled:   req.BotsEnabled,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeSeat(w, r, http.StatusCreated, output.Game, playerID)
}

func (h *Handler) joinRoom(w http.ResponseWriter, r *http.Request) {
	var req JoinRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, game.ErrInvalidInput)
		return
	}

	playerID := h.uuidGenerator.NewUUID()
	if req.Token != "" {
		claims, err := h.tokens.Parse(req.Token)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		playerID = claims.PlayerID()
	}

	output, err := h.gameService.JoinGame(r.Context(), &game.JoinGameInput{
		Code:       strings.ToUpper(chi.URLParam(r, "code")),
		PlayerID:   playerID,
		PlayerName: strings.TrimSpace(req.Name),
		Avatar:     req.Avatar,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeSeat(w, r, http.StatusOK, output.Game, playerID)
}

func (h *Handler) writeSeat(w http.ResponseWriter, r *http.Request, status int, g *models.Game, playerID string) {
	player, _ := g.Player(playerID)
	token, err := h.tokens.Issue(g.ID, playerID, player.Name)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, status, &RoomResponse{
		Game:     newSnapshot(g, playerID),
		PlayerID: playerID,
		Token:    token,
	})
}

func (h *Handler) getRoom(w http.ResponseWriter, r *http.Request) {
	output, err := h.gameService.GetGame(r.Context(), &game.GetGameInput{
		Code: strings.ToUpper(chi.URLParam(r, "code")),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, &RoomResponse{Game: newSnapshot(output.Game, "")})
}

func (h *Handler) listRooms(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	output, err := h.gameService.ListOpenGames(r.Context(), &game.ListOpenGamesInput{Limit: limit})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	rooms := make([]*Snapshot, 0, len(output.Games))
	for _, g := range output.Games {
		rooms = append(rooms, newSnapshot(g, ""))
	}
	writeJSON(w, http.StatusOK, map[string]any{"rooms": rooms})
}

func (h *Handler) serveWS(w http.ResponseWriter, r *http.Request) {
	claims, err := h.tokens.Parse(r.URL.Query().Get("token"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	output, err := h.gameService.GetGame(r.Context(), &game.GetGameInput{GameID: claims.RoomID})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if _, ok := output.Game.Player(claims.PlayerID()); !ok {
		h.writeError(w, r, errNotSeated)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Debug("ws upgrade failed")
		return
	}

	c := newClient(conn, h.log, claims.RoomID, claims.PlayerID())
	h.hub.register(c)
	defer h.hub.unregister(c)

	c.enqueue(&ServerMessage{
		Type:  MsgState,
		State: newSnapshot(output.Game, c.playerID),
	})

	go c.writePump()
	c.readPump(h.dispatch)
}

// dispatch turns a client message into a game intent for the socket's player
func (h *Handler) dispatch(c *client, msg *ClientMessage) {
	ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
	defer cancel()

	var (
		g   *models.Game
		err error
	)
	switch msg.Type {
	case MsgDraw:
		var out *game.DrawNumberOutput
		if out, err = h.gameService.DrawNumber(ctx, &game.DrawNumberInput{GameID: c.gameID, PlayerID: c.playerID}); err == nil {
			g = out.Game
		}
	case MsgClaim:
		var out *game.ClaimBingoOutput
		if out, err = h.gameService.ClaimBingo(ctx, &game.ClaimBingoInput{GameID: c.gameID, PlayerID: c.playerID}); err == nil {
			g = out.Game
		}
	case MsgUseSkill:
		var out *game.UseSkillOutput
		if out, err = h.gameService.UseSkill(ctx, &game.UseSkillInput{
			GameID:   c.gameID,
			PlayerID: c.playerID,
			Skill:    models.SkillType(msg.Skill),
			TargetID: msg.TargetID,
		}); err == nil {
			g = out.Game
		}
	case MsgSkipSkill:
		var out *game.SkipSkillOutput
		if out, err = h.gameService.SkipSkill(ctx, &game.SkipSkillInput{GameID: c.gameID, PlayerID: c.playerID}); err == nil {
			g = out.Game
		}
	case MsgStart:
		var out *game.StartGameOutput
		if out, err = h.gameService.StartGame(ctx, &game.StartGameInput{GameID: c.gameID, PlayerID: c.playerID}); err == nil {
			g = out.Game
		}
	case MsgKick:
		var out *game.KickPlayerOutput
		if out, err = h.gameService.KickPlayer(ctx, &game.KickPlayerInput{
			GameID:   c.gameID,
			PlayerID: c.playerID,
			TargetID: msg.TargetID,
		}); err == nil {
			g = out.Game
		}
	case MsgLeave:
		if _, err = h.gameService.LeaveGame(ctx, &game.LeaveGameInput{GameID: c.gameID, PlayerID: c.playerID}); err == nil {
			c.enqueue(&ServerMessage{Type: MsgState, RequestID: msg.RequestID})
			c.close()
			return
		}
	case MsgSync:
		var out *game.GetGameOutput
		if out, err = h.gameService.GetGame(ctx, &game.GetGameInput{GameID: c.gameID}); err == nil {
			g = out.Game
		}
	default:
		h.sendError(ctx, c, msg.RequestID, messaging.CodeInvalidInput, nil)
		return
	}

	if err != nil {
		h.sendError(ctx, c, msg.RequestID, messaging.CodeFor(err), err)
		return
	}

	c.enqueue(&ServerMessage{
		Type:      MsgState,
		State:     newSnapshot(g, c.playerID),
		RequestID: msg.RequestID,
	})
}

func (h *Handler) sendError(ctx context.Context, c *client, requestID string, code messaging.ErrorCode, err error) {
	if code == messaging.CodeInternal {
		c.log.WithError(err).Error("action failed")
	}

	text, msgErr := h.messaging.GetErrorMessage(ctx, &messaging.GetErrorMessageInput{Code: code})
	message := string(code)
	if msgErr == nil {
		message = text.Message
	}

	c.enqueue(&ServerMessage{
		Type:      MsgError,
		Error:     &ErrorDTO{Code: code, Message: message},
		RequestID: requestID,
	})
}

var errNotSeated = errors.New("player is not seated in this room")

// writeError maps a failure to a status code and a flavour message
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := codeForRequest(err)
	if code == messaging.CodeInternal {
		h.log.WithError(err).WithField("path", r.URL.Path).Error("request failed")
	}

	message := string(code)
	text, msgErr := h.messaging.GetErrorMessage(r.Context(), &messaging.GetErrorMessageInput{Code: code})
	if msgErr == nil {
		message = text.Message
	}

	writeJSON(w, statusFor(code), map[string]*ErrorDTO{
		"error": {Code: code, Message: message},
	})
}

func codeForRequest(err error) messaging.ErrorCode {
	var authErr auth.AuthError
	switch {
	case errors.As(err, &authErr):
		return messaging.CodeUnauthorized
	case errors.Is(err, errNotSeated):
		return messaging.CodeNotInGame
	}
	return messaging.CodeFor(err)
}

func statusFor(code messaging.ErrorCode) int {
	switch code {
	case messaging.CodeNotFound:
		return http.StatusNotFound
	case messaging.CodeInvalidInput:
		return http.StatusBadRequest
	case messaging.CodeUnauthorized:
		return http.StatusUnauthorized
	case messaging.CodeNotHost, messaging.CodeNotInGame:
		return http.StatusForbidden
	case messaging.CodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusConflict
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
