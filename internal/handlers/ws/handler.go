package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/KirkDiggler/theme-clash/internal/entities"
	"github.com/KirkDiggler/theme-clash/internal/errors"
	"github.com/KirkDiggler/theme-clash/internal/orchestrators/room"
	"github.com/KirkDiggler/theme-clash/internal/protocol"
)

const maxBodyBytes = 1 << 20

// Config holds the dependencies for the transport handler
type Config struct {
	Hub     *Hub
	Service room.Service
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config is required")
	}

	vb := errors.NewValidationBuilder()
	if c.Hub == nil {
		vb.RequiredField("Hub")
	}
	if c.Service == nil {
		vb.RequiredField("Service")
	}
	return vb.Build()
}

// Handler serves room websockets and the HTTP routes around them
type Handler struct {
	hub      *Hub
	service  room.Service
	upgrader websocket.Upgrader
}

// NewHandler creates a transport handler
func NewHandler(cfg *Config) (*Handler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Handler{
		hub:     cfg.Hub,
		service: cfg.Service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Rooms are joined by code from any origin
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}, nil
}

// Router wires every route
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(corsMiddleware)

	r.HandleFunc("/healthz", h.health).Methods(http.MethodGet)
	r.HandleFunc("/rooms", h.createRoom).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/rooms/{roomID}", h.getRoom).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/rooms/{roomID}/cards", h.deliverCards).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/rooms/{roomID}/ws", h.serveWS).Methods(http.MethodGet)

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type createRoomResponse struct {
	RoomID string `json:"roomId"`
}

func (h *Handler) createRoom(w http.ResponseWriter, r *http.Request) {
	out, err := h.service.CreateRoom(r.Context(), &room.CreateRoomInput{})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, createRoomResponse{RoomID: out.RoomID})
}

func (h *Handler) getRoom(w http.ResponseWriter, r *http.Request) {
	out, err := h.service.GetRoom(r.Context(), &room.GetRoomInput{
		RoomID: mux.Vars(r)["roomID"],
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, out.State)
}

// DeliverCardsRequest is the body the card generator posts
type DeliverCardsRequest struct {
	PlayerID string          `json:"playerId"`
	Cards    []entities.Card `json:"cards"`
	IsDraft  bool            `json:"isDraft"`
}

// DeliverCardsResponse answers a card delivery
type DeliverCardsResponse struct {
	Success      bool `json:"success"`
	AllHaveCards bool `json:"allHaveCards"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (h *Handler) deliverCards(w http.ResponseWriter, r *http.Request) {
	var req DeliverCardsRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, errors.WrapWithCode(err, errors.CodeInvalidArgument, "Invalid request body"))
		return
	}

	out, err := h.service.DeliverCards(r.Context(), &room.DeliverCardsInput{
		RoomID:   mux.Vars(r)["roomID"],
		PlayerID: req.PlayerID,
		Cards:    req.Cards,
		IsDraft:  req.IsDraft,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, DeliverCardsResponse{
		Success:      true,
		AllHaveCards: out.AllHaveCards,
	})
}

func (h *Handler) serveWS(w http.ResponseWriter, r *http.Request) {
	roomID := room.NormalizeRoomID(mux.Vars(r)["roomID"])

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed",
			"room_id", roomID,
			"error", err)
		return
	}

	c := newClient(uuid.NewString(), roomID, conn)
	h.hub.register(c)
	go c.writeLoop()

	// The request context ends with this handler, which returns only once
	// the read loop does
	ctx := r.Context()

	if _, err := h.service.Connect(ctx, &room.ConnectInput{RoomID: roomID, ConnID: c.id}); err != nil {
		slog.Debug("rejected websocket connection",
			"room_id", roomID,
			"conn_id", c.id,
			"error", err)
		if data, ok := encode(protocol.NewError(errors.PublicMessage(err))); ok {
			c.enqueue(data)
		}
		h.hub.unregister(c)
		return
	}

	slog.Debug("websocket connected",
		"room_id", roomID,
		"conn_id", c.id)

	c.readLoop(ctx, h.service)

	h.hub.unregister(c)
	if _, err := h.service.Disconnect(context.WithoutCancel(ctx), &room.DisconnectInput{
		RoomID: roomID,
		ConnID: c.id,
	}); err != nil {
		slog.Warn("failed to disconnect",
			"room_id", roomID,
			"conn_id", c.id,
			"error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Debug("failed to write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == errors.CodeInternal || code == errors.CodeUnavailable {
		slog.Error("request failed", "error", err)
	}

	writeJSON(w, code.HTTPStatus(), errorResponse{
		Success: false,
		Error:   errors.PublicMessage(err),
	})
}
