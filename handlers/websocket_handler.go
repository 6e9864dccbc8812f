package handlers

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/Dosada05/padel-club/realtime"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// В продакшене здесь должна быть проверка Origin,
		// чтобы разрешать подключения только с доверенных доменов.
		return true
	},
}

type WebSocketHandler struct {
	hub *realtime.Hub
}

func NewWebSocketHandler(hub *realtime.Hub) *WebSocketHandler {
	return &WebSocketHandler{
		hub: hub,
	}
}

// ServeCourtWs подписывает клиента на обновления расписания корта.
// Клиент подключается к /ws/courts/{courtID}.
func (h *WebSocketHandler) ServeCourtWs(w http.ResponseWriter, r *http.Request) {
	courtIDStr := chi.URLParam(r, "courtID")
	if courtIDStr == "" {
		http.Error(w, "Missing courtID", http.StatusBadRequest)
		return
	}
	h.serveRoom(w, r, "court_"+courtIDStr)
}

// ServeTournamentWs подписывает клиента на события турнира (статусы,
// таблица). Клиент подключается к /ws/tournaments/{tournamentID}.
func (h *WebSocketHandler) ServeTournamentWs(w http.ResponseWriter, r *http.Request) {
	tournamentIDStr := chi.URLParam(r, "tournamentID")
	if tournamentIDStr == "" {
		http.Error(w, "Missing tournamentID", http.StatusBadRequest)
		return
	}
	h.serveRoom(w, r, "tournament_"+tournamentIDStr)
}

func (h *WebSocketHandler) serveRoom(w http.ResponseWriter, r *http.Request, roomID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// upgrader.Upgrade сам отправляет HTTP ошибку клиенту.
		log.Printf("Failed to upgrade connection for room %s: %v", roomID, err)
		return
	}

	client := &realtime.Client{
		Hub:  h.hub,
		Conn: conn,
		Send: make(chan []byte, 256),
		Room: roomID,
	}
	client.Hub.Register <- client

	go client.WritePump()
	go client.ReadPump()

	log.Printf("Client registered and pumps started for room %s.", roomID)
}
