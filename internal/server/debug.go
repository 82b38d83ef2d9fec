package server

import (
	"combat-meter/internal/network"
	"encoding/json"
	"net/http"
)

// DebugHandler отдает то, что уже опубликовано. Живое состояние трекеров принадлежит
// циклу диспетчеризации и отсюда не читается.
type DebugHandler struct {
	Hub *network.Broadcaster
}

func NewDebugHandler(hub *network.Broadcaster) *DebugHandler {
	return &DebugHandler{Hub: hub}
}

// RegisterRoutes регистрирует debug-эндпоинты
func (h *DebugHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/debug/encounter", h.handleEncounter)
	mux.HandleFunc("/debug/subscribers", h.handleSubscribers)
}

// /debug/encounter - последний опубликованный снимок
func (h *DebugHandler) handleEncounter(w http.ResponseWriter, r *http.Request) {
	last, ok := h.Hub.LastSnapshot()
	if !ok {
		http.Error(w, "No encounter published yet", http.StatusNotFound)
		return
	}
	writeJSON(w, last)
}

// /debug/subscribers - количество подключенных клиентов
func (h *DebugHandler) handleSubscribers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]int{"subscribers": h.Hub.SubscriberCount()})
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	// Разрешаем запросы с любого источника (нужно для локального debug-клиента)
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	w.Header().Set("Content-Type", "application/json")

	if data == nil {
		w.Write([]byte("{}"))
		return
	}

	json.NewEncoder(w).Encode(data)
}
