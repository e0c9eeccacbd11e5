package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"ehsaudit/interfaces/web/presenters"
	"ehsaudit/logging"
)

const (
	keepAliveInterval = 30 * time.Second
	staleAfter        = 2 * time.Minute
)

// SSEClient represents a connected Server-Sent Events client.
type SSEClient struct {
	id        string
	sessionID string
	writer    http.ResponseWriter
	flusher   http.Flusher
	done      chan struct{}

	writeMu  sync.Mutex
	lastSent time.Time
}

// SSEManager manages Server-Sent Events connections and pushes register
// updates. Clients may subscribe to one review session or to all of them.
type SSEManager struct {
	clients        map[string]*SSEClient
	mu             sync.RWMutex
	logger         *logging.Logger
	toastPresenter *presenters.ToastPresenter
	now            func() time.Time
}

// NewSSEManager creates a new SSE connection manager. The keep-alive routine
// stops when ctx is cancelled.
func NewSSEManager(ctx context.Context) *SSEManager {
	manager := &SSEManager{
		clients:        make(map[string]*SSEClient),
		logger:         logging.Default().WithComponent("sse_manager"),
		toastPresenter: presenters.NewToastPresenter(),
		now:            time.Now,
	}

	go manager.cleanupRoutine(ctx)

	return manager
}

// AddClient registers a connection. An empty sessionID subscribes to every session.
func (s *SSEManager) AddClient(clientID, sessionID string, w http.ResponseWriter) *SSEClient {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	flusher, ok := w.(http.Flusher)
	if !ok {
		s.logger.Error("Response writer does not support flushing")
		return nil
	}
	flusher.Flush()

	client := &SSEClient{
		id:        clientID,
		sessionID: sessionID,
		writer:    w,
		flusher:   flusher,
		done:      make(chan struct{}),
		lastSent:  s.now(),
	}

	s.mu.Lock()
	s.clients[clientID] = client
	total := len(s.clients)
	s.mu.Unlock()

	s.logger.Info("SSE client connected", "client_id", clientID, "session_id", sessionID, "total_clients", total)

	s.sendToClient(client, "connected", fmt.Sprintf("Connected client %s", clientID))

	return client
}

// RemoveClient removes an SSE client connection
func (s *SSEManager) RemoveClient(clientID string) {
	s.mu.Lock()
	client, exists := s.clients[clientID]
	if exists {
		delete(s.clients, clientID)
	}
	s.mu.Unlock()

	if exists {
		closeOnce(client)
		s.logger.Info("SSE client disconnected", "client_id", clientID)
	}
}

// CloseAll disconnects every client. Used on shutdown.
func (s *SSEManager) CloseAll() {
	s.mu.Lock()
	clients := s.clients
	s.clients = make(map[string]*SSEClient)
	s.mu.Unlock()

	for _, client := range clients {
		closeOnce(client)
	}
	s.logger.Info("Closed all SSE clients", "count", len(clients))
}

// ClientCount returns the number of connected clients.
func (s *SSEManager) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// BroadcastFindingUpdate pushes a finding snapshot to subscribers of its session
func (s *SSEManager) BroadcastFindingUpdate(sessionID, findingID string, data string) {
	event := fmt.Sprintf("finding:%s:updated", findingID)
	s.broadcast(sessionID, event, data)
}

// BroadcastRegisterUpdate tells subscribers of a session to reload the register
func (s *SSEManager) BroadcastRegisterUpdate(sessionID string) {
	message := `{"action": "refresh", "session_id": "` + sessionID + `", "timestamp": "` + s.now().Format(time.RFC3339) + `"}`
	s.broadcast(sessionID, "register-updated", message)
}

// BroadcastToast broadcasts a toast notification to all connected clients
func (s *SSEManager) BroadcastToast(message, toastType string) {
	toastHTML, err := s.toastPresenter.FormatToastNotification(message, toastType)
	if err != nil {
		s.logger.Error("Failed to format toast notification", "error", err, "message", message)
		return
	}
	s.broadcast("", "toast", toastHTML)
}

// broadcast sends an event to clients subscribed to sessionID, or to all
// clients when sessionID is empty. Clients that fail are dropped.
func (s *SSEManager) broadcast(sessionID, event, data string) {
	s.mu.RLock()
	targets := make([]*SSEClient, 0, len(s.clients))
	for _, client := range s.clients {
		if sessionID == "" || client.sessionID == "" || client.sessionID == sessionID {
			targets = append(targets, client)
		}
	}
	s.mu.RUnlock()

	if len(targets) == 0 {
		s.logger.Debug("No SSE clients subscribed, skipping broadcast", "event", event, "session_id", sessionID)
		return
	}

	failedClients := []string{}
	for _, client := range targets {
		if err := s.sendToClient(client, event, data); err != nil {
			s.logger.Warn("Failed to send event to client", "client_id", client.id, "event", event, "error", err)
			failedClients = append(failedClients, client.id)
		}
	}

	for _, clientID := range failedClients {
		s.RemoveClient(clientID)
	}

	s.logger.Debug("Broadcasted event",
		"event", event,
		"session_id", sessionID,
		"total_clients", len(targets),
		"failed", len(failedClients))
}

// sendToClient sends an SSE message to a specific client
func (s *SSEManager) sendToClient(client *SSEClient, event, data string) error {
	var message string
	if event == "keepalive" || event == "connected" {
		// Comments keep the connection open without triggering client handlers
		message = fmt.Sprintf(": %s\n\n", data)
	} else {
		message = fmt.Sprintf("event: %s\ndata: %s\n\n", event, strings.ReplaceAll(data, "\n", "\ndata: "))
	}

	client.writeMu.Lock()
	defer client.writeMu.Unlock()

	select {
	case <-client.done:
		return fmt.Errorf("client connection closed")
	default:
	}

	if _, err := client.writer.Write([]byte(message)); err != nil {
		return fmt.Errorf("write error: %w", err)
	}
	client.flusher.Flush()
	client.lastSent = s.now()

	return nil
}

// SendKeepAlive sends keep-alive messages to all clients
func (s *SSEManager) SendKeepAlive() {
	s.mu.RLock()
	clientList := make([]*SSEClient, 0, len(s.clients))
	for _, client := range s.clients {
		clientList = append(clientList, client)
	}
	s.mu.RUnlock()

	for _, client := range clientList {
		if err := s.sendToClient(client, "keepalive", s.now().Format(time.RFC3339)); err != nil {
			s.logger.Debug("Keep-alive failed, removing client", "client_id", client.id)
			s.RemoveClient(client.id)
		}
	}
}

// removeStale drops clients that have not received anything since threshold.
func (s *SSEManager) removeStale(threshold time.Time) {
	s.mu.RLock()
	staleClients := []string{}
	for clientID, client := range s.clients {
		client.writeMu.Lock()
		stale := client.lastSent.Before(threshold)
		client.writeMu.Unlock()
		if stale {
			staleClients = append(staleClients, clientID)
		}
	}
	s.mu.RUnlock()

	for _, clientID := range staleClients {
		s.logger.Info("Removing stale SSE client", "client_id", clientID)
		s.RemoveClient(clientID)
	}
}

// cleanupRoutine periodically sends keep-alives and drops stale connections
func (s *SSEManager) cleanupRoutine(ctx context.Context) {
	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.SendKeepAlive()
			s.removeStale(s.now().Add(-staleAfter))
		}
	}
}

// HandleSSEConnection handles the SSE endpoint. ?session_id= limits the
// stream to one review session.
func (s *SSEManager) HandleSSEConnection(w http.ResponseWriter, r *http.Request) {
	clientID := r.URL.Query().Get("client_id")
	if clientID == "" {
		clientID = "client_" + uuid.NewString()
	}
	sessionID := r.URL.Query().Get("session_id")

	client := s.AddClient(clientID, sessionID, w)
	if client == nil {
		s.logger.Error("Failed to establish SSE connection", "client_id", clientID)
		http.Error(w, "Failed to establish SSE connection", http.StatusInternalServerError)
		return
	}

	select {
	case <-r.Context().Done():
		s.logger.Info("SSE client context cancelled", "client_id", clientID)
	case <-client.done:
		s.logger.Info("SSE client connection closed", "client_id", clientID)
	}
	s.RemoveClient(clientID)
}

// closeOnce marks the client closed. It waits for an in-flight write, so
// nothing is written after the handler returns.
func closeOnce(client *SSEClient) {
	client.writeMu.Lock()
	defer client.writeMu.Unlock()

	select {
	case <-client.done:
	default:
		close(client.done)
	}
}
