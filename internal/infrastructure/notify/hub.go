package notify

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"

	"github.com/contaflow/contaflow-api/internal/application/lifecycle"
	"github.com/contaflow/contaflow-api/pkg/logger"
)

// conn é a superfície da conexão websocket que o hub usa.
type conn interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// session embrulha uma conexão com o lock de escrita. O protocolo
// proíbe WriteMessage concorrente na mesma conexão; transições
// simultâneas notificam de goroutines distintas, então cada escrita
// passa pelo lock da sessão.
type session struct {
	c  conn
	mu sync.Mutex
}

func (s *session) write(payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.WriteMessage(websocket.TextMessage, payload)
}

// Hub mantém as conexões websocket abertas e repassa notificações
// de mudança de estado das obrigações. Entrega é melhor esforço:
// conexão lenta ou fechada é descartada, nunca bloqueia o Processor.
type Hub struct {
	mu       sync.RWMutex
	sessions map[conn]*session
	log      *logger.Logger
}

var _ lifecycle.Notifier = (*Hub)(nil)

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		sessions: make(map[conn]*session),
		log:      log,
	}
}

// Register prende a goroutine da conexão até o cliente desconectar.
// Mensagens recebidas são ignoradas; o canal é só de saída.
func (h *Hub) Register(c *websocket.Conn) {
	h.register(c)
}

func (h *Hub) register(c conn) {
	h.mu.Lock()
	h.sessions[c] = &session{c: c}
	total := len(h.sessions)
	h.mu.Unlock()

	h.log.Debug().Int("connections", total).Msg("websocket conectado")

	defer h.remove(c)
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) remove(c conn) {
	h.mu.Lock()
	delete(h.sessions, c)
	h.mu.Unlock()
	_ = c.Close()
}

func (h *Hub) count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

type wsMessage struct {
	Action             string     `json:"action"`
	ObligationID       string     `json:"obligation_id"`
	ClientID           string     `json:"client_id"`
	ObligationTypeName string     `json:"obligation_type_name"`
	NewStatus          string     `json:"new_status"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
	SentAt             time.Time  `json:"sent_at"`
}

// Notify transmite o evento a todas as conexões ativas.
func (h *Hub) Notify(_ context.Context, n lifecycle.Notification) error {
	payload, err := json.Marshal(wsMessage{
		Action:             n.Action,
		ObligationID:       n.ObligationID,
		ClientID:           n.ClientID,
		ObligationTypeName: n.ObligationTypeName,
		NewStatus:          n.NewStatus,
		CompletedAt:        n.CompletedAt,
		SentAt:             time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	h.mu.RLock()
	sessions := make([]*session, 0, len(h.sessions))
	for _, s := range h.sessions {
		sessions = append(sessions, s)
	}
	h.mu.RUnlock()

	for _, s := range sessions {
		if err := s.write(payload); err != nil {
			h.log.Debug().Err(err).Msg("conexão websocket descartada")
			h.remove(s.c)
		}
	}
	return nil
}
