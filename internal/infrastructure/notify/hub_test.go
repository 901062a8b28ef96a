package notify

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contaflow/contaflow-api/internal/application/lifecycle"
	"github.com/contaflow/contaflow-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Conexão fake
// ──────────────────────────────────────────────────────────────────────────────

type fakeConn struct {
	readCh     chan struct{}
	closeOnce  sync.Once
	failWrites bool

	writing  int32 // escritores dentro de WriteMessage neste instante
	overlap  int32 // 1 se alguma escrita entrou com outra em andamento
	attempts int32
	writes   int32

	mu   sync.Mutex
	last []byte
}

func newFakeConn() *fakeConn {
	return &fakeConn{readCh: make(chan struct{})}
}

func (f *fakeConn) ReadMessage() (int, []byte, error) {
	<-f.readCh
	return 0, nil, errors.New("conexão fechada")
}

func (f *fakeConn) WriteMessage(_ int, data []byte) error {
	atomic.AddInt32(&f.attempts, 1)
	if atomic.AddInt32(&f.writing, 1) > 1 {
		atomic.StoreInt32(&f.overlap, 1)
	}
	time.Sleep(time.Millisecond) // alarga a janela de corrida
	atomic.AddInt32(&f.writing, -1)
	if f.failWrites {
		return errors.New("broken pipe")
	}
	f.mu.Lock()
	f.last = append([]byte(nil), data...)
	f.mu.Unlock()
	atomic.AddInt32(&f.writes, 1)
	return nil
}

func (f *fakeConn) Close() error {
	f.closeOnce.Do(func() { close(f.readCh) })
	return nil
}

func (f *fakeConn) lastMessage(t *testing.T) map[string]any {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.last)
	var m map[string]any
	require.NoError(t, json.Unmarshal(f.last, &m))
	return m
}

func notification(action string) lifecycle.Notification {
	return lifecycle.Notification{
		Action:             action,
		ObligationID:       "ob-1",
		ClientID:           "c-1",
		ObligationTypeName: "DAS - Simples Nacional",
		NewStatus:          "completed",
	}
}

func attach(t *testing.T, h *Hub, conns ...*fakeConn) {
	t.Helper()
	for _, c := range conns {
		go h.register(c)
	}
	require.Eventually(t, func() bool { return h.count() == len(conns) },
		time.Second, 5*time.Millisecond)
}

// ──────────────────────────────────────────────────────────────────────────────
// Testes
// ──────────────────────────────────────────────────────────────────────────────

func TestNotify_SerializaEscritasNaMesmaConexao(t *testing.T) {
	h := NewHub(logger.Nop())
	c1 := newFakeConn()
	c2 := newFakeConn()
	attach(t, h, c1, c2)

	// Transições simultâneas notificam de goroutines distintas; cada
	// conexão tem de receber todas as mensagens sem escrita sobreposta.
	const callers = 20
	var wg sync.WaitGroup
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func() {
			defer wg.Done()
			assert.NoError(t, h.Notify(context.Background(), notification("completed")))
		}()
	}
	wg.Wait()

	assert.Zero(t, atomic.LoadInt32(&c1.overlap), "escritas concorrentes na mesma conexão")
	assert.Zero(t, atomic.LoadInt32(&c2.overlap), "escritas concorrentes na mesma conexão")
	assert.Equal(t, int32(callers), atomic.LoadInt32(&c1.writes))
	assert.Equal(t, int32(callers), atomic.LoadInt32(&c2.writes))
}

func TestNotify_DescartaConexaoComFalha(t *testing.T) {
	h := NewHub(logger.Nop())
	quebrada := newFakeConn()
	quebrada.failWrites = true
	sa := newFakeConn()
	attach(t, h, quebrada, sa)

	require.NoError(t, h.Notify(context.Background(), notification("completed")))
	require.Eventually(t, func() bool { return h.count() == 1 },
		time.Second, 5*time.Millisecond)

	// A conexão descartada não recebe mais nada; a sã continua.
	require.NoError(t, h.Notify(context.Background(), notification("cancelled")))
	assert.Equal(t, int32(1), atomic.LoadInt32(&quebrada.attempts))
	assert.Equal(t, int32(2), atomic.LoadInt32(&sa.writes))

	msg := sa.lastMessage(t)
	assert.Equal(t, "cancelled", msg["action"])
	assert.Equal(t, "ob-1", msg["obligation_id"])
	assert.NotEmpty(t, msg["sent_at"])
}

func TestRegister_RemoveAoDesconectar(t *testing.T) {
	h := NewHub(logger.Nop())
	c := newFakeConn()
	attach(t, h, c)

	require.NoError(t, c.Close())
	require.Eventually(t, func() bool { return h.count() == 0 },
		time.Second, 5*time.Millisecond)
}
