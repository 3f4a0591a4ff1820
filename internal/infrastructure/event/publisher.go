package event

import (
	"sync"

	"github.com/rs/zerolog"

	domevent "github.com/jhoicas/Inventario-core/internal/domain/event"
)

var _ domevent.Publisher = (*ChannelPublisher)(nil)

// Handler consume un evento de dominio. Corre en la goroutine del despachador;
// debe ser idempotente (la entrega es al menos una vez).
type Handler func(evt any)

// ChannelPublisher fan-out en proceso: los casos de uso publican tras el commit
// sin bloquearse y una goroutine despacha a los suscriptores. Si el buffer se
// llena el evento se descarta con log (los consumidores pueden reconstruir
// desde el ledger).
type ChannelPublisher struct {
	ch   chan any
	log  zerolog.Logger
	mu   sync.RWMutex
	subs []Handler
	done chan struct{}
}

// NewChannelPublisher construye el publicador y arranca el despachador.
func NewChannelPublisher(buffer int, log zerolog.Logger) *ChannelPublisher {
	if buffer <= 0 {
		buffer = 256
	}
	p := &ChannelPublisher{
		ch:   make(chan any, buffer),
		log:  log,
		done: make(chan struct{}),
	}
	go p.dispatch()
	return p
}

// Subscribe registra un consumidor. Debe llamarse antes de publicar.
func (p *ChannelPublisher) Subscribe(h Handler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subs = append(p.subs, h)
}

// Publish encola el evento sin bloquear al publicador.
func (p *ChannelPublisher) Publish(evt any) {
	select {
	case p.ch <- evt:
	default:
		p.log.Warn().Type("event", evt).Msg("buffer de eventos lleno; evento descartado")
	}
}

// Close detiene el despachador tras drenar lo encolado.
func (p *ChannelPublisher) Close() {
	close(p.ch)
	<-p.done
}

func (p *ChannelPublisher) dispatch() {
	defer close(p.done)
	for evt := range p.ch {
		p.mu.RLock()
		subs := p.subs
		p.mu.RUnlock()
		for _, h := range subs {
			h(evt)
		}
	}
}
