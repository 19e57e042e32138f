package queue

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"

	"github.com/agreementchain/agreements/internal/services/gateway"
	"github.com/agreementchain/agreements/internal/services/txsend"
	"github.com/agreementchain/agreements/pkg/agreement"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/google/uuid"
)

var ErrClosed = errors.New("queue is closed")

const queueSize = 100

// Message is one call waiting for the signer.
type Message struct {
	ID   string
	Call *gateway.PreparedCall

	ctx  context.Context
	resp chan response
}

type response struct {
	rcpt *types.Receipt
	err  error
}

// Service sends calls one at a time so that concurrent writes never race
// for the same nonce. Failed sends are returned to the caller as is, a write
// is never submitted twice. It implements txsend.Sender.
type Service struct {
	queue     chan *Message
	quit      chan struct{}
	closeOnce sync.Once

	sender txsend.Sender
	wm     agreement.WebhookMessager
}

func NewService(sender txsend.Sender, wm agreement.WebhookMessager) *Service {
	return &Service{
		queue:  make(chan *Message, queueSize),
		quit:   make(chan struct{}),
		sender: sender,
		wm:     wm,
	}
}

func (s *Service) From() common.Address {
	return s.sender.From()
}

// Send enqueues call and waits until it is mined or has failed.
func (s *Service) Send(ctx context.Context, call *gateway.PreparedCall) (*types.Receipt, error) {
	m := &Message{
		ID:   uuid.NewString(),
		Call: call,
		ctx:  ctx,
		resp: make(chan response, 1),
	}

	select {
	case <-s.quit:
		return nil, ErrClosed
	default:
	}

	select {
	case s.queue <- m:
	case <-s.quit:
		return nil, ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case r := <-m.resp:
		return r.rcpt, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *Service) Close() {
	s.closeOnce.Do(func() {
		close(s.quit)
	})
}

// Start processes the queue until Close is called or ctx is done.
func (s *Service) Start(ctx context.Context) error {
	for {
		select {
		case m := <-s.queue:
			s.process(m)
		case <-s.quit:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (s *Service) process(m *Message) {
	if err := m.ctx.Err(); err != nil {
		m.resp <- response{err: err}
		return
	}

	rcpt, err := s.sender.Send(m.ctx, m.Call)
	if err != nil && reportable(err) {
		log.Default().Println("[queue]", m.ID, m.Call.Method, "send failed:", err)
		if s.wm != nil {
			s.wm.NotifyError(m.ctx, err)
		}
	}

	m.resp <- response{rcpt: rcpt, err: err}
}

// reportable leaves out reverts, including those surfaced by gas estimation,
// and cancelled requests.
func reportable(err error) bool {
	if errors.Is(err, txsend.ErrReverted) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	return !strings.Contains(err.Error(), "execution reverted")
}
