package app

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/agreementchain/agreements/internal/config"
	"github.com/agreementchain/agreements/internal/metrics"
	"github.com/agreementchain/agreements/internal/services/gateway"
	"github.com/agreementchain/agreements/internal/services/txsend"
	"github.com/agreementchain/agreements/pkg/actions"
	"github.com/agreementchain/agreements/pkg/agreement"
	"github.com/agreementchain/agreements/pkg/feedback"
	"github.com/agreementchain/agreements/pkg/queue"
	"github.com/agreementchain/agreements/pkg/views"
	"github.com/agreementchain/agreements/pkg/watch"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var ErrNoApp = errors.New("no app in context")

// App holds everything a handler or a command needs. It is built once at
// startup and passed by reference.
type App struct {
	ChainID *big.Int
	Config  *config.Config

	EVM       agreement.EVMRequester
	Factory   *gateway.Factory
	Watcher   *watch.Watcher
	Tracker   *feedback.Tracker
	Actions   *actions.Actions
	Views     *views.Views
	Directory *views.Directory

	// Queue serializes writes through the signer. Nil without SIGNER_KEY.
	Queue *queue.Service

	Metrics  *metrics.Metrics
	Registry *prometheus.Registry
}

// Options are the optional collaborators of an App.
type Options struct {
	Store    watch.Store
	Messager agreement.WebhookMessager
}

func New(ctx context.Context, conf *config.Config, evm agreement.EVMRequester, opts Options) (*App, error) {
	id, err := chainID(ctx, conf, evm)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	factory, err := gateway.NewFactory(evm, conf.Factory())
	if err != nil {
		return nil, err
	}

	w, err := watch.New(evm, watch.Config{
		Factory: conf.Factory(),
		Window:  conf.EventWindow,
		Rate:    conf.FilterRate,
	}, opts.Store, opts.Messager, m)
	if err != nil {
		return nil, err
	}

	var sender txsend.Sender
	var q *queue.Service
	if conf.SignerKey != "" {
		ks, err := txsend.NewKeyedSender(evm, id, conf.SignerKey)
		if err != nil {
			return nil, fmt.Errorf("signer: %w", err)
		}

		q = queue.NewService(ks, opts.Messager)
		go q.Start(ctx)
		sender = q
	}

	tracker := feedback.NewTracker(w, m)
	dir := views.NewDirectory()

	return &App{
		ChainID:   id,
		Config:    conf,
		EVM:       evm,
		Factory:   factory,
		Watcher:   w,
		Tracker:   tracker,
		Actions:   actions.New(evm, factory, sender, tracker, w),
		Views:     views.New(evm, factory, w, dir, m),
		Directory: dir,
		Queue:     q,
		Metrics:   m,
		Registry:  reg,
	}, nil
}

// Close stops the send queue and the node connection.
func (a *App) Close() {
	if a.Queue != nil {
		a.Queue.Close()
	}
	if a.EVM != nil {
		a.EVM.Close()
	}
}

func chainID(ctx context.Context, conf *config.Config, evm agreement.EVMReader) (*big.Int, error) {
	if conf.ChainID > 0 {
		return big.NewInt(conf.ChainID), nil
	}

	id, err := evm.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("chain id: %w", err)
	}

	return id, nil
}

type contextKey struct{}

func WithContext(ctx context.Context, a *App) context.Context {
	return context.WithValue(ctx, contextKey{}, a)
}

func FromContext(ctx context.Context) (*App, error) {
	a, ok := ctx.Value(contextKey{}).(*App)
	if !ok || a == nil {
		return nil, ErrNoApp
	}

	return a, nil
}
