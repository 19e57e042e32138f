package main

import (
	"context"
	"flag"
	"log"
	"math/big"
	"os/signal"
	"syscall"
	"time"

	"github.com/agreementchain/agreements/internal/app"
	"github.com/agreementchain/agreements/internal/config"
	"github.com/agreementchain/agreements/internal/services/db"
	"github.com/agreementchain/agreements/internal/services/ethrequest"
	"github.com/agreementchain/agreements/internal/services/webhook"
	"github.com/agreementchain/agreements/pkg/router"
	"github.com/getsentry/sentry-go"
)

func main() {
	log.Default().Println("launching agreements service...")

	env := flag.String("env", "", "path to .env file")

	port := flag.Int("port", 0, "port to listen on (default: PORT)")

	sync := flag.Int("sync", 0, "seconds between polls (default: SYNC_RATE)")

	ws := flag.Bool("ws", false, "enable websocket")

	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	conf, err := config.New(ctx, *env)
	if err != nil {
		log.Fatal(err)
	}

	if *port == 0 {
		*port = conf.Port
	}
	if *sync == 0 {
		*sync = conf.SyncRate
	}

	if conf.SentryURL != "" {
		err = sentry.Init(sentry.ClientOptions{
			Dsn:              conf.SentryURL,
			TracesSampleRate: 1.0,
		})
		if err != nil {
			log.Fatalf("sentry.Init: %s", err)
		}
		// Flush buffered events before the program terminates.
		defer sentry.Flush(2 * time.Second)
	}

	log.Default().Println("connecting to rpc...")

	rpcUrl := conf.RPCURL
	if *ws {
		log.Default().Println("running in websocket mode...")
		rpcUrl = conf.RPCWSURL
	} else {
		log.Default().Println("running in standard http mode...")
	}

	evm, err := ethrequest.NewEthService(ctx, rpcUrl)
	if err != nil {
		log.Fatal(err)
	}

	log.Default().Println("fetching chain id...")

	chid := big.NewInt(conf.ChainID)
	if conf.ChainID == 0 {
		chid, err = evm.ChainID(ctx)
		if err != nil {
			log.Fatal(err)
		}
		conf.ChainID = chid.Int64()
	}

	log.Default().Println("node running for chain: ", chid.String())

	opts := app.Options{
		Messager: webhook.NewMessager(conf.DiscordURL, "agreements-"+chid.String()),
	}

	if conf.DBURL != "" {
		log.Default().Println("starting event archive...")

		d, err := db.NewDB(ctx, chid, conf.DBURL)
		if err != nil {
			log.Fatal(err)
		}
		defer d.Close()

		opts.Store = d.EventDB
	}

	a, err := app.New(ctx, conf, evm, opts)
	if err != nil {
		log.Fatal(err)
	}
	defer a.Close()

	if !a.Actions.CanSubmit() {
		log.Default().Println("no SIGNER_KEY, writes return prepared calls")
	}

	quitAck := make(chan error)

	log.Default().Println("starting watcher...")

	go func() {
		quitAck <- a.Watcher.Background(ctx, *sync)
	}()

	log.Default().Println("starting api service...")

	api := router.NewServer(a)

	go func() {
		quitAck <- api.Start(*port)
	}()

	log.Default().Println("listening on port: ", *port)

	for err := range quitAck {
		if ctx.Err() != nil {
			log.Default().Println("shutting down...")
			return
		}
		if err != nil {
			log.Fatal(err)
		}
	}
}
