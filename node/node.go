package node

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/ashishtz/carbon-bear-xrpl/account"
	"github.com/ashishtz/carbon-bear-xrpl/api"
	"github.com/ashishtz/carbon-bear-xrpl/claim"
	"github.com/ashishtz/carbon-bear-xrpl/client"
	"github.com/ashishtz/carbon-bear-xrpl/crypto"
	"github.com/ashishtz/carbon-bear-xrpl/db"
	_ "github.com/ashishtz/carbon-bear-xrpl/db/badgerdb"
	_ "github.com/ashishtz/carbon-bear-xrpl/db/boltdb"
	_ "github.com/ashishtz/carbon-bear-xrpl/db/memdb"
	"github.com/ashishtz/carbon-bear-xrpl/exchange"
	"github.com/ashishtz/carbon-bear-xrpl/log"
	"github.com/ashishtz/carbon-bear-xrpl/session"
	"github.com/ashishtz/carbon-bear-xrpl/tx"
)

// LedgerService is the health service name reporting the reachability
// of the ledger.
const LedgerService = "carbonbear.Ledger"

// Node is the central controller of the web application.
type Node struct {
	config   *Config
	database db.Database
	ledger   client.Ledger

	sm *session.Manager
	am *account.Manager
	em *exchange.Manager
	cm *claim.Manager
	tm *tx.Manager

	httpServer *http.Server
	grpcServer *grpc.Server
	health     *health.Server

	httpAddr   net.Addr
	healthAddr net.Addr

	// channel for stopping all the subroutines
	stopChan chan struct{}
	// interval of the ledger health probe
	probeInterval time.Duration
}

// NewNode creates a Node which wires all the managers together.
func NewNode(conf *Config) (*Node, error) {
	database, err := db.Open(conf.DBBackend, conf.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open database failed: %v", err)
	}
	n, err := newNode(conf, database, client.New(conf.LedgerURL, 30*time.Second))
	if err != nil {
		database.Close()
		return nil, err
	}
	return n, nil
}

func newNode(conf *Config, database db.Database, ledger client.Ledger) (*Node, error) {
	asset := conf.Asset()

	issuer, err := crypto.NewWallet(conf.IssuerSeed)
	if err != nil {
		return nil, fmt.Errorf("load issuer wallet failed: %v", err)
	}

	tm, err := tx.NewManager(&tx.ManagerContext{
		Ledger:           ledger,
		Store:            database,
		LastLedgerOffset: conf.LastLedgerOffset,
		SubmitTimeout:    conf.SubmitTimeout,
	})
	if err != nil {
		return nil, err
	}
	am, err := account.NewManager(ledger, asset, 1000)
	if err != nil {
		return nil, err
	}
	em := exchange.NewManager(ledger, asset, conf.OrderBookLimit)

	// claim manager depends on tx and account manager
	cm, err := claim.NewManager(&claim.ManagerContext{
		Store:       database,
		TM:          tm,
		AM:          am,
		Issuer:      issuer,
		Asset:       asset,
		AllowRepeat: conf.AllowRepeatClaims,
	})
	if err != nil {
		return nil, err
	}
	sm, err := session.NewManager(database, &session.Config{
		Secret: []byte(conf.SessionSecret),
		TTL:    conf.SessionTTL,
		Secure: conf.CookieSecure,
	})
	if err != nil {
		return nil, err
	}

	server, err := api.NewServer(&api.ServerContext{
		SM:          sm,
		AM:          am,
		EM:          em,
		CM:          cm,
		TM:          tm,
		Funder:      client.NewFaucet(conf.FaucetURL, ledger),
		Asset:       asset,
		TrustLimit:  conf.TrustLimit,
		ExplorerURL: conf.ExplorerURL,
	})
	if err != nil {
		return nil, err
	}

	node := &Node{
		config:   conf,
		database: database,
		ledger:   ledger,
		sm:       sm,
		am:       am,
		em:       em,
		cm:       cm,
		tm:       tm,
		httpServer: &http.Server{
			Handler:           server.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		},
		grpcServer:    grpc.NewServer(),
		health:        health.NewServer(),
		stopChan:      make(chan struct{}),
		probeInterval: 30 * time.Second,
	}
	healthpb.RegisterHealthServer(node.grpcServer, node.health)

	return node, nil
}

// Start binds the listeners and serves the web pages and the health
// service in the background.
func (n *Node) Start() error {
	hl, err := net.Listen("tcp", n.config.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s failed: %v", n.config.Addr, err)
	}
	n.httpAddr = hl.Addr()

	if n.config.HealthAddr != "" {
		gl, err := net.Listen("tcp", n.config.HealthAddr)
		if err != nil {
			hl.Close()
			return fmt.Errorf("listen on %s failed: %v", n.config.HealthAddr, err)
		}
		n.healthAddr = gl.Addr()
		log.Infof("start to serve gRPC health server on %s", n.healthAddr)
		go func() {
			if err := n.grpcServer.Serve(gl); err != nil {
				log.Errorf("serve gRPC health failed: %v", err)
			}
		}()
	}

	log.Infof("start to serve web server on %s", n.httpAddr)
	go func() {
		if err := n.httpServer.Serve(hl); err != nil && err != http.ErrServerClosed {
			log.Errorf("serve web server failed: %v", err)
		}
	}()

	n.sm.Start(n.stopChan)
	go n.probeLedger()

	n.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	return nil
}

// probeLedger reports the reachability of the ledger to the health
// service until the node stops.
func (n *Node) probeLedger() {
	ticker := time.NewTicker(n.probeInterval)
	defer ticker.Stop()
	for {
		n.checkLedger()
		select {
		case <-ticker.C:
		case <-n.stopChan:
			return
		}
	}
}

func (n *Node) checkLedger() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	status := healthpb.HealthCheckResponse_SERVING
	if _, err := n.ledger.LedgerCurrent(ctx); err != nil {
		log.Warnf("ledger health probe failed: %v", err)
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	n.health.SetServingStatus(LedgerService, status)
}

// Addr returns the bound address of the web server.
func (n *Node) Addr() net.Addr {
	return n.httpAddr
}

// HealthAddr returns the bound address of the health server.
func (n *Node) HealthAddr() net.Addr {
	return n.healthAddr
}

// Stop signals all the goroutines to stop, waits for pending
// submissions and closes the database.
func (n *Node) Stop() {
	close(n.stopChan)
	n.health.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := n.httpServer.Shutdown(ctx); err != nil {
		log.Errorf("shutdown web server failed: %v", err)
	}
	log.Infof("gracefully shutdown gRPC server")
	n.grpcServer.GracefulStop()

	n.tm.Wait()
	if err := n.database.Close(); err != nil {
		log.Errorf("close database failed: %v", err)
	}
}
