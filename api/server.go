// Package api serves the web pages and form handlers.
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/emicklei/go-restful"

	"github.com/ashishtz/carbon-bear-xrpl/account"
	"github.com/ashishtz/carbon-bear-xrpl/claim"
	"github.com/ashishtz/carbon-bear-xrpl/client/types"
	"github.com/ashishtz/carbon-bear-xrpl/exchange"
	"github.com/ashishtz/carbon-bear-xrpl/session"
	"github.com/ashishtz/carbon-bear-xrpl/tx"
)

// Funder creates funded accounts on the ledger.
type Funder interface {
	CreateAccount(ctx context.Context) (*types.Credentials, error)
}

// ServerContext represents contextual information Server needs
type ServerContext struct {
	SM     *session.Manager
	AM     *account.Manager
	EM     *exchange.Manager
	CM     *claim.Manager
	TM     *tx.Manager
	Funder Funder
	// The token traded and claimed.
	Asset types.Issue
	// Limit of the trust lines created for users.
	TrustLimit string
	// Base URL of the ledger explorer linked from pages.
	ExplorerURL string
}

func ValidateServerContext(sc *ServerContext) error {
	if sc == nil {
		return fmt.Errorf("server context is nil")
	}
	if sc.SM == nil || sc.AM == nil || sc.EM == nil || sc.CM == nil || sc.TM == nil {
		return fmt.Errorf("server managers are incomplete")
	}
	if sc.Funder == nil {
		return fmt.Errorf("funder is nil")
	}
	if sc.Asset.IsNative() {
		return fmt.Errorf("asset must be an issued currency")
	}
	if sc.TrustLimit == "" {
		return fmt.Errorf("trust limit is empty")
	}
	return nil
}

// Server holds the page handlers.
type Server struct {
	sm     *session.Manager
	am     *account.Manager
	em     *exchange.Manager
	cm     *claim.Manager
	tm     *tx.Manager
	funder Funder

	asset       types.Issue
	trustLimit  string
	explorerURL string

	pages *pages
}

func NewServer(sc *ServerContext) (*Server, error) {
	if err := ValidateServerContext(sc); err != nil {
		return nil, fmt.Errorf("server context is invalid: %v", err)
	}
	p, err := loadPages()
	if err != nil {
		return nil, err
	}
	return &Server{
		sm:          sc.SM,
		am:          sc.AM,
		em:          sc.EM,
		cm:          sc.CM,
		tm:          sc.TM,
		funder:      sc.Funder,
		asset:       sc.Asset,
		trustLimit:  sc.TrustLimit,
		explorerURL: sc.ExplorerURL,
		pages:       p,
	}, nil
}

// Handler creates the http handler of all the routes.
func (s *Server) Handler() http.Handler {
	ws := new(restful.WebService)
	ws.Path("/").
		Produces("text/html", restful.MIME_JSON)

	ws.Route(ws.GET("/").Filter(s.requireAnonymous).To(s.loginPage))
	ws.Route(ws.POST("/resources/login").To(s.login))
	ws.Route(ws.POST("/resources/create-account").To(s.createAccount))
	ws.Route(ws.GET("/logout").To(s.logout))
	ws.Route(ws.GET("/healthz").To(s.health))

	ws.Route(ws.GET("/marketplace").Filter(s.requireAuthenticated).To(s.marketplace))

	for _, base := range []string{"/products", "/claim"} {
		ws.Route(ws.GET(base).Filter(s.requireAuthenticated).To(s.products))
		ws.Route(ws.GET(base + "/{id}").Filter(s.requireAuthenticated).To(s.product))
		ws.Route(ws.POST(base + "/{id}").Filter(s.requireAuthenticated).To(s.claim))
	}

	ws.Route(ws.GET("/profile").Filter(s.requireAuthenticated).To(s.profile))
	ws.Route(ws.POST("/profile").Filter(s.requireAuthenticated).To(s.profileSell))
	ws.Route(ws.POST("/profile/trust").Filter(s.requireAuthenticated).To(s.profileTrust))

	ws.Route(ws.GET("/sell").Filter(s.requireAuthenticated).To(s.sellPage))
	ws.Route(ws.POST("/sell").Filter(s.requireAuthenticated).To(s.sell))
	ws.Route(ws.GET("/buy").Filter(s.requireAuthenticated).To(s.buyPage))
	ws.Route(ws.POST("/buy").Filter(s.requireAuthenticated).To(s.buy))
	ws.Route(ws.POST("/resources/accept-offer").Filter(s.requireAuthenticated).To(s.acceptOffer))

	container := restful.NewContainer()
	container.Filter(s.logRequest)
	container.Add(ws)

	return container
}

func (s *Server) health(req *restful.Request, resp *restful.Response) {
	resp.WriteHeaderAndJson(http.StatusOK, map[string]string{"status": "ok"}, restful.MIME_JSON)
}
