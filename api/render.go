package api

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/emicklei/go-restful"

	"github.com/ashishtz/carbon-bear-xrpl/account"
	"github.com/ashishtz/carbon-bear-xrpl/claim"
	"github.com/ashishtz/carbon-bear-xrpl/client/types"
	"github.com/ashishtz/carbon-bear-xrpl/exchange"
	"github.com/ashishtz/carbon-bear-xrpl/log"
	"github.com/ashishtz/carbon-bear-xrpl/session"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{
	"login",
	"marketplace",
	"products",
	"product",
	"profile",
	"buy",
	"sell",
}

type pages struct {
	tmpl map[string]*template.Template
}

func loadPages() (*pages, error) {
	p := &pages{tmpl: make(map[string]*template.Template)}
	for _, name := range pageNames {
		t, err := template.ParseFS(templateFS,
			"templates/layout.html",
			"templates/partials.html",
			"templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s failed: %v", name, err)
		}
		p.tmpl[name] = t
	}
	return p, nil
}

// view is the data every page template renders.
type view struct {
	Title       string
	Account     string
	Flash       []session.Flash
	Errors      fieldErrors
	Values      map[string]string
	ExplorerURL string
	Currency    string

	// login
	RedirectTo  string
	Credentials *types.Credentials

	// products
	Products []*claim.Product
	Product  *claim.Product
	Claimed  map[int]bool

	// profile
	Balances *account.Balances
	OnSale   string
	Claims   []*claim.Record

	// order books
	Offers  []*exchange.Offer
	ForSale string
}

func (s *Server) newView(title string, rec *session.Record) *view {
	v := &view{
		Title:       title,
		Errors:      fieldErrors{},
		Values:      map[string]string{},
		ExplorerURL: s.explorerURL,
		Currency:    s.currencyName(),
	}
	if rec != nil {
		v.Account = rec.AccountID
		flash, err := s.sm.PopFlash(rec.ID)
		if err != nil {
			log.Warnf("pop flash of session %s failed: %v", rec.ID, err)
		}
		v.Flash = flash
	}
	return v
}

func (s *Server) render(resp *restful.Response, status int, name string, v *view) {
	t, ok := s.pages.tmpl[name]
	if !ok {
		log.Errorf("page %s not found", name)
		http.Error(resp, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	resp.Header().Set("Content-Type", "text/html; charset=utf-8")
	resp.WriteHeader(status)
	if err := t.ExecuteTemplate(resp, "layout", v); err != nil {
		log.Errorf("render page %s failed: %v", name, err)
	}
}

// flashRedirect queues a message and redirects after a post.
func (s *Server) flashRedirect(req *restful.Request, resp *restful.Response, kind, msg, target string) {
	if rec := currentSession(req); rec != nil {
		if err := s.sm.AddFlash(rec.ID, kind, msg); err != nil {
			log.Warnf("add flash to session %s failed: %v", rec.ID, err)
		}
	}
	http.Redirect(resp, req.Request, target, http.StatusSeeOther)
}

func (s *Server) currencyName() string {
	return types.CurrencyName(s.asset.Currency)
}
