package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/emicklei/go-restful"

	"github.com/ashishtz/carbon-bear-xrpl/claim"
	"github.com/ashishtz/carbon-bear-xrpl/log"
	"github.com/ashishtz/carbon-bear-xrpl/session"
)

func (s *Server) marketplace(req *restful.Request, resp *restful.Response) {
	v := s.newView("Marketplace", currentSession(req))
	s.render(resp, http.StatusOK, "marketplace", v)
}

// listPath returns /products or /claim for a product route.
func listPath(req *restful.Request) string {
	p := req.Request.URL.Path
	if i := strings.Index(p[1:], "/"); i >= 0 {
		return p[:i+1]
	}
	return p
}

// claimedSet returns the product ids claimed by the account.
func (s *Server) claimedSet(account string) map[int]bool {
	set, err := s.cm.ClaimedProducts(account)
	if err != nil {
		log.Warnw("load claimed products failed", "account", account, "err", err)
		return nil
	}
	claimed := make(map[int]bool, set.Cardinality())
	for id := range set.Iter() {
		claimed[id.(int)] = true
	}
	return claimed
}

func (s *Server) products(req *restful.Request, resp *restful.Response) {
	rec := currentSession(req)
	v := s.newView("Products", rec)
	v.Products = claim.Products()
	v.Claimed = s.claimedSet(rec.AccountID)
	v.Values["base"] = listPath(req)
	s.render(resp, http.StatusOK, "products", v)
}

func (s *Server) productView(req *restful.Request, rec *session.Record, p *claim.Product) *view {
	v := s.newView(p.Name, rec)
	v.Product = p
	v.Claimed = s.claimedSet(rec.AccountID)
	v.Values["base"] = listPath(req)
	return v
}

func (s *Server) product(req *restful.Request, resp *restful.Response) {
	p, ok := claim.Find(req.PathParameter("id"))
	if !ok {
		http.Redirect(resp, req.Request, listPath(req), http.StatusFound)
		return
	}
	s.render(resp, http.StatusOK, "product", s.productView(req, currentSession(req), p))
}

// claim pays out the carbon tokens of a purchased product.
func (s *Server) claim(req *restful.Request, resp *restful.Response) {
	p, ok := claim.Find(req.PathParameter("id"))
	if !ok {
		http.Redirect(resp, req.Request, listPath(req), http.StatusSeeOther)
		return
	}
	rec := currentSession(req)

	_, err := s.cm.Claim(req.Request.Context(), rec.AccountID, p)
	if err != nil {
		v := s.productView(req, rec, p)
		switch {
		case errors.Is(err, claim.ErrAlreadyClaimed):
			v.Errors[formError] = "You have already claimed this purchase."
			s.render(resp, http.StatusBadRequest, "product", v)
		case errors.Is(err, claim.ErrNoTrustLine):
			v.Errors[formError] = fmt.Sprintf("Your account does not trust %s yet. Set up the trust line from your profile.", v.Currency)
			s.render(resp, http.StatusBadRequest, "product", v)
		default:
			log.Errorw("claim purchase failed", "account", rec.AccountID, "product", p.ID, "err", err)
			v.Errors[formError] = "Something went wrong. Can not make transaction at the moment."
			s.render(resp, http.StatusInternalServerError, "product", v)
		}
		return
	}

	msg := fmt.Sprintf("Your purchase claim is passed. You have received %d Carbon Bear tokens", p.Carbon)
	s.flashRedirect(req, resp, "success", msg, req.Request.URL.Path)
}
