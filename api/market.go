package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/emicklei/go-restful"
	"golang.org/x/sync/errgroup"

	"github.com/ashishtz/carbon-bear-xrpl/crypto"
	"github.com/ashishtz/carbon-bear-xrpl/exchange"
	"github.com/ashishtz/carbon-bear-xrpl/log"
	"github.com/ashishtz/carbon-bear-xrpl/session"
	"github.com/ashishtz/carbon-bear-xrpl/tx/op"
	"github.com/ashishtz/carbon-bear-xrpl/util"
)

const (
	msgCreateOfferFailed = "Something went wrong while Creating an offer. Please try again later"
	msgAcceptOfferFailed = "Something went wrong while Accepting an offer. Please try again later"
	msgTrustFailed       = "Something went wrong while Creating a trust line. Please try again later"
	msgLoadFailed        = "Could not load the ledger data. Please try again later"
	msgInvalidOffer      = "The offer amounts are not valid"
)

var marketPages = map[string]string{
	"/profile": "Profile",
	"/sell":    "Sell",
	"/buy":     "Buy",
}

// pageView loads the data of the profile, sell or buy page. Ledger
// failures are reported on the page instead of failing it.
func (s *Server) pageView(ctx context.Context, page string, rec *session.Record) *view {
	v := s.newView(marketPages["/"+page], rec)
	v.Values["action"] = "/" + page
	v.Values["back"] = "/" + page

	var book *exchange.Book
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		book, err = s.em.OrderBook(gctx, rec.AccountID)
		return err
	})
	if page == "profile" {
		g.Go(func() error {
			var err error
			v.Balances, err = s.am.Balances(gctx, rec.AccountID)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		log.Warnw("load page data failed", "page", page, "account", rec.AccountID, "err", err)
		v.Errors["load"] = msgLoadFailed
		return v
	}

	switch page {
	case "profile":
		v.OnSale = util.FormatRat(book.TokensOnSale(rec.AccountID), 6)
		claims, err := s.cm.Claims(rec.AccountID)
		if err != nil {
			log.Warnw("load claims failed", "account", rec.AccountID, "err", err)
		}
		v.Claims = claims
	case "sell":
		v.Offers = book.Bids
	case "buy":
		v.Offers = book.Asks
		v.ForSale = util.FormatRat(book.TokensForSale(), 6)
	}
	return v
}

// renderForm re-renders page with the submitted values and errors.
func (s *Server) renderForm(req *restful.Request, resp *restful.Response, status int, page string, values map[string]string, errs fieldErrors) {
	v := s.pageView(req.Request.Context(), page, currentSession(req))
	for k, msg := range errs {
		v.Errors[k] = msg
	}
	for k, val := range values {
		v.Values[k] = val
	}
	s.render(resp, status, page, v)
}

func (s *Server) profile(req *restful.Request, resp *restful.Response) {
	s.render(resp, http.StatusOK, "profile", s.pageView(req.Request.Context(), "profile", currentSession(req)))
}

func (s *Server) sellPage(req *restful.Request, resp *restful.Response) {
	s.render(resp, http.StatusOK, "sell", s.pageView(req.Request.Context(), "sell", currentSession(req)))
}

func (s *Server) buyPage(req *restful.Request, resp *restful.Response) {
	s.render(resp, http.StatusOK, "buy", s.pageView(req.Request.Context(), "buy", currentSession(req)))
}

// wallet checks that seed controls the logged in account.
func (s *Server) wallet(req *restful.Request, seed string) (*crypto.Wallet, fieldErrors) {
	w, err := crypto.ValidateWallet(seed, currentSession(req).AccountID)
	if err != nil {
		return nil, fieldErrors{"seed": "Invalid seed provided"}
	}
	return w, nil
}

// placeOffer signs and submits the offer built by o.
func (s *Server) placeOffer(ctx context.Context, w *crypto.Wallet, o op.Op) error {
	t, err := o.Build()
	if err != nil {
		return err
	}
	_, err = s.tm.SubmitAndWait(ctx, w, t)
	return err
}

func (s *Server) profileSell(req *restful.Request, resp *restful.Response) {
	s.sellOn(req, resp, "profile")
}

func (s *Server) sell(req *restful.Request, resp *restful.Response) {
	s.sellOn(req, resp, "sell")
}

func (s *Server) sellOn(req *restful.Request, resp *restful.Response, page string) {
	f := parseSellForm(req.Request)
	if errs := f.validate(); errs.any() {
		s.renderForm(req, resp, http.StatusBadRequest, page, f.values(), errs)
		return
	}
	w, errs := s.wallet(req, f.Seed)
	if errs.any() {
		s.renderForm(req, resp, http.StatusBadRequest, page, f.values(), errs)
		return
	}
	o, err := op.SellOffer(w.Address(), s.asset, f.Amount, f.XRP)
	if err != nil {
		s.renderForm(req, resp, http.StatusBadRequest, page, f.values(), fieldErrors{formError: msgInvalidOffer})
		return
	}
	if err := s.placeOffer(req.Request.Context(), w, o); err != nil {
		log.Errorw("create sell offer failed", "account", w.Address(), "amount", f.Amount, "xrp", f.XRP, "err", err)
		s.renderForm(req, resp, http.StatusInternalServerError, page, f.values(), fieldErrors{formError: msgCreateOfferFailed})
		return
	}
	s.flashRedirect(req, resp, "success", "Your sell offer has been created", "/"+page)
}

func (s *Server) buy(req *restful.Request, resp *restful.Response) {
	f := parseBuyForm(req.Request)
	if errs := f.validate(); errs.any() {
		s.renderForm(req, resp, http.StatusBadRequest, "buy", f.values(), errs)
		return
	}
	w, errs := s.wallet(req, f.Seed)
	if errs.any() {
		s.renderForm(req, resp, http.StatusBadRequest, "buy", f.values(), errs)
		return
	}
	o, err := op.BuyOffer(w.Address(), s.asset, f.XRP, f.Bear)
	if err != nil {
		s.renderForm(req, resp, http.StatusBadRequest, "buy", f.values(), fieldErrors{formError: msgInvalidOffer})
		return
	}
	if err := s.placeOffer(req.Request.Context(), w, o); err != nil {
		log.Errorw("create buy offer failed", "account", w.Address(), "xrp", f.XRP, "bear", f.Bear, "err", err)
		s.renderForm(req, resp, http.StatusInternalServerError, "buy", f.values(), fieldErrors{formError: msgCreateOfferFailed})
		return
	}
	s.flashRedirect(req, resp, "success", "Your buy offer has been created", "/buy")
}

func (s *Server) profileTrust(req *restful.Request, resp *restful.Response) {
	f := parseTrustForm(req.Request)
	if errs := f.validate(); errs.any() {
		s.renderForm(req, resp, http.StatusBadRequest, "profile", nil, errs)
		return
	}
	w, errs := s.wallet(req, f.Seed)
	if errs.any() {
		s.renderForm(req, resp, http.StatusBadRequest, "profile", nil, errs)
		return
	}
	ctx := req.Request.Context()
	ok, err := s.am.HasTrustLine(ctx, w.Address())
	if err == nil && ok {
		s.flashRedirect(req, resp, "info", "Your account already trusts "+s.currencyName(), "/profile")
		return
	}
	trust := &op.Trust{Account: w.Address(), Asset: s.asset, Limit: s.trustLimit}
	if err := s.placeOffer(ctx, w, trust); err != nil {
		log.Errorw("create trust line failed", "account", w.Address(), "err", err)
		s.renderForm(req, resp, http.StatusInternalServerError, "profile", nil, fieldErrors{formError: msgTrustFailed})
		return
	}
	s.flashRedirect(req, resp, "success", "Your account now trusts "+s.currencyName(), "/profile")
}

// pageOf maps a local path back to the market page it renders.
func pageOf(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if _, ok := marketPages[path]; ok {
		return path[1:]
	}
	return "buy"
}

// acceptErrors moves the seed error of the accept form to the form
// level, the page may have its own seed field.
func acceptErrors(errs fieldErrors) fieldErrors {
	if msg, ok := errs["seed"]; ok {
		delete(errs, "seed")
		if _, set := errs[formError]; !set {
			errs[formError] = msg
		}
	}
	return errs
}

// acceptOffer crosses an offer of another account.
func (s *Server) acceptOffer(req *restful.Request, resp *restful.Response) {
	f, errs := parseAcceptForm(req.Request)
	page := pageOf(f.Back)
	if errs.any() {
		s.renderForm(req, resp, http.StatusBadRequest, page, nil, acceptErrors(errs))
		return
	}
	w, errs := s.wallet(req, f.Seed)
	if errs.any() {
		s.renderForm(req, resp, http.StatusBadRequest, page, nil, acceptErrors(errs))
		return
	}

	ctx := req.Request.Context()
	book, err := s.em.OrderBook(ctx, w.Address())
	if err != nil {
		log.Errorw("load order book failed", "err", err)
		s.renderForm(req, resp, http.StatusInternalServerError, page, nil, fieldErrors{formError: msgAcceptOfferFailed})
		return
	}
	offer, ok := book.Find(f.Owner, f.Sequence)
	if !ok {
		s.renderForm(req, resp, http.StatusBadRequest, page, nil, fieldErrors{formError: "The offer is no longer available"})
		return
	}

	accept := &op.Accept{Account: w.Address(), Offer: offer}
	if err := s.placeOffer(ctx, w, accept); err != nil {
		if errors.Is(err, op.ErrOwnOffer) {
			s.renderForm(req, resp, http.StatusBadRequest, page, nil, fieldErrors{formError: "You can not accept your own offer"})
			return
		}
		log.Errorw("accept offer failed", "account", w.Address(), "owner", f.Owner, "sequence", f.Sequence, "err", err)
		s.renderForm(req, resp, http.StatusInternalServerError, page, nil, fieldErrors{formError: msgAcceptOfferFailed})
		return
	}
	s.flashRedirect(req, resp, "success", "The offer has been accepted", f.Back)
}
