package api

import (
	"net/http"

	"github.com/emicklei/go-restful"

	"github.com/ashishtz/carbon-bear-xrpl/crypto"
	"github.com/ashishtz/carbon-bear-xrpl/log"
	"github.com/ashishtz/carbon-bear-xrpl/tx/op"
)

func (s *Server) loginPage(req *restful.Request, resp *restful.Response) {
	v := s.newView("Login", nil)
	v.RedirectTo = safeRedirect(req.QueryParameter("redirectTo"), "")
	s.render(resp, http.StatusOK, "login", v)
}

func (s *Server) login(req *restful.Request, resp *restful.Response) {
	f := parseLoginForm(req.Request)
	v := s.newView("Login", nil)
	v.RedirectTo = safeRedirect(f.RedirectTo, "")
	v.Values["accountId"] = f.AccountID

	if v.Errors = f.validate(); v.Errors.any() {
		s.render(resp, http.StatusBadRequest, "login", v)
		return
	}

	ok, err := s.am.Exists(req.Request.Context(), f.AccountID)
	if err != nil {
		log.Errorw("lookup login account failed", "account", f.AccountID, "err", err)
		v.Errors[formError] = "Something went wrong. Please try again later"
		s.render(resp, http.StatusInternalServerError, "login", v)
		return
	}
	if !ok {
		v.Errors["accountId"] = "Invalid Account provided"
		s.render(resp, http.StatusBadRequest, "login", v)
		return
	}

	rec, err := s.sm.Create(f.AccountID)
	if err != nil {
		log.Errorw("create session failed", "account", f.AccountID, "err", err)
		v.Errors[formError] = "Something went wrong. Please try again later"
		s.render(resp, http.StatusInternalServerError, "login", v)
		return
	}
	if err := s.sm.Issue(resp.ResponseWriter, rec); err != nil {
		log.Errorw("issue session cookie failed", "session", rec.ID, "err", err)
		v.Errors[formError] = "Something went wrong. Please try again later"
		s.render(resp, http.StatusInternalServerError, "login", v)
		return
	}
	target := safeRedirect(f.RedirectTo, "/marketplace")
	http.Redirect(resp, req.Request, target, http.StatusSeeOther)
}

// createAccount funds a fresh account and makes it trust the token.
func (s *Server) createAccount(req *restful.Request, resp *restful.Response) {
	ctx := req.Request.Context()
	v := s.newView("Login", nil)

	cred, err := s.funder.CreateAccount(ctx)
	if err != nil {
		log.Errorw("create account failed", "err", err)
		v.Errors[formError] = "Something went wrong. Can not create an account at the moment."
		s.render(resp, http.StatusInternalServerError, "login", v)
		return
	}
	v.Credentials = cred

	w, err := crypto.NewWallet(cred.Seed)
	if err != nil {
		log.Errorw("load new account wallet failed", "account", cred.Address, "err", err)
		v.Errors[formError] = "Account was created but the trust line could not be set."
		s.render(resp, http.StatusOK, "login", v)
		return
	}
	trust := &op.Trust{Account: w.Address(), Asset: s.asset, Limit: s.trustLimit}
	t, err := trust.Build()
	if err == nil {
		_, err = s.tm.SubmitAndWait(ctx, w, t)
	}
	if err != nil {
		log.Errorw("set trust line of new account failed", "account", cred.Address, "err", err)
		v.Errors[formError] = "Account was created but the trust line could not be set."
	}
	s.render(resp, http.StatusOK, "login", v)
}

func (s *Server) logout(req *restful.Request, resp *restful.Response) {
	if rec, err := s.sm.FromRequest(req.Request); err == nil {
		if err := s.sm.Destroy(rec.ID); err != nil {
			log.Warnf("destroy session %s failed: %v", rec.ID, err)
		}
	}
	s.sm.Clear(resp.ResponseWriter)
	http.Redirect(resp, req.Request, "/", http.StatusFound)
}
