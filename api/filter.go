package api

import (
	"net/http"
	"net/url"
	"time"

	"github.com/emicklei/go-restful"
	"github.com/google/uuid"

	"github.com/ashishtz/carbon-bear-xrpl/log"
	"github.com/ashishtz/carbon-bear-xrpl/session"
)

const sessionAttr = "session"

func (s *Server) logRequest(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
	start := time.Now()
	id := uuid.NewString()
	resp.Header().Set("X-Request-Id", id)
	chain.ProcessFilter(req, resp)
	log.Infow("http request",
		"id", id,
		"method", req.Request.Method,
		"path", req.Request.URL.Path,
		"status", resp.StatusCode(),
		"latency", time.Since(start))
}

// requireAuthenticated lets requests with a live session through and
// sends the others to the login page.
func (s *Server) requireAuthenticated(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
	rec, err := s.sm.FromRequest(req.Request)
	if err != nil {
		if err != session.ErrSessionNotFound {
			s.sm.Clear(resp.ResponseWriter)
		}
		target := "/?redirectTo=" + url.QueryEscape(req.Request.URL.RequestURI())
		http.Redirect(resp, req.Request, target, http.StatusFound)
		return
	}
	req.SetAttribute(sessionAttr, rec)
	chain.ProcessFilter(req, resp)
}

// requireAnonymous sends logged in users to the marketplace.
func (s *Server) requireAnonymous(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
	if _, err := s.sm.FromRequest(req.Request); err == nil {
		http.Redirect(resp, req.Request, "/marketplace", http.StatusFound)
		return
	}
	chain.ProcessFilter(req, resp)
}

// currentSession returns the session set by requireAuthenticated.
func currentSession(req *restful.Request) *session.Record {
	rec, _ := req.Attribute(sessionAttr).(*session.Record)
	return rec
}

// safeRedirect returns target when it is a local path and
// fallback otherwise.
func safeRedirect(target, fallback string) string {
	if target == "" || target[0] != '/' {
		return fallback
	}
	if len(target) > 1 && (target[1] == '/' || target[1] == '\\') {
		return fallback
	}
	u, err := url.Parse(target)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return fallback
	}
	return target
}
