// Package session keeps authenticated sessions server side and
// binds them to the browser with a signed cookie.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/wunderlist/ttlcache"

	"github.com/ashishtz/carbon-bear-xrpl/db"
	"github.com/ashishtz/carbon-bear-xrpl/log"
)

const (
	CookieName = "carbonbear_session"
	DefaultTTL = 7 * 24 * time.Hour

	cacheTTL = 5 * time.Minute
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
	ErrInvalidToken    = errors.New("invalid session token")
)

// Flash is a one time message shown on the next rendered page.
type Flash struct {
	Kind    string
	Message string
}

// Record is the server side state of a session.
type Record struct {
	ID        string
	AccountID string
	CreatedAt time.Time
	ExpiresAt time.Time
	Flash     []Flash
}

func (r *Record) expired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}

type Config struct {
	// HMAC key of the cookie token.
	Secret []byte
	TTL    time.Duration
	// Send the cookie over https only.
	Secure bool
	// Interval of the expired session reaper.
	ReapInterval time.Duration
}

type Manager struct {
	store  db.Database
	bucket string

	secret       []byte
	ttl          time.Duration
	secure       bool
	reapInterval time.Duration

	// session id to encoded record, "" marks a destroyed session
	cache *ttlcache.Cache
	mu    sync.Mutex

	now func() time.Time
}

type claims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

func NewManager(store db.Database, conf *Config) (*Manager, error) {
	if len(conf.Secret) < 16 {
		return nil, errors.New("session secret must be at least 16 bytes")
	}
	m := &Manager{
		store:        store,
		bucket:       "SESSION",
		secret:       conf.Secret,
		ttl:          conf.TTL,
		secure:       conf.Secure,
		reapInterval: conf.ReapInterval,
		cache:        ttlcache.NewCache(cacheTTL),
		now:          time.Now,
	}
	if m.ttl <= 0 {
		m.ttl = DefaultTTL
	}
	if m.reapInterval <= 0 {
		m.reapInterval = time.Hour
	}
	if err := m.store.NewBucket(m.bucket); err != nil {
		return nil, fmt.Errorf("create session bucket failed: %v", err)
	}
	return m, nil
}

// Create starts a session for the account.
func (m *Manager) Create(accountID string) (*Record, error) {
	now := m.now().UTC()
	rec := &Record{
		ID:        uuid.NewString(),
		AccountID: accountID,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.save(rec); err != nil {
		return nil, err
	}
	log.Infow("session created", "session", rec.ID, "account", accountID)
	return rec, nil
}

// Get loads a live session. Expired sessions are deleted.
func (m *Manager) Get(id string) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.get(id)
}

func (m *Manager) get(id string) (*Record, error) {
	b, err := m.load(id)
	if err != nil {
		return nil, err
	}
	rec := &Record{}
	if err := json.Unmarshal(b, rec); err != nil {
		return nil, fmt.Errorf("decode session failed: %v", err)
	}
	if rec.expired(m.now()) {
		if err := m.destroy(id); err != nil {
			log.Warnf("delete expired session %s failed: %v", id, err)
		}
		return nil, ErrSessionExpired
	}
	return rec, nil
}

func (m *Manager) load(id string) ([]byte, error) {
	if s, ok := m.cache.Get(id); ok {
		if s == "" {
			return nil, ErrSessionNotFound
		}
		return []byte(s), nil
	}
	b, err := m.store.Get(m.bucket, []byte(id))
	if err != nil {
		return nil, fmt.Errorf("load session failed: %v", err)
	}
	if b == nil {
		return nil, ErrSessionNotFound
	}
	m.cache.Set(id, string(b))
	return b, nil
}

func (m *Manager) save(rec *Record) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode session failed: %v", err)
	}
	if err := m.store.Put(m.bucket, []byte(rec.ID), b); err != nil {
		return fmt.Errorf("save session failed: %v", err)
	}
	m.cache.Set(rec.ID, string(b))
	return nil
}

// Destroy ends the session.
func (m *Manager) Destroy(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.destroy(id)
}

func (m *Manager) destroy(id string) error {
	m.cache.Set(id, "")
	if err := m.store.Delete(m.bucket, []byte(id)); err != nil {
		return fmt.Errorf("delete session failed: %v", err)
	}
	return nil
}

// AddFlash queues a message for the next page of the session.
func (m *Manager) AddFlash(id, kind, msg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, err := m.get(id)
	if err != nil {
		return err
	}
	rec.Flash = append(rec.Flash, Flash{Kind: kind, Message: msg})
	return m.save(rec)
}

// PopFlash returns and clears the queued messages.
func (m *Manager) PopFlash(id string) ([]Flash, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, err := m.get(id)
	if err != nil {
		return nil, err
	}
	if len(rec.Flash) == 0 {
		return nil, nil
	}
	flash := rec.Flash
	rec.Flash = nil
	if err := m.save(rec); err != nil {
		return nil, err
	}
	return flash, nil
}

// Issue sets the session cookie carrying a token for rec.
func (m *Manager) Issue(w http.ResponseWriter, rec *Record) error {
	c := claims{
		SessionID: rec.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   rec.AccountID,
			IssuedAt:  jwt.NewNumericDate(rec.CreatedAt),
			ExpiresAt: jwt.NewNumericDate(rec.ExpiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(m.secret)
	if err != nil {
		return fmt.Errorf("sign session token failed: %v", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.ttl / time.Second),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// FromRequest verifies the session cookie of r and loads its session.
func (m *Manager) FromRequest(r *http.Request) (*Record, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil, ErrSessionNotFound
	}
	c := &claims{}
	_, err = jwt.ParseWithClaims(cookie.Value, c, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(m.now))
	if err != nil {
		return nil, ErrInvalidToken
	}
	rec, err := m.Get(c.SessionID)
	if err != nil {
		return nil, err
	}
	if rec.AccountID != c.Subject {
		return nil, ErrInvalidToken
	}
	return rec, nil
}

// Clear removes the session cookie.
func (m *Manager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Start runs the reaper of expired sessions until stop is closed.
func (m *Manager) Start(stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(m.reapInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				n, err := m.Reap()
				if err != nil {
					log.Errorf("reap sessions failed: %v", err)
					continue
				}
				if n > 0 {
					log.Infow("reaped expired sessions", "count", n)
				}
			case <-stop:
				return
			}
		}
	}()
}

// Reap deletes all expired sessions and returns their number.
func (m *Manager) Reap() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	vals, err := m.store.GetAll(m.bucket, nil)
	if err != nil {
		return 0, err
	}
	now := m.now()
	var expired []string
	for _, v := range vals {
		rec := &Record{}
		if err := json.Unmarshal(v, rec); err != nil {
			log.Warnf("skip undecodable session: %v", err)
			continue
		}
		if rec.expired(now) {
			expired = append(expired, rec.ID)
		}
	}
	if len(expired) == 0 {
		return 0, nil
	}

	tx, err := m.store.Begin()
	if err != nil {
		return 0, err
	}
	for _, id := range expired {
		if err := tx.Delete(m.bucket, []byte(id)); err != nil {
			tx.Rollback()
			return 0, err
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	for _, id := range expired {
		m.cache.Set(id, "")
	}
	return len(expired), nil
}
