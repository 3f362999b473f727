package model

import (
	"errors"
	"strings"
	"sync"

	"startime/config"
	"startime/storage"
)

// Store is the persisted key-value space the state containers live in
type Store interface {
	Get(namespace, key string) (string, error)
	Set(namespace, key, value string) error
	Delete(namespace, key string) error
	GetJSON(namespace, key string, v any) error
	SetJSON(namespace, key string, v any) error
	DeviceID() (string, error)
}

// Sealer protects the cached session token at rest
type Sealer interface {
	Seal(secret string) (string, error)
	Open(stored string) (string, error)
}

// Breadcrumb is the navigation trail shown in the header
type Breadcrumb struct {
	store Store

	mu   sync.RWMutex
	path []string
}

const breadcrumbKey = "path"

// LoadBreadcrumb restores the last trail. A nil store keeps it in memory only.
func LoadBreadcrumb(store Store) *Breadcrumb {
	b := &Breadcrumb{store: store}
	if store == nil {
		return b
	}

	var path []string
	err := store.GetJSON(storage.NamespaceBreadcrumb, breadcrumbKey, &path)
	if err != nil && !errors.Is(err, storage.ErrNotFound) && config.DebugLog != nil {
		config.DebugLog.Printf("[Breadcrumb] restore failed: %v", err)
	}
	b.path = path
	return b
}

func (b *Breadcrumb) Path() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]string(nil), b.path...)
}

// Set replaces the whole trail
func (b *Breadcrumb) Set(path ...string) {
	b.mu.Lock()
	b.path = append([]string(nil), path...)
	b.mu.Unlock()
	b.persist()
}

func (b *Breadcrumb) Push(segment string) {
	b.mu.Lock()
	b.path = append(b.path, segment)
	b.mu.Unlock()
	b.persist()
}

// Pop removes the last segment
func (b *Breadcrumb) Pop() (string, bool) {
	b.mu.Lock()
	if len(b.path) == 0 {
		b.mu.Unlock()
		return "", false
	}
	last := b.path[len(b.path)-1]
	b.path = b.path[:len(b.path)-1]
	b.mu.Unlock()

	b.persist()
	return last, true
}

// Rename replaces the last segment, used once a conversation gets its name
func (b *Breadcrumb) Rename(segment string) {
	b.mu.Lock()
	if len(b.path) == 0 {
		b.path = []string{segment}
	} else {
		b.path[len(b.path)-1] = segment
	}
	b.mu.Unlock()
	b.persist()
}

func (b *Breadcrumb) String() string {
	return strings.Join(b.Path(), " › ")
}

func (b *Breadcrumb) persist() {
	if b.store == nil {
		return
	}
	if err := b.store.SetJSON(storage.NamespaceBreadcrumb, breadcrumbKey, b.Path()); err != nil && config.DebugLog != nil {
		config.DebugLog.Printf("[Breadcrumb] persist failed: %v", err)
	}
}

// User is the signed-in profile
type User struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

// Label is what the header shows for the user
func (u User) Label() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

type userRecord struct {
	User  User   `json:"user"`
	Token string `json:"token"` // sealed
}

const userKey = "session"

// UserStore caches the authenticated user and backend session token
type UserStore struct {
	store  Store
	sealer Sealer

	mu            sync.RWMutex
	user          User
	token         string
	authenticated bool
}

// LoadUserStore restores the cached session. A record that cannot be
// unsealed (key changed, file tampered) is dropped and the user signs in again.
func LoadUserStore(store Store, sealer Sealer) (*UserStore, error) {
	u := &UserStore{store: store, sealer: sealer}
	if store == nil {
		return u, nil
	}

	var rec userRecord
	err := store.GetJSON(storage.NamespaceUser, userKey, &rec)
	if errors.Is(err, storage.ErrNotFound) {
		return u, nil
	}
	if err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[UserStore] unreadable session record, clearing: %v", err)
		}
		return u, store.Delete(storage.NamespaceUser, userKey)
	}

	token, err := u.open(rec.Token)
	if err != nil || token == "" {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[UserStore] cached token unusable, clearing: %v", err)
		}
		return u, store.Delete(storage.NamespaceUser, userKey)
	}

	u.user = rec.User
	u.token = token
	u.authenticated = true
	return u, nil
}

func (u *UserStore) seal(token string) (string, error) {
	if u.sealer == nil {
		return token, nil
	}
	return u.sealer.Seal(token)
}

func (u *UserStore) open(stored string) (string, error) {
	if u.sealer == nil {
		return stored, nil
	}
	return u.sealer.Open(stored)
}

// Set signs a user in and persists the session
func (u *UserStore) Set(user User, token string) error {
	if token == "" {
		return errors.New("session token is empty")
	}

	if u.store != nil {
		sealed, err := u.seal(token)
		if err != nil {
			return err
		}
		if err := u.store.SetJSON(storage.NamespaceUser, userKey, userRecord{User: user, Token: sealed}); err != nil {
			return err
		}
	}

	u.mu.Lock()
	u.user = user
	u.token = token
	u.authenticated = true
	u.mu.Unlock()
	return nil
}

// Clear signs out
func (u *UserStore) Clear() error {
	u.mu.Lock()
	u.user = User{}
	u.token = ""
	u.authenticated = false
	u.mu.Unlock()

	if u.store == nil {
		return nil
	}
	return u.store.Delete(storage.NamespaceUser, userKey)
}

func (u *UserStore) Authenticated() bool {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.authenticated
}

func (u *UserStore) User() User {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.user
}

func (u *UserStore) Token() string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.token
}
