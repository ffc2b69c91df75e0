// Package state is the client-side core: an application state facade that
// holds the local snapshots of products, sales, notifications and the
// current user, mediates between the remote API and the local cache, and
// derives stock notifications as a side effect of recording a sale.
package state

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"go-salepoint/internal/model"
	"go-salepoint/pkg/kvstore"

	"github.com/google/uuid"
)

var (
	ErrEmptySale       = errors.New("sale requires at least one line item")
	ErrUnknownProducts = errors.New("no line item references a known product")
)

// Cache keys for the persisted snapshots.
const (
	productsKey      = "salepoint.products"
	salesKey         = "salepoint.sales"
	notificationsKey = "salepoint.notifications"
	userKey          = "salepoint.user"
)

// App composes the session manager and the stock mutation engine into the
// single surface the presentation layer consumes. Every mutating method
// either leaves a fully updated snapshot behind or leaves state untouched
// on failure.
//
// Within one operator session calls arrive sequentially; the mutex only
// guards against stray concurrent UI triggers (last write wins).
type App struct {
	mu      sync.Mutex
	api     API
	store   kvstore.Store
	session *Session

	products      []model.Product
	sales         []model.Sale
	notifications []model.Notification
	lastUser      *model.User
}

// New builds a facade over the given remote API and local store, loading
// whatever cached snapshots survive from a previous session.
func New(api API, store kvstore.Store) *App {
	a := &App{
		api:     api,
		store:   store,
		session: NewSession(api, store),
	}
	loadJSON(store, productsKey, &a.products)
	loadJSON(store, salesKey, &a.sales)
	loadJSON(store, notificationsKey, &a.notifications)
	loadJSON(store, userKey, &a.lastUser)
	return a
}

// ----- Session --------------------------------------------------------------

// Restore attempts to resume a previous session from the stored token.
// Invoked once at startup; on any failure the session is left anonymous.
func (a *App) Restore(ctx context.Context) *model.User {
	a.mu.Lock()
	defer a.mu.Unlock()

	user := a.session.Restore(ctx)
	if user == nil {
		return nil
	}
	a.lastUser = user
	a.saveJSON(userKey, user)
	if err := a.refresh(ctx); err != nil {
		// Cached snapshots stay in place; they are what the cache is for.
		log.Printf("state: refresh after restore failed: %v", err)
	}
	return user
}

func (a *App) Login(ctx context.Context, email, password string) (*model.User, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	user, err := a.session.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	a.afterLogin(ctx, user)
	return user, nil
}

func (a *App) LoginWithGoogle(ctx context.Context, idToken string) (*model.User, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	user, err := a.session.LoginWithGoogle(ctx, idToken)
	if err != nil {
		return nil, err
	}
	a.afterLogin(ctx, user)
	return user, nil
}

// Logout discards the session and every local snapshot. It cannot fail.
func (a *App) Logout() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.session.Logout()
	a.products = nil
	a.sales = nil
	a.notifications = nil
	a.lastUser = nil
	for _, key := range []string{productsKey, salesKey, notificationsKey, userKey} {
		if err := a.store.Remove(key); err != nil {
			log.Printf("state: failed to drop cache %q: %v", key, err)
		}
	}
}

func (a *App) CurrentUser() *model.User {
	a.mu.Lock()
	defer a.mu.Unlock()

	u := a.session.CurrentUser()
	if u == nil {
		return nil
	}
	cp := *u
	return &cp
}

func (a *App) Phase() Phase {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session.Phase()
}

// LastUser returns the operator who signed in most recently, loaded from
// the local cache. It is available before Restore completes and is not an
// authenticated identity.
func (a *App) LastUser() *model.User {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.lastUser == nil {
		return nil
	}
	cp := *a.lastUser
	return &cp
}

// UpdateProfile pushes a profile change for the signed-in user; the local
// current-user snapshot changes only after the server acknowledges.
func (a *App) UpdateProfile(ctx context.Context, name, avatar string) (*model.User, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	updated, err := a.api.UpdateProfile(ctx, name, avatar)
	if err != nil {
		return nil, err
	}
	a.session.user = updated
	a.lastUser = updated
	a.saveJSON(userKey, updated)
	cp := *updated
	return &cp, nil
}

// ----- Snapshots ------------------------------------------------------------

func (a *App) Products() []model.Product {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]model.Product(nil), a.products...)
}

func (a *App) Sales() []model.Sale {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]model.Sale(nil), a.sales...)
}

func (a *App) Notifications() []model.Notification {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]model.Notification(nil), a.notifications...)
}

// ----- Product mutations ----------------------------------------------------

// AddProduct is a remote write: the local snapshot changes only after the
// server acknowledges.
func (a *App) AddProduct(ctx context.Context, p model.Product) (*model.Product, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	created, err := a.api.CreateProduct(ctx, p)
	if err != nil {
		return nil, err
	}
	a.products = append(a.products, *created)
	a.saveJSON(productsKey, a.products)
	return created, nil
}

func (a *App) UpdateProduct(ctx context.Context, p model.Product) (*model.Product, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	updated, err := a.api.UpdateProduct(ctx, p)
	if err != nil {
		return nil, err
	}
	if i := indexByID(a.products, updated.ID); i >= 0 {
		a.products[i] = *updated
	} else {
		a.products = append(a.products, *updated)
	}
	a.saveJSON(productsKey, a.products)
	return updated, nil
}

func (a *App) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.api.DeleteProduct(ctx, id); err != nil {
		return err
	}
	if i := indexByID(a.products, id); i >= 0 {
		a.products = append(a.products[:i], a.products[i+1:]...)
		a.saveJSON(productsKey, a.products)
	}
	return nil
}

// ----- Stock mutation engine ------------------------------------------------

// RecordSale posts the resolvable line items, then applies the quantity
// changes to the product snapshot and derives stock notifications per
// affected product. Quantities are computed against the product state at
// the moment the sale is recorded and are never clamped; overselling goes
// negative. Line items whose product id does not resolve, locally or on the
// server, are skipped and reported in the result; only items the server
// applied mutate the local snapshot. On a remote failure nothing changes
// locally.
func (a *App) RecordSale(ctx context.Context, items []model.SaleItem) (*SaleResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(items) == 0 {
		return nil, ErrEmptySale
	}

	resolved, skipped := splitResolvable(a.products, items)
	if len(resolved) == 0 {
		return nil, ErrUnknownProducts
	}

	sale, unresolved, err := a.api.CreateSale(ctx, resolved)
	if err != nil {
		return nil, err
	}

	// The local snapshot can be stale: the server may refuse items for
	// products that no longer exist on its side.
	applied, stale := dropServerSkips(resolved, unresolved)
	skipped = append(skipped, stale...)

	now := time.Now()
	var fresh []model.Notification
	for _, item := range applied {
		p := &a.products[indexByID(a.products, item.ProductID)]
		p.Quantity -= item.Quantity
		p.UpdatedAt = now
		if n := stockNotification(*p, now); n != nil {
			fresh = append([]model.Notification{*n}, fresh...)
		}
	}

	a.notifications = append(fresh, a.notifications...)
	a.sales = append([]model.Sale{*sale}, a.sales...)

	a.saveJSON(productsKey, a.products)
	a.saveJSON(salesKey, a.sales)
	a.saveJSON(notificationsKey, a.notifications)

	return &SaleResult{Sale: sale, Skipped: skipped}, nil
}

// ----- Notifications --------------------------------------------------------

// MarkNotificationRead flips the read flag; the transition is monotonic and
// the call is idempotent. Unknown ids are a no-op.
func (a *App) MarkNotificationRead(id uuid.UUID) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for i := range a.notifications {
		if a.notifications[i].ID == id {
			if !a.notifications[i].Read {
				a.notifications[i].Read = true
				a.saveJSON(notificationsKey, a.notifications)
			}
			return
		}
	}
}

func (a *App) ClearNotifications() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.notifications = nil
	a.saveJSON(notificationsKey, []model.Notification{})
}

// ----- Internals ------------------------------------------------------------

func (a *App) afterLogin(ctx context.Context, user *model.User) {
	a.lastUser = user
	a.saveJSON(userKey, user)
	if err := a.refresh(ctx); err != nil {
		log.Printf("state: refresh after login failed: %v", err)
	}
}

// refresh replaces the product and sale snapshots wholesale; there is no
// merge. Both fetches must succeed before either snapshot is touched.
func (a *App) refresh(ctx context.Context) error {
	products, err := a.api.ListProducts(ctx)
	if err != nil {
		return err
	}
	sales, err := a.api.ListSales(ctx)
	if err != nil {
		return err
	}

	a.products = products
	a.sales = sales
	a.saveJSON(productsKey, a.products)
	a.saveJSON(salesKey, a.sales)
	return nil
}

func (a *App) saveJSON(key string, v interface{}) {
	raw, err := json.Marshal(v)
	if err != nil {
		log.Printf("state: failed to encode cache %q: %v", key, err)
		return
	}
	if err := a.store.Set(key, string(raw)); err != nil {
		log.Printf("state: failed to persist cache %q: %v", key, err)
	}
}

func loadJSON(store kvstore.Store, key string, out interface{}) {
	raw, ok := store.Get(key)
	if !ok {
		return
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		log.Printf("state: discarding corrupt cache %q: %v", key, err)
	}
}
