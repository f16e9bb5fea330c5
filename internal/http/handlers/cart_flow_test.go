package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	html "github.com/gofiber/template/html/v2"

	"livingdead/internal/auth"
	"livingdead/internal/cart"
	"livingdead/internal/catalog"
	"livingdead/internal/config"
	"livingdead/internal/http/handlers"
	"livingdead/internal/storage"
)

const testItems = `[
  {"id":"p1","title":"Skull Tee","description":"soft","price":10,"quantity":8},
  {"id":"p3","title":"Zombie Hoodie","description":"warm","price":30,"quantity":0,
   "variants":[
     {"options":{"Size":"M"},"price":20,"quantity":5},
     {"options":{"Size":"L"},"price":25,"quantity":0}
   ]}
]`

func testApp(t *testing.T) (*fiber.App, *cart.Store) {
	t.Helper()

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/items":
			w.Write([]byte(testItems))
		case strings.HasPrefix(r.URL.Path, "/items/"):
			switch strings.TrimPrefix(r.URL.Path, "/items/") {
			case "p1":
				w.Write([]byte(`{"id":"p1","title":"Skull Tee","description":"soft","price":10,"quantity":8}`))
			case "p3":
				w.Write([]byte(`{"id":"p3","title":"Zombie Hoodie","description":"warm","price":30,"quantity":0,
				  "variants":[{"options":{"Size":"M"},"price":20,"quantity":5},
				              {"options":{"Size":"L"},"price":25,"quantity":0}]}`))
			default:
				w.WriteHeader(http.StatusNotFound)
			}
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(api.Close)

	kv, err := storage.Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = kv.Close() })

	carts := cart.NewStore(kv)
	products := catalog.NewClient(api.URL)
	authSvc := auth.NewLocalService("admin", "", "")
	deps := handlers.NewDeps(config.Config{TaxRate: 0.08}, carts, products, authSvc)

	engine := html.New("../../../web/templates", ".html")
	app := fiber.New(fiber.Config{Views: engine})

	app.Get("/shop", deps.ShopHandler.List)
	app.Get("/product/:id", deps.ProductHandler.Detail)
	app.Post("/api/v1/products/:id/options", deps.ProductHandler.Options)
	app.Get("/api/v1/cart/badge", deps.CartHandler.Badge)
	app.Get("/cart", deps.CartHandler.View)
	app.Post("/cart", deps.CartHandler.Add)
	app.Post("/cart/update", deps.CartHandler.Update)
	app.Post("/cart/remove", deps.CartHandler.Remove)
	app.Post("/cart/clear", deps.CartHandler.Clear)
	app.Get("/checkout", deps.CheckoutHandler.Summary)
	return app, carts
}

func postForm(t *testing.T, app *fiber.App, path string, form url.Values) *http.Response {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: "sid", Value: "test-sid"})
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func TestCartAddFlow(t *testing.T) {
	app, carts := testApp(t)

	resp := postForm(t, app, "/cart", url.Values{"productId": {"p1"}, "qty": {"2"}})
	if resp.StatusCode != fiber.StatusFound {
		t.Fatalf("want redirect, got %d", resp.StatusCode)
	}

	st := carts.Get("test-sid")
	if len(st.Items) != 1 || st.TotalItems != 2 || st.TotalAmount != 20 {
		t.Fatalf("bad cart after add: %+v", st)
	}
}

func TestCartAddVariantFlow(t *testing.T) {
	app, carts := testApp(t)

	resp := postForm(t, app, "/cart", url.Values{
		"productId": {"p3"}, "qty": {"1"}, "opt_Size": {"M"},
	})
	if resp.StatusCode != fiber.StatusFound {
		t.Fatalf("want redirect, got %d", resp.StatusCode)
	}

	st := carts.Get("test-sid")
	if len(st.Items) != 1 {
		t.Fatalf("want 1 line, got %+v", st)
	}
	if st.Items[0].Key != "p3#Size=M" || st.Items[0].Price != 20 {
		t.Fatalf("bad variant line: %+v", st.Items[0])
	}
}

func TestCartAddUnresolvedSelectionBlocked(t *testing.T) {
	app, carts := testApp(t)

	resp := postForm(t, app, "/cart", url.Values{
		"productId": {"p3"}, "qty": {"1"}, "opt_Size": {"XL"},
	})
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("unresolved selection should 400, got %d", resp.StatusCode)
	}
	if st := carts.Get("test-sid"); len(st.Items) != 0 {
		t.Fatalf("nothing should be added: %+v", st)
	}
}

func TestCartAddOutOfStockBlocked(t *testing.T) {
	app, carts := testApp(t)

	resp := postForm(t, app, "/cart", url.Values{
		"productId": {"p3"}, "qty": {"1"}, "opt_Size": {"L"},
	})
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("out-of-stock add should 400, got %d", resp.StatusCode)
	}
	if st := carts.Get("test-sid"); len(st.Items) != 0 {
		t.Fatalf("nothing should be added: %+v", st)
	}
}

func TestCartUpdateAndRemove(t *testing.T) {
	app, carts := testApp(t)
	postForm(t, app, "/cart", url.Values{"productId": {"p1"}, "qty": {"2"}})

	postForm(t, app, "/cart/update", url.Values{"key": {"p1"}, "qty": {"5"}})
	if st := carts.Get("test-sid"); st.TotalItems != 5 || st.TotalAmount != 50 {
		t.Fatalf("update failed: %+v", st)
	}

	// zero quantity removes the line
	postForm(t, app, "/cart/update", url.Values{"key": {"p1"}, "qty": {"0"}})
	if st := carts.Get("test-sid"); len(st.Items) != 0 {
		t.Fatalf("zero qty should remove: %+v", st)
	}

	postForm(t, app, "/cart", url.Values{"productId": {"p1"}, "qty": {"1"}})
	postForm(t, app, "/cart/remove", url.Values{"key": {"p1"}})
	if st := carts.Get("test-sid"); len(st.Items) != 0 {
		t.Fatalf("remove failed: %+v", st)
	}
}

func TestCartClear(t *testing.T) {
	app, carts := testApp(t)
	postForm(t, app, "/cart", url.Values{"productId": {"p1"}, "qty": {"2"}})
	postForm(t, app, "/cart/clear", url.Values{})
	if st := carts.Get("test-sid"); len(st.Items) != 0 || st.TotalItems != 0 {
		t.Fatalf("clear failed: %+v", st)
	}
}

func TestCartBadge(t *testing.T) {
	app, _ := testApp(t)
	postForm(t, app, "/cart", url.Values{"productId": {"p1"}, "qty": {"3"}})

	req := httptest.NewRequest("GET", "/api/v1/cart/badge", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "test-sid"})
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("badge status %d", resp.StatusCode)
	}
}

func TestCheckoutRedirectsWhenEmpty(t *testing.T) {
	app, _ := testApp(t)
	req := httptest.NewRequest("GET", "/checkout", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "test-sid"})
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusFound {
		t.Fatalf("empty checkout should redirect, got %d", resp.StatusCode)
	}
}
