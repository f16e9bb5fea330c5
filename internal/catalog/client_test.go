package catalog_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"livingdead/internal/catalog"
)

const rawItems = `[
  {"id":"p1","title":"Skull Tee","description":"soft","price":10,"quantity":3},
  {"id":"p2","title":"Retired","description":"gone","price":5,"quantity":0,"isActive":false},
  {"id":"p3","title":"Zombie Hoodie","description":"warm","price":30,"quantity":0,
   "variants":[
     {"options":{"Size":"M"},"price":20,"quantity":5},
     {"option":"Size","value":"L","price":25,"quantity":2}
   ]}
]`

func serve(t *testing.T, handler http.HandlerFunc) *catalog.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return catalog.NewClient(srv.URL)
}

func TestList_RawArray(t *testing.T) {
	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/items" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(rawItems))
	})

	products, err := c.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	// inactive p2 filtered out
	if len(products) != 2 {
		t.Fatalf("want 2 active products, got %d", len(products))
	}
	if products[0].ID != "p1" || !products[0].Active {
		t.Fatalf("bad first product: %+v", products[0])
	}
}

func TestList_EnvelopeWithStringBody(t *testing.T) {
	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		env := map[string]any{"statusCode": 200, "body": rawItems}
		json.NewEncoder(w).Encode(env)
	})

	products, err := c.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(products) != 2 {
		t.Fatalf("want 2 products, got %d", len(products))
	}
}

func TestList_EnvelopeWithInlineBody(t *testing.T) {
	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"statusCode":200,"body":` + rawItems + `}`))
	})

	products, err := c.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(products) != 2 {
		t.Fatalf("want 2 products, got %d", len(products))
	}
}

func TestGet_NormalizesLegacyVariant(t *testing.T) {
	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/items/p3" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"id":"p3","title":"Zombie Hoodie","price":30,
		  "variants":[{"option":"Size","value":"L","price":25,"quantity":2}]}`))
	})

	p, err := c.Get(context.Background(), "p3")
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Variants) != 1 {
		t.Fatalf("want 1 variant, got %d", len(p.Variants))
	}
	v := p.Variants[0]
	if v.Options["Size"] != "L" || v.Price != 25 || v.Quantity != 2 {
		t.Fatalf("legacy variant not migrated: %+v", v)
	}
}

func TestGet_MissingIsActiveMeansActive(t *testing.T) {
	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"p1","title":"Skull Tee","price":10}`))
	})
	p, err := c.Get(context.Background(), "p1")
	if err != nil {
		t.Fatal(err)
	}
	if !p.Active {
		t.Fatal("absent isActive should default to active")
	}
}

func TestGet_NotFound(t *testing.T) {
	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	_, err := c.Get(context.Background(), "missing")
	if !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestListAll_KeepsInactive(t *testing.T) {
	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(rawItems))
	})
	products, err := c.ListAll(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(products) != 3 {
		t.Fatalf("admin listing should keep inactive products, got %d", len(products))
	}
}

func TestCreate_SendsBearerToken(t *testing.T) {
	var gotAuth, gotMethod string
	var gotBody map[string]any
	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotMethod = r.Method
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusCreated)
	})

	err := c.Create(context.Background(), "tok-123", catalog.ProductInput{
		Title: "Skull Tee", Description: "soft", Price: 10, Quantity: 3,
	})
	if err != nil {
		t.Fatal(err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Fatalf("missing bearer token, got %q", gotAuth)
	}
	if gotMethod != http.MethodPost || gotBody["title"] != "Skull Tee" {
		t.Fatalf("bad request: %s %+v", gotMethod, gotBody)
	}
}

func TestDelete_PropagatesAPIError(t *testing.T) {
	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	})
	if err := c.Delete(context.Background(), "tok", "p1"); err == nil {
		t.Fatal("want error on 403")
	}
}
