package handlers

import (
	"livingdead/internal/auth"
	"livingdead/internal/cart"
	"livingdead/internal/catalog"
	"livingdead/internal/config"
)

type Deps struct {
	ShopHandler     *ShopHandler
	ProductHandler  *ProductHandler
	CartHandler     *CartHandler
	CheckoutHandler *CheckoutHandler
	AuthHandler     *AuthHandler
	AdminHandler    *AdminHandler
}

func NewDeps(cfg config.Config, carts *cart.Store, products *catalog.Client, authSvc *auth.Service) *Deps {
	return &Deps{
		ShopHandler:     &ShopHandler{Catalog: products, Carts: carts},
		ProductHandler:  &ProductHandler{Catalog: products, Carts: carts},
		CartHandler:     &CartHandler{Catalog: products, Carts: carts},
		CheckoutHandler: &CheckoutHandler{Carts: carts, TaxRate: cfg.TaxRate},
		AuthHandler:     &AuthHandler{Auth: authSvc},
		AdminHandler:    &AdminHandler{Catalog: products, Auth: authSvc},
	}
}
