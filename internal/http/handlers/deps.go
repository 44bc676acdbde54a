package handlers

import (
	"greengrocer/internal/config"
	"greengrocer/internal/repos"
	"greengrocer/internal/services"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	CatalogHandler  *CatalogHandler
	CartHandler     *CartHandler
	OrderHandler    *OrderHandler
	DeliveryHandler *DeliveryHandler
	OwnerHandler    *OwnerHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config, auth *services.AuthService) *Deps {
	prodRepo := repos.NewProductRepo(db)
	cartRepo := repos.NewCartRepo(db)
	couponRepo := repos.NewCouponRepo(db)
	orderRepo := repos.NewOrderRepo(db)

	catalogSvc := services.NewCatalogService(prodRepo)
	cartSvc := services.NewCartService(cartRepo, prodRepo, couponRepo, orderRepo)
	orderSvc := services.NewOrderService(orderRepo, prodRepo, cartSvc, cartRepo)
	deliverySvc := services.NewDeliveryService(orderRepo)
	stockSvc := services.NewStockService(prodRepo)

	return &Deps{
		CatalogHandler:  &CatalogHandler{Catalog: catalogSvc},
		CartHandler:     &CartHandler{Cart: cartSvc},
		OrderHandler:    &OrderHandler{Cart: cartSvc, Order: orderSvc, Auth: auth},
		DeliveryHandler: &DeliveryHandler{Delivery: deliverySvc},
		OwnerHandler:    &OwnerHandler{Catalog: catalogSvc, Stock: stockSvc, Coupons: couponRepo, Orders: orderRepo},
	}
}
