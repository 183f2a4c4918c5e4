package internal

import (
	"net/http"
	"streamwatch/internal/controllers"
	"streamwatch/internal/providers"
)

func InitRoutes(
	streams *controllers.StreamsController,
	tick *controllers.TickController,
	subscriptions *controllers.SubscriptionController,
	webhooks *controllers.WebhookController,
) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/streams", http.HandlerFunc(streams.List))
	routers.Get("/streams/live", http.HandlerFunc(streams.Live))
	routers.Get("/tick", http.HandlerFunc(tick.Tick))
	routers.Post("/tick", http.HandlerFunc(tick.Tick))
	routers.Get("/subscriptions", http.HandlerFunc(subscriptions.Get))
	routers.Put("/subscriptions", http.HandlerFunc(subscriptions.Put))
	routers.Post("/webhooks", http.HandlerFunc(webhooks.Register))
	return routers
}
