package internal

import (
	"guessd/internal/controllers"
	"guessd/internal/providers"
	"guessd/internal/structures"
	"net/http"
)

func InitRoutes(apiController *controllers.ApiController, conf *structures.Config) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/leaderboard", http.HandlerFunc(apiController.GetLeaderboard))
	routers.Get("/profile", http.HandlerFunc(apiController.GetProfile))
	routers.Get("/sessions", http.HandlerFunc(apiController.GetSessions))
	if conf.Cache.Enabled {
		routers.Post("/cache/purge", http.HandlerFunc(apiController.PurgeCache))
	}
	return routers
}
