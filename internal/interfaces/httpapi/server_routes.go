package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, docsEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !docsEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/editions/{edition}/fixtures", handler.ListFixtureKeys)
	mux.HandleFunc("GET /v1/editions/{edition}/gameweeks/{gameweek}/fixtures", handler.GetFixtures)
	mux.HandleFunc("GET /v1/editions/{edition}/gameweeks/{gameweek}/standings", handler.GetStandings)
	mux.HandleFunc("GET /v1/editions/{edition}/players", handler.ListPlayersByEdition)
}

func registerPlayerRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/players", handler.RegisterPlayer)
	mux.HandleFunc("GET /v1/players/{playerID}", handler.GetPlayer)
	mux.HandleFunc("PUT /v1/players/{playerID}/default-edition", handler.SetPlayerDefaultEdition)
	mux.HandleFunc("POST /v1/players/{playerID}/editions/{edition}", handler.RegisterPlayerEdition)
	mux.HandleFunc("GET /v1/players/{playerID}/editions/{edition}/picks", handler.GetPickHistory)
	mux.HandleFunc("PUT /v1/players/{playerID}/editions/{edition}/gameweeks/{gameweek}/pick", handler.SubmitPick)
}

func registerAdminRoutes(mux *http.ServeMux, handler *Handler, adminToken string) {
	admin := func(h http.HandlerFunc) http.Handler {
		return RequireAdminToken(adminToken, h)
	}

	mux.Handle("PUT /v1/admin/editions/{edition}/gameweeks/{gameweek}/fixtures", admin(handler.SaveFixtures))
	// Settles completed fixtures into lives; repeated calls are no-ops.
	mux.Handle("POST /v1/admin/editions/{edition}/gameweeks/{gameweek}/process-results", admin(handler.ProcessResults))
	mux.Handle("PUT /v1/admin/players/{playerID}/lives", admin(handler.AdjustPlayerLives))
	mux.Handle("POST /v1/admin/players/{playerID}/archive", admin(handler.ArchivePlayer))
	mux.Handle("POST /v1/admin/players/{playerID}/unarchive", admin(handler.UnarchivePlayer))
	mux.Handle("DELETE /v1/admin/players/{playerID}", admin(handler.DeletePlayer))
	mux.Handle("GET /v1/admin/players/{playerID}/audit", admin(handler.GetPlayerAuditTrail))
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/settle", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSettlementJob)))
}
