package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "GeoRiddle API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend API for the GeoRiddle location game.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// POST /api/auth/register
	postRegister, _ := r.NewOperationContext(http.MethodPost, "/api/auth/register")
	postRegister.SetSummary("Register player")
	postRegister.SetDescription("Create a player account and return a session token.")
	postRegister.AddReqStructure(CredentialsRequest{})
	postRegister.AddRespStructure(AuthResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	postRegister.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postRegister.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postRegister)

	// POST /api/auth/login
	postLogin, _ := r.NewOperationContext(http.MethodPost, "/api/auth/login")
	postLogin.SetSummary("Log in")
	postLogin.AddReqStructure(CredentialsRequest{})
	postLogin.AddRespStructure(AuthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postLogin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(postLogin)

	// GET /api/me
	getMe, _ := r.NewOperationContext(http.MethodGet, "/api/me")
	getMe.SetSummary("Current player")
	getMe.SetDescription("Returns the player's profile and experience. Requires Bearer token.")
	getMe.AddRespStructure(MeResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getMe.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getMe)

	// POST /api/location
	postLocation, _ := r.NewOperationContext(http.MethodPost, "/api/location")
	postLocation.SetSummary("Report location")
	postLocation.SetDescription("Records the player's position and refreshes cached nearby places.")
	postLocation.AddRespStructure([]PlaceSummary{}, openapi.WithHTTPStatus(http.StatusOK))
	postLocation.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postLocation.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(postLocation)

	// POST /api/enemies/spawn
	postSpawn, _ := r.NewOperationContext(http.MethodPost, "/api/enemies/spawn")
	postSpawn.SetSummary("Spawn enemies")
	postSpawn.SetDescription("Spawns enemies around the reported position. Riddle and answer are never included.")
	postSpawn.AddRespStructure([]EnemySummary{}, openapi.WithHTTPStatus(http.StatusOK))
	postSpawn.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	postSpawn.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(postSpawn)

	// GET /api/enemies
	getEnemies, _ := r.NewOperationContext(http.MethodGet, "/api/enemies")
	getEnemies.SetSummary("List active enemies")
	getEnemies.AddRespStructure([]EnemySummary{}, openapi.WithHTTPStatus(http.StatusOK))
	getEnemies.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getEnemies)

	// GET /api/enemies/{enemyID}/riddle
	getRiddle, _ := r.NewOperationContext(http.MethodGet, "/api/enemies/{enemyID}/riddle")
	getRiddle.SetSummary("Get enemy riddle")
	getRiddle.AddRespStructure(EnemyDetail{}, openapi.WithHTTPStatus(http.StatusOK))
	getRiddle.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getRiddle)

	// POST /api/enemies/{enemyID}/defeat
	postDefeat, _ := r.NewOperationContext(http.MethodPost, "/api/enemies/{enemyID}/defeat")
	postDefeat.SetSummary("Attempt to defeat an enemy")
	postDefeat.SetDescription("Grades the submitted answer. A wrong answer is a normal negative result, not an error.")
	postDefeat.AddReqStructure(DefeatRequest{})
	postDefeat.AddRespStructure(DefeatResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postDefeat.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postDefeat.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(postDefeat)

	// GET /api/enemies/events
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/api/enemies/events")
	getEvents.SetSummary("SSE event stream")
	getEvents.SetDescription("Server-Sent Events stream of spawn and defeat events. Pass token as query parameter.")
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(getEvents)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.Marshal(spec)

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Write(data)
	}
}
