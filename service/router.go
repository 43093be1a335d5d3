package service

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// PathPrefix is the prefix every route in this service is mounted under.
const PathPrefix = "/api/v1"

// Router builds the chi.Router serving this Service's endpoints:
//
//	POST /api/v1/login              admin login, issues a bearer token
//	POST /api/v1/grammars           admin: assemble + cache a grammar's table
//	GET  /api/v1/grammars/{name}/table   admin: fetch a cached wire table
//	POST /api/v1/parse              run a parse against a built grammar
func (s *Service) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.recoverMiddleware)

	r.Route(PathPrefix, func(r chi.Router) {
		r.Post("/login", s.handleLogin)
		r.Post("/parse", s.handleParse)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAdmin)
			r.Post("/grammars", s.handleBuildGrammar)
			r.Get("/grammars/{name}/table", s.handleGetTable)
		})
	})

	return r
}

func decodeJSON(req *http.Request, v interface{}) error {
	defer req.Body.Close()
	return json.NewDecoder(req.Body).Decode(v)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Service) handleLogin(w http.ResponseWriter, req *http.Request) {
	var body loginRequest
	if err := decodeJSON(req, &body); err != nil {
		BadRequest("malformed request body", "decode login: %s", err).WriteResponse(w, s.log)
		return
	}

	user, err := s.store.Authenticate(req.Context(), body.Username, body.Password)
	if err != nil {
		Unauthorized("", "login %q: %s", body.Username, err).WriteResponse(w, s.log)
		return
	}

	tok, err := s.generateJWT(user)
	if err != nil {
		InternalServerError("sign token: %s", err).WriteResponse(w, s.log)
		return
	}

	OK(map[string]string{"token": tok}, "user %q logged in", user.Username).WriteResponse(w, s.log)
}

func (s *Service) handleBuildGrammar(w http.ResponseWriter, req *http.Request) {
	admin, _ := adminFromContext(req.Context())

	var body GrammarRequest
	if err := decodeJSON(req, &body); err != nil {
		BadRequest("malformed request body", "decode grammar: %s", err).WriteResponse(w, s.log)
		return
	}
	if body.Name == "" {
		BadRequest("name is required", "grammar request missing name").WriteResponse(w, s.log)
		return
	}

	warnings, err := s.Build(req.Context(), body)
	if err != nil {
		BadRequest(err.Error(), "build grammar %q: %s", body.Name, err).WriteResponse(w, s.log)
		return
	}

	Created(map[string]interface{}{"name": body.Name, "warnings": warnings},
		"admin %q built grammar %q", admin.Username, body.Name).WriteResponse(w, s.log)
}

func (s *Service) handleGetTable(w http.ResponseWriter, req *http.Request) {
	name := chi.URLParam(req, "name")

	entry, err := s.Table(req.Context(), name)
	if err != nil {
		NotFound("get table %q: %s", name, err).WriteResponse(w, s.log)
		return
	}

	wt, err := entry.Decode()
	if err != nil {
		InternalServerError("decode table %q: %s", name, err).WriteResponse(w, s.log)
		return
	}

	OK(wt, "fetched table %q", name).WriteResponse(w, s.log)
}

func (s *Service) handleParse(w http.ResponseWriter, req *http.Request) {
	var body ParseRequest
	if err := decodeJSON(req, &body); err != nil {
		BadRequest("malformed request body", "decode parse request: %s", err).WriteResponse(w, s.log)
		return
	}

	result, err := s.Parse(body)
	if err != nil {
		BadRequest(err.Error(), "parse against %q: %s", body.Grammar, err).WriteResponse(w, s.log)
		return
	}

	OK(result, "parse against %q: %s", body.Grammar, result.Status).WriteResponse(w, s.log)
}
