// internal/app/features/rpc/routes.go
package rpc

import "github.com/go-chi/chi/v5"

// Routes returns a subrouter that serves the operation endpoint.
func Routes(reg *Registry) chi.Router {
	r := chi.NewRouter()
	r.Post("/{op}", reg.Serve) // this will be mounted under /rpc
	return r
}
