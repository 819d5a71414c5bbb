// internal/app/features/accounts/register.go
package accounts

import "github.com/dalemusser/recordhub/internal/app/features/rpc"

// Register binds the account operations on the registry.
func Register(reg *rpc.Registry, h *Handler) {
	reg.Register("RegisterStudent", h.RegisterStudent)
	reg.Register("Login", h.Login)
	reg.Register("GoogleLogin", h.GoogleLogin)
	reg.Register("GetProfile", h.GetProfile)
	reg.Register("UpdateProfile", h.UpdateProfile)
}
