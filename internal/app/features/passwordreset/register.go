// internal/app/features/passwordreset/register.go
package passwordreset

import "github.com/dalemusser/recordhub/internal/app/features/rpc"

// Register binds the reset operations on the registry.
func Register(reg *rpc.Registry, h *Handler) {
	reg.Register("RequestPasswordReset", h.RequestPasswordReset)
	reg.Register("ConfirmPasswordReset", h.ConfirmPasswordReset)
}
