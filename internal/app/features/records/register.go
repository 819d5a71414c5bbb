// internal/app/features/records/register.go
package records

import "github.com/dalemusser/recordhub/internal/app/features/rpc"

// Register binds the record operations on the registry.
func Register(reg *rpc.Registry, h *Handler) {
	reg.Register("CreateSemestre", h.CreateSemestre)
	reg.Register("ListSemestres", h.ListSemestres)
	reg.Register("UpdateSemestre", h.UpdateSemestre)
	reg.Register("DeleteSemestre", h.DeleteSemestre)

	reg.Register("CreateMateria", h.CreateMateria)
	reg.Register("ListMaterias", h.ListMaterias)
	reg.Register("GetMateria", h.GetMateria)
	reg.Register("UpdateMateria", h.UpdateMateria)
	reg.Register("DeleteMateria", h.DeleteMateria)

	reg.Register("RegistrarNota", h.RegistrarNota)
	reg.Register("EliminarNota", h.EliminarNota)
}
