// Package records implements the per-user academic hierarchy: semesters
// (terms) and their courses, including score periods and cascade
// deletion. Every operation requires a valid session and is scoped to
// that session's user.
package records

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/dalemusser/recordhub/internal/app/features/accounts"
	"github.com/dalemusser/recordhub/internal/app/features/rpc"
	"github.com/dalemusser/recordhub/internal/app/store/courses"
	"github.com/dalemusser/recordhub/internal/app/store/semesters"
	"github.com/dalemusser/recordhub/internal/app/system/faults"
	"github.com/dalemusser/recordhub/internal/app/system/inputval"
	"github.com/dalemusser/recordhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// deleteBatchSize bounds a single round trip of the cascade-delete loop.
const deleteBatchSize = 50

// Handler holds dependencies for the record operations.
type Handler struct {
	Semesters *semesters.Store
	Courses   *courses.Store
	Accounts  *accounts.Handler
	Log       *zap.Logger
}

func NewHandler(sems *semesters.Store, crs *courses.Store, accts *accounts.Handler, logger *zap.Logger) *Handler {
	return &Handler{
		Semesters: sems,
		Courses:   crs,
		Accounts:  accts,
		Log:       logger,
	}
}

var (
	errNoToken          = faults.New(faults.InvalidSession, "No hay token")
	errSemesterIDNeeded = faults.New(faults.InvalidArgument, "semestreId es obligatorio")
	errCourseIDNeeded   = faults.New(faults.InvalidArgument, "materiaId es obligatorio")
	errSemesterNotFound = faults.New(faults.NotFound, "Semestre no encontrado")
	errCourseNotFound   = faults.New(faults.NotFound, "Materia no encontrada")
	errNoFields         = faults.New(faults.InvalidArgument, "No hay campos para actualizar")
	errScoreNeeded      = faults.New(faults.InvalidArgument, "La nota debe ser un número")
)

// objectID parses a wire id argument. A malformed id can never match a
// document, so it maps to the same not-found fault as a missing one.
func objectID(raw string, notFound error) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(raw))
	if err != nil {
		return primitive.NilObjectID, notFound
	}
	return id, nil
}

// CreateSemestre adds a term for the session user. The name is stored
// as given; only renames validate it, matching the historical contract.
func (h *Handler) CreateSemestre(ctx context.Context, args rpc.Args) (rpc.Result, error) {
	userID, err := h.Accounts.RequireSession(args)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Medium())
	defer cancel()

	sem, err := h.Semesters.Create(ctx, userID, args.String("nombreSemestre"))
	if err != nil {
		return nil, err
	}

	return rpc.Result{
		"message":    "Semestre creado correctamente",
		"semestreId": sem.ID.Hex(),
	}, nil
}

// ListSemestres returns the user's terms as a serialized JSON list.
func (h *Handler) ListSemestres(ctx context.Context, args rpc.Args) (rpc.Result, error) {
	userID, err := h.Accounts.RequireSession(args)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Medium())
	defer cancel()

	list, err := h.Semesters.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	type entry struct {
		ID   string `json:"id"`
		Name string `json:"nombreSemestre"`
	}
	out := make([]entry, 0, len(list))
	for _, sem := range list {
		out = append(out, entry{ID: sem.ID.Hex(), Name: sem.Name})
	}

	data, err := json.Marshal(out)
	if err != nil {
		return nil, err
	}
	return rpc.Result{"semestres": string(data)}, nil
}

// UpdateSemestre renames a term after validating the new name.
func (h *Handler) UpdateSemestre(ctx context.Context, args rpc.Args) (rpc.Result, error) {
	if args.String("token") == "" {
		return nil, errNoToken
	}
	rawID := strings.TrimSpace(args.String("semestreId"))
	if rawID == "" {
		return nil, errSemesterIDNeeded
	}

	name := strings.TrimSpace(args.String("nombreSemestre"))
	if err := inputval.TermName(name); err != nil {
		return nil, err
	}

	userID, err := h.Accounts.RequireSession(args)
	if err != nil {
		return nil, err
	}
	semID, err := objectID(rawID, errSemesterNotFound)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Medium())
	defer cancel()

	if err := h.Semesters.Rename(ctx, userID, semID, name); err != nil {
		if errors.Is(err, semesters.ErrNotFound) {
			return nil, errSemesterNotFound
		}
		return nil, err
	}
	return rpc.Result{"message": "Semestre actualizado"}, nil
}

// DeleteSemestre removes a term and all its courses. Courses go first,
// in bounded batches, so a retry after partial failure picks up where
// the previous attempt stopped; deleting an already-gone term succeeds.
func (h *Handler) DeleteSemestre(ctx context.Context, args rpc.Args) (rpc.Result, error) {
	if args.String("token") == "" {
		return nil, errNoToken
	}
	rawID := strings.TrimSpace(args.String("semestreId"))
	if rawID == "" {
		return nil, errSemesterIDNeeded
	}

	userID, err := h.Accounts.RequireSession(args)
	if err != nil {
		return nil, err
	}
	semID, err := objectID(rawID, errSemesterNotFound)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Long())
	defer cancel()

	for {
		n, err := h.Courses.DeleteBatch(ctx, userID, semID, deleteBatchSize)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			break
		}
	}
	if err := h.Semesters.Delete(ctx, userID, semID); err != nil {
		return nil, err
	}

	h.Log.Info("semester deleted", zap.String("semester_id", semID.Hex()))
	return rpc.Result{"message": "Semestre eliminado correctamente"}, nil
}

// CreateMateria adds a course to a term with zeroed score periods.
func (h *Handler) CreateMateria(ctx context.Context, args rpc.Args) (rpc.Result, error) {
	userID, err := h.Accounts.RequireSession(args)
	if err != nil {
		return nil, err
	}

	rawSemID := strings.TrimSpace(args.String("semestreId"))
	if rawSemID == "" {
		return nil, errSemesterIDNeeded
	}
	semID, err := objectID(rawSemID, errSemesterNotFound)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(args.String("nombreMateria"))
	if err := inputval.CourseName(name); err != nil {
		return nil, err
	}

	rawCredits, ok := args.Float("creditos")
	if !ok {
		return nil, faults.New(faults.InvalidArgument, "Los créditos deben estar entre 1 y 10")
	}
	credits, err := inputval.Credits(rawCredits)
	if err != nil {
		return nil, err
	}

	instructor := strings.TrimSpace(args.String("nombreProfesor"))
	if err := inputval.Instructor(instructor); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Medium())
	defer cancel()

	course, err := h.Courses.Create(ctx, userID, semID, name, credits, instructor)
	if err != nil {
		return nil, err
	}

	return rpc.Result{
		"message":   "Materia creada",
		"materiaId": course.ID.Hex(),
	}, nil
}

// ListMaterias returns a term's courses as a serialized JSON list.
func (h *Handler) ListMaterias(ctx context.Context, args rpc.Args) (rpc.Result, error) {
	userID, err := h.Accounts.RequireSession(args)
	if err != nil {
		return nil, err
	}
	semID, err := objectID(args.String("semestreId"), errSemesterNotFound)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Medium())
	defer cancel()

	list, err := h.Courses.ListBySemester(ctx, userID, semID)
	if err != nil {
		return nil, err
	}

	type entry struct {
		ID         string  `json:"id"`
		Name       string  `json:"nombreMateria"`
		Credits    int     `json:"creditos"`
		Instructor string  `json:"nombreProfesor"`
		Score1     float64 `json:"nota1"`
		Score2     float64 `json:"nota2"`
		Score3     float64 `json:"nota3"`
	}
	out := make([]entry, 0, len(list))
	for _, c := range list {
		out = append(out, entry{
			ID:         c.ID.Hex(),
			Name:       c.Name,
			Credits:    c.Credits,
			Instructor: c.Instructor,
			Score1:     c.Score1,
			Score2:     c.Score2,
			Score3:     c.Score3,
		})
	}

	data, err := json.Marshal(out)
	if err != nil {
		return nil, err
	}
	return rpc.Result{"materias": string(data)}, nil
}

// GetMateria returns one course. Numeric fields are stringified, which
// is what the wire contract has always promised.
func (h *Handler) GetMateria(ctx context.Context, args rpc.Args) (rpc.Result, error) {
	userID, err := h.Accounts.RequireSession(args)
	if err != nil {
		return nil, err
	}
	semID, err := objectID(args.String("semestreId"), errCourseNotFound)
	if err != nil {
		return nil, err
	}
	courseID, err := objectID(args.String("materiaId"), errCourseNotFound)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	c, err := h.Courses.Get(ctx, userID, semID, courseID)
	if err != nil {
		if errors.Is(err, courses.ErrNotFound) {
			return nil, errCourseNotFound
		}
		return nil, err
	}

	return rpc.Result{
		"id":             c.ID.Hex(),
		"nombreMateria":  c.Name,
		"creditos":       strconv.Itoa(c.Credits),
		"nombreProfesor": c.Instructor,
		"nota1":          formatScore(c.Score1),
		"nota2":          formatScore(c.Score2),
		"nota3":          formatScore(c.Score3),
	}, nil
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// UpdateMateria applies a partial update to a course. Each provided
// field is validated; providing none is an error, not a no-op.
func (h *Handler) UpdateMateria(ctx context.Context, args rpc.Args) (rpc.Result, error) {
	userID, err := h.Accounts.RequireSession(args)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(args.String("semestreId")) == "" {
		return nil, errSemesterIDNeeded
	}
	if strings.TrimSpace(args.String("materiaId")) == "" {
		return nil, errCourseIDNeeded
	}
	semID, err := objectID(args.String("semestreId"), errCourseNotFound)
	if err != nil {
		return nil, err
	}
	courseID, err := objectID(args.String("materiaId"), errCourseNotFound)
	if err != nil {
		return nil, err
	}

	set := bson.M{}

	if args.Has("nombreMateria") {
		name := strings.TrimSpace(args.String("nombreMateria"))
		if err := inputval.CourseName(name); err != nil {
			return nil, err
		}
		set["nombreMateria"] = name
	}
	if args.Has("creditos") {
		raw, ok := args.Float("creditos")
		if !ok {
			return nil, faults.New(faults.InvalidArgument, "Los créditos deben estar entre 1 y 10")
		}
		credits, err := inputval.Credits(raw)
		if err != nil {
			return nil, err
		}
		set["creditos"] = credits
	}
	if args.Has("nombreProfesor") {
		instructor := strings.TrimSpace(args.String("nombreProfesor"))
		if err := inputval.Instructor(instructor); err != nil {
			return nil, err
		}
		set["nombreProfesor"] = instructor
	}

	if len(set) == 0 {
		return nil, errNoFields
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Medium())
	defer cancel()

	if err := h.Courses.UpdateFields(ctx, userID, semID, courseID, set); err != nil {
		if errors.Is(err, courses.ErrNotFound) {
			return nil, errCourseNotFound
		}
		return nil, err
	}
	return rpc.Result{"message": "Materia actualizada"}, nil
}

// DeleteMateria removes one course. Idempotent.
func (h *Handler) DeleteMateria(ctx context.Context, args rpc.Args) (rpc.Result, error) {
	userID, err := h.Accounts.RequireSession(args)
	if err != nil {
		return nil, err
	}
	semID, err := objectID(args.String("semestreId"), errCourseNotFound)
	if err != nil {
		return nil, err
	}
	courseID, err := objectID(args.String("materiaId"), errCourseNotFound)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Medium())
	defer cancel()

	if err := h.Courses.Delete(ctx, userID, semID, courseID); err != nil {
		return nil, err
	}
	return rpc.Result{"message": "Materia eliminada"}, nil
}

// RegistrarNota writes one score period of a course.
func (h *Handler) RegistrarNota(ctx context.Context, args rpc.Args) (rpc.Result, error) {
	userID, semID, courseID, period, err := h.scoreTarget(args)
	if err != nil {
		return nil, err
	}

	score, ok := args.Float("nota")
	if !ok {
		return nil, errScoreNeeded
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Medium())
	defer cancel()

	if err := h.Courses.SetScore(ctx, userID, semID, courseID, period, score); err != nil {
		if errors.Is(err, courses.ErrNotFound) {
			return nil, errCourseNotFound
		}
		return nil, err
	}
	return rpc.Result{"message": "Nota registrada"}, nil
}

// EliminarNota resets one score period to zero.
func (h *Handler) EliminarNota(ctx context.Context, args rpc.Args) (rpc.Result, error) {
	userID, semID, courseID, period, err := h.scoreTarget(args)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Medium())
	defer cancel()

	if err := h.Courses.SetScore(ctx, userID, semID, courseID, period, 0); err != nil {
		if errors.Is(err, courses.ErrNotFound) {
			return nil, errCourseNotFound
		}
		return nil, err
	}
	return rpc.Result{"message": "Nota eliminada (puesta en 0)"}, nil
}

// scoreTarget resolves the common arguments of the score operations.
func (h *Handler) scoreTarget(args rpc.Args) (userID, semID, courseID primitive.ObjectID, period int, err error) {
	userID, err = h.Accounts.RequireSession(args)
	if err != nil {
		return
	}
	semID, err = objectID(args.String("semestreId"), errCourseNotFound)
	if err != nil {
		return
	}
	courseID, err = objectID(args.String("materiaId"), errCourseNotFound)
	if err != nil {
		return
	}

	raw, ok := args.Float("corte")
	if !ok {
		err = faults.New(faults.InvalidArgument, "El corte debe ser 1, 2 o 3")
		return
	}
	period, err = inputval.ScorePeriod(raw)
	return
}
