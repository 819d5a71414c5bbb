package records_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/dalemusser/recordhub/internal/app/features/accounts"
	"github.com/dalemusser/recordhub/internal/app/features/records"
	"github.com/dalemusser/recordhub/internal/app/features/rpc"
	"github.com/dalemusser/recordhub/internal/app/store/courses"
	"github.com/dalemusser/recordhub/internal/app/store/semesters"
	userstore "github.com/dalemusser/recordhub/internal/app/store/users"
	"github.com/dalemusser/recordhub/internal/app/system/auth"
	"github.com/dalemusser/recordhub/internal/app/system/faults"
	"github.com/dalemusser/recordhub/internal/app/system/timeouts"
	"github.com/dalemusser/recordhub/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type env struct {
	h     *records.Handler
	token string
}

// newEnv builds a records handler plus a valid session for a fresh user.
func newEnv(t *testing.T, db *mongo.Database) *env {
	t.Helper()

	sessions, err := auth.NewSessionManager("test-signing-key-0123456789abcdef", time.Hour, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	accts := accounts.NewHandler(userstore.New(db), sessions, nil, zap.NewNop())

	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)
	u := fx.CreateUser(ctx, "records@example.com", "hash")

	token, err := sessions.Issue(u.ID.Hex())
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	h := records.NewHandler(semesters.New(db), courses.New(db), accts, zap.NewNop())
	return &env{h: h, token: token}
}

func (e *env) createSemester(t *testing.T, name string) string {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	res, err := e.h.CreateSemestre(ctx, rpc.Args{"token": e.token, "nombreSemestre": name})
	if err != nil {
		t.Fatalf("CreateSemestre failed: %v", err)
	}
	return res["semestreId"].(string)
}

func (e *env) createCourse(t *testing.T, semID, name string) string {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	res, err := e.h.CreateMateria(ctx, rpc.Args{
		"token":          e.token,
		"semestreId":     semID,
		"nombreMateria":  name,
		"creditos":       float64(3),
		"nombreProfesor": "María Gómez",
	})
	if err != nil {
		t.Fatalf("CreateMateria failed: %v", err)
	}
	return res["materiaId"].(string)
}

func TestSemestre_CreateListUpdate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	e := newEnv(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	semID := e.createSemester(t, "Semestre 1")

	res, err := e.h.ListSemestres(ctx, rpc.Args{"token": e.token})
	if err != nil {
		t.Fatalf("ListSemestres failed: %v", err)
	}
	var list []struct {
		ID   string `json:"id"`
		Name string `json:"nombreSemestre"`
	}
	if err := json.Unmarshal([]byte(res["semestres"].(string)), &list); err != nil {
		t.Fatalf("semestres is not valid JSON: %v", err)
	}
	if len(list) != 1 || list[0].ID != semID || list[0].Name != "Semestre 1" {
		t.Errorf("unexpected list: %+v", list)
	}

	if _, err := e.h.UpdateSemestre(ctx, rpc.Args{
		"token": e.token, "semestreId": semID, "nombreSemestre": "Semestre 1 (2026)",
	}); err != nil {
		t.Fatalf("UpdateSemestre failed: %v", err)
	}

	res, err = e.h.ListSemestres(ctx, rpc.Args{"token": e.token})
	if err != nil {
		t.Fatalf("ListSemestres failed: %v", err)
	}
	if err := json.Unmarshal([]byte(res["semestres"].(string)), &list); err != nil {
		t.Fatalf("semestres is not valid JSON: %v", err)
	}
	if list[0].Name != "Semestre 1 (2026)" {
		t.Errorf("rename not visible: %+v", list)
	}
}

func TestUpdateSemestre_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	e := newEnv(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	semID := e.createSemester(t, "Semestre 1")

	cases := []struct {
		name string
		args rpc.Args
		want string
	}{
		{"no token", rpc.Args{"semestreId": semID, "nombreSemestre": "X"}, "No hay token"},
		{"no id", rpc.Args{"token": e.token, "nombreSemestre": "X"}, "semestreId es obligatorio"},
		{"empty name", rpc.Args{"token": e.token, "semestreId": semID, "nombreSemestre": "  "}, "El nombre del semestre es obligatorio"},
		{"too long", rpc.Args{"token": e.token, "semestreId": semID, "nombreSemestre": "Semestre con un nombre demasiado largo"}, "Máximo 30 caracteres"},
		{"bad chars", rpc.Args{"token": e.token, "semestreId": semID, "nombreSemestre": "Semestre #1!"}, "Nombre inválido. Solo letras, números, espacios, (), y guion -"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.h.UpdateSemestre(ctx, tc.args)
			if faults.Message(err) != tc.want {
				t.Errorf("got %v, want %q", err, tc.want)
			}
		})
	}
}

func TestDeleteSemestre_CascadesCourses(t *testing.T) {
	db := testutil.SetupTestDB(t)
	e := newEnv(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	semID := e.createSemester(t, "Semestre 1")
	for _, name := range []string{"Cálculo", "Física", "Química"} {
		e.createCourse(t, semID, name)
	}

	res, err := e.h.DeleteSemestre(ctx, rpc.Args{"token": e.token, "semestreId": semID})
	if err != nil {
		t.Fatalf("DeleteSemestre failed: %v", err)
	}
	if res["message"] != "Semestre eliminado correctamente" {
		t.Errorf("message = %v", res["message"])
	}

	// Semester and all its courses are gone.
	lres, err := e.h.ListSemestres(ctx, rpc.Args{"token": e.token})
	if err != nil {
		t.Fatalf("ListSemestres failed: %v", err)
	}
	if lres["semestres"].(string) != "[]" {
		t.Errorf("semestres = %v", lres["semestres"])
	}
	mres, err := e.h.ListMaterias(ctx, rpc.Args{"token": e.token, "semestreId": semID})
	if err != nil {
		t.Fatalf("ListMaterias failed: %v", err)
	}
	if mres["materias"].(string) != "[]" {
		t.Errorf("materias = %v", mres["materias"])
	}

	// Deleting again is still a success.
	if _, err := e.h.DeleteSemestre(ctx, rpc.Args{"token": e.token, "semestreId": semID}); err != nil {
		t.Errorf("repeat DeleteSemestre failed: %v", err)
	}
}

func TestCreateMateria_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	e := newEnv(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	semID := e.createSemester(t, "Semestre 1")
	base := func() rpc.Args {
		return rpc.Args{
			"token":          e.token,
			"semestreId":     semID,
			"nombreMateria":  "Cálculo",
			"creditos":       float64(3),
			"nombreProfesor": "María Gómez",
		}
	}

	cases := []struct {
		name  string
		mut   func(rpc.Args)
		want  string
	}{
		{"empty name", func(a rpc.Args) { a["nombreMateria"] = " " }, "El nombre de la materia es obligatorio"},
		{"credits too low", func(a rpc.Args) { a["creditos"] = float64(0) }, "Los créditos deben estar entre 1 y 10"},
		{"credits too high", func(a rpc.Args) { a["creditos"] = float64(11) }, "Los créditos deben estar entre 1 y 10"},
		{"credits fractional", func(a rpc.Args) { a["creditos"] = 4.5 }, "Los créditos deben estar entre 1 y 10"},
		{"empty instructor", func(a rpc.Args) { a["nombreProfesor"] = " " }, "El nombre del profesor es obligatorio"},
		{"instructor digits", func(a rpc.Args) { a["nombreProfesor"] = "Prof 3000" }, "Nombre de profesor inválido: solo letras y espacios"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			args := base()
			tc.mut(args)
			_, err := e.h.CreateMateria(ctx, args)
			if faults.Message(err) != tc.want {
				t.Errorf("got %v, want %q", err, tc.want)
			}
		})
	}

	// String-encoded credits are accepted.
	args := base()
	args["creditos"] = "4"
	if _, err := e.h.CreateMateria(ctx, args); err != nil {
		t.Errorf("string credits rejected: %v", err)
	}
}

func TestGetMateria_StringifiesNumbers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	e := newEnv(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	semID := e.createSemester(t, "Semestre 1")
	matID := e.createCourse(t, semID, "Cálculo")

	if _, err := e.h.RegistrarNota(ctx, rpc.Args{
		"token": e.token, "semestreId": semID, "materiaId": matID,
		"corte": float64(2), "nota": 4.5,
	}); err != nil {
		t.Fatalf("RegistrarNota failed: %v", err)
	}

	res, err := e.h.GetMateria(ctx, rpc.Args{"token": e.token, "semestreId": semID, "materiaId": matID})
	if err != nil {
		t.Fatalf("GetMateria failed: %v", err)
	}
	if res["creditos"] != "3" {
		t.Errorf("creditos = %v", res["creditos"])
	}
	if res["nota1"] != "0" || res["nota2"] != "4.5" || res["nota3"] != "0" {
		t.Errorf("notas = %v %v %v", res["nota1"], res["nota2"], res["nota3"])
	}
}

func TestUpdateMateria(t *testing.T) {
	db := testutil.SetupTestDB(t)
	e := newEnv(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	semID := e.createSemester(t, "Semestre 1")
	matID := e.createCourse(t, semID, "Redes")

	// No fields is an error.
	_, err := e.h.UpdateMateria(ctx, rpc.Args{"token": e.token, "semestreId": semID, "materiaId": matID})
	if faults.Message(err) != "No hay campos para actualizar" {
		t.Errorf("empty update: %v", err)
	}

	if _, err := e.h.UpdateMateria(ctx, rpc.Args{
		"token": e.token, "semestreId": semID, "materiaId": matID,
		"nombreMateria": "Redes II", "creditos": float64(4),
	}); err != nil {
		t.Fatalf("UpdateMateria failed: %v", err)
	}

	res, err := e.h.GetMateria(ctx, rpc.Args{"token": e.token, "semestreId": semID, "materiaId": matID})
	if err != nil {
		t.Fatalf("GetMateria failed: %v", err)
	}
	if res["nombreMateria"] != "Redes II" || res["creditos"] != "4" {
		t.Errorf("unexpected course: %v", res)
	}
	if res["nombreProfesor"] != "María Gómez" {
		t.Errorf("instructor should be untouched, got %v", res["nombreProfesor"])
	}
}

func TestNotas_RegisterAndClear(t *testing.T) {
	db := testutil.SetupTestDB(t)
	e := newEnv(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	semID := e.createSemester(t, "Semestre 1")
	matID := e.createCourse(t, semID, "Historia")

	res, err := e.h.RegistrarNota(ctx, rpc.Args{
		"token": e.token, "semestreId": semID, "materiaId": matID,
		"corte": float64(1), "nota": 3.8,
	})
	if err != nil {
		t.Fatalf("RegistrarNota failed: %v", err)
	}
	if res["message"] != "Nota registrada" {
		t.Errorf("message = %v", res["message"])
	}

	// Out-of-range corte is rejected.
	_, err = e.h.RegistrarNota(ctx, rpc.Args{
		"token": e.token, "semestreId": semID, "materiaId": matID,
		"corte": float64(4), "nota": 3.8,
	})
	if faults.Message(err) != "El corte debe ser 1, 2 o 3" {
		t.Errorf("bad corte: %v", err)
	}

	res, err = e.h.EliminarNota(ctx, rpc.Args{
		"token": e.token, "semestreId": semID, "materiaId": matID, "corte": float64(1),
	})
	if err != nil {
		t.Fatalf("EliminarNota failed: %v", err)
	}
	if res["message"] != "Nota eliminada (puesta en 0)" {
		t.Errorf("message = %v", res["message"])
	}

	got, err := e.h.GetMateria(ctx, rpc.Args{"token": e.token, "semestreId": semID, "materiaId": matID})
	if err != nil {
		t.Fatalf("GetMateria failed: %v", err)
	}
	if got["nota1"] != "0" {
		t.Errorf("nota1 = %v", got["nota1"])
	}
}

func TestRecords_CrossUserIsolation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	e := newEnv(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	semID := e.createSemester(t, "Semestre 1")
	matID := e.createCourse(t, semID, "Cálculo")

	// A second user's session cannot reach the first user's records.
	sessions, err := auth.NewSessionManager("test-signing-key-0123456789abcdef", time.Hour, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	fx := testutil.NewFixtures(t, db)
	intruder := fx.CreateUser(ctx, "otro@example.com", "hash")
	otherToken, err := sessions.Issue(intruder.ID.Hex())
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	_, err = e.h.GetMateria(ctx, rpc.Args{"token": otherToken, "semestreId": semID, "materiaId": matID})
	if !faults.Is(err, faults.NotFound) {
		t.Fatalf("expected NotFound for foreign session, got %v", err)
	}

	res, err := e.h.ListSemestres(ctx, rpc.Args{"token": otherToken})
	if err != nil {
		t.Fatalf("ListSemestres failed: %v", err)
	}
	if res["semestres"].(string) != "[]" {
		t.Errorf("foreign user sees semesters: %v", res["semestres"])
	}
}

// Every store call runs under its own deadline. Shrinking the configured
// timeouts to nothing must cancel the Mongo operation rather than let
// the request ride on the caller's context.
func TestRecords_StoreCallDeadlines(t *testing.T) {
	db := testutil.SetupTestDB(t)
	e := newEnv(t, db)

	semID := e.createSemester(t, "Semestre 1")
	matID := e.createCourse(t, semID, "Cálculo")

	t.Setenv("TIMEOUT_SHORT", "1ns")
	t.Setenv("TIMEOUT_MEDIUM", "1ns")
	t.Setenv("TIMEOUT_LONG", "1ns")
	timeouts.ConfigureFromEnv()
	t.Cleanup(timeouts.Reset)

	calls := []struct {
		name string
		run  func(ctx context.Context) error
	}{
		{"GetMateria", func(ctx context.Context) error {
			_, err := e.h.GetMateria(ctx, rpc.Args{"token": e.token, "semestreId": semID, "materiaId": matID})
			return err
		}},
		{"ListSemestres", func(ctx context.Context) error {
			_, err := e.h.ListSemestres(ctx, rpc.Args{"token": e.token})
			return err
		}},
		{"DeleteSemestre", func(ctx context.Context) error {
			_, err := e.h.DeleteSemestre(ctx, rpc.Args{"token": e.token, "semestreId": semID})
			return err
		}},
	}
	for _, c := range calls {
		// The parent has no deadline; only the handler-derived one can fire.
		if err := c.run(context.Background()); !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("%s: expected context.DeadlineExceeded, got %v", c.name, err)
		}
	}
}
