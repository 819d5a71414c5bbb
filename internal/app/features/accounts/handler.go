// Package accounts implements registration, credential and federated
// login, and profile reads/updates.
package accounts

import (
	"context"
	"errors"
	"strings"

	"github.com/dalemusser/recordhub/internal/app/features/rpc"
	userstore "github.com/dalemusser/recordhub/internal/app/store/users"
	"github.com/dalemusser/recordhub/internal/app/system/auth"
	"github.com/dalemusser/recordhub/internal/app/system/faults"
	"github.com/dalemusser/recordhub/internal/app/system/googleid"
	"github.com/dalemusser/recordhub/internal/app/system/normalize"
	"github.com/dalemusser/recordhub/internal/app/system/passwords"
	"github.com/dalemusser/recordhub/internal/app/system/timeouts"
	"github.com/dalemusser/recordhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler holds dependencies for the account operations.
type Handler struct {
	Users    *userstore.Store
	Sessions *auth.SessionManager
	Google   googleid.Verifier
	Log      *zap.Logger
}

func NewHandler(users *userstore.Store, sessions *auth.SessionManager, google googleid.Verifier, logger *zap.Logger) *Handler {
	return &Handler{
		Users:    users,
		Sessions: sessions,
		Google:   google,
		Log:      logger,
	}
}

var (
	errMissingCredentials = faults.New(faults.InvalidArgument, "Correo y contraseña son obligatorios")
	errDuplicateEmail     = faults.New(faults.DuplicateIdentity, "Ya existe un usuario con ese correo")
	errUserNotFound       = faults.New(faults.NotFound, "Usuario no encontrado")
	errWrongPassword      = faults.New(faults.InvalidCredential, "Contraseña incorrecta")
)

// RequireSession resolves the "token" argument to a user id. Every
// protected operation calls this first.
func (h *Handler) RequireSession(args rpc.Args) (primitive.ObjectID, error) {
	uid, err := h.Sessions.Verify(args.String("token"))
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, err := primitive.ObjectIDFromHex(uid)
	if err != nil {
		return primitive.NilObjectID, faults.New(faults.InvalidSession, "Token inválido o expirado")
	}
	return id, nil
}

// RegisterStudent creates an account from email, password, and profile
// fields. The unique email index is the real guard; the existence
// pre-check only buys a friendly message before hashing.
func (h *Handler) RegisterStudent(ctx context.Context, args rpc.Args) (rpc.Result, error) {
	email := normalize.Email(args.String("correo"))
	password := args.String("contraseña")
	if email == "" || password == "" {
		return nil, errMissingCredentials
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Medium())
	defer cancel()

	exists, err := h.Users.EmailExists(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errDuplicateEmail
	}

	hash, err := passwords.Hash(ctx, password)
	if err != nil {
		return nil, err
	}

	created, err := h.Users.Create(ctx, models.User{
		FirstNames:   args.String("nombres"),
		LastNames:    args.String("apellidos"),
		NationalID:   args.String("cedula"),
		Email:        email,
		Program:      args.String("carrera"),
		PasswordHash: hash,
		Semester:     args.String("semestre"),
	})
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			return nil, errDuplicateEmail
		}
		return nil, err
	}

	h.Log.Info("student registered", zap.String("user_id", created.ID.Hex()))
	return rpc.Result{
		"message": "Usuario registrado correctamente",
		"uid":     created.ID.Hex(),
	}, nil
}

// Login verifies email and password and issues a session token.
func (h *Handler) Login(ctx context.Context, args rpc.Args) (rpc.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Medium())
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, args.String("correo"))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errUserNotFound
		}
		return nil, err
	}

	// Federated-only accounts have no hash; they can't log in locally.
	if !u.HasPassword() {
		return nil, errWrongPassword
	}
	if err := passwords.Compare(ctx, u.PasswordHash, args.String("contraseña")); err != nil {
		return nil, errWrongPassword
	}

	token, err := h.Sessions.Issue(u.ID.Hex())
	if err != nil {
		return nil, err
	}
	return rpc.Result{"token": token}, nil
}

// GoogleLogin verifies a Google ID token and logs the account in,
// creating it on first contact. Lookup order: federated id, then email;
// an email match logs in without rewriting the account.
func (h *Handler) GoogleLogin(ctx context.Context, args rpc.Args) (rpc.Result, error) {
	ident, err := h.Google.Verify(ctx, args.String("idToken"))
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Medium())
	defer cancel()

	u, err := h.Users.GetByGoogleID(ctx, ident.Subject)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, err
		}
		u = nil
	}
	if u == nil && ident.Email != "" {
		u, err = h.Users.GetByEmail(ctx, ident.Email)
		if err != nil {
			if !errors.Is(err, mongo.ErrNoDocuments) {
				return nil, err
			}
			u = nil
		}
	}

	if u == nil {
		created, err := h.Users.Create(ctx, models.User{
			FirstNames: ident.GivenName,
			LastNames:  ident.FamilyName,
			Email:      ident.Email,
			GoogleID:   ident.Subject,
		})
		if err != nil {
			return nil, err
		}
		h.Log.Info("federated account created", zap.String("user_id", created.ID.Hex()))
		u = &created
	}

	token, err := h.Sessions.Issue(u.ID.Hex())
	if err != nil {
		return nil, err
	}
	return rpc.Result{"token": token}, nil
}

// GetProfile returns the session user's profile fields.
func (h *Handler) GetProfile(ctx context.Context, args rpc.Args) (rpc.Result, error) {
	userID, err := h.RequireSession(args)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errUserNotFound
		}
		return nil, err
	}

	return rpc.Result{
		"uid":       u.ID.Hex(),
		"nombres":   u.FirstNames,
		"apellidos": u.LastNames,
		"cedula":    u.NationalID,
		"correo":    u.Email,
		"carrera":   u.Program,
		"semestre":  u.Semester,
	}, nil
}

// profileFields maps wire field names to their storage keys. Only these
// are updatable through UpdateProfile.
var profileFields = map[string]string{
	"nombres":   "nombres",
	"apellidos": "apellidos",
	"cedula":    "cedula",
	"correo":    "correo",
	"carrera":   "carrera",
	"semestre":  "semestre",
}

// UpdateProfile applies the provided subset of profile fields. Absent
// fields stay untouched; an empty update is a successful no-op. A
// nuevaContraseña argument rotates the credential hash.
func (h *Handler) UpdateProfile(ctx context.Context, args rpc.Args) (rpc.Result, error) {
	userID, err := h.RequireSession(args)
	if err != nil {
		return nil, err
	}

	set := bson.M{}
	for wire, key := range profileFields {
		if !args.Has(wire) {
			continue
		}
		val := args.String(wire)
		if wire == "correo" {
			val = normalize.Email(val)
		} else {
			val = strings.TrimSpace(val)
		}
		set[key] = val
	}

	if pw := args.String("nuevaContraseña"); pw != "" {
		hash, err := passwords.Hash(ctx, pw)
		if err != nil {
			return nil, err
		}
		set["password_hash"] = hash
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Medium())
	defer cancel()

	if err := h.Users.UpdateFields(ctx, userID, set); err != nil {
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			return nil, errDuplicateEmail
		}
		return nil, err
	}

	return rpc.Result{"message": "Perfil actualizado correctamente"}, nil
}
