// Package passwordreset implements the email-based recovery flow:
// request mints a single-use 30-minute token and mails a link;
// confirm exchanges the token for a new password exactly once.
package passwordreset

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/dalemusser/recordhub/internal/app/features/rpc"
	"github.com/dalemusser/recordhub/internal/app/store/resettokens"
	userstore "github.com/dalemusser/recordhub/internal/app/store/users"
	"github.com/dalemusser/recordhub/internal/app/system/faults"
	"github.com/dalemusser/recordhub/internal/app/system/inputval"
	"github.com/dalemusser/recordhub/internal/app/system/mailer"
	"github.com/dalemusser/recordhub/internal/app/system/normalize"
	"github.com/dalemusser/recordhub/internal/app/system/passwords"
	"github.com/dalemusser/recordhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// genericRequestMessage is returned whether or not the email matched an
// account. Account existence must not be inferable from the response.
const genericRequestMessage = "Si el correo está registrado, recibirás un enlace para restablecer tu contraseña."

// Handler holds dependencies for the reset operations.
type Handler struct {
	Users        *userstore.Store
	Tokens       *resettokens.Store
	Mailer       *mailer.Mailer
	ResetBaseURL string // link target, e.g. https://app.example.com/reset-password
	SiteName     string
	Log          *zap.Logger
}

func NewHandler(users *userstore.Store, tokens *resettokens.Store, mail *mailer.Mailer, resetBaseURL, siteName string, logger *zap.Logger) *Handler {
	return &Handler{
		Users:        users,
		Tokens:       tokens,
		Mailer:       mail,
		ResetBaseURL: resetBaseURL,
		SiteName:     siteName,
		Log:          logger,
	}
}

var (
	errMissingTokenOrPassword = faults.New(faults.InvalidArgument, "Token y nueva contraseña son obligatorios")
	errTokenUnknown           = faults.New(faults.NotFound, "Token inválido o ya utilizado")
	errTokenUsed              = faults.New(faults.TokenAlreadyUsed, "Token ya utilizado")
	errTokenExpired           = faults.New(faults.TokenExpired, "Token expirado, solicita uno nuevo")
	errTokenNoUser            = faults.New(faults.NotFound, "Token inválido (sin usuario asociado)")
)

// RequestPasswordReset mints a token for the account and mails the
// reset link. The response is the same generic message whether or not
// the email exists; mail delivery is asynchronous and best-effort.
func (h *Handler) RequestPasswordReset(ctx context.Context, args rpc.Args) (rpc.Result, error) {
	email := normalize.Email(args.String("correo"))
	if err := inputval.ResetEmail(email); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Medium())
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// No side effects for unknown accounts.
			return rpc.Result{"message": genericRequestMessage}, nil
		}
		return nil, err
	}

	tok, err := h.Tokens.Create(ctx, u.ID, email)
	if err != nil {
		return nil, err
	}

	msg := mailer.BuildResetEmail(mailer.ResetEmailData{
		SiteName:  h.SiteName,
		ResetLink: fmt.Sprintf("%s?token=%s", h.ResetBaseURL, url.QueryEscape(tok.Token)),
		ExpiresIn: "30 minutos",
	})
	msg.To = email
	h.Mailer.SendAsync(msg)

	h.Log.Info("password reset requested", zap.String("user_id", u.ID.Hex()))
	return rpc.Result{"message": genericRequestMessage}, nil
}

// ConfirmPasswordReset redeems a token for a new password. The token is
// marked used only after the password write lands, so a failed write
// leaves it redeemable; a failed mark is logged but does not undo the
// already-successful password change.
func (h *Handler) ConfirmPasswordReset(ctx context.Context, args rpc.Args) (rpc.Result, error) {
	token := args.String("token")
	password := args.String("nuevaContraseña")
	if token == "" || password == "" {
		return nil, errMissingTokenOrPassword
	}
	if err := inputval.NewPassword(password); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Medium())
	defer cancel()

	tok, err := h.Tokens.Get(ctx, token)
	if err != nil {
		if errors.Is(err, resettokens.ErrNotFound) {
			return nil, errTokenUnknown
		}
		return nil, err
	}
	if tok.Used {
		return nil, errTokenUsed
	}
	if tok.Expired(time.Now()) {
		if err := h.Tokens.MarkUsed(ctx, token, "expired"); err != nil {
			h.Log.Warn("failed to mark expired reset token", zap.Error(err))
		}
		return nil, errTokenExpired
	}
	if tok.UserID == primitive.NilObjectID {
		return nil, errTokenNoUser
	}

	hash, err := passwords.Hash(ctx, password)
	if err != nil {
		return nil, err
	}
	if err := h.Users.UpdatePasswordHash(ctx, tok.UserID, hash); err != nil {
		return nil, err
	}

	if err := h.Tokens.MarkUsed(ctx, token, "confirmed"); err != nil {
		h.Log.Error("failed to mark reset token used",
			zap.Error(err), zap.String("user_id", tok.UserID.Hex()))
	}

	h.Log.Info("password reset confirmed", zap.String("user_id", tok.UserID.Hex()))
	return rpc.Result{"message": "Contraseña actualizada correctamente"}, nil
}
