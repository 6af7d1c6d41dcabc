package photoshare

import (
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// RefreshCookieName is where the browser keeps the refresh token.
const RefreshCookieName = "refresh_token"

// RegisterAuthRoutes mounts the account and session endpoints.
func RegisterAuthRoutes[T any](app router.Router[T], opts ...AuthControllerOption) {
	controller := NewAuthController(opts...)

	app.Post(controller.Routes.Register, controller.RegisterPost).
		SetName("auth.register")

	app.Post(controller.Routes.Login, controller.LoginPost).
		SetName("auth.login")

	app.Post(controller.Routes.Refresh, controller.RefreshPost).
		SetName("auth.refresh")

	protected := ProtectedRoute(controller.Codec, controller.ErrorHandler)

	app.Post(controller.Routes.Logout, controller.LogoutPost, protected).
		SetName("auth.logout")

	app.Post(controller.Routes.RequestVerify, controller.RequestVerifyPost).
		SetName("auth.request-verify")

	app.Get(controller.Routes.Verify+"/:token", controller.VerifyGet).
		SetName("auth.verify")

	app.Post(controller.Routes.Forgot, controller.ForgotPost).
		SetName("forgot.password")

	app.Post(controller.Routes.Reset, controller.ResetPost).
		SetName("forgot.reset")
}

type AuthControllerRoutes struct {
	Register      string
	Login         string
	Refresh       string
	Logout        string
	RequestVerify string
	Verify        string
	Forgot        string
	Reset         string
}

type AuthController struct {
	Debug        bool
	Logger       Logger
	Auth         *Authenticator
	Codec        TokenService
	Routes       *AuthControllerRoutes
	ErrorHandler func(router.Context, error) error
}

type AuthControllerOption func(*AuthController) *AuthController

func WithAuthenticator(auth *Authenticator) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Auth = auth
		return c
	}
}

func WithTokenService(codec TokenService) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Codec = codec
		return c
	}
}

func WithControllerLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Logger = logger
		return c
	}
}

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger:       defLogger{},
		ErrorHandler: renderError,
		Routes: &AuthControllerRoutes{
			Register:      "/auth/register",
			Login:         "/auth/jwt/login",
			Refresh:       "/auth/jwt/refresh",
			Logout:        "/auth/jwt/logout",
			RequestVerify: "/auth/request-verify",
			Verify:        "/auth/verify",
			Forgot:        "/forgot/password",
			Reset:         "/forgot/reset",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Auth == nil {
		panic("Missing Authenticator in auth controller...")
	}

	if c.Codec == nil {
		panic("Missing TokenService in auth controller...")
	}

	return c
}

func (a *AuthController) RegisterPost(ctx router.Context) error {
	payload := RegisterPayload{}
	if err := ctx.Bind(&payload); err != nil {
		return a.ErrorHandler(ctx, badPayload(err))
	}

	user, err := a.Auth.Register(ctx.Context(), payload)
	if err != nil {
		a.Logger.Error("Register error: %s", err)
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusCreated, user)
}

func (a *AuthController) LoginPost(ctx router.Context) error {
	payload := LoginPayload{}
	if err := ctx.Bind(&payload); err != nil {
		return a.ErrorHandler(ctx, badPayload(err))
	}

	result, err := a.Auth.Login(ctx.Context(), payload)
	if err != nil {
		a.Logger.Error("Login error: %s", err)
		return a.ErrorHandler(ctx, err)
	}

	a.setRefreshCookie(ctx, result.RefreshToken)

	return ctx.JSON(router.StatusOK, result)
}

// RefreshPost exchanges a refresh token for a fresh access token. The
// refresh token rides in the httponly cookie; a JSON body with a token
// field works for non-browser clients. The cookie set at login keeps
// its value, the exchange never rotates it.
func (a *AuthController) RefreshPost(ctx router.Context) error {
	token := ctx.Cookies(RefreshCookieName)
	if token == "" {
		payload := struct {
			Token string `json:"token"`
		}{}
		if err := ctx.Bind(&payload); err == nil {
			token = payload.Token
		}
	}

	if token == "" {
		return a.ErrorHandler(ctx, ErrTokenMalformed)
	}

	result, err := a.Auth.Refresh(ctx.Context(), token)
	if err != nil {
		a.Logger.Error("Refresh error: %s", err)
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, result)
}

func (a *AuthController) LogoutPost(ctx router.Context) error {
	session, err := SessionFromContext(ctx)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	id, err := session.GetUserUUID()
	if err != nil {
		return a.ErrorHandler(ctx, ErrTokenMalformed)
	}

	if err := a.Auth.Logout(ctx.Context(), id); err != nil {
		a.Logger.Error("Logout error: %s", err)
		return a.ErrorHandler(ctx, err)
	}

	a.clearRefreshCookie(ctx)

	return ctx.NoContent(router.StatusNoContent)
}

func (a *AuthController) RequestVerifyPost(ctx router.Context) error {
	payload := struct {
		Email string `json:"email"`
	}{}
	if err := ctx.Bind(&payload); err != nil {
		return a.ErrorHandler(ctx, badPayload(err))
	}

	if err := a.Auth.RequestVerification(ctx.Context(), payload.Email); err != nil {
		a.Logger.Error("RequestVerify error: %s", err)
		return a.ErrorHandler(ctx, err)
	}

	return ctx.NoContent(router.StatusNoContent)
}

func (a *AuthController) VerifyGet(ctx router.Context) error {
	token := ctx.Param("token")
	if token == "" {
		return a.ErrorHandler(ctx, ErrTokenMalformed)
	}

	user, err := a.Auth.VerifyEmail(ctx.Context(), token)
	if err != nil {
		a.Logger.Error("Verify error: %s", err)
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, user)
}

func (a *AuthController) ForgotPost(ctx router.Context) error {
	payload := struct {
		Email string `json:"email"`
	}{}
	if err := ctx.Bind(&payload); err != nil {
		return a.ErrorHandler(ctx, badPayload(err))
	}

	if err := a.Auth.ForgotPassword(ctx.Context(), payload.Email); err != nil {
		a.Logger.Error("Forgot error: %s", err)
		return a.ErrorHandler(ctx, err)
	}

	return ctx.NoContent(router.StatusNoContent)
}

func (a *AuthController) ResetPost(ctx router.Context) error {
	payload := ResetPasswordPayload{}
	if err := ctx.Bind(&payload); err != nil {
		return a.ErrorHandler(ctx, badPayload(err))
	}

	user, err := a.Auth.ResetPassword(ctx.Context(), payload)
	if err != nil {
		a.Logger.Error("Reset error: %s", err)
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, user)
}

func (a *AuthController) setRefreshCookie(c router.Context, token string) {
	c.Cookie(&router.Cookie{
		Name:     RefreshCookieName,
		Value:    token,
		Path:     "/auth/jwt",
		Expires:  time.Now().Add(RefreshTokenTTL),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}

func (a *AuthController) clearRefreshCookie(c router.Context) {
	c.Cookie(&router.Cookie{
		Name:     RefreshCookieName,
		Value:    "",
		Path:     "/auth/jwt",
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}

func badPayload(err error) error {
	return goerrors.Wrap(err, goerrors.CategoryBadInput, "unable to parse request payload").
		WithCode(goerrors.CodeBadRequest)
}

func renderError(c router.Context, err error) error {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		richErr = goerrors.Wrap(err, goerrors.CategoryInternal, "An unexpected server error occurred").
			WithCode(goerrors.CodeInternal)
	}

	code := richErr.Code
	if code == 0 {
		code = router.StatusInternalServerError
	}

	body := router.ViewContext{
		"error": router.ViewContext{
			"message":  richErr.Message,
			"category": string(richErr.Category),
		},
	}

	if richErr.TextCode != "" {
		body["error"].(router.ViewContext)["text_code"] = richErr.TextCode
	}

	if richErr.Metadata != nil {
		body["error"].(router.ViewContext)["metadata"] = print.MaybePrettyJSON(richErr.Metadata)
	}

	return c.JSON(code, body)
}
