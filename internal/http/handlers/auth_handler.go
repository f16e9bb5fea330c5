package handlers

import (
	"time"

	"livingdead/internal/auth"
	applog "livingdead/internal/log"
	"livingdead/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	Auth *auth.Service
}

func (h *AuthHandler) LoginForm(c *fiber.Ctx) error {
	return render(c, "login", fiber.Map{"Err": ""})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	sid := ensureSID(c)
	email, ok := validate.Email(c.FormValue("email"))
	pass := c.FormValue("password")
	if !ok || pass == "" {
		applog.Security(c, "auth.login.fail", map[string]any{"reason": "bad_format"})
		return c.Status(401).Render("login", fiber.Map{"Err": "Invalid email or password", "CSRFToken": c.Cookies("csrf_")})
	}
	sess, err := h.Auth.SignIn(c.Context(), sid, email, pass)
	if err != nil {
		applog.Security(c, "auth.login.fail", map[string]any{"email": email})
		return c.Status(401).Render("login", fiber.Map{"Err": "Invalid email or password", "CSRFToken": c.Cookies("csrf_")})
	}
	applog.Audit(c, "auth.login.success", map[string]any{"email": sess.Email})
	if h.Auth.IsAdmin(sess) {
		return c.Redirect("/admin")
	}
	return c.Redirect("/account")
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sid := ensureSID(c)
	h.Auth.SignOut(sid)
	c.Cookie(&fiber.Cookie{
		Name:     "sid",
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
	applog.Audit(c, "auth.logout", nil)
	return c.Redirect("/")
}

func (h *AuthHandler) SignupForm(c *fiber.Ctx) error {
	return render(c, "signup", fiber.Map{"Err": ""})
}

func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	email, ok := validate.Email(c.FormValue("email"))
	if !ok {
		return c.Status(400).Render("signup", fiber.Map{"Err": "Enter a valid email address", "CSRFToken": c.Cookies("csrf_")})
	}
	pass := c.FormValue("password")
	if !validate.Password(pass) {
		return c.Status(400).Render("signup", fiber.Map{"Err": "Password needs 8+ characters with upper, lower and digit", "CSRFToken": c.Cookies("csrf_")})
	}
	if err := h.Auth.SignUp(c.Context(), email, pass); err != nil {
		applog.Error(c, "auth.signup.fail", err, map[string]any{"email": email})
		return c.Status(400).Render("signup", fiber.Map{"Err": "Could not create account. Please try again.", "CSRFToken": c.Cookies("csrf_")})
	}
	applog.Audit(c, "auth.signup", map[string]any{"email": email})
	return render(c, "confirm", fiber.Map{"Email": email, "Err": ""})
}

func (h *AuthHandler) Confirm(c *fiber.Ctx) error {
	email, okEmail := validate.Email(c.FormValue("email"))
	code, okCode := validate.Code(c.FormValue("code"))
	if !okEmail || !okCode {
		return c.Status(400).Render("confirm", fiber.Map{"Email": c.FormValue("email"), "Err": "Enter the code from your email", "CSRFToken": c.Cookies("csrf_")})
	}
	if err := h.Auth.ConfirmSignUp(c.Context(), email, code); err != nil {
		applog.Error(c, "auth.confirm.fail", err, map[string]any{"email": email})
		return c.Status(400).Render("confirm", fiber.Map{"Email": email, "Err": "Invalid or expired code", "CSRFToken": c.Cookies("csrf_")})
	}
	applog.Audit(c, "auth.confirm", map[string]any{"email": email})
	return c.Redirect("/login")
}

func (h *AuthHandler) Forgot(c *fiber.Ctx) error {
	email, ok := validate.Email(c.FormValue("email"))
	if ok {
		// Fire regardless of outcome; whether the account exists is not
		// something this form should reveal.
		if err := h.Auth.ForgotPassword(c.Context(), email); err != nil {
			applog.Error(c, "auth.forgot.fail", err, map[string]any{"email": email})
		}
	}
	return render(c, "login", fiber.Map{"Err": "If that account exists, a reset email is on its way."})
}

func (h *AuthHandler) Account(c *fiber.Ctx) error {
	return render(c, "account", fiber.Map{})
}
