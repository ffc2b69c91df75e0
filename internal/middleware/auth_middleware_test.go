package middleware

import (
	"errors"
	"net/http/httptest"
	"testing"

	"go-salepoint/internal/model"
	"go-salepoint/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type stubUserRepo struct {
	user *model.User
}

func (r *stubUserRepo) FindByEmail(email string) (*model.User, error) {
	return nil, errors.New("not implemented")
}

func (r *stubUserRepo) FindByID(id uuid.UUID) (*model.User, error) {
	if r.user == nil || r.user.ID != id {
		return nil, errors.New("record not found")
	}
	return r.user, nil
}

func (r *stubUserRepo) FindByGoogleID(googleID string) (*model.User, error) {
	return nil, errors.New("not implemented")
}

func (r *stubUserRepo) Create(user *model.User) error { return nil }
func (r *stubUserRepo) Update(user *model.User) error { return nil }
func (r *stubUserRepo) UpdatePassword(userID uuid.UUID, hashedPassword string) error {
	return nil
}

func testUser(role model.Role) *model.User {
	u := &model.User{Email: "amy@example.com", Name: "Amy", Role: role, IsActive: true}
	u.ID = uuid.New()
	return u
}

func newAuthApp(repo *stubUserRepo, extra ...fiber.Handler) *fiber.App {
	app := fiber.New()
	handlers := append([]fiber.Handler{RequireAuth(repo)}, extra...)
	handlers = append(handlers, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"role": c.Locals("user_role")})
	})
	app.Get("/secure", handlers...)
	return app
}

func TestRequireAuthMissingHeader(t *testing.T) {
	app := newAuthApp(&stubUserRepo{})

	resp, err := app.Test(httptest.NewRequest("GET", "/secure", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != 401 {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestRequireAuthBadFormat(t *testing.T) {
	app := newAuthApp(&stubUserRepo{})

	req := httptest.NewRequest("GET", "/secure", nil)
	req.Header.Set("Authorization", "Token abc")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != 401 {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestRequireAuthValidToken(t *testing.T) {
	user := testUser(model.RoleEmployee)
	token, err := jwt.GenerateToken(user.ID, user.Email, user.Name, string(user.Role))
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	app := newAuthApp(&stubUserRepo{user: user})
	req := httptest.NewRequest("GET", "/secure", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestRequireAuthInactiveUser(t *testing.T) {
	user := testUser(model.RoleEmployee)
	user.IsActive = false
	token, _ := jwt.GenerateToken(user.ID, user.Email, user.Name, string(user.Role))

	app := newAuthApp(&stubUserRepo{user: user})
	req := httptest.NewRequest("GET", "/secure", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != 401 {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestRequireRole(t *testing.T) {
	employee := testUser(model.RoleEmployee)
	token, _ := jwt.GenerateToken(employee.ID, employee.Email, employee.Name, string(employee.Role))

	app := newAuthApp(&stubUserRepo{user: employee}, RequireRole(model.RoleAdmin))
	req := httptest.NewRequest("GET", "/secure", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != 403 {
		t.Fatalf("expected 403 for employee on admin route, got %d", resp.StatusCode)
	}

	admin := testUser(model.RoleAdmin)
	adminToken, _ := jwt.GenerateToken(admin.ID, admin.Email, admin.Name, string(admin.Role))

	app = newAuthApp(&stubUserRepo{user: admin}, RequireRole(model.RoleAdmin))
	req = httptest.NewRequest("GET", "/secure", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)

	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200 for admin, got %d", resp.StatusCode)
	}
}
