package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/dian-simulador/pkg/jwt"
)

// scopeApp carga rol y empresa en locals como lo haría AuthMiddleware y expone
// el resultado de canAccessCompany y scopeCompany para la empresa "c1".
func scopeApp(role, companyID string) *fiber.App {
	app := fiber.New()
	app.Get("/scope", func(c *fiber.Ctx) error {
		if role != "" {
			c.Locals(LocalRole, role)
		}
		if companyID != "" {
			c.Locals(LocalCompanyID, companyID)
		}
		return c.JSON(fiber.Map{
			"role":   GetRole(c),
			"access": canAccessCompany(c, "c1"),
			"scope":  scopeCompany(c),
		})
	})
	return app
}

func TestScopeCompany_PorRol(t *testing.T) {
	cases := []struct {
		name      string
		role      string
		companyID string
		access    bool
		scope     string
	}{
		{"admin sin empresa ve todo", jwt.RoleAdmin, "", true, ""},
		{"admin con empresa no se filtra", jwt.RoleAdmin, "c2", true, ""},
		{"facturador de la empresa", jwt.RoleFacturador, "c1", true, "c1"},
		{"facturador de otra empresa", jwt.RoleFacturador, "c2", false, "c2"},
		{"sin rol queda acotado a su empresa", "", "c2", false, "c2"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := scopeApp(tc.role, tc.companyID).Test(httptest.NewRequest(http.MethodGet, "/scope", nil), -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			var body struct {
				Role   string `json:"role"`
				Access bool   `json:"access"`
				Scope  string `json:"scope"`
			}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tc.role, body.Role)
			assert.Equal(t, tc.access, body.Access)
			assert.Equal(t, tc.scope, body.Scope)
		})
	}
}

// Sin AuthMiddleware no hay locals: GetRole vacío y RequireRole responde MISSING_ROLE.
func TestRequireRole_SinLocals_Retorna401MissingRole(t *testing.T) {
	app := fiber.New()
	app.Get("/admin", RequireRole(jwt.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	var body struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "MISSING_ROLE", body.Code)
}

func TestGetRole_LocalNoString_Vacio(t *testing.T) {
	app := fiber.New()
	app.Get("/role", func(c *fiber.Ctx) error {
		c.Locals(LocalRole, 42)
		return c.SendString(GetRole(c))
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/role", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Empty(t, body, "un local que no es string no se interpreta como rol")
}
