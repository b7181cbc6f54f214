package storeapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/talkincode/pedeai/internal/domain"
	"github.com/talkincode/pedeai/internal/webserver"
	"github.com/talkincode/pedeai/pkg/common"
)

type loginPayload struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

func registerAdminRoutes() {
	webserver.SetLoginHandler(postAdminLogin)
	webserver.AdminGET("/settings", listSettings)
	webserver.AdminPOST("/settings", saveSettings)
}

// postAdminLogin verifies operator credentials and issues a JWT.
func postAdminLogin(c echo.Context) error {
	var payload loginPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse login", err.Error())
	}
	payload.Username = strings.TrimSpace(payload.Username)
	if payload.Username == "" || payload.Password == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Username and password are required", nil)
	}

	var operator domain.SysOpr
	if err := GetDB(c).Where("username = ?", payload.Username).First(&operator).Error; err != nil {
		return fail(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username or password", nil)
	}
	if !strings.EqualFold(operator.Status, common.ENABLED) {
		return fail(c, http.StatusUnauthorized, "ACCOUNT_DISABLED", "Operator account disabled", nil)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(operator.Password), []byte(payload.Password)); err != nil {
		return fail(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username or password", nil)
	}

	claims := jwt.MapClaims{
		"uid":   operator.ID,
		"usr":   operator.Username,
		"level": operator.Level,
		"exp":   time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(GetApp(c).Config().Web.Secret))
	if err != nil {
		return fail(c, http.StatusInternalServerError, "TOKEN_ERROR", "Failed to sign token", err.Error())
	}

	GetDB(c).Model(&domain.SysOpr{}).Where("id = ?", operator.ID).
		Update("last_login", time.Now())

	return ok(c, map[string]interface{}{
		"token": signed,
		"level": operator.Level,
	})
}

func listSettings(c echo.Context) error {
	var rows []domain.SysConfig
	if err := GetDB(c).Order("sort asc").Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query settings", err.Error())
	}
	return ok(c, rows)
}

func saveSettings(c echo.Context) error {
	var payload map[string]interface{}
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse settings", err.Error())
	}
	if err := GetApp(c).SaveSettings(payload); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to save settings", err.Error())
	}
	return ok(c, map[string]interface{}{"saved": true})
}
