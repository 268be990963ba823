//go:build e2e

package helper

import (
	"net/http"
	"testing"
	"time"

	"tourtable/internal/domain/user"
	"tourtable/internal/handler/dto/request"
	"tourtable/internal/handler/dto/response"
	"tourtable/internal/pkg/config"
	"tourtable/internal/pkg/jwt"
	"tourtable/tests/common/dbtest"
	"tourtable/tests/common/helper"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

type JWTTestHelper struct {
	pool *pgxpool.Pool
	cfg  config.JWTConfig
}

func NewJWTTestHelper(pool *pgxpool.Pool, cfg config.JWTConfig) *JWTTestHelper {
	return &JWTTestHelper{pool: pool, cfg: cfg}
}

func (h *JWTTestHelper) LoginUser(t *testing.T, router *gin.Engine, email, password string) string {
	t.Helper()

	w := helper.PerformRequest(t, router, http.MethodPost, "/auth/login",
		request.LoginRequest{Email: email, Password: password}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := helper.DecodeJSON[response.LoginResponse](t, w.Body.Bytes())
	require.NotEmpty(t, resp.AccessToken, "access token missing from login response")

	return resp.AccessToken
}

func (h *JWTTestHelper) CreateAndLogin(t *testing.T, router *gin.Engine, email, role string) string {
	t.Helper()
	dbtest.CreateTestUser(t, h.pool, email, role, true)
	return h.LoginUser(t, router, email, dbtest.TestPassword)
}

func (h *JWTTestHelper) GenerateToken(t *testing.T, userID uuid.UUID, role user.Role, approved bool) string {
	t.Helper()
	duration, err := time.ParseDuration(h.cfg.Duration)
	require.NoError(t, err)
	service := jwt.NewService(h.cfg.Secret, duration)
	token, err := service.GenerateToken(userID, role, approved)
	require.NoError(t, err)
	return token
}

func (h *JWTTestHelper) CreateExpiredToken(t *testing.T, userID uuid.UUID, role user.Role) string {
	t.Helper()
	service := jwt.NewService(h.cfg.Secret, 1*time.Millisecond)
	token, err := service.GenerateToken(userID, role, true)
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)
	return token
}
