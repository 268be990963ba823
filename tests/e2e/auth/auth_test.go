//go:build e2e

package auth_test

import (
	"context"
	"net/http"
	"testing"

	"tourtable/internal/domain/user"
	"tourtable/internal/handler/dto/request"
	"tourtable/internal/handler/dto/response"
	"tourtable/internal/usecase/queries"
	"tourtable/tests/common/dbtest"
	"tourtable/tests/common/helper"
	"tourtable/tests/e2e"
	e2ehelper "tourtable/tests/e2e/common/helper"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	registerURL = "/auth/register"
	loginURL    = "/auth/login"
	meURL       = "/auth/me"
)

type AuthSuite struct {
	e2e.SharedSuite
	jwt *e2ehelper.JWTTestHelper
}

func (s *AuthSuite) SetupSuite() {
	s.SharedSuite.SetupSuite()
	s.jwt = e2ehelper.NewJWTTestHelper(s.DB, s.Config.JWT)
}

func TestAuthSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(AuthSuite))
}

func (s *AuthSuite) TestRegister() {
	s.Run("Normal case: a new customer can register and then log in", func() {
		t := s.T()
		w := helper.PerformRequest(t, s.Router, http.MethodPost, registerURL,
			request.RegisterRequest{Email: "new@example.com", Password: "s3cret-pass", Role: "customer"}, "")
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		view := helper.DecodeJSON[queries.AuthorizedUserView](t, w.Body.Bytes())
		require.Equal(t, "new@example.com", view.Email)
		require.Equal(t, "customer", view.Role)
		require.True(t, view.Approved)
		require.True(t, view.IsActive)

		w = helper.PerformRequest(t, s.Router, http.MethodPost, loginURL,
			request.LoginRequest{Email: "new@example.com", Password: "s3cret-pass"}, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	})

	s.Run("Normal case: partner accounts start unapproved", func() {
		t := s.T()
		w := helper.PerformRequest(t, s.Router, http.MethodPost, registerURL,
			request.RegisterRequest{Email: "newpartner@example.com", Password: "s3cret-pass", Role: "partner"}, "")
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		view := helper.DecodeJSON[queries.AuthorizedUserView](t, w.Body.Bytes())
		require.False(t, view.Approved)

		var approved bool
		err := s.DB.QueryRow(context.Background(),
			"SELECT approved FROM users WHERE email = $1", "newpartner@example.com").Scan(&approved)
		require.NoError(t, err)
		require.False(t, approved)
	})

	s.Run("Error case: duplicate email returns 409", func() {
		t := s.T()
		dbtest.CreateTestUser(t, s.DB, "taken@example.com", string(user.RoleCustomer), true)

		w := helper.PerformRequest(t, s.Router, http.MethodPost, registerURL,
			request.RegisterRequest{Email: "taken@example.com", Password: "s3cret-pass", Role: "customer"}, "")
		require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	})

	s.Run("Validation: admin role cannot be self-assigned", func() {
		t := s.T()
		w := helper.PerformRequest(t, s.Router, http.MethodPost, registerURL,
			request.RegisterRequest{Email: "boss@example.com", Password: "s3cret-pass", Role: "admin"}, "")
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	s.Run("Validation: short password is rejected", func() {
		t := s.T()
		w := helper.PerformRequest(t, s.Router, http.MethodPost, registerURL,
			request.RegisterRequest{Email: "weak@example.com", Password: "short", Role: "customer"}, "")
		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func (s *AuthSuite) TestLogin() {
	s.Run("Normal case: valid credentials return a token and the user", func() {
		t := s.T()
		userID := dbtest.CreateTestUser(t, s.DB, "partner@example.com", string(user.RolePartner), true)

		w := helper.PerformRequest(t, s.Router, http.MethodPost, loginURL,
			request.LoginRequest{Email: "partner@example.com", Password: dbtest.TestPassword}, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		resp := helper.DecodeJSON[response.LoginResponse](t, w.Body.Bytes())
		require.NotEmpty(t, resp.AccessToken)
		require.NotNil(t, resp.User)
		require.Equal(t, userID, resp.User.ID)
		require.Equal(t, "partner", resp.User.Role)
		require.True(t, resp.User.Approved)
	})

	s.Run("Normal case: login stamps last_login", func() {
		t := s.T()
		dbtest.CreateTestUser(t, s.DB, "stamped@example.com", string(user.RoleCustomer), true)

		w := helper.PerformRequest(t, s.Router, http.MethodPost, loginURL,
			request.LoginRequest{Email: "stamped@example.com", Password: dbtest.TestPassword}, "")
		require.Equal(t, http.StatusOK, w.Code)

		var hasLogin bool
		err := s.DB.QueryRow(context.Background(),
			"SELECT last_login IS NOT NULL FROM users WHERE email = $1", "stamped@example.com").Scan(&hasLogin)
		require.NoError(t, err)
		require.True(t, hasLogin)
	})

	s.Run("Error case: wrong password returns 401", func() {
		t := s.T()
		dbtest.CreateTestUser(t, s.DB, "partner2@example.com", string(user.RolePartner), true)

		w := helper.PerformRequest(t, s.Router, http.MethodPost, loginURL,
			request.LoginRequest{Email: "partner2@example.com", Password: "wrong-password"}, "")
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	s.Run("Error case: unknown email returns 401", func() {
		t := s.T()
		w := helper.PerformRequest(t, s.Router, http.MethodPost, loginURL,
			request.LoginRequest{Email: "ghost@example.com", Password: dbtest.TestPassword}, "")
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	s.Run("Error case: inactive account returns 403", func() {
		t := s.T()
		dbtest.CreateTestUser(t, s.DB, "gone@example.com", string(user.RolePartner), true)
		_, err := s.DB.Exec(context.Background(),
			"UPDATE users SET is_active = false WHERE email = $1", "gone@example.com")
		require.NoError(t, err)

		w := helper.PerformRequest(t, s.Router, http.MethodPost, loginURL,
			request.LoginRequest{Email: "gone@example.com", Password: dbtest.TestPassword}, "")
		require.Equal(t, http.StatusForbidden, w.Code)
	})

	s.Run("Validation: short password is rejected before hitting the database", func() {
		t := s.T()
		w := helper.PerformRequest(t, s.Router, http.MethodPost, loginURL,
			request.LoginRequest{Email: "partner@example.com", Password: "short"}, "")
		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func (s *AuthSuite) TestMe() {
	s.Run("Normal case: token holder sees their own profile", func() {
		t := s.T()
		userID := dbtest.CreateTestUser(t, s.DB, "me@example.com", string(user.RoleCustomer), true)
		token := s.jwt.LoginUser(t, s.Router, "me@example.com", dbtest.TestPassword)

		w := helper.PerformRequest(t, s.Router, http.MethodGet, meURL, nil, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		view := helper.DecodeJSON[queries.AuthorizedUserView](t, w.Body.Bytes())
		require.Equal(t, userID, view.ID)
		require.Equal(t, "me@example.com", view.Email)
	})

	s.Run("Error case: missing token returns 401", func() {
		t := s.T()
		w := helper.PerformRequest(t, s.Router, http.MethodGet, meURL, nil, "")
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	s.Run("Error case: expired token returns 401", func() {
		t := s.T()
		userID := dbtest.CreateTestUser(t, s.DB, "expired@example.com", string(user.RoleCustomer), true)
		token := s.jwt.CreateExpiredToken(t, userID, user.RoleCustomer)

		w := helper.PerformRequest(t, s.Router, http.MethodGet, meURL, nil, token)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	s.Run("Error case: garbage token returns 401", func() {
		t := s.T()
		w := helper.PerformRequest(t, s.Router, http.MethodGet, meURL, nil, "not.a.jwt")
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
