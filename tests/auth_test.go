package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"caffito/internal/config"
	"caffito/internal/dto"
	"caffito/internal/handler"
	"caffito/internal/middleware"
	"caffito/internal/model"
	"caffito/internal/repository"
	"caffito/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test_jwt_secret_32_chars_minimum!"

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestCfg() *config.Config {
	return &config.Config{
		JWTSecret:          testSecret,
		JWTExpirationHours: 1,
		JWTRefreshHours:    24,
	}
}

// ── In-memory UsuarioRepository ──────────────────────────────────────────────

type stubUsuarioRepo struct {
	usuarios map[uuid.UUID]*model.Usuario
}

func newStubUsuarioRepo() *stubUsuarioRepo {
	return &stubUsuarioRepo{usuarios: make(map[uuid.UUID]*model.Usuario)}
}

func (r *stubUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	cp := *u
	r.usuarios[u.ID] = &cp
	return nil
}

func (r *stubUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	u, ok := r.usuarios[id]
	if !ok {
		return nil, errors.New("not found")
	}
	cp := *u
	return &cp, nil
}

func (r *stubUsuarioRepo) FindByUsername(_ context.Context, username string) (*model.Usuario, error) {
	for _, u := range r.usuarios {
		if u.Username == username && u.Activo {
			cp := *u
			return &cp, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *stubUsuarioRepo) List(_ context.Context) ([]model.Usuario, error) {
	var out []model.Usuario
	for _, u := range r.usuarios {
		if u.Activo {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *stubUsuarioRepo) Update(_ context.Context, u *model.Usuario) error {
	cp := *u
	r.usuarios[u.ID] = &cp
	return nil
}

func (r *stubUsuarioRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	u, ok := r.usuarios[id]
	if !ok {
		return errors.New("not found")
	}
	u.Activo = false
	return nil
}

var _ repository.UsuarioRepository = (*stubUsuarioRepo)(nil)

// ── Helpers ──────────────────────────────────────────────────────────────────

func seedUser(t *testing.T, repo *stubUsuarioRepo, username, password, rol string) *model.Usuario {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := &model.Usuario{
		Username:     username,
		Nombre:       "Usuario Test",
		PasswordHash: string(hash),
		Rol:          rol,
		Activo:       true,
	}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func authTestRouter(repo *stubUsuarioRepo) *gin.Engine {
	cfg := newTestCfg()
	svc := service.NewAuthService(repo, cfg)
	authH := handler.NewAuthHandler(svc)
	usuariosH := handler.NewUsuariosHandler(svc)

	r := gin.New()
	r.POST("/v1/auth/login", authH.Login)
	r.POST("/v1/auth/refresh", authH.Refresh)

	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	r.GET("/v1/protegido", jwtMW, func(c *gin.Context) {
		claims := middleware.GetClaims(c)
		c.JSON(http.StatusOK, gin.H{"username": claims.Username})
	})
	r.GET("/v1/solo-admin", jwtMW, middleware.RequireRole("administrador"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	admin := r.Group("/v1/usuarios", jwtMW, middleware.RequireRole("administrador"))
	admin.POST("", usuariosH.Crear)
	admin.GET("", usuariosH.Listar)
	admin.DELETE("/:id", usuariosH.Desactivar)
	return r
}

func doJSON(r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func doLogin(t *testing.T, r *gin.Engine, username, password string) dto.LoginResponse {
	t.Helper()
	w := doJSON(r, http.MethodPost, "/v1/auth/login", "", dto.LoginRequest{Username: username, Password: password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp dto.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

// ── Login ────────────────────────────────────────────────────────────────────

func TestLogin_OK(t *testing.T) {
	repo := newStubUsuarioRepo()
	seedUser(t, repo, "cajero@caffito.com", "secreto123", "cajero")
	r := authTestRouter(repo)

	resp := doLogin(t, r, "cajero@caffito.com", "secreto123")

	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 3600, resp.ExpiresIn)
	assert.Equal(t, "cajero@caffito.com", resp.User.Username)
	assert.Equal(t, "cajero", resp.User.Rol)
}

func TestLogin_PasswordIncorrecta(t *testing.T) {
	repo := newStubUsuarioRepo()
	seedUser(t, repo, "cajero@caffito.com", "secreto123", "cajero")
	r := authTestRouter(repo)

	w := doJSON(r, http.MethodPost, "/v1/auth/login", "", dto.LoginRequest{
		Username: "cajero@caffito.com", Password: "otra-clave",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "credenciales invalidas")
}

func TestLogin_UsuarioInexistente(t *testing.T) {
	r := authTestRouter(newStubUsuarioRepo())

	w := doJSON(r, http.MethodPost, "/v1/auth/login", "", dto.LoginRequest{
		Username: "nadie@caffito.com", Password: "secreto123",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogin_PasswordCorta(t *testing.T) {
	r := authTestRouter(newStubUsuarioRepo())

	w := doJSON(r, http.MethodPost, "/v1/auth/login", "", dto.LoginRequest{
		Username: "cajero@caffito.com", Password: "123",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestLogin_JSONInvalido(t *testing.T) {
	r := authTestRouter(newStubUsuarioRepo())

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", bytes.NewBufferString("{no es json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// ── Refresh ──────────────────────────────────────────────────────────────────

func TestRefresh_OK(t *testing.T) {
	repo := newStubUsuarioRepo()
	seedUser(t, repo, "cajero@caffito.com", "secreto123", "cajero")
	r := authTestRouter(repo)

	login := doLogin(t, r, "cajero@caffito.com", "secreto123")

	w := doJSON(r, http.MethodPost, "/v1/auth/refresh", "", dto.RefreshRequest{RefreshToken: login.RefreshToken})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp dto.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.AccessToken)
}

func TestRefresh_TokenInvalido(t *testing.T) {
	r := authTestRouter(newStubUsuarioRepo())

	w := doJSON(r, http.MethodPost, "/v1/auth/refresh", "", dto.RefreshRequest{RefreshToken: "basura"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRefresh_TokenExpirado(t *testing.T) {
	repo := newStubUsuarioRepo()
	user := seedUser(t, repo, "cajero@caffito.com", "secreto123", "cajero")
	r := authTestRouter(repo)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID.String(),
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})
	tokenStr, err := expired.SignedString([]byte(testSecret))
	require.NoError(t, err)

	w := doJSON(r, http.MethodPost, "/v1/auth/refresh", "", dto.RefreshRequest{RefreshToken: tokenStr})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "refresh token invalido o expirado")
}

func TestRefresh_UsuarioDesactivado(t *testing.T) {
	repo := newStubUsuarioRepo()
	user := seedUser(t, repo, "cajero@caffito.com", "secreto123", "cajero")
	r := authTestRouter(repo)

	login := doLogin(t, r, "cajero@caffito.com", "secreto123")
	require.NoError(t, repo.SoftDelete(context.Background(), user.ID))

	w := doJSON(r, http.MethodPost, "/v1/auth/refresh", "", dto.RefreshRequest{RefreshToken: login.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "usuario no encontrado o inactivo")
}

// ── Middleware ───────────────────────────────────────────────────────────────

func TestJWTAuth_SinToken(t *testing.T) {
	r := authTestRouter(newStubUsuarioRepo())

	w := doJSON(r, http.MethodGet, "/v1/protegido", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Autenticacion requerida")
}

func TestJWTAuth_TokenValido(t *testing.T) {
	repo := newStubUsuarioRepo()
	seedUser(t, repo, "cajero@caffito.com", "secreto123", "cajero")
	r := authTestRouter(repo)

	login := doLogin(t, r, "cajero@caffito.com", "secreto123")
	w := doJSON(r, http.MethodGet, "/v1/protegido", login.AccessToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "cajero@caffito.com")
}

func TestJWTAuth_TokenExpirado(t *testing.T) {
	r := authTestRouter(newStubUsuarioRepo())

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": uuid.NewString(),
		"exp":     time.Now().Add(-time.Minute).Unix(),
	})
	tokenStr, err := expired.SignedString([]byte(testSecret))
	require.NoError(t, err)

	w := doJSON(r, http.MethodGet, "/v1/protegido", tokenStr, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Token invalido o expirado")
}

func TestRequireRole_Insuficiente(t *testing.T) {
	repo := newStubUsuarioRepo()
	seedUser(t, repo, "cajero@caffito.com", "secreto123", "cajero")
	r := authTestRouter(repo)

	login := doLogin(t, r, "cajero@caffito.com", "secreto123")
	w := doJSON(r, http.MethodGet, "/v1/solo-admin", login.AccessToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Permisos insuficientes")
}

func TestRequireRole_Admin(t *testing.T) {
	repo := newStubUsuarioRepo()
	seedUser(t, repo, "admin@caffito.com", "secreto123", "administrador")
	r := authTestRouter(repo)

	login := doLogin(t, r, "admin@caffito.com", "secreto123")
	w := doJSON(r, http.MethodGet, "/v1/solo-admin", login.AccessToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

// ── Gestión de usuarios ──────────────────────────────────────────────────────

func TestUsuarios_CrearListarDesactivar(t *testing.T) {
	repo := newStubUsuarioRepo()
	seedUser(t, repo, "admin@caffito.com", "secreto123", "administrador")
	r := authTestRouter(repo)
	login := doLogin(t, r, "admin@caffito.com", "secreto123")

	// Crear
	w := doJSON(r, http.MethodPost, "/v1/usuarios", login.AccessToken, dto.CrearUsuarioRequest{
		Username: "nuevo@caffito.com",
		Nombre:   "Nuevo Cajero",
		Password: "clave-segura",
		Rol:      "cajero",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var creado dto.UsuarioResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &creado))
	assert.Equal(t, "nuevo@caffito.com", creado.Username)
	assert.True(t, creado.Activo)

	// Listar
	w = doJSON(r, http.MethodGet, "/v1/usuarios", login.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var lista []dto.UsuarioResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &lista))
	assert.Len(t, lista, 2)

	// Desactivar
	w = doJSON(r, http.MethodDelete, "/v1/usuarios/"+creado.ID, login.AccessToken, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	usuario := repo.usuarios[uuid.MustParse(creado.ID)]
	assert.False(t, usuario.Activo)
}

func TestUsuarios_RolInvalido(t *testing.T) {
	repo := newStubUsuarioRepo()
	seedUser(t, repo, "admin@caffito.com", "secreto123", "administrador")
	r := authTestRouter(repo)
	login := doLogin(t, r, "admin@caffito.com", "secreto123")

	w := doJSON(r, http.MethodPost, "/v1/usuarios", login.AccessToken, dto.CrearUsuarioRequest{
		Username: "nuevo@caffito.com",
		Nombre:   "Nuevo",
		Password: "clave-segura",
		Rol:      "gerente",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
