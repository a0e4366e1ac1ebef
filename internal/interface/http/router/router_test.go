package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	_ "github.com/xiebiao/bookreview/docs"
	appbook "github.com/xiebiao/bookreview/internal/application/book"
	appreview "github.com/xiebiao/bookreview/internal/application/review"
	appuser "github.com/xiebiao/bookreview/internal/application/user"
	"github.com/xiebiao/bookreview/internal/domain/book"
	"github.com/xiebiao/bookreview/internal/domain/rating"
	"github.com/xiebiao/bookreview/internal/domain/review"
	"github.com/xiebiao/bookreview/internal/domain/user"
	"github.com/xiebiao/bookreview/internal/infrastructure/config"
	"github.com/xiebiao/bookreview/internal/infrastructure/persistence"
	"github.com/xiebiao/bookreview/internal/infrastructure/persistence/memory"
	"github.com/xiebiao/bookreview/internal/interface/http/handler"
	"github.com/xiebiao/bookreview/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/bookreview/pkg/errors"
	"github.com/xiebiao/bookreview/pkg/jwt"
	"github.com/xiebiao/bookreview/pkg/metrics"
	"github.com/xiebiao/bookreview/pkg/mq"
	"github.com/xiebiao/bookreview/pkg/validator"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type pageData struct {
	List     []appbook.BookDTO `json:"list"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

type testApp struct {
	t      *testing.T
	engine *gin.Engine
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: 8080, Mode: gin.TestMode},
		JWT: config.JWTConfig{
			Secret:             "router-test-secret",
			AccessTokenExpire:  time.Hour,
			RefreshTokenExpire: 24 * time.Hour,
			BcryptCost:         bcrypt.MinCost,
		},
		CORS: config.CORSConfig{
			AllowOrigins: []string{"http://localhost:3000"},
			AllowMethods: []string{"GET", "POST", "OPTIONS"},
			AllowHeaders: []string{"Content-Type", "Authorization"},
			MaxAge:       time.Hour,
		},
		RateLimit: config.RateLimitConfig{Enabled: true, RPS: 1000, Burst: 1000, IdleTTL: time.Minute},
	}
}

// newTestApp 使用内存存储组装完整的路由
func newTestApp(t *testing.T, cfg *config.Config) *testApp {
	t.Helper()
	validator.Setup()
	metrics.InitMetrics()

	repos := persistence.NewMemoryRepositories()
	sessions := memory.NewSessionStore()
	jwtManager := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpire, cfg.JWT.RefreshTokenExpire)

	userService := user.NewService(repos.Users, cfg.JWT.BcryptCost)
	bookService := book.NewService(repos.Books)
	reviewService := review.NewService(repos.Reviews, repos.Books)
	aggregator := rating.NewAggregator(repos.Reviews)
	publisher := mq.NopPublisher{}

	h := Handlers{
		User: handler.NewUserHandler(
			appuser.NewRegisterUseCase(userService),
			appuser.NewLoginUseCase(userService, jwtManager, sessions),
			appuser.NewRefreshTokenUseCase(jwtManager, sessions),
			appuser.NewLogoutUseCase(jwtManager, sessions),
			appuser.NewGetProfileUseCase(userService),
		),
		Book: handler.NewBookHandler(
			appbook.NewCreateBookUseCase(bookService, publisher),
			appbook.NewListBooksUseCase(bookService, aggregator),
			appbook.NewGetBookUseCase(bookService, aggregator),
		),
		Review: handler.NewReviewHandler(
			appreview.NewCreateReviewUseCase(reviewService, publisher),
			appreview.NewListReviewsUseCase(reviewService, userService),
		),
	}

	var limiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		limiter = middleware.NewRateLimiter(cfg.RateLimit)
	}
	return &testApp{t: t, engine: New(cfg, h, middleware.NewAuthMiddleware(jwtManager, sessions), limiter)}
}

func (a *testApp) do(method, path string, body interface{}, token string) (*httptest.ResponseRecorder, envelope) {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 && w.Header().Get("Content-Type") != "" {
		_ = json.Unmarshal(w.Body.Bytes(), &env)
	}
	return w, env
}

// signupAndLogin 注册并登录，返回access token和refresh token
func (a *testApp) signupAndLogin(username string) (string, string) {
	a.t.Helper()
	w, _ := a.do(http.MethodPost, "/api/auth/signup", gin.H{
		"username": username,
		"email":    username + "@example.com",
		"password": "secret123",
	}, "")
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())

	w, env := a.do(http.MethodPost, "/api/auth/login", gin.H{
		"email":    username + "@example.com",
		"password": "secret123",
	}, "")
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())

	var login appuser.LoginResponse
	require.NoError(a.t, json.Unmarshal(env.Data, &login))
	require.NotEmpty(a.t, login.Token)
	return login.Token, login.RefreshToken
}

func (a *testApp) createBook(token, title, genre string) appbook.BookDTO {
	a.t.Helper()
	w, env := a.do(http.MethodPost, "/api/books", gin.H{
		"title":         title,
		"author":        "刘慈欣",
		"genre":         genre,
		"publishedYear": 2008,
		"description":   "desc",
	}, token)
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())

	var dto appbook.BookDTO
	require.NoError(a.t, json.Unmarshal(env.Data, &dto))
	return dto
}

func (a *testApp) createReview(token, bookID string, score int) {
	a.t.Helper()
	w, _ := a.do(http.MethodPost, "/api/reviews/"+bookID, gin.H{
		"review_text": fmt.Sprintf("rated %d", score),
		"rating":      score,
	}, token)
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
}

func TestPing(t *testing.T) {
	app := newTestApp(t, testConfig())

	w, env := app.do(http.MethodGet, "/ping", nil, "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, env.Code)
	assert.JSONEq(t, `{"message":"pong","status":"healthy"}`, string(env.Data))
}

func TestUnknownRoute(t *testing.T) {
	app := newTestApp(t, testConfig())

	w, env := app.do(http.MethodGet, "/api/unknown", nil, "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apperrors.ErrCodeNotFound, env.Code)
}

func TestMetricsAndSwagger(t *testing.T) {
	app := newTestApp(t, testConfig())
	app.do(http.MethodGet, "/ping", nil, "")

	w := httptest.NewRecorder()
	app.engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")

	w = httptest.NewRecorder()
	app.engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/api/reviews/{bookId}")
}

func TestAuthFlow(t *testing.T) {
	app := newTestApp(t, testConfig())

	t.Run("注册成功返回201且不含密码", func(t *testing.T) {
		w, env := app.do(http.MethodPost, "/api/auth/signup", gin.H{
			"username": "alice",
			"email":    "alice@example.com",
			"password": "secret123",
		}, "")

		assert.Equal(t, http.StatusCreated, w.Code)
		var info appuser.UserInfo
		require.NoError(t, json.Unmarshal(env.Data, &info))
		assert.NotEmpty(t, info.ID)
		assert.Equal(t, "alice", info.Username)
		assert.NotContains(t, string(env.Data), "password")
	})

	t.Run("用户名或邮箱重复返回400", func(t *testing.T) {
		w, env := app.do(http.MethodPost, "/api/auth/signup", gin.H{
			"username": "alice",
			"email":    "other@example.com",
			"password": "secret123",
		}, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, apperrors.ErrCodeUsernameDuplicate, env.Code)

		w, env = app.do(http.MethodPost, "/api/auth/signup", gin.H{
			"username": "alice2",
			"email":    "alice@example.com",
			"password": "secret123",
		}, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, apperrors.ErrCodeEmailDuplicate, env.Code)
	})

	t.Run("缺少字段返回400", func(t *testing.T) {
		w, _ := app.do(http.MethodPost, "/api/auth/signup", gin.H{"email": "x@example.com"}, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("密码错误返回400", func(t *testing.T) {
		w, env := app.do(http.MethodPost, "/api/auth/login", gin.H{
			"email":    "alice@example.com",
			"password": "wrong-password",
		}, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, apperrors.ErrCodeInvalidCredentials, env.Code)
	})

	t.Run("登录、查询身份、刷新、退出", func(t *testing.T) {
		w, env := app.do(http.MethodPost, "/api/auth/login", gin.H{
			"email":    "alice@example.com",
			"password": "secret123",
		}, "")
		require.Equal(t, http.StatusOK, w.Code)
		var login appuser.LoginResponse
		require.NoError(t, json.Unmarshal(env.Data, &login))

		w, env = app.do(http.MethodGet, "/api/auth/me", nil, login.Token)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, string(env.Data), `"username":"alice"`)

		w, env = app.do(http.MethodPost, "/api/auth/refresh", gin.H{"refresh_token": login.RefreshToken}, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, string(env.Data), `"token"`)

		w, _ = app.do(http.MethodPost, "/api/auth/logout", gin.H{"refresh_token": login.RefreshToken}, login.Token)
		require.Equal(t, http.StatusOK, w.Code)

		// 退出后两个Token都失效
		w, env = app.do(http.MethodGet, "/api/auth/me", nil, login.Token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, apperrors.ErrCodeTokenRevoked, env.Code)

		w, _ = app.do(http.MethodPost, "/api/auth/refresh", gin.H{"refresh_token": login.RefreshToken}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Token格式错误返回401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		req.Header.Set("Authorization", "Token abc")
		w := httptest.NewRecorder()
		app.engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestBookEndpoints(t *testing.T) {
	app := newTestApp(t, testConfig())
	token, _ := app.signupAndLogin("bob")

	t.Run("未登录不能添加图书", func(t *testing.T) {
		w, env := app.do(http.MethodPost, "/api/books", gin.H{
			"title": "三体", "author": "刘慈欣", "genre": "科幻", "publishedYear": 2008,
		}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, apperrors.ErrCodeUnauthorized, env.Code)
	})

	t.Run("添加图书返回零评分", func(t *testing.T) {
		dto := app.createBook(token, "三体", "科幻")
		assert.NotEmpty(t, dto.ID)
		assert.Equal(t, 0.0, dto.AverageRating)
		assert.Equal(t, int64(0), dto.ReviewCount)
		assert.NotEmpty(t, dto.CreatedBy)
	})

	t.Run("空白标题返回400", func(t *testing.T) {
		w, _ := app.do(http.MethodPost, "/api/books", gin.H{
			"title": "   ", "author": "刘慈欣", "genre": "科幻", "publishedYear": 2008,
		}, token)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("图书不存在返回404", func(t *testing.T) {
		w, env := app.do(http.MethodGet, "/api/books/missing-id", nil, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, apperrors.ErrCodeBookNotFound, env.Code)
	})

	t.Run("非法分页参数返回400", func(t *testing.T) {
		for _, query := range []string{"page=-1", "limit=-5", "sortBy=price", "order=up"} {
			w, _ := app.do(http.MethodGet, "/api/books?"+query, nil, "")
			assert.Equal(t, http.StatusBadRequest, w.Code, query)
		}
	})

	t.Run("按类型过滤并分页", func(t *testing.T) {
		app.createBook(token, "球状闪电", "科幻")
		app.createBook(token, "活着", "文学")

		w, env := app.do(http.MethodGet, "/api/books?genre="+url.QueryEscape("科幻")+"&limit=1&page=2&sortBy=title&order=asc", nil, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var page pageData
		require.NoError(t, json.Unmarshal(env.Data, &page))
		assert.Equal(t, int64(2), page.Total)
		assert.Equal(t, 2, page.Page)
		assert.Equal(t, 1, page.PageSize)
		require.Len(t, page.List, 1)
	})
}

func TestReviewsDriveRatings(t *testing.T) {
	app := newTestApp(t, testConfig())
	alice, _ := app.signupAndLogin("alice")
	bob, _ := app.signupAndLogin("bob")

	high := app.createBook(alice, "高分", "科幻")
	low := app.createBook(alice, "低分", "科幻")
	none := app.createBook(alice, "无评", "科幻")

	app.createReview(alice, high.ID, 5)
	app.createReview(bob, high.ID, 4)
	app.createReview(alice, low.ID, 2)

	t.Run("详情实时反映评分", func(t *testing.T) {
		w, env := app.do(http.MethodGet, "/api/books/"+high.ID, nil, "")
		require.Equal(t, http.StatusOK, w.Code)

		var dto appbook.BookDTO
		require.NoError(t, json.Unmarshal(env.Data, &dto))
		assert.Equal(t, 4.5, dto.AverageRating)
		assert.Equal(t, int64(2), dto.ReviewCount)
	})

	t.Run("按评分排序", func(t *testing.T) {
		w, env := app.do(http.MethodGet, "/api/books?sortBy=rating", nil, "")
		require.Equal(t, http.StatusOK, w.Code)

		var page pageData
		require.NoError(t, json.Unmarshal(env.Data, &page))
		require.Len(t, page.List, 3)
		assert.Equal(t, high.ID, page.List[0].ID)
		assert.Equal(t, low.ID, page.List[1].ID)
		assert.Equal(t, none.ID, page.List[2].ID)
	})

	t.Run("书评按发表顺序返回并带评论者", func(t *testing.T) {
		w, env := app.do(http.MethodGet, "/api/reviews/"+high.ID, nil, "")
		require.Equal(t, http.StatusOK, w.Code)

		var reviews []appreview.ReviewDTO
		require.NoError(t, json.Unmarshal(env.Data, &reviews))
		require.Len(t, reviews, 2)
		assert.Equal(t, "alice", reviews[0].Reviewer.Username)
		assert.Equal(t, "bob", reviews[1].Reviewer.Username)
		assert.Equal(t, 5, reviews[0].Rating)
	})

	t.Run("未知图书的书评列表为空数组", func(t *testing.T) {
		w, env := app.do(http.MethodGet, "/api/reviews/unknown", nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, string(env.Data))
	})

	t.Run("评分越界返回400", func(t *testing.T) {
		for _, score := range []int{0, 6} {
			w, _ := app.do(http.MethodPost, "/api/reviews/"+high.ID, gin.H{
				"review_text": "x", "rating": score,
			}, bob)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		}
	})

	t.Run("图书不存在时发表书评返回404", func(t *testing.T) {
		w, _ := app.do(http.MethodPost, "/api/reviews/unknown", gin.H{
			"review_text": "x", "rating": 3,
		}, bob)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("未登录不能发表书评", func(t *testing.T) {
		w, _ := app.do(http.MethodPost, "/api/reviews/"+high.ID, gin.H{
			"review_text": "x", "rating": 3,
		}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAuthRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit = config.RateLimitConfig{Enabled: true, RPS: 0.001, Burst: 2, IdleTTL: time.Minute}
	app := newTestApp(t, cfg)

	body := gin.H{"email": "nobody@example.com", "password": "secret123"}
	for i := 0; i < 2; i++ {
		w, _ := app.do(http.MethodPost, "/api/auth/login", body, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}

	w, env := app.do(http.MethodPost, "/api/auth/login", body, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, apperrors.ErrCodeTooManyRequests, env.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))

	// 只限制认证接口
	w, _ = app.do(http.MethodGet, "/api/books", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	app := newTestApp(t, testConfig())

	req := httptest.NewRequest(http.MethodOptions, "/api/books", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	app.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "3600", w.Header().Get("Access-Control-Max-Age"))
}
