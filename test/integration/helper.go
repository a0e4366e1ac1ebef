//go:build integration

// Package integration 针对运行中的服务的端到端测试
//
// 运行方式：
//
//	go run ./cmd/api &
//	go test -tags=integration ./test/integration/...
//
// 服务地址可通过BOOKREVIEW_BASE_URL覆盖（默认 http://localhost:8080/api）
package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Timeout HTTP请求超时时间
const Timeout = 10 * time.Second

// BaseURL API基础URL
var BaseURL = baseURL()

func baseURL() string {
	if u := os.Getenv("BOOKREVIEW_BASE_URL"); u != "" {
		return u
	}
	return "http://localhost:8080/api"
}

// Response 统一响应结构
type Response struct {
	Status  int             `json:"-"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// LoginData 登录响应数据
type LoginData struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// BookData 图书响应数据
type BookData struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Author        string  `json:"author"`
	Genre         string  `json:"genre"`
	PublishedYear int     `json:"publishedYear"`
	AverageRating float64 `json:"averageRating"`
	ReviewCount   int64   `json:"reviewCount"`
}

// BookListData 图书列表响应数据
type BookListData struct {
	List       []BookData `json:"list"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalPages int        `json:"total_pages"`
}

// ReviewData 书评响应数据
type ReviewData struct {
	ID       string `json:"id"`
	BookID   string `json:"bookId"`
	Text     string `json:"review_text"`
	Rating   int    `json:"rating"`
	Reviewer struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	} `json:"reviewer"`
}

// PostJSON 发送POST请求并解析JSON响应
func PostJSON(t *testing.T, url string, data interface{}, token string) *Response {
	t.Helper()
	jsonData, err := json.Marshal(data)
	require.NoError(t, err, "JSON序列化失败")

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(jsonData))
	require.NoError(t, err, "创建HTTP请求失败")
	req.Header.Set("Content-Type", "application/json")
	return do(t, req, token)
}

// GetJSON 发送GET请求并解析JSON响应
func GetJSON(t *testing.T, url string, token string) *Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err, "创建HTTP请求失败")
	return do(t, req, token)
}

func do(t *testing.T, req *http.Request, token string) *Response {
	t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: Timeout}
	resp, err := client.Do(req)
	require.NoError(t, err, "发送HTTP请求失败")
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "读取响应体失败")

	result := Response{Status: resp.StatusCode}
	require.NoError(t, json.Unmarshal(body, &result), "解析JSON响应失败: %s", string(body))
	return &result
}

var seq atomic.Int64

// UniqueName 生成唯一的测试名称（用户名、邮箱前缀、书名）
func UniqueName(prefix string) string {
	return fmt.Sprintf("%s_%d_%d", prefix, time.Now().UnixNano()%1_000_000_000, seq.Add(1))
}

// RegisterTestUser 注册并登录测试用户，返回用户名和Access Token
func RegisterTestUser(t *testing.T, prefix string) (username string, token string) {
	t.Helper()
	username = UniqueName(prefix)
	email := username + "@test.com"

	resp := PostJSON(t, BaseURL+"/auth/signup", map[string]string{
		"username": username,
		"email":    email,
		"password": "Test1234",
	}, "")
	require.Equal(t, http.StatusCreated, resp.Status, "注册失败: %s", resp.Message)

	resp = PostJSON(t, BaseURL+"/auth/login", map[string]string{
		"email":    email,
		"password": "Test1234",
	}, "")
	require.Equal(t, http.StatusOK, resp.Status, "登录失败: %s", resp.Message)

	var login LoginData
	require.NoError(t, json.Unmarshal(resp.Data, &login), "解析登录响应失败")
	return username, login.Token
}

// CreateTestBook 添加测试图书并返回图书
func CreateTestBook(t *testing.T, token, genre string) BookData {
	t.Helper()
	resp := PostJSON(t, BaseURL+"/books", map[string]interface{}{
		"title":         UniqueName("book"),
		"author":        "测试作者",
		"genre":         genre,
		"publishedYear": 2020,
		"description":   "集成测试用图书",
	}, token)
	require.Equal(t, http.StatusCreated, resp.Status, "添加图书失败: %s", resp.Message)

	var book BookData
	require.NoError(t, json.Unmarshal(resp.Data, &book), "解析图书响应失败")
	return book
}
