package handler

import (
	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/bookreview/internal/application/book"
	"github.com/xiebiao/bookreview/internal/interface/http/dto"
	"github.com/xiebiao/bookreview/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/bookreview/pkg/errors"
	"github.com/xiebiao/bookreview/pkg/response"
	"github.com/xiebiao/bookreview/pkg/validator"
)

// BookHandler 图书HTTP处理器
type BookHandler struct {
	createBookUseCase *appbook.CreateBookUseCase
	listBooksUseCase  *appbook.ListBooksUseCase
	getBookUseCase    *appbook.GetBookUseCase
}

// NewBookHandler 创建图书处理器
func NewBookHandler(
	createBookUseCase *appbook.CreateBookUseCase,
	listBooksUseCase *appbook.ListBooksUseCase,
	getBookUseCase *appbook.GetBookUseCase,
) *BookHandler {
	return &BookHandler{
		createBookUseCase: createBookUseCase,
		listBooksUseCase:  listBooksUseCase,
		getBookUseCase:    getBookUseCase,
	}
}

// CreateBook 添加图书
// @Summary      添加图书
// @Description  登录用户添加一本图书，新书的平均分和书评数为0
// @Tags         图书
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateBookRequest true "图书信息"
// @Success      201 {object} response.Response{data=appbook.BookDTO}
// @Failure      400 {object} response.Response "参数错误"
// @Failure      401 {object} response.Response "未登录"
// @Router       /api/books [post]
func (h *BookHandler) CreateBook(c *gin.Context) {
	// 1. 参数绑定与验证
	var req dto.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, validator.Translate(err))
		return
	}

	// 2. 当前登录用户(认证中间件写入请求上下文)
	identity, ok := middleware.IdentityFrom(c.Request.Context())
	if !ok {
		response.Error(c, apperrors.ErrUnauthorized)
		return
	}

	// 3. 调用应用层用例
	result, err := h.createBookUseCase.Execute(c.Request.Context(), appbook.CreateBookRequest{
		Title:         req.Title,
		Author:        req.Author,
		Genre:         req.Genre,
		PublishedYear: req.PublishedYear,
		Description:   req.Description,
		CreatorID:     identity.UserID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ListBooks 图书列表
// @Summary      图书列表
// @Description  按类型/作者过滤，按创建时间、评分、书名或作者排序，分页返回；每本书附带实时计算的平均分和书评数
// @Tags         图书
// @Produce      json
// @Param        genre   query string false "类型(精确匹配)"
// @Param        author  query string false "作者(精确匹配)"
// @Param        page    query int    false "页码" default(1)
// @Param        limit   query int    false "每页数量(最大100)" default(5)
// @Param        sortBy  query string false "排序字段" Enums(createdAt, rating, title, author) default(createdAt)
// @Param        order   query string false "排序方向(评分排序固定为降序)" Enums(desc, asc) default(desc)
// @Success      200 {object} response.Response{data=response.PageData{list=[]appbook.BookDTO}}
// @Failure      400 {object} response.Response "参数错误"
// @Router       /api/books [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	var req dto.ListBooksRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, validator.Translate(err))
		return
	}

	result, err := h.listBooksUseCase.Execute(c.Request.Context(), appbook.ListBooksRequest{
		Genre:    req.Genre,
		Author:   req.Author,
		SortBy:   req.SortBy,
		Order:    req.Order,
		Page:     req.Page,
		PageSize: req.Limit,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPage(c, result.List, result.Total, result.Page, result.PageSize)
}

// GetBook 图书详情
// @Summary      图书详情
// @Tags         图书
// @Produce      json
// @Param        id path string true "图书ID"
// @Success      200 {object} response.Response{data=appbook.BookDTO}
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/books/{id} [get]
func (h *BookHandler) GetBook(c *gin.Context) {
	var uri dto.BookURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, validator.Translate(err))
		return
	}

	result, err := h.getBookUseCase.Execute(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
