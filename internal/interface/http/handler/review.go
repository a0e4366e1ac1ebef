package handler

import (
	"github.com/gin-gonic/gin"

	appreview "github.com/xiebiao/bookreview/internal/application/review"
	"github.com/xiebiao/bookreview/internal/interface/http/dto"
	"github.com/xiebiao/bookreview/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/bookreview/pkg/errors"
	"github.com/xiebiao/bookreview/pkg/response"
	"github.com/xiebiao/bookreview/pkg/validator"
)

// ReviewHandler 书评HTTP处理器
type ReviewHandler struct {
	createReviewUseCase *appreview.CreateReviewUseCase
	listReviewsUseCase  *appreview.ListReviewsUseCase
}

// NewReviewHandler 创建书评处理器
func NewReviewHandler(
	createReviewUseCase *appreview.CreateReviewUseCase,
	listReviewsUseCase *appreview.ListReviewsUseCase,
) *ReviewHandler {
	return &ReviewHandler{
		createReviewUseCase: createReviewUseCase,
		listReviewsUseCase:  listReviewsUseCase,
	}
}

// CreateReview 发表书评
// @Summary      发表书评
// @Description  登录用户为图书发表书评，评分为1到5的整数
// @Tags         书评
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        bookId  path string                  true "图书ID"
// @Param        request body dto.CreateReviewRequest true "书评内容"
// @Success      201 {object} response.Response{data=appreview.ReviewDTO}
// @Failure      400 {object} response.Response "参数错误"
// @Failure      401 {object} response.Response "未登录"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/reviews/{bookId} [post]
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	// 1. 参数绑定与验证
	var uri dto.ReviewURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, validator.Translate(err))
		return
	}
	var req dto.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, validator.Translate(err))
		return
	}

	// 2. 当前登录用户
	identity, ok := middleware.IdentityFrom(c.Request.Context())
	if !ok {
		response.Error(c, apperrors.ErrUnauthorized)
		return
	}

	// 3. 调用应用层用例
	result, err := h.createReviewUseCase.Execute(c.Request.Context(), appreview.CreateReviewRequest{
		BookID:           uri.BookID,
		Rating:           req.Rating,
		Text:             *req.ReviewText,
		ReviewerID:       identity.UserID,
		ReviewerUsername: identity.Username,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ListReviews 书评列表
// @Summary      书评列表
// @Description  按发表顺序返回图书的全部书评；未知图书返回空列表
// @Tags         书评
// @Produce      json
// @Param        bookId path string true "图书ID"
// @Success      200 {object} response.Response{data=[]appreview.ReviewDTO}
// @Router       /api/reviews/{bookId} [get]
func (h *ReviewHandler) ListReviews(c *gin.Context) {
	var uri dto.ReviewURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, validator.Translate(err))
		return
	}

	result, err := h.listReviewsUseCase.Execute(c.Request.Context(), uri.BookID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
