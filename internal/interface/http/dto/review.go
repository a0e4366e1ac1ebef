package dto

// CreateReviewRequest HTTP发表书评请求
// review_text用指针区分"没传"和"传了空串",两者都返回400
type CreateReviewRequest struct {
	ReviewText *string `json:"review_text" binding:"required,notblank,max=5000" example:"非常精彩"`
	Rating     int     `json:"rating" binding:"required,min=1,max=5" example:"5"`
}

// ReviewURI 路径参数
type ReviewURI struct {
	BookID string `uri:"bookId" binding:"required"`
}
