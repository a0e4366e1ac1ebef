package dto

// CreateBookRequest HTTP创建图书请求
// validator tag说明:
// - required/notblank: 必填且不能全为空白(notblank在pkg/validator中注册)
// - max: 长度上限(按字符数)
// 出版年份的范围与当前年份有关,由领域服务校验
type CreateBookRequest struct {
	Title         string `json:"title" binding:"required,notblank,max=200" example:"三体"`
	Author        string `json:"author" binding:"required,notblank,max=100" example:"刘慈欣"`
	Genre         string `json:"genre" binding:"required,notblank,max=50" example:"科幻"`
	PublishedYear int    `json:"publishedYear" binding:"required" example:"2008"`
	Description   string `json:"description" binding:"max=2000" example:"文化大革命如火如荼进行的同时……"`
}

// ListBooksRequest HTTP图书列表请求
// page/limit为0或不传时使用默认值;负数返回400
type ListBooksRequest struct {
	Genre  string `form:"genre" binding:"max=50" example:"科幻"`
	Author string `form:"author" binding:"max=100" example:"刘慈欣"`
	Page   int    `form:"page" binding:"gte=0" example:"1"`
	Limit  int    `form:"limit" binding:"gte=0" example:"5"`
	SortBy string `form:"sortBy" example:"createdAt"` // createdAt | rating | title | author
	Order  string `form:"order" example:"desc"`       // desc | asc
}

// BookURI 路径参数
type BookURI struct {
	ID string `uri:"id" binding:"required"`
}
