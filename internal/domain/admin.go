package domain

// Admin 表示后台管理员账户。
//
// 系统只在首次启动时播种一个默认账户，用户名和密码均可修改。
type Admin struct {
	ID           int64  `json:"id" db:"id"`
	Username     string `json:"username" db:"username"`
	PasswordHash string `json:"-" db:"password_hash"` // 不返回给前端
}
