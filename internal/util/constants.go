package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

// 分页默认值
const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// 题目图片上传
const (
	MimeImage     = "image/"
	MaxImageBytes = 5 << 20
)

var (
	AllowedImageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".webp"}
)
