package service

import (
	"errors"

	"gorm.io/gorm"
)

// notFound 将 gorm 的未找到错误转换为业务错误
func notFound(err error, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}
