package utils

import "github.com/google/uuid"

func NewID() string { return uuid.NewString() }

// IsID 判断是否为语法合法的实体 ID
func IsID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
