package repo

import (
	"gorm.io/gorm"

	"bloglist/internal/feature/account"
	"bloglist/internal/feature/post"
)

// Models 需要迁移的全部表
func Models() []any {
	return []any{&account.AccountModel{}, &post.PostModel{}, &account.AccountPostModel{}}
}

func Migrate(db *gorm.DB) error { return db.AutoMigrate(Models()...) }

// Reset 清空全部表，仅供测试环境的 /api/testing/reset 使用
func Reset(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, m := range []any{&account.AccountPostModel{}, &post.PostModel{}, &account.AccountModel{}} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(m).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
