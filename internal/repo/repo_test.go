package repo

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"gorm.io/gorm"

	"bloglist/internal/core/apperr"
	"bloglist/internal/core/database"
	"bloglist/internal/domain"
	"bloglist/internal/feature/account"
	"bloglist/internal/feature/post"
	"bloglist/pkg/utils"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:repo_%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := database.NewGorm(database.Opts{Driver: "sqlite", DSN: dsn, LogLevel: "silent"})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func seedAccount(t *testing.T, r *AccountRepo, username, name string) *domain.Account {
	t.Helper()
	a := &domain.Account{ID: utils.NewID(), Username: username, Name: name, PasswordHash: "x"}
	if err := r.Create(context.Background(), a); err != nil {
		t.Fatalf("seed %s: %v", username, err)
	}
	return a
}

func TestAccountRepoDuplicateUsername(t *testing.T) {
	r := NewAccountRepo(openTestDB(t))
	seedAccount(t, r, "mluukkai", "Matti")
	err := r.Create(context.Background(), &domain.Account{ID: utils.NewID(), Username: "mluukkai", PasswordHash: "y"})
	if apperr.KindOf(err) != apperr.KindDuplicateKey {
		t.Fatalf("expected duplicate key, got %v", err)
	}
}

func TestAccountRepoFindMissing(t *testing.T) {
	r := NewAccountRepo(openTestDB(t))
	a, err := r.FindByUsername(context.Background(), "nobody")
	if err != nil || a != nil {
		t.Fatalf("expected (nil, nil), got %+v, %v", a, err)
	}
}

func TestListJoinsOwnersAndAccountsProjectPosts(t *testing.T) {
	db := openTestDB(t)
	accounts, posts := NewAccountRepo(db), NewPostRepo(db)
	ctx := context.Background()
	alice := seedAccount(t, accounts, "alice", "Alice")
	bob := seedAccount(t, accounts, "bob", "Bob")

	p1, err := posts.Create(ctx, domain.PostDraft{Title: "first", URL: "u1", Author: "A"}, alice)
	if err != nil {
		t.Fatalf("create p1: %v", err)
	}
	p2, err := posts.Create(ctx, domain.PostDraft{Title: "second", URL: "u2"}, alice)
	if err != nil {
		t.Fatalf("create p2: %v", err)
	}
	if _, err := posts.Create(ctx, domain.PostDraft{Title: "third", URL: "u3"}, bob); err != nil {
		t.Fatalf("create p3: %v", err)
	}
	if len(alice.PostIDs) != 2 {
		t.Fatalf("in-memory owner not updated: %v", alice.PostIDs)
	}

	list, err := posts.ListAll(ctx)
	if err != nil {
		t.Fatalf("list posts: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 posts, got %d", len(list))
	}
	for _, v := range list {
		if v.User == nil || v.User.Username == "" {
			t.Fatalf("post %s missing owner projection", v.ID)
		}
	}

	views, err := accounts.List(ctx)
	if err != nil {
		t.Fatalf("list accounts: %v", err)
	}
	var aliceView *domain.AccountView
	for i := range views {
		if views[i].Username == "alice" {
			aliceView = &views[i]
		}
	}
	if aliceView == nil || len(aliceView.Posts) != 2 {
		t.Fatalf("alice should own 2 posts: %+v", aliceView)
	}
	if aliceView.Posts[0].ID != p1.ID || aliceView.Posts[1].ID != p2.ID {
		t.Fatalf("owned posts out of order: %+v", aliceView.Posts)
	}

	reloaded, err := accounts.FindByID(ctx, alice.ID)
	if err != nil || len(reloaded.PostIDs) != 2 || reloaded.PostIDs[0] != p1.ID {
		t.Fatalf("owned post ids: %+v (%v)", reloaded, err)
	}
}

func TestCreateWithVanishedOwnerLeavesNoOrphan(t *testing.T) {
	db := openTestDB(t)
	posts := NewPostRepo(db)
	ghost := &domain.Account{ID: utils.NewID(), Username: "ghost"}

	_, err := posts.Create(context.Background(), domain.PostDraft{Title: "T", URL: "u"}, ghost)
	if apperr.KindOf(err) != apperr.KindAuthentication {
		t.Fatalf("expected authentication error, got %v", err)
	}
	var n int64
	db.Model(&post.PostModel{}).Count(&n)
	if n != 0 {
		t.Fatalf("expected no posts, found %d", n)
	}
	db.Model(&account.AccountPostModel{}).Count(&n)
	if n != 0 {
		t.Fatalf("expected no owner links, found %d", n)
	}
}

func TestCreateValidation(t *testing.T) {
	db := openTestDB(t)
	owner := seedAccount(t, NewAccountRepo(db), "owner", "")
	_, err := NewPostRepo(db).Create(context.Background(), domain.PostDraft{Title: "no url"}, owner)
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateAndDeleteErrors(t *testing.T) {
	db := openTestDB(t)
	posts := NewPostRepo(db)
	ctx := context.Background()
	title := "x"
	missing := utils.NewID()

	if _, err := posts.Update(ctx, "invalid", domain.PostPatch{Title: &title}); apperr.KindOf(err) != apperr.KindMalformedID {
		t.Fatalf("update malformed: got %v", err)
	}
	if _, err := posts.Update(ctx, missing, domain.PostPatch{Title: &title}); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("update missing: got %v", err)
	}
	if err := posts.Delete(ctx, "invalid", "someone"); apperr.KindOf(err) != apperr.KindMalformedID {
		t.Fatalf("delete malformed: got %v", err)
	}
	if err := posts.Delete(ctx, missing, "someone"); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("delete missing: got %v", err)
	}
}

func TestUpdateAppliesOnlyPresentFields(t *testing.T) {
	db := openTestDB(t)
	owner := seedAccount(t, NewAccountRepo(db), "owner", "Owner")
	posts := NewPostRepo(db)
	ctx := context.Background()
	v, err := posts.Create(ctx, domain.PostDraft{Title: "T", URL: "u", Author: "A"}, owner)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	title := "New title"
	got, err := posts.Update(ctx, v.ID, domain.PostPatch{Title: &title})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Title != "New title" || got.URL != "u" || got.Author != "A" || got.Likes != 0 {
		t.Fatalf("unexpected post: %+v", got)
	}
	if got.User == nil || got.User.ID != owner.ID {
		t.Fatalf("owner projection missing: %+v", got.User)
	}
}

func TestConcurrentUpdatesKeepEachOthersFields(t *testing.T) {
	db := openTestDB(t)
	owner := seedAccount(t, NewAccountRepo(db), "owner", "Owner")
	posts := NewPostRepo(db)
	ctx := context.Background()
	v, err := posts.Create(ctx, domain.PostDraft{Title: "Old", URL: "u"}, owner)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// 在标题更新写入前插入另一个只改 likes 的更新
	var fired atomic.Bool
	err = db.Callback().Update().Before("gorm:update").Register("test:interleave", func(tx *gorm.DB) {
		if tx.Statement.Table != "posts" || !fired.CompareAndSwap(false, true) {
			return
		}
		likes := 99
		if _, err := posts.Update(tx.Statement.Context, v.ID, domain.PostPatch{Likes: &likes}); err != nil {
			t.Errorf("interleaved update: %v", err)
		}
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}

	title := "New"
	got, err := posts.Update(ctx, v.ID, domain.PostPatch{Title: &title})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !fired.Load() {
		t.Fatal("interleaved update never ran")
	}
	if got.Title != "New" || got.Likes != 99 {
		t.Fatalf("expected title=New likes=99, got title=%q likes=%d", got.Title, got.Likes)
	}
}

func TestCreateRetriesWhenOwnerSeqTaken(t *testing.T) {
	db := openTestDB(t)
	owner := seedAccount(t, NewAccountRepo(db), "owner", "Owner")
	posts := NewPostRepo(db)

	// 第一次追加链接时模拟并发创建抢占了同一个 seq
	var linkInserts atomic.Int32
	err := db.Callback().Create().Before("gorm:create").Register("test:seq_taken", func(tx *gorm.DB) {
		if tx.Statement.Table == "account_posts" && linkInserts.Add(1) == 1 {
			_ = tx.AddError(gorm.ErrDuplicatedKey)
		}
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}

	v, err := posts.Create(context.Background(), domain.PostDraft{Title: "T", URL: "u"}, owner)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if n := linkInserts.Load(); n != 2 {
		t.Fatalf("expected 2 link inserts, got %d", n)
	}
	var links []account.AccountPostModel
	if err := db.Find(&links).Error; err != nil {
		t.Fatalf("load links: %v", err)
	}
	if len(links) != 1 || links[0].PostID != v.ID || links[0].Seq != 1 {
		t.Fatalf("unexpected links: %+v", links)
	}
	var count int64
	if err := db.Model(&post.PostModel{}).Count(&count).Error; err != nil || count != 1 {
		t.Fatalf("expected 1 post, got %d (%v)", count, err)
	}
}

func TestCreateGivesUpAfterRepeatedSeqConflicts(t *testing.T) {
	db := openTestDB(t)
	owner := seedAccount(t, NewAccountRepo(db), "owner", "Owner")
	err := db.Callback().Create().Before("gorm:create").Register("test:seq_taken", func(tx *gorm.DB) {
		if tx.Statement.Table == "account_posts" {
			_ = tx.AddError(gorm.ErrDuplicatedKey)
		}
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}
	if _, err := NewPostRepo(db).Create(context.Background(), domain.PostDraft{Title: "T", URL: "u"}, owner); err == nil {
		t.Fatal("expected create to fail")
	}
	var count int64
	if err := db.Model(&post.PostModel{}).Count(&count).Error; err != nil || count != 0 {
		t.Fatalf("expected no posts left behind, got %d (%v)", count, err)
	}
}

func TestOwnerSeqIsUnique(t *testing.T) {
	db := openTestDB(t)
	ownerID := utils.NewID()
	first := account.AccountPostModel{PostID: utils.NewID(), AccountID: ownerID, Seq: 1}
	if err := db.Create(&first).Error; err != nil {
		t.Fatalf("insert first link: %v", err)
	}
	dup := account.AccountPostModel{PostID: utils.NewID(), AccountID: ownerID, Seq: 1}
	if err := db.Create(&dup).Error; !database.IsDuplicateKey(err) {
		t.Fatalf("expected duplicate key for repeated seq, got %v", err)
	}
	other := account.AccountPostModel{PostID: utils.NewID(), AccountID: utils.NewID(), Seq: 1}
	if err := db.Create(&other).Error; err != nil {
		t.Fatalf("same seq under another owner should be allowed: %v", err)
	}
}

func TestReset(t *testing.T) {
	db := openTestDB(t)
	owner := seedAccount(t, NewAccountRepo(db), "owner", "")
	if _, err := NewPostRepo(db).Create(context.Background(), domain.PostDraft{Title: "T", URL: "u"}, owner); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := Reset(db); err != nil {
		t.Fatalf("reset: %v", err)
	}
	for _, m := range Models() {
		var n int64
		db.Model(m).Count(&n)
		if n != 0 {
			t.Fatalf("%T not empty after reset: %d", m, n)
		}
	}
}
