package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/portfolio/internal/config"
	"github.com/portfolio/internal/db"
	"gorm.io/gorm"
)

// 演示数据生成器：资料、留言与带评论的公告
func main() {
	reset := flag.Bool("reset", false, "delete existing messages and announcements first")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("配置加载失败:", err)
	}
	gdb, err := db.Open(cfg.Database())
	if err != nil {
		log.Fatal("数据库初始化失败:", err)
	}
	defer db.Close(gdb)

	fmt.Println("开始生成测试数据...")

	if err := db.SeedDefaults(gdb); err != nil {
		log.Fatal("初始化资料失败:", err)
	}
	if *reset {
		if err := clearDemoContent(gdb); err != nil {
			log.Fatal("清理旧数据失败:", err)
		}
	}

	messages, err := createTestMessages(gdb, time.Now())
	if err != nil {
		log.Fatal("创建留言失败:", err)
	}
	announcements, err := createTestAnnouncements(gdb)
	if err != nil {
		log.Fatal("创建公告失败:", err)
	}

	fmt.Println("测试数据生成完成！")
	fmt.Printf("留言: %d 条（分布在最近 30 天）\n", messages)
	fmt.Printf("公告: %d 篇，附带评论与回复\n", announcements)
}

func clearDemoContent(gdb *gorm.DB) error {
	return gdb.Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{&db.CommentReply{}, &db.AnnouncementComment{}, &db.Announcement{}, &db.MessageReply{}, &db.Message{}} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// createTestMessages 在最近 30 天内按天写入数量递增的留言，用于留言趋势图；已有留言时跳过
func createTestMessages(gdb *gorm.DB, now time.Time) (int, error) {
	var count int64
	if err := gdb.Model(&db.Message{}).Count(&count).Error; err != nil {
		return 0, err
	}
	if count > 0 {
		fmt.Println("留言已存在，跳过创建")
		return 0, nil
	}

	var items []db.Message
	for day := 0; day < 30; day += 3 {
		for i := 0; i <= day%4; i++ {
			items = append(items, db.Message{
				Name:       fmt.Sprintf("Visitor %d-%d", day, i),
				Email:      fmt.Sprintf("visitor%d.%d@example.com", day, i),
				Body:       "Hello! I enjoyed your portfolio and would like to get in touch.",
				ReceivedAt: now.AddDate(0, 0, -day).Add(-time.Duration(i) * time.Hour),
			})
		}
	}
	if err := gdb.Create(&items).Error; err != nil {
		return 0, err
	}
	if err := gdb.Create(&db.MessageReply{MessageID: items[0].ID, ReplyText: "Thanks for reaching out!"}).Error; err != nil {
		return 0, err
	}

	fmt.Println("✅ 测试留言创建完成")
	return len(items), nil
}

// createTestAnnouncements 写入几篇纯文本公告以及评论与回复；已有公告时跳过
func createTestAnnouncements(gdb *gorm.DB) (int, error) {
	var count int64
	if err := gdb.Model(&db.Announcement{}).Count(&count).Error; err != nil {
		return 0, err
	}
	if count > 0 {
		fmt.Println("公告已存在，跳过创建")
		return 0, nil
	}

	announcements := []db.Announcement{
		{Title: "Portfolio relaunch", Content: "The site has a **new look**. Have a browse and leave a comment.", Type: db.AnnouncementTypeText},
		{Title: "Open to internships", Content: "Available from June. See the documents section for my CV.", Type: db.AnnouncementTypeText},
		{Title: "Conference talk", Content: "Slides from my talk:\n\n- motivation\n- design\n- results", Type: db.AnnouncementTypeText},
	}

	err := gdb.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&announcements).Error; err != nil {
			return err
		}
		for i, item := range announcements {
			comment := db.AnnouncementComment{
				AnnouncementID: item.ID,
				CommenterName:  fmt.Sprintf("Reader %d", i+1),
				CommentText:    "Congratulations!",
			}
			if err := tx.Create(&comment).Error; err != nil {
				return err
			}
			reply := db.CommentReply{CommentID: comment.ID, ReplierName: "Admin", ReplyText: "Thank you!"}
			if err := tx.Create(&reply).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	fmt.Println("✅ 测试公告创建完成")
	return len(announcements), nil
}
