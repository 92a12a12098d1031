package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/portfolio/internal/config"
	"github.com/portfolio/internal/db"
	"github.com/portfolio/internal/service"
)

// 创建管理员账号，或为已有账号重置密码
func main() {
	var username, password, email string
	flag.StringVar(&username, "username", "", "admin username (defaults to ADMIN_USERNAME)")
	flag.StringVar(&password, "password", "", "new password (defaults to ADMIN_PASSWORD)")
	flag.StringVar(&email, "email", "", "contact email used for reset notices (defaults to ADMIN_EMAIL)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if username == "" {
		username = cfg.AdminUsername
	}
	if password == "" {
		password = cfg.AdminPassword
	}
	if email == "" {
		email = cfg.AdminEmail
	}
	if username == "" || password == "" {
		fmt.Fprintln(os.Stderr, "username and password are required (flags or ADMIN_USERNAME/ADMIN_PASSWORD)")
		os.Exit(2)
	}

	gdb, err := db.Open(cfg.Database())
	if err != nil {
		fmt.Fprintf(os.Stderr, "init db: %v\n", err)
		os.Exit(1)
	}
	defer db.Close(gdb)

	created, err := service.NewAdminService(gdb).SetPassword(username, password, email)
	if err != nil {
		fmt.Fprintf(os.Stderr, "save admin: %v\n", err)
		os.Exit(1)
	}

	if created {
		fmt.Printf("admin %q created\n", username)
		return
	}
	fmt.Printf("password for admin %q has been reset\n", username)
}
