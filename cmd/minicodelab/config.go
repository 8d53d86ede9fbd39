package main

import (
	"os"
	"strconv"

	"github.com/eringen/minicodelab"
	"github.com/eringen/minicodelab/mirror"
	"github.com/eringen/minicodelab/notion"
)

func configFromEnv() minicodelab.SiteConfig {
	return minicodelab.SiteConfig{
		Name:          os.Getenv("SITE_NAME"),
		URL:           os.Getenv("SITE_URL"),
		Description:   minicodelab.EnvOr("SITE_DESCRIPTION", "Small experiments in code, written down."),
		Author:        os.Getenv("SITE_AUTHOR"),
		Addr:          os.Getenv("ADDR"),
		DatabasePath:  os.Getenv("DATABASE_PATH"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		SessionSecret: os.Getenv("ADMIN_SESSION_SECRET"),
		CookieSecure:  envBool("COOKIE_SECURE"),
		Notion: notion.Config{
			Secret:     os.Getenv("NOTION_CALENDAR_SECRET"),
			DatabaseID: os.Getenv("NOTION_CALENDAR_DB_ID"),
		},
		Mirror: mirror.Config{
			AccountID:  os.Getenv("R2_ACCOUNT_ID"),
			AccessKey:  os.Getenv("R2_ACCESS_KEY"),
			SecretKey:  os.Getenv("R2_SECRET_KEY"),
			BucketName: os.Getenv("R2_BUCKET_NAME"),
			PublicURL:  os.Getenv("R2_PUBLIC_URL"),
		},
	}
}

func envBool(key string) bool {
	b, _ := strconv.ParseBool(os.Getenv(key))
	return b
}
