package db

import (
	"fmt"

	"gorm.io/gorm"
)

// SeedDefaults 在对应表为空时写入初始的个人资料、教育经历与技能，
// 保证 profile 表初始化后恰好存在一行。
func SeedDefaults(gdb *gorm.DB) error {
	return gdb.Transaction(func(tx *gorm.DB) error {
		var profileCount int64
		if err := tx.Model(&Profile{}).Count(&profileCount).Error; err != nil {
			return fmt.Errorf("count profile: %w", err)
		}
		if profileCount == 0 {
			profile := defaultProfile
			if err := tx.Create(&profile).Error; err != nil {
				return fmt.Errorf("seed profile: %w", err)
			}
		}

		var educationCount int64
		if err := tx.Model(&EducationEntry{}).Count(&educationCount).Error; err != nil {
			return fmt.Errorf("count education: %w", err)
		}
		if educationCount == 0 {
			entries := append([]EducationEntry(nil), defaultEducation...)
			if err := tx.Create(&entries).Error; err != nil {
				return fmt.Errorf("seed education: %w", err)
			}
		}

		var skillCount int64
		if err := tx.Model(&Skill{}).Count(&skillCount).Error; err != nil {
			return fmt.Errorf("count skills: %w", err)
		}
		if skillCount == 0 {
			skills := append([]Skill(nil), defaultSkills...)
			if err := tx.Create(&skills).Error; err != nil {
				return fmt.Errorf("seed skills: %w", err)
			}
		}

		return nil
	})
}

var defaultProfile = Profile{
	FullName:   "Portfolio Owner",
	Bio:        "Business Information Technology student focused on web development, database management and system design.",
	Email:      "owner@example.com",
	Degree:     "Bachelor of Business Information Technology",
	University: "University",
}

var defaultEducation = []EducationEntry{
	{
		Level:       "Bachelor of Science in Business Information Technology",
		Institution: "University",
		Period:      "2021 - Present",
		Description: "Full-stack web development\nDatabase design and management\nBusiness systems analysis and design",
	},
	{
		Level:       "Advanced Level Education (A2)",
		Institution: "Secondary School",
		Period:      "2018 - 2020",
		Description: "Combination: History, Economics, Geography",
	},
}

var defaultSkills = []Skill{
	{Label: "Web development", Category: SkillCategoryTechnical},
	{Label: "Database design and management", Category: SkillCategoryTechnical},
	{Label: "System design and deployment", Category: SkillCategoryTechnical},
	{Label: "Office tools (Word, Excel, PowerPoint)", Category: SkillCategoryProfessional},
	{Label: "Data entry and reporting", Category: SkillCategoryProfessional},
	{Label: "IT support and user assistance", Category: SkillCategoryProfessional},
	{Label: "Leadership and teamwork", Category: SkillCategorySoft},
}
