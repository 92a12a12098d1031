package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/portfolio/internal/db"
	"gorm.io/gorm"
)

var (
	// ErrEducationNotFound 在指定的教育经历不存在时返回
	ErrEducationNotFound = errors.New("education entry not found")
	// ErrSkillNotFound 在指定的技能不存在时返回
	ErrSkillNotFound = errors.New("skill not found")
	// ErrPortfolioInvalidInput 在资料输入不完整或取值非法时返回
	ErrPortfolioInvalidInput = errors.New("invalid portfolio input")
)

// PortfolioService 负责个人资料、教育经历与技能的读取和维护
type PortfolioService struct {
	db *gorm.DB
}

// NewPortfolioService 构造 PortfolioService
func NewPortfolioService(gdb *gorm.DB) *PortfolioService {
	return &PortfolioService{db: gdb}
}

// Portfolio 是前台首页一次性拉取的资料聚合
type Portfolio struct {
	Profile   *db.Profile         `json:"profile"`
	Education []db.EducationEntry `json:"education"`
	Skills    []db.Skill          `json:"skills"`
}

// ProfileInput 描述覆盖个人资料时提交的字段
type ProfileInput struct {
	FullName           string `json:"full_name"`
	Bio                string `json:"bio"`
	Email              string `json:"email"`
	Phone1             string `json:"phone1"`
	Phone2             string `json:"phone2"`
	Whatsapp           string `json:"whatsapp"`
	Linkedin           string `json:"linkedin"`
	Github             string `json:"github"`
	Twitter            string `json:"twitter"`
	Instagram          string `json:"instagram"`
	RegistrationNumber string `json:"registration_number"`
	Degree             string `json:"degree"`
	University         string `json:"university"`
	Address            string `json:"address"`
}

// EducationInput 描述创建或更新教育经历时可设置的字段
type EducationInput struct {
	Level       string `json:"level"`
	Institution string `json:"institution"`
	Period      string `json:"period"`
	Description string `json:"description"`
}

// SkillInput 描述创建或更新技能时可设置的字段
type SkillInput struct {
	Skill    string `json:"skill"`
	Category string `json:"category"`
}

// Get 返回个人资料（可能为空）、按 id 倒序的教育经历以及全部技能
func (s *PortfolioService) Get() (*Portfolio, error) {
	result := &Portfolio{
		Education: []db.EducationEntry{},
		Skills:    []db.Skill{},
	}

	var profiles []db.Profile
	if err := s.db.Order("id ASC").Limit(1).Find(&profiles).Error; err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if len(profiles) > 0 {
		result.Profile = &profiles[0]
	}

	if err := s.db.Order("id DESC").Find(&result.Education).Error; err != nil {
		return nil, fmt.Errorf("list education: %w", err)
	}
	if err := s.db.Order("id ASC").Find(&result.Skills).Error; err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}

	return result, nil
}

// UpdateProfile 原地覆盖唯一的个人资料行，表为空时创建该行
func (s *PortfolioService) UpdateProfile(input ProfileInput) (*db.Profile, error) {
	if strings.TrimSpace(input.FullName) == "" {
		return nil, fmt.Errorf("%w: full_name is required", ErrPortfolioInvalidInput)
	}
	if strings.TrimSpace(input.Email) == "" {
		return nil, fmt.Errorf("%w: email is required", ErrPortfolioInvalidInput)
	}

	var profile db.Profile
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing []db.Profile
		if err := tx.Order("id ASC").Limit(1).Find(&existing).Error; err != nil {
			return fmt.Errorf("load profile: %w", err)
		}
		if len(existing) > 0 {
			profile.ID = existing[0].ID
		}
		applyProfileInput(&profile, input)
		if err := tx.Save(&profile).Error; err != nil {
			return fmt.Errorf("save profile: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func applyProfileInput(profile *db.Profile, input ProfileInput) {
	profile.FullName = strings.TrimSpace(input.FullName)
	profile.Bio = strings.TrimSpace(input.Bio)
	profile.Email = strings.TrimSpace(input.Email)
	profile.Phone1 = strings.TrimSpace(input.Phone1)
	profile.Phone2 = strings.TrimSpace(input.Phone2)
	profile.Whatsapp = strings.TrimSpace(input.Whatsapp)
	profile.Linkedin = strings.TrimSpace(input.Linkedin)
	profile.Github = strings.TrimSpace(input.Github)
	profile.Twitter = strings.TrimSpace(input.Twitter)
	profile.Instagram = strings.TrimSpace(input.Instagram)
	profile.RegistrationNumber = strings.TrimSpace(input.RegistrationNumber)
	profile.Degree = strings.TrimSpace(input.Degree)
	profile.University = strings.TrimSpace(input.University)
	profile.Address = strings.TrimSpace(input.Address)
}

// CreateEducation 新建教育经历
func (s *PortfolioService) CreateEducation(input EducationInput) (*db.EducationEntry, error) {
	if err := validateEducationInput(input); err != nil {
		return nil, err
	}

	entry := db.EducationEntry{}
	applyEducationInput(&entry, input)
	if err := s.db.Create(&entry).Error; err != nil {
		return nil, fmt.Errorf("create education: %w", err)
	}
	return &entry, nil
}

// UpdateEducation 更新指定教育经历
func (s *PortfolioService) UpdateEducation(id uint, input EducationInput) (*db.EducationEntry, error) {
	if err := validateEducationInput(input); err != nil {
		return nil, err
	}

	var entry db.EducationEntry
	if err := s.db.First(&entry, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEducationNotFound
		}
		return nil, fmt.Errorf("find education: %w", err)
	}

	applyEducationInput(&entry, input)
	if err := s.db.Save(&entry).Error; err != nil {
		return nil, fmt.Errorf("update education: %w", err)
	}
	return &entry, nil
}

// DeleteEducation 删除指定教育经历
func (s *PortfolioService) DeleteEducation(id uint) error {
	result := s.db.Delete(&db.EducationEntry{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete education: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrEducationNotFound
	}
	return nil
}

func applyEducationInput(entry *db.EducationEntry, input EducationInput) {
	entry.Level = strings.TrimSpace(input.Level)
	entry.Institution = strings.TrimSpace(input.Institution)
	entry.Period = strings.TrimSpace(input.Period)
	entry.Description = strings.TrimSpace(input.Description)
}

func validateEducationInput(input EducationInput) error {
	if strings.TrimSpace(input.Level) == "" {
		return fmt.Errorf("%w: level is required", ErrPortfolioInvalidInput)
	}
	if strings.TrimSpace(input.Institution) == "" {
		return fmt.Errorf("%w: institution is required", ErrPortfolioInvalidInput)
	}
	if strings.TrimSpace(input.Period) == "" {
		return fmt.Errorf("%w: period is required", ErrPortfolioInvalidInput)
	}
	return nil
}

// CreateSkill 新建技能，分类必须属于 Technical/Professional/Soft
func (s *PortfolioService) CreateSkill(input SkillInput) (*db.Skill, error) {
	if err := validateSkillInput(input); err != nil {
		return nil, err
	}

	skill := db.Skill{Label: strings.TrimSpace(input.Skill), Category: strings.TrimSpace(input.Category)}
	if err := s.db.Create(&skill).Error; err != nil {
		return nil, fmt.Errorf("create skill: %w", err)
	}
	return &skill, nil
}

// UpdateSkill 更新指定技能
func (s *PortfolioService) UpdateSkill(id uint, input SkillInput) (*db.Skill, error) {
	if err := validateSkillInput(input); err != nil {
		return nil, err
	}

	var skill db.Skill
	if err := s.db.First(&skill, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSkillNotFound
		}
		return nil, fmt.Errorf("find skill: %w", err)
	}

	skill.Label = strings.TrimSpace(input.Skill)
	skill.Category = strings.TrimSpace(input.Category)
	if err := s.db.Save(&skill).Error; err != nil {
		return nil, fmt.Errorf("update skill: %w", err)
	}
	return &skill, nil
}

// DeleteSkill 删除指定技能
func (s *PortfolioService) DeleteSkill(id uint) error {
	result := s.db.Delete(&db.Skill{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete skill: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrSkillNotFound
	}
	return nil
}

func validateSkillInput(input SkillInput) error {
	if strings.TrimSpace(input.Skill) == "" {
		return fmt.Errorf("%w: skill is required", ErrPortfolioInvalidInput)
	}
	if !db.IsSkillCategory(strings.TrimSpace(input.Category)) {
		return fmt.Errorf("%w: category must be Technical, Professional or Soft", ErrPortfolioInvalidInput)
	}
	return nil
}
