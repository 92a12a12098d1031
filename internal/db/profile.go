package db

// Profile 是前台展示的个人资料，全表只保留一行，更新时原地覆盖
type Profile struct {
	ID                 uint   `gorm:"primaryKey" json:"id"`
	FullName           string `gorm:"size:100;not null" json:"full_name"`
	Bio                string `gorm:"type:text" json:"bio"`
	Email              string `gorm:"size:100;not null" json:"email"`
	Phone1             string `gorm:"column:phone1;size:20" json:"phone1"`
	Phone2             string `gorm:"column:phone2;size:20" json:"phone2"`
	Whatsapp           string `gorm:"size:20" json:"whatsapp"`
	Linkedin           string `gorm:"size:100" json:"linkedin"`
	Github             string `gorm:"size:100" json:"github"`
	Twitter            string `gorm:"size:100" json:"twitter"`
	Instagram          string `gorm:"size:100" json:"instagram"`
	RegistrationNumber string `gorm:"size:50" json:"registration_number"`
	Degree             string `gorm:"size:100" json:"degree"`
	University         string `gorm:"size:100" json:"university"`
	Address            string `gorm:"type:text" json:"address"`
}

// TableName 返回自定义表名
func (Profile) TableName() string {
	return "profile"
}

// EducationEntry 定义教育经历，展示时按 id 倒序
type EducationEntry struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Level       string `gorm:"size:100;not null" json:"level"`
	Institution string `gorm:"size:100;not null" json:"institution"`
	Period      string `gorm:"size:50;not null" json:"period"`
	Description string `gorm:"type:text" json:"description"`
}

// TableName 返回自定义表名
func (EducationEntry) TableName() string {
	return "education"
}

// 技能分类是封闭枚举
const (
	SkillCategoryTechnical    = "Technical"
	SkillCategoryProfessional = "Professional"
	SkillCategorySoft         = "Soft"
)

// Skill 定义技能条目
type Skill struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Label    string `gorm:"column:skill;size:100;not null" json:"skill"`
	Category string `gorm:"size:20;not null" json:"category"`
}

// TableName 返回自定义表名
func (Skill) TableName() string {
	return "skills"
}

// IsSkillCategory 判断分类是否属于允许的取值
func IsSkillCategory(category string) bool {
	switch category {
	case SkillCategoryTechnical, SkillCategoryProfessional, SkillCategorySoft:
		return true
	default:
		return false
	}
}
