package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/portfolio/internal/service"
)

// GetPortfolio 返回个人资料、教育经历与技能
func (a *API) GetPortfolio(c *gin.Context) {
	portfolio, err := a.portfolio.Get()
	if err != nil {
		respondServerError(c, "Failed to fetch portfolio data", err)
		return
	}
	c.JSON(http.StatusOK, portfolio)
}

// UpdateProfile 覆盖个人资料
func (a *API) UpdateProfile(c *gin.Context) {
	var input service.ProfileInput
	if !bindJSON(c, &input, "Invalid profile payload") {
		return
	}

	profile, err := a.portfolio.UpdateProfile(input)
	if err != nil {
		handlePortfolioError(c, err, "Failed to update profile")
		return
	}
	c.JSON(http.StatusOK, profile)
}

// CreateEducation 新增教育经历
func (a *API) CreateEducation(c *gin.Context) {
	var input service.EducationInput
	if !bindJSON(c, &input, "Invalid education payload") {
		return
	}

	entry, err := a.portfolio.CreateEducation(input)
	if err != nil {
		handlePortfolioError(c, err, "Failed to create education entry")
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// UpdateEducation 更新教育经历
func (a *API) UpdateEducation(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input service.EducationInput
	if !bindJSON(c, &input, "Invalid education payload") {
		return
	}

	entry, err := a.portfolio.UpdateEducation(id, input)
	if err != nil {
		handlePortfolioError(c, err, "Failed to update education entry")
		return
	}
	c.JSON(http.StatusOK, entry)
}

// DeleteEducation 删除教育经历
func (a *API) DeleteEducation(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := a.portfolio.DeleteEducation(id); err != nil {
		handlePortfolioError(c, err, "Failed to delete education entry")
		return
	}
	c.Status(http.StatusNoContent)
}

// CreateSkill 新增技能
func (a *API) CreateSkill(c *gin.Context) {
	var input service.SkillInput
	if !bindJSON(c, &input, "Invalid skill payload") {
		return
	}

	skill, err := a.portfolio.CreateSkill(input)
	if err != nil {
		handlePortfolioError(c, err, "Failed to create skill")
		return
	}
	c.JSON(http.StatusCreated, skill)
}

// UpdateSkill 更新技能
func (a *API) UpdateSkill(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input service.SkillInput
	if !bindJSON(c, &input, "Invalid skill payload") {
		return
	}

	skill, err := a.portfolio.UpdateSkill(id, input)
	if err != nil {
		handlePortfolioError(c, err, "Failed to update skill")
		return
	}
	c.JSON(http.StatusOK, skill)
}

// DeleteSkill 删除技能
func (a *API) DeleteSkill(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := a.portfolio.DeleteSkill(id); err != nil {
		handlePortfolioError(c, err, "Failed to delete skill")
		return
	}
	c.Status(http.StatusNoContent)
}

func handlePortfolioError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, service.ErrPortfolioInvalidInput):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrEducationNotFound):
		respondError(c, http.StatusNotFound, "Education entry not found")
	case errors.Is(err, service.ErrSkillNotFound):
		respondError(c, http.StatusNotFound, "Skill not found")
	default:
		respondServerError(c, message, err)
	}
}
