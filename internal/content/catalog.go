// Package content 加载培训内容配置：学员、模块清单、考试题库和培训周标准
package content

import (
	"fmt"
	"time"
	_ "time/tzdata"
	"trainee_portal_backend/internal/domain/activity"
	"trainee_portal_backend/internal/domain/progress"
	"trainee_portal_backend/internal/model"
	"trainee_portal_backend/internal/util"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Document content.yaml 的结构
type Document struct {
	Timezone string              `mapstructure:"timezone" validate:"required"`
	Trainees []model.Trainee     `mapstructure:"trainees" validate:"dive"`
	Modules  []model.Module      `mapstructure:"modules" validate:"dive"`
	Exams    []model.Exam        `mapstructure:"exams" validate:"dive"`
	Weeks    []model.ProgramWeek `mapstructure:"weeks"`
}

// Catalog 校验后的只读内容，重新加载时整体替换
type Catalog struct {
	Location *time.Location
	Trainees []model.Trainee
	Modules  []model.Module
	Exams    []model.Exam
	Universe *progress.Universe
	Calendar *activity.Calendar

	trainees map[string]int
	modules  map[string]int
	exams    map[string]int
}

// Load 使用独立的 viper 实例读取内容文件，不影响全局配置
func Load(path string) (*Catalog, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read content %s: %w", path, err)
	}
	var doc Document
	if err := v.Unmarshal(&doc); err != nil {
		return nil, fmt.Errorf("decode content %s: %w", path, err)
	}
	return Build(doc)
}

func Build(doc Document) (*Catalog, error) {
	if err := validator.New().Struct(doc); err != nil {
		return nil, util.Validationf("content: %v", err)
	}

	loc, err := time.LoadLocation(doc.Timezone)
	if err != nil {
		return nil, util.Validationf("content: timezone %q: %v", doc.Timezone, err)
	}

	c := &Catalog{
		Location: loc,
		Trainees: doc.Trainees,
		Modules:  doc.Modules,
		Exams:    doc.Exams,
		trainees: make(map[string]int, len(doc.Trainees)),
		modules:  make(map[string]int, len(doc.Modules)),
		exams:    make(map[string]int, len(doc.Exams)),
	}

	for i := range c.Trainees {
		t := &c.Trainees[i]
		if _, dup := c.trainees[t.Slug]; dup {
			return nil, util.Validationf("content: duplicate trainee slug %q", t.Slug)
		}
		if t.StartDate != "" {
			if t.Start, err = time.ParseInLocation(util.DateFormat, t.StartDate, loc); err != nil {
				return nil, util.Validationf("content: trainee %s start date: %v", t.Slug, err)
			}
		}
		c.trainees[t.Slug] = i
	}

	items := make(map[string]string)
	for i, m := range c.Modules {
		if _, dup := c.modules[m.ID]; dup {
			return nil, util.Validationf("content: duplicate module %q", m.ID)
		}
		for _, item := range m.Checklist {
			if owner, dup := items[item.ID]; dup {
				return nil, util.Validationf("content: checklist item %q appears in %s and %s", item.ID, owner, m.ID)
			}
			items[item.ID] = m.ID
		}
		c.modules[m.ID] = i
	}

	for i, e := range c.Exams {
		if _, dup := c.exams[e.ID]; dup {
			return nil, util.Validationf("content: duplicate exam %q", e.ID)
		}
		if _, ok := c.modules[e.ModuleID]; !ok {
			return nil, util.Validationf("content: exam %s references unknown module %q", e.ID, e.ModuleID)
		}
		if err := validateQuestions(e); err != nil {
			return nil, err
		}
		c.exams[e.ID] = i
	}

	c.Calendar, err = activity.NewCalendar(loc, doc.Weeks)
	if err != nil {
		return nil, util.Validationf("content: %v", err)
	}
	c.Universe = progress.NewUniverse(c.Modules)
	return c, nil
}

func validateQuestions(e model.Exam) error {
	seen := make(map[string]bool, len(e.Questions))
	for _, q := range e.Questions {
		if seen[q.ID] {
			return util.Validationf("content: exam %s has duplicate question %q", e.ID, q.ID)
		}
		seen[q.ID] = true
		if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
			return util.Validationf("content: exam %s question %s correct answer %d out of range", e.ID, q.ID, q.CorrectAnswer)
		}
	}
	return nil
}

func (c *Catalog) Trainee(slug string) (model.Trainee, error) {
	i, ok := c.trainees[slug]
	if !ok {
		return model.Trainee{}, util.NotFoundf("trainee %q", slug)
	}
	return c.Trainees[i], nil
}

func (c *Catalog) Module(id string) (model.Module, error) {
	i, ok := c.modules[id]
	if !ok {
		return model.Module{}, util.NotFoundf("module %q", id)
	}
	return c.Modules[i], nil
}

func (c *Catalog) Exam(id string) (*model.Exam, error) {
	i, ok := c.exams[id]
	if !ok {
		return nil, util.NotFoundf("exam %q", id)
	}
	return &c.Exams[i], nil
}

// ExamForModule 模块对应的考试，每个模块至多一场
func (c *Catalog) ExamForModule(moduleID string) (*model.Exam, error) {
	for i := range c.Exams {
		if c.Exams[i].ModuleID == moduleID {
			return &c.Exams[i], nil
		}
	}
	return nil, util.NotFoundf("exam for module %q", moduleID)
}
