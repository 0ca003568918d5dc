package controller

import (
	"trainee_portal_backend/internal/service"
	"trainee_portal_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ExamController struct {
	Exams *service.ExamService
}

func NewExamController(exams *service.ExamService) *ExamController {
	return &ExamController{Exams: exams}
}

// SubmitAnswersRequest 题目ID -> 选项下标
// swagger:model SubmitAnswersRequest
type SubmitAnswersRequest struct {
	Answers map[string]int `json:"answers" binding:"required"`
}

// GetExam godoc
// @Summary 获取考试
// @Description 返回不含答案的题目以及该学员的作答次数信息
// @Tags 考试
// @Produce json
// @Security ApiKeyAuth
// @Param slug path string true "学员slug"
// @Param examId path string true "考试ID"
// @Success 200 {object} util.Response{data=service.ExamView} "考试"
// @Failure 404 {object} util.Response "学员或考试不存在"
// @Failure 503 {object} util.Response "记录存储不可用"
// @Router /api/trainees/{slug}/exams/{examId} [get]
func (c *ExamController) GetExam(ctx *gin.Context) {
	view, err := c.Exams.GetExam(ctx.Request.Context(), ctx.Param("slug"), ctx.Param("examId"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// GetModuleExam godoc
// @Summary 获取模块考试
// @Tags 考试
// @Produce json
// @Security ApiKeyAuth
// @Param slug path string true "学员slug"
// @Param moduleId path string true "模块ID"
// @Success 200 {object} util.Response{data=service.ExamView} "考试"
// @Failure 404 {object} util.Response "模块没有考试"
// @Router /api/trainees/{slug}/modules/{moduleId}/exam [get]
func (c *ExamController) GetModuleExam(ctx *gin.Context) {
	view, err := c.Exams.GetExamForModule(ctx.Request.Context(), ctx.Param("slug"), ctx.Param("moduleId"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// Submit godoc
// @Summary 提交考试
// @Description 超过三次或已通过时返回 409，reason 为 limit_reached 或 already_passed
// @Tags 考试
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param slug path string true "学员slug"
// @Param examId path string true "考试ID"
// @Param body body SubmitAnswersRequest true "答案"
// @Success 201 {object} util.Response{data=service.SubmitExamResult} "评分结果"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 409 {object} util.Response "作答次数受限"
// @Failure 503 {object} util.Response "记录存储不可用"
// @Router /api/trainees/{slug}/exams/{examId}/submissions [post]
func (c *ExamController) Submit(ctx *gin.Context) {
	var req SubmitAnswersRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.Exams.Submit(ctx.Request.Context(), service.SubmitExamRequest{
		ExamID:      ctx.Param("examId"),
		TraineeSlug: ctx.Param("slug"),
		Answers:     req.Answers,
	})
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Created(ctx, result)
}

// Attempts godoc
// @Summary 作答记录
// @Tags 考试
// @Produce json
// @Security ApiKeyAuth
// @Param slug path string true "学员slug"
// @Param examId path string true "考试ID"
// @Success 200 {object} util.Response{data=service.AttemptHistory} "作答记录"
// @Router /api/trainees/{slug}/exams/{examId}/attempts [get]
func (c *ExamController) Attempts(ctx *gin.Context) {
	history, err := c.Exams.Attempts(ctx.Request.Context(), ctx.Param("slug"), ctx.Param("examId"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, history)
}
