package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/mail"
	"net/smtp"
	"strings"
	"sync"
	"time"
	"trainee_portal_backend/internal/config"
	"trainee_portal_backend/internal/model"
	"trainee_portal_backend/pkg/logger"
	"trainee_portal_backend/pkg/monitoring"

	"github.com/scorredoira/email"
	"go.uber.org/zap"
)

// Sender 外发邮件
type Sender interface {
	Send(ctx context.Context, recipient, subject, htmlBody string) error
}

// SMTPSender 使用 scorredoira/email 经 SMTP 发送 HTML 邮件
type SMTPSender struct {
	Cfg config.SMTPConfig
}

func (s *SMTPSender) Send(ctx context.Context, recipient, subject, htmlBody string) error {
	auth := smtp.PlainAuth("", s.Cfg.UserName, s.Cfg.Password, s.Cfg.Host)
	m := email.NewHTMLMessage(subject, htmlBody)
	m.From = mail.Address{Name: s.Cfg.FromName, Address: s.Cfg.FromAddress}
	m.To = []string{recipient}

	done := make(chan error, 1)
	go func() {
		done <- email.Send(s.Cfg.ConnectionString, auth, m)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// LogSender 未配置 SMTP 时只记录日志
type LogSender struct{}

func (LogSender) Send(_ context.Context, recipient, subject, _ string) error {
	logger.Log.Info("SMTP not configured, skipping email notification",
		zap.String("recipient", recipient),
		zap.String("subject", subject))
	return nil
}

func NewSender(cfg config.SMTPConfig) Sender {
	if strings.TrimSpace(cfg.Host) == "" {
		return LogSender{}
	}
	return &SMTPSender{Cfg: cfg}
}

var submissionMailTemplate = template.Must(template.New("submission").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #1e293b;">Exam Submission Received</h2>
  <div style="background: {{if .Passed}}#ecfdf5{{else}}#fef2f2{{end}}; border-radius: 8px; padding: 20px; margin: 20px 0;">
    <h3 style="margin: 0 0 10px 0; color: {{if .Passed}}#059669{{else}}#dc2626{{end}};">{{.Status}}</h3>
    <p style="margin: 0; font-size: 24px; font-weight: bold; color: #1e293b;">Score: {{.Score}}/{{.TotalPoints}} ({{.Percentage}}%)</p>
  </div>
  <table style="width: 100%; border-collapse: collapse; margin: 20px 0;">
    <tr><td style="padding: 10px; font-weight: bold;">Trainee</td><td style="padding: 10px;">{{.TraineeName}}</td></tr>
    <tr><td style="padding: 10px; font-weight: bold;">Exam</td><td style="padding: 10px;">{{.ExamTitle}}</td></tr>
    <tr><td style="padding: 10px; font-weight: bold;">Submitted</td><td style="padding: 10px;">{{.SubmittedAt}}</td></tr>
    <tr><td style="padding: 10px; font-weight: bold;">Passing Score</td><td style="padding: 10px;">{{.PassingScore}}%</td></tr>
  </table>
  {{if .DashboardURL}}<p style="color: #6b7280; font-size: 14px;">View full results in the <a href="{{.DashboardURL}}">Admin Dashboard</a></p>{{end}}
</div>`))

type submissionMail struct {
	Passed       bool
	Status       string
	Score        int
	TotalPoints  int
	Percentage   int
	TraineeName  string
	ExamTitle    string
	SubmittedAt  string
	PassingScore int
	DashboardURL string
}

// RenderSubmissionMail 生成考试结果通知的标题和正文，提交时间按培训时区显示
func RenderSubmissionMail(sub model.ExamSubmission, exam *model.Exam, loc *time.Location, dashboardURL string) (string, string, error) {
	status := "NEEDS REVIEW"
	mark := "❌"
	if sub.Passed {
		status = "PASSED"
		mark = "✅"
	}
	if loc == nil {
		loc = time.UTC
	}

	data := submissionMail{
		Passed:       sub.Passed,
		Status:       mark + " " + status,
		Score:        sub.Score,
		TotalPoints:  sub.TotalPoints,
		Percentage:   sub.Percentage,
		TraineeName:  sub.TraineeName,
		ExamTitle:    exam.Title,
		SubmittedAt:  sub.SubmittedAt.In(loc).Format("02/01/2006, 3:04:05 pm MST"),
		PassingScore: exam.PassingScore,
		DashboardURL: dashboardURL,
	}

	var buf bytes.Buffer
	if err := submissionMailTemplate.Execute(&buf, data); err != nil {
		return "", "", err
	}
	subject := fmt.Sprintf("%s Exam Submission: %s - %s", mark, sub.TraineeName, exam.Title)
	return subject, buf.String(), nil
}

// NotificationService 考试结果通知，异步发送，失败只记录日志
type NotificationService struct {
	Sender Sender
	Cfg    config.NotificationConfig

	wg sync.WaitGroup
}

func NewNotificationService(sender Sender, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{Sender: sender, Cfg: cfg}
}

// NotifySubmission 立即返回，不阻塞提交结果
func (s *NotificationService) NotifySubmission(sub model.ExamSubmission, exam *model.Exam, loc *time.Location) {
	if s.Cfg.Recipient == "" {
		logger.Log.Info("No notification recipient configured, skipping",
			zap.String("trainee", sub.TraineeSlug),
			zap.String("exam", sub.ExamID))
		return
	}

	subject, body, err := RenderSubmissionMail(sub, exam, loc, s.Cfg.DashboardURL)
	if err != nil {
		logger.Log.Error("Failed to render exam notification", zap.Error(err))
		monitoring.Notifications.WithLabelValues(monitoring.Outcome(err)).Inc()
		return
	}

	timeout := s.Cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		err := s.Sender.Send(ctx, s.Cfg.Recipient, subject, body)
		monitoring.Notifications.WithLabelValues(monitoring.Outcome(err)).Inc()
		if err != nil {
			logger.Log.Error("Failed to send exam notification",
				zap.String("trainee", sub.TraineeSlug),
				zap.String("exam", sub.ExamID),
				zap.Error(err))
			return
		}
		logger.Log.Info("Exam notification sent",
			zap.String("trainee", sub.TraineeSlug),
			zap.String("exam", sub.ExamID),
			zap.Bool("passed", sub.Passed))
	}()
}

// Wait 等待所有在途通知完成，关闭服务前调用
func (s *NotificationService) Wait() {
	s.wg.Wait()
}
