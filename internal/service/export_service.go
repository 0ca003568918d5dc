package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"
	"time"
	"trainee_portal_backend/internal/content"
	"trainee_portal_backend/internal/model"
	"trainee_portal_backend/internal/util"
	"trainee_portal_backend/pkg/logger"

	"go.uber.org/zap"
)

type ExportResult struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
	Rows     int    `json:"rows"`
}

const exportPrefix = "exports"

var resultColumns = []string{
	"submitted_at", "trainee_slug", "trainee_name", "exam_id", "attempt",
	"score", "total_points", "percentage", "passed",
}

// ExportService 将考试结果导出为 CSV 并上传到对象存储
type ExportService struct {
	Content *content.Store
	Exams   *ExamService
	Storage *StorageService
	Now     func() time.Time
}

func NewExportService(contentStore *content.Store, exams *ExamService, storage *StorageService) *ExportService {
	return &ExportService{Content: contentStore, Exams: exams, Storage: storage, Now: time.Now}
}

// ExportResults 筛选条件与结果列表一致，为空表示全部
func (s *ExportService) ExportResults(ctx context.Context, traineeSlug, examID string) (*ExportResult, error) {
	subs, err := s.Exams.ListResults(ctx, traineeSlug, examID)
	if err != nil {
		return nil, err
	}

	data, err := EncodeResultsCSV(subs, s.Content.Current().Location)
	if err != nil {
		return nil, err
	}

	filename := fmt.Sprintf("%s/exam-results-%s.csv", exportPrefix, s.Now().UTC().Format("20060102-150405"))
	url, err := s.Storage.Put(ctx, filename, data, util.MimeCSV)
	if err != nil {
		logger.Log.Error("Failed to upload results export", zap.String("file", filename), zap.Error(err))
		return nil, util.Upstream("upload export", err)
	}

	logger.Log.Info("Exam results exported", zap.String("file", filename), zap.Int("rows", len(subs)))
	return &ExportResult{Filename: filename, URL: url, Rows: len(subs)}, nil
}

// ListExports 历史导出文件，最新在前
func (s *ExportService) ListExports(ctx context.Context) ([]StoredFile, error) {
	files, err := s.Storage.Files(ctx, exportPrefix)
	if err != nil {
		return nil, util.Upstream("list exports", err)
	}
	return files, nil
}

// EncodeResultsCSV 按提交时间升序输出，attempt 为该学员该考试的第几次提交
func EncodeResultsCSV(subs []model.ExamSubmission, loc *time.Location) ([]byte, error) {
	if loc == nil {
		loc = time.UTC
	}
	ordered := make([]model.ExamSubmission, len(subs))
	copy(ordered, subs)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].SubmittedAt.Before(ordered[j].SubmittedAt)
	})

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(resultColumns); err != nil {
		return nil, err
	}

	attempts := map[string]int{}
	for _, sub := range ordered {
		key := sub.TraineeSlug + "|" + sub.ExamID
		attempts[key]++
		row := []string{
			sub.SubmittedAt.In(loc).Format(time.RFC3339),
			sub.TraineeSlug,
			sub.TraineeName,
			sub.ExamID,
			strconv.Itoa(attempts[key]),
			strconv.Itoa(sub.Score),
			strconv.Itoa(sub.TotalPoints),
			strconv.Itoa(sub.Percentage),
			strconv.FormatBool(sub.Passed),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
