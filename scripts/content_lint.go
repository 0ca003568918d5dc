// 手动校验培训内容文件
//
// 服务启动和热加载时也会校验内容；此脚本用于修改 content.yaml 后、提交前检查，
// 额外报告 viper 会静默忽略的未知字段。
//
// 用法: go run scripts/content_lint.go [configs/content.yaml]

package main

import (
	"fmt"
	"log"
	"os"
	"sort"
	"trainee_portal_backend/internal/content"

	"gopkg.in/yaml.v3"
)

var knownKeys = map[string][]string{
	"":         {"timezone", "trainees", "modules", "exams", "weeks"},
	"trainees": {"id", "name", "slug", "start_date"},
	"modules":  {"id", "title", "purpose", "proficiency", "deliverable", "checklist", "resources", "questionnaires"},
	"exams":    {"id", "module_id", "title", "description", "passing_score", "questions", "willo_link", "willo_description"},
	"weeks":    {"index", "label", "phase", "start", "end", "standard"},
}

func main() {
	path := "configs/content.yaml"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("无法读取内容文件: %v", err)
	}

	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		log.Fatalf("YAML 解析失败: %v", err)
	}

	warnings := unknownKeys("", raw)
	for section, value := range raw {
		items, ok := value.([]interface{})
		if !ok {
			continue
		}
		for i, item := range items {
			if m, ok := item.(map[string]interface{}); ok {
				for _, w := range unknownKeys(section, m) {
					warnings = append(warnings, fmt.Sprintf("%s[%d]: %s", section, i, w))
				}
			}
		}
	}
	sort.Strings(warnings)
	for _, w := range warnings {
		log.Printf("警告: %s", w)
	}

	catalog, err := content.Load(path)
	if err != nil {
		log.Fatalf("内容校验失败: %v", err)
	}

	fmt.Printf("时区: %s\n", catalog.Location)
	fmt.Printf("学员: %d, 模块: %d, 清单条目: %d\n", len(catalog.Trainees), len(catalog.Modules), catalog.Universe.Total())
	for _, e := range catalog.Exams {
		fmt.Printf("考试 %s: %d 题, 总分 %d, 及格 %d%%\n", e.ID, len(e.Questions), e.TotalPoints(), e.PassingScore)
	}
	for _, w := range catalog.Calendar.Weeks() {
		fmt.Printf("第 %d 周 %s ~ %s (%s): calls %.0f/天\n", w.Index, w.StartStr, w.EndStr, catalog.Calendar.Phase(w.Index), w.Standard.Calls)
	}
	fmt.Printf("maxCalls: %.0f\n", catalog.Calendar.MaxCalls())
}

func unknownKeys(section string, m map[string]interface{}) []string {
	known, ok := knownKeys[section]
	if !ok {
		return nil
	}
	allowed := make(map[string]bool, len(known))
	for _, k := range known {
		allowed[k] = true
	}
	var out []string
	for k := range m {
		if !allowed[k] {
			out = append(out, fmt.Sprintf("未知字段 %q", k))
		}
	}
	return out
}
