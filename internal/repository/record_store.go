package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// Record 表格型存储中的一行，字段名与远端表结构一致（snake_case）
type Record struct {
	ID          string                 `json:"id"`
	CreatedTime time.Time              `json:"createdTime"`
	Fields      map[string]interface{} `json:"fields"`
}

// Range 闭区间字符串比较，用于 ISO 日期字段
type Range struct {
	Field string
	From  string
	To    string
}

type Criteria struct {
	Equals    map[string]interface{}
	Ranges    []Range
	SortField string
	SortDesc  bool
	Limit     int
}

// RecordStore 远端记录存储：按条件查询、创建、按 ID 更新
type RecordStore interface {
	Find(ctx context.Context, table string, criteria Criteria) ([]Record, error)
	Create(ctx context.Context, table string, fields map[string]interface{}) (Record, error)
	Update(ctx context.Context, table, id string, fields map[string]interface{}) (Record, error)
	Ping(ctx context.Context) error
}

// filterRecords 在内存中应用等值、区间、排序和数量限制
func filterRecords(records []Record, c Criteria) []Record {
	out := records[:0:0]
	for _, r := range records {
		if matches(r, c) {
			out = append(out, r)
		}
	}
	if c.SortField != "" {
		sort.SliceStable(out, func(i, j int) bool {
			a, b := fieldString(out[i].Fields[c.SortField]), fieldString(out[j].Fields[c.SortField])
			if c.SortDesc {
				return a > b
			}
			return a < b
		})
	}
	if c.Limit > 0 && len(out) > c.Limit {
		out = out[:c.Limit]
	}
	return out
}

func matches(r Record, c Criteria) bool {
	for k, v := range c.Equals {
		if fieldString(r.Fields[k]) != fieldString(v) {
			return false
		}
	}
	for _, rg := range c.Ranges {
		v := fieldString(r.Fields[rg.Field])
		if rg.From != "" && v < rg.From {
			return false
		}
		if rg.To != "" && v > rg.To {
			return false
		}
	}
	return true
}

func fieldString(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return fmt.Sprintf("%g", x)
	default:
		return fmt.Sprint(x)
	}
}

// cloneFields 通过 JSON 复制字段，数值统一为 float64，与远端返回的类型一致
func cloneFields(fields map[string]interface{}) (map[string]interface{}, error) {
	b, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}
	out := make(map[string]interface{}, len(fields))
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}
