package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
	"trainee_portal_backend/internal/config"
)

// AirtableStore 基于 Airtable REST API 的记录存储
type AirtableStore struct {
	baseURL   string
	apiKey    string
	baseID    string
	// 健康检查时读取的表
	pingTable string
	client    *http.Client
}

func NewAirtableStore(cfg config.AirtableConfig, timeout time.Duration) *AirtableStore {
	return &AirtableStore{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:    cfg.APIKey,
		baseID:    cfg.BaseID,
		pingTable: cfg.ProgressTable,
		client:    &http.Client{Timeout: timeout},
	}
}

type airtableRecord struct {
	ID          string                 `json:"id"`
	CreatedTime string                 `json:"createdTime"`
	Fields      map[string]interface{} `json:"fields"`
}

type airtableList struct {
	Records []airtableRecord `json:"records"`
	Offset  string           `json:"offset"`
}

type airtableError struct {
	Error json.RawMessage `json:"error"`
}

func (s *AirtableStore) tableURL(table string) string {
	return fmt.Sprintf("%s/%s/%s", s.baseURL, s.baseID, url.PathEscape(table))
}

func (s *AirtableStore) Find(ctx context.Context, table string, c Criteria) ([]Record, error) {
	var out []Record
	offset := ""
	for {
		q := url.Values{}
		if formula := FilterFormula(c); formula != "" {
			q.Set("filterByFormula", formula)
		}
		if c.SortField != "" {
			q.Set("sort[0][field]", c.SortField)
			dir := "asc"
			if c.SortDesc {
				dir = "desc"
			}
			q.Set("sort[0][direction]", dir)
		}
		if c.Limit > 0 {
			q.Set("maxRecords", strconv.Itoa(c.Limit))
		}
		if offset != "" {
			q.Set("offset", offset)
		}

		var page airtableList
		if err := s.do(ctx, http.MethodGet, s.tableURL(table)+"?"+q.Encode(), nil, &page); err != nil {
			return nil, err
		}
		for _, r := range page.Records {
			out = append(out, r.toRecord())
		}
		if page.Offset == "" {
			return out, nil
		}
		offset = page.Offset
	}
}

func (s *AirtableStore) Create(ctx context.Context, table string, fields map[string]interface{}) (Record, error) {
	var r airtableRecord
	err := s.do(ctx, http.MethodPost, s.tableURL(table), map[string]interface{}{"fields": fields}, &r)
	return r.toRecord(), err
}

// Update 使用 PATCH，只覆盖传入的字段
func (s *AirtableStore) Update(ctx context.Context, table, id string, fields map[string]interface{}) (Record, error) {
	var r airtableRecord
	err := s.do(ctx, http.MethodPatch, s.tableURL(table)+"/"+url.PathEscape(id), map[string]interface{}{"fields": fields}, &r)
	return r.toRecord(), err
}

func (s *AirtableStore) Ping(ctx context.Context) error {
	if s.apiKey == "" || s.baseID == "" {
		return fmt.Errorf("airtable credentials not configured")
	}
	var page airtableList
	return s.do(ctx, http.MethodGet, s.tableURL(s.pingTable)+"?maxRecords=1", nil, &page)
}

func (s *AirtableStore) do(ctx context.Context, method, endpoint string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var apiErr airtableError
		if json.Unmarshal(data, &apiErr) == nil && len(apiErr.Error) > 0 {
			return fmt.Errorf("airtable API error (status %d): %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("airtable API error (status %d): %s", resp.StatusCode, string(data))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func (r airtableRecord) toRecord() Record {
	created, _ := time.Parse(time.RFC3339, r.CreatedTime)
	if r.Fields == nil {
		r.Fields = map[string]interface{}{}
	}
	return Record{ID: r.ID, CreatedTime: created, Fields: r.Fields}
}

// FilterFormula 将查询条件转换为 Airtable filterByFormula 表达式
func FilterFormula(c Criteria) string {
	keys := make([]string, 0, len(c.Equals))
	for k := range c.Equals {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var clauses []string
	for _, k := range keys {
		clauses = append(clauses, fmt.Sprintf("{%s} = %s", k, formulaValue(c.Equals[k])))
	}
	for _, rg := range c.Ranges {
		if rg.From != "" {
			clauses = append(clauses, fmt.Sprintf("{%s} >= %s", rg.Field, formulaValue(rg.From)))
		}
		if rg.To != "" {
			clauses = append(clauses, fmt.Sprintf("{%s} <= %s", rg.Field, formulaValue(rg.To)))
		}
	}

	switch len(clauses) {
	case 0:
		return ""
	case 1:
		return clauses[0]
	default:
		return "AND(" + strings.Join(clauses, ", ") + ")"
	}
}

func formulaValue(v interface{}) string {
	switch x := v.(type) {
	case bool:
		if x {
			return "TRUE()"
		}
		return "FALSE()"
	case int, int64, float64:
		return fieldString(x)
	default:
		s := fieldString(x)
		s = strings.ReplaceAll(s, `\`, `\\`)
		s = strings.ReplaceAll(s, `"`, `\"`)
		return `"` + s + `"`
	}
}
