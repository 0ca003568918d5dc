package repository

import (
	"context"
	"encoding/json"
	"errors"
	"trainee_portal_backend/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GormStore 将记录以 JSON 字段保存在 store_records 表中，table 对应 collection 列
type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

func (s *GormStore) Find(ctx context.Context, table string, c Criteria) ([]Record, error) {
	query := s.DB.WithContext(ctx).Where("collection = ?", table)
	for k, v := range c.Equals {
		query = query.Where(datatypes.JSONQuery("fields").Equals(v, k))
	}

	var rows []model.StoreRecord
	if err := query.Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(rows))
	for i := range rows {
		r, err := rowToRecord(&rows[i])
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	// 区间与排序字段位于 JSON 内，不同数据库的 JSON 比较语义不一致，统一在内存中处理
	return filterRecords(records, Criteria{Ranges: c.Ranges, SortField: c.SortField, SortDesc: c.SortDesc, Limit: c.Limit}), nil
}

func (s *GormStore) Create(ctx context.Context, table string, fields map[string]interface{}) (Record, error) {
	data, err := json.Marshal(fields)
	if err != nil {
		return Record{}, err
	}
	row := &model.StoreRecord{Collection: table, Fields: datatypes.JSON(data)}
	if err := s.DB.WithContext(ctx).Create(row).Error; err != nil {
		return Record{}, err
	}
	return rowToRecord(row)
}

// Update 与 Airtable PATCH 语义一致：合并字段
func (s *GormStore) Update(ctx context.Context, table, id string, fields map[string]interface{}) (Record, error) {
	var row model.StoreRecord
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND collection = ?", id, table).First(&row).Error; err != nil {
			return err
		}
		current := map[string]interface{}{}
		if len(row.Fields) > 0 {
			if err := json.Unmarshal(row.Fields, &current); err != nil {
				return err
			}
		}
		for k, v := range fields {
			current[k] = v
		}
		data, err := json.Marshal(current)
		if err != nil {
			return err
		}
		row.Fields = datatypes.JSON(data)
		return tx.Model(&row).Update("fields", row.Fields).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Record{}, ErrRecordNotFound
	}
	if err != nil {
		return Record{}, err
	}
	return rowToRecord(&row)
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func rowToRecord(row *model.StoreRecord) (Record, error) {
	fields := map[string]interface{}{}
	if len(row.Fields) > 0 {
		if err := json.Unmarshal(row.Fields, &fields); err != nil {
			return Record{}, err
		}
	}
	return Record{ID: row.ID, CreatedTime: row.CreatedAt, Fields: fields}, nil
}
