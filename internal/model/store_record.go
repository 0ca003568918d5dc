package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// StoreRecord SQL 存储下的通用记录行，字段以 JSON 保存，与 Airtable 记录结构一致
type StoreRecord struct {
	ID         string         `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Collection string         `gorm:"size:64;index;not null" json:"collection"`
	Fields     datatypes.JSON `gorm:"type:json" json:"fields"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

func (StoreRecord) TableName() string {
	return "store_records"
}

func (r *StoreRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
