package database

import (
	"time"

	uuid "github.com/satori/go.uuid"
	"gorm.io/gorm"
)

type BaseModel struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (base *BaseModel) BeforeCreate(tx *gorm.DB) (err error) {
	base.ID = uuid.NewV4()
	return
}

// newsletter subscriber from the blog sidebar form
type Subscriber struct {
	BaseModel
	Email  string `gorm:"type:varchar(254);uniqueIndex;not null"`
	Source string `gorm:"type:varchar(100)"` // page the form was submitted from, if known
}

// Schema lists every model AutoMigrate should create.
var Schema = []any{
	&Subscriber{},
}
