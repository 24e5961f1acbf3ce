package specification

import "gorm.io/gorm"

// MaterialSearchQuery matches the query against title OR content.
type MaterialSearchQuery struct {
	Query string
}

func (s MaterialSearchQuery) Apply(db *gorm.DB) *gorm.DB {
	like := "%" + s.Query + "%"
	return db.Where("title ILIKE ? OR content ILIKE ?", like, like)
}
