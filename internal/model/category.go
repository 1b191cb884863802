package model

// Category is a distinct category name, registered as a side effect of
// product inserts. Categories are never pruned when their last product
// goes away.
type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
}
