package model

// Tag is a short normalized label shared across characters. Text is stored
// lowercase; uniqueness on the text column is what makes the registry's
// get-or-create safe under concurrent inserts.
type Tag struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Text string `json:"tag" gorm:"column:tag;uniqueIndex;size:20;not null"`
}

// TableName keeps the legacy table name.
func (Tag) TableName() string { return "Tags" }

// CharacterTag links a character to a tag. The composite primary key rejects
// duplicate (character, tag) pairs at the store level.
type CharacterTag struct {
	CharacterID uint `gorm:"column:oc_id;primaryKey;autoIncrement:false"`
	TagID       uint `gorm:"column:tag_id;primaryKey;autoIncrement:false"`
}

// TableName keeps the legacy table name.
func (CharacterTag) TableName() string { return "OC_Tags" }
