package models

// Brand is one seller brand. Each brand owns an independent order store
// under the data directory; this row lives in the shared registry database.
type Brand struct {
	ID   string `gorm:"column:id;primaryKey" json:"id"`
	Name string `gorm:"column:name;not null" json:"name"`
}

func (Brand) TableName() string { return "brands" }

// User is a registry login. Password hashes never leave the service.
type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Username     string `gorm:"column:username;not null;uniqueIndex" json:"username"`
	PasswordHash string `gorm:"column:password_hash;not null" json:"-"`
}

func (User) TableName() string { return "users" }
