package models

// Country is a read-only reference row.
type Country struct {
	ID   int64  `gorm:"primaryKey"`
	Name string `gorm:"column:name;not null"`
	Code string `gorm:"column:code"`
}

// State belongs to a Country.
type State struct {
	ID        int64  `gorm:"primaryKey"`
	CountryID int64  `gorm:"column:country_id;not null;index"`
	Name      string `gorm:"column:name;not null"`
}

// District belongs to a State.
type District struct {
	ID      int64  `gorm:"primaryKey"`
	StateID int64  `gorm:"column:state_id;not null;index"`
	Name    string `gorm:"column:name;not null"`
}

// Education is a selectable education level on the registration form.
type Education struct {
	ID        int64  `gorm:"primaryKey"`
	Education string `gorm:"column:education;not null"`
}

func (Education) TableName() string {
	return "educations"
}

// Profession is a selectable profession on the registration form.
type Profession struct {
	ID         int64  `gorm:"primaryKey"`
	Profession string `gorm:"column:profession;not null"`
}
