package store

import "sprite-index/feature/sprite/models"

// IdentityColumns is the column layout of an identity, embedded in the
// target and output rows.
type IdentityColumns struct {
	CreatureID int  `gorm:"column:creature_id;not null;index"`
	Gender     int  `gorm:"column:gender;not null;default:0"`
	Form       int  `gorm:"column:form;not null;default:0"`
	Evolution  int  `gorm:"column:evolution;not null;default:0"`
	RenderMode int  `gorm:"column:render_mode;not null;default:0"`
	Costume    int  `gorm:"column:costume;not null;default:0"`
	Shiny      bool `gorm:"column:shiny;not null;default:false"`
}

func fromIdentity(id models.Identity) IdentityColumns {
	return IdentityColumns{
		CreatureID: id.CreatureID,
		Gender:     int(id.Gender),
		Form:       id.Form,
		Evolution:  id.Evolution,
		RenderMode: id.RenderMode,
		Costume:    id.Costume,
		Shiny:      id.Shiny,
	}
}

func (c IdentityColumns) identity() models.Identity {
	return models.Identity{
		CreatureID: c.CreatureID,
		Gender:     models.Gender(c.Gender),
		Form:       c.Form,
		Evolution:  c.Evolution,
		RenderMode: c.RenderMode,
		Costume:    c.Costume,
		Shiny:      c.Shiny,
	}
}

// SpriteEntry is one suffix table entry. Position keeps insertion order,
// which decides first-match precedence.
type SpriteEntry struct {
	ID       uint           `gorm:"primaryKey"`
	Position int            `gorm:"column:position;not null"`
	EntryKey string         `gorm:"column:entry_key;size:128;not null;uniqueIndex"`
	Female   bool           `gorm:"column:female;not null;default:false"`
	Fallback bool           `gorm:"column:fallback;not null;default:false"`
	Hit      bool           `gorm:"column:hit;not null;default:false"`
	Targets  []SpriteTarget `gorm:"foreignKey:EntryID;constraint:OnDelete:CASCADE"`
}

func (SpriteEntry) TableName() string { return "sprite_entries" }

// SpriteTarget is one identity rendered from an entry.
type SpriteTarget struct {
	ID              uint `gorm:"primaryKey"`
	EntryID         uint `gorm:"column:entry_id;not null;index"`
	Position        int  `gorm:"column:position;not null"`
	IdentityColumns `gorm:"embedded"`
	Synthesized     bool   `gorm:"column:synthesized;not null;default:false"`
	BaseKey         string `gorm:"column:base_key;size:128"`
}

func (SpriteTarget) TableName() string { return "sprite_targets" }

// SpriteCreature holds the per-creature data registered while building the
// table.
type SpriteCreature struct {
	CreatureID  int   `gorm:"column:creature_id;primaryKey;autoIncrement:false"`
	DefaultForm *int  `gorm:"column:default_form"`
	Evolutions  []int `gorm:"column:evolutions;serializer:json"`
}

func (SpriteCreature) TableName() string { return "sprite_creatures" }

// SpriteOutput is one index instruction of a run.
type SpriteOutput struct {
	ID              uint   `gorm:"primaryKey"`
	RunID           string `gorm:"column:run_id;size:36;not null;index"`
	Position        int    `gorm:"column:position;not null"`
	Output          string `gorm:"column:output;size:255;not null"`
	Source          string `gorm:"column:source;size:255;not null"`
	EntryKey        string `gorm:"column:entry_key;size:128"`
	IdentityColumns `gorm:"embedded"`
	IsPrimary       bool `gorm:"column:is_primary;not null;default:false"`
	Derived         bool `gorm:"column:derived;not null;default:false"`
}

func (SpriteOutput) TableName() string { return "sprite_outputs" }
