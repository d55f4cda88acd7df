package model

// Artist, Album and CatalogTrack map the Chinook catalog tables. Column names
// follow the Chinook schema so an existing chinook.db can be opened as is.

type Artist struct {
	ArtistID int64  `gorm:"column:ArtistId;primaryKey;autoIncrement"`
	Name     string `gorm:"column:Name;size:120"`
}

func (Artist) TableName() string { return "artists" }

type Album struct {
	AlbumID  int64  `gorm:"column:AlbumId;primaryKey;autoIncrement"`
	Title    string `gorm:"column:Title;size:160;not null"`
	ArtistID int64  `gorm:"column:ArtistId;not null;index"`
}

func (Album) TableName() string { return "albums" }

type CatalogTrack struct {
	TrackID      int64  `gorm:"column:TrackId;primaryKey;autoIncrement"`
	Name         string `gorm:"column:Name;size:200;not null"`
	AlbumID      int64  `gorm:"column:AlbumId;index"`
	Milliseconds int64  `gorm:"column:Milliseconds;not null"`
}

func (CatalogTrack) TableName() string { return "tracks" }
