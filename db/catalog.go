package db

import (
	"fmt"

	"tracklist/model"

	"gorm.io/gorm"
)

// Migrate creates the catalog tables when they do not exist yet.
func Migrate(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(&model.Artist{}, &model.Album{}, &model.CatalogTrack{}); err != nil {
		return fmt.Errorf("failed to auto migrate catalog: %w", err)
	}
	return nil
}

// SeedAlbum is one album of sample data: artist, album title, then track name/milliseconds pairs.
type SeedAlbum struct {
	Artist string
	Title  string
	Tracks []SeedTrack
}

type SeedTrack struct {
	Name         string
	Milliseconds int64
}

// SampleCatalog is a small slice of the Chinook catalog used by `tracklist seed`.
var SampleCatalog = []SeedAlbum{
	{Artist: "AC/DC", Title: "For Those About To Rock We Salute You", Tracks: []SeedTrack{
		{"For Those About To Rock (We Salute You)", 343719},
		{"Put The Finger On You", 205662},
		{"Let's Get It Up", 233926},
	}},
	{Artist: "Accept", Title: "Balls to the Wall", Tracks: []SeedTrack{
		{"Balls to the Wall", 342562},
	}},
	{Artist: "Aerosmith", Title: "Big Ones", Tracks: []SeedTrack{
		{"Walk On Water", 295680},
		{"Love In An Elevator", 321828},
		{"Cryin'", 309263},
	}},
	{Artist: "Alanis Morissette", Title: "Jagged Little Pill", Tracks: []SeedTrack{
		{"All I Really Want", 284891},
		{"You Oughta Know", 249234},
		{"Ironic", 229825},
	}},
	{Artist: "Queen", Title: "Greatest Hits I", Tracks: []SeedTrack{
		{"Bohemian Rhapsody", 358556},
		{"Another One Bites The Dust", 216946},
		{"Killer Queen", 182308},
	}},
}

// Seed inserts albums in one transaction and returns the number of tracks written.
func Seed(gdb *gorm.DB, albums []SeedAlbum) (int, error) {
	count := 0
	err := gdb.Transaction(func(tx *gorm.DB) error {
		artistIDs := make(map[string]int64)
		for _, a := range albums {
			artistID, ok := artistIDs[a.Artist]
			if !ok {
				artist := model.Artist{Name: a.Artist}
				if err := tx.Create(&artist).Error; err != nil {
					return fmt.Errorf("insert artist: %w", err)
				}
				artistID = artist.ArtistID
				artistIDs[a.Artist] = artistID
			}

			album := model.Album{Title: a.Title, ArtistID: artistID}
			if err := tx.Create(&album).Error; err != nil {
				return fmt.Errorf("insert album: %w", err)
			}

			for _, t := range a.Tracks {
				track := model.CatalogTrack{Name: t.Name, AlbumID: album.AlbumID, Milliseconds: t.Milliseconds}
				if err := tx.Create(&track).Error; err != nil {
					return fmt.Errorf("insert track: %w", err)
				}
				count++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}
