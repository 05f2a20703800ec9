package db

import (
	"gorm.io/gorm"

	"ballotbox/internal/model"
)

// Models lists every table the service owns, parents before children.
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.AdminDetails{},
		&model.CandidateDetails{},
		&model.VoterDetails{},
		&model.Election{},
		&model.ElectionCandidate{},
		&model.Vote{},
		&model.BallotLog{},
	}
}

// Migrate creates or updates the schema, including the vote uniqueness index.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

// Reset drops every table, children first.
func Reset(db *gorm.DB) error {
	models := Models()
	for i := len(models) - 1; i >= 0; i-- {
		if err := db.Migrator().DropTable(models[i]); err != nil {
			return err
		}
	}
	return nil
}
