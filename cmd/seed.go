package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/hamrokrishi/advisory-service/internal/config"
	"github.com/hamrokrishi/advisory-service/internal/database"
	"github.com/hamrokrishi/advisory-service/internal/model"
)

var seedCmd = &cobra.Command{
	Use:   "seed [file]",
	Short: "Load office/technician directory data from a JSON file (default data/seed.json)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSeed,
}

type seedTechnician struct {
	Name           string `json:"name"`
	Title          string `json:"title"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
	Specialization string `json:"specialization"`
	IsPrimary      bool   `json:"is_primary"`
}

type seedOffice struct {
	Name        string           `json:"name"`
	District    string           `json:"district"`
	Phone       string           `json:"phone"`
	Email       string           `json:"email"`
	Technicians []seedTechnician `json:"technicians"`
}

type seedDocument struct {
	Offices []seedOffice `json:"offices"`
}

func runSeed(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := database.MigrateUp(cfg.DatabaseURL()); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	db, err := database.Open(cfg.DSN())
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}

	path := "data/seed.json"
	if len(args) == 1 {
		path = args[0]
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}
	var doc seedDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("parse seed file: %w", err)
	}

	offices, technicians := 0, 0
	for _, so := range doc.Offices {
		office := model.Office{
			Name:     so.Name,
			District: so.District,
			Phone:    so.Phone,
			Email:    so.Email,
		}
		// Upsert by office name; the directory is small reference data.
		if err := db.Where(model.Office{Name: so.Name}).
			Assign(office).
			FirstOrCreate(&office).Error; err != nil {
			return fmt.Errorf("seed office %q: %w", so.Name, err)
		}
		offices++
		for _, st := range so.Technicians {
			tech := model.Technician{
				OfficeID:       office.ID,
				Name:           st.Name,
				Title:          st.Title,
				Phone:          st.Phone,
				Email:          st.Email,
				Specialization: st.Specialization,
				IsPrimary:      st.IsPrimary,
				IsActive:       true,
			}
			err := db.Where(model.Technician{OfficeID: office.ID, Name: st.Name}).
				Assign(tech).
				FirstOrCreate(&tech).Error
			if err != nil {
				return fmt.Errorf("seed technician %q: %w", st.Name, err)
			}
			technicians++
		}
	}

	log.Printf("seed: %d offices, %d technicians from %s", offices, technicians, path)
	return nil
}
