package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlxDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		db, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: sqlxDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to init gorm: %v", err)
		}

		if clearData {
			for _, table := range []string{"schedule_conflicts", "schedules", "users", "clients"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		password := "password"
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

		clients := []struct {
			Name  string
			Email string
		}{
			{"Acme Corp", "ops@acme.example"},
			{"Globex", "contact@globex.example"},
		}

		for _, c := range clients {
			var exists int
			row := db.Raw("SELECT 1 FROM clients WHERE name = ?", c.Name).Row()
			if err := row.Scan(&exists); err == nil {
				continue
			}
			if err := db.Exec("INSERT INTO clients (name, contact_email, is_active, created_at, updated_at) VALUES (?, ?, true, now(), now())", c.Name, c.Email).Error; err != nil {
				log.Fatalf("failed to insert client %s: %v", c.Name, err)
			}
			fmt.Println("Seeded client:", c.Name)
		}

		var acmeID int64
		if err := db.Raw("SELECT id FROM clients WHERE name = ?", "Acme Corp").Row().Scan(&acmeID); err != nil {
			log.Fatalf("failed to lookup seeded client: %v", err)
		}

		users := []struct {
			Email    string
			Name     string
			Role     string
			ClientID *int64
		}{
			{"supervisor@mail.com", "Sari Supervisor", "supervisor", nil},
			{"employee@mail.com", "Eko Employee", "employee", nil},
			{"client@mail.com", "Acme Contact", "client", &acmeID},
		}

		for _, u := range users {
			var exists int
			row := db.Raw("SELECT 1 FROM users WHERE email = ?", u.Email).Row()
			if err := row.Scan(&exists); err == nil {
				fmt.Println("user already exists:", u.Email)
				continue
			}
			if err := db.Exec(
				"INSERT INTO users (email, name, password_hash, role, client_id, is_active, created_at, updated_at) VALUES (?, ?, ?, ?, ?, true, now(), now())",
				u.Email, u.Name, string(hash), u.Role, u.ClientID,
			).Error; err != nil {
				log.Fatalf("failed to insert user %s: %v", u.Email, err)
			}
			fmt.Println("Seeded user:", u.Email)
		}

		fmt.Println("Seed data loaded; all accounts use password:", password)
	},
}
