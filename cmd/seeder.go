package cmd

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with roles and sample users for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		if clearData {
			// Order matters: children before parents.
			tables := []string{"work_log", "invoices", "work_orders", "vehicles", "sessions", "user_roles", "users"}
			for _, table := range tables {
				if _, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)); err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		seedRoles(db)
		seedUsers(db, cfg.Security.BCryptCost)
	},
}

func seedRoles(db *sqlx.DB) {
	roles := []struct {
		Name     string
		Desc     string
		Priority int
	}{
		{"owner", "Shop owner with full access", 1},
		{"head_mechanic", "Supervises mechanics and work orders", 2},
		{"mechanic", "Works on assigned orders", 3},
		{"receptionist", "Front desk, intake and scheduling", 3},
		{"accountant", "Invoicing and payments", 3},
		{"customer", "Vehicle owner", 4},
	}

	for _, role := range roles {
		var exists int
		err := db.Get(&exists, "SELECT 1 FROM roles WHERE role_name = $1", role.Name)
		if err == nil {
			continue
		}
		_, err = db.Exec(
			"INSERT INTO roles (role_name, description, priority) VALUES ($1, $2, $3)",
			role.Name, role.Desc, role.Priority,
		)
		if err != nil {
			log.Fatalf("failed to insert role %s: %v", role.Name, err)
		}
		fmt.Println("Seeded role:", role.Name)
	}
}

func seedUsers(db *sqlx.DB, bcryptCost int) {
	password := "password"
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		log.Fatalf("failed to hash seed password: %v", err)
	}

	users := []struct {
		Username string
		Email    string
		Role     string
	}{
		{"marko", "marko@example.com", "owner"},
		{"ivan", "ivan@example.com", "head_mechanic"},
		{"petar", "petar@example.com", "mechanic"},
		{"ana", "ana@example.com", "receptionist"},
		{"maja", "maja@example.com", "accountant"},
		{"luka", "luka@example.com", "customer"},
	}

	for _, u := range users {
		var userID string
		err := db.Get(&userID, "SELECT user_id FROM users WHERE username = $1", u.Username)
		if err != nil {
			insertErr := db.QueryRow(
				"INSERT INTO users (username, email, password_hash, status) VALUES ($1, $2, $3, 'active') RETURNING user_id",
				u.Username, u.Email, string(hash),
			).Scan(&userID)
			if insertErr != nil {
				log.Fatalf("failed to insert user %s: %v", u.Username, insertErr)
			}
			fmt.Println("Seeded user:", u.Username)
		}

		_, err = db.Exec(`
			INSERT INTO user_roles (user_id, role_id)
			SELECT $1, role_id FROM roles WHERE role_name = $2
			ON CONFLICT DO NOTHING`, userID, u.Role)
		if err != nil {
			log.Fatalf("failed to assign role %s to %s: %v", u.Role, u.Username, err)
		}
	}

	fmt.Println("Seed complete; all sample users share the password:", password)
}
