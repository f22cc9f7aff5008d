package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/harshaaa-5/aivy-1/config"
	"github.com/harshaaa-5/aivy-1/internal/auth"
	"github.com/harshaaa-5/aivy-1/internal/db"
	"github.com/harshaaa-5/aivy-1/internal/models"
	"github.com/harshaaa-5/aivy-1/internal/repository"
	"github.com/harshaaa-5/aivy-1/pkg/log"
)

func main() {
	app := &cli.App{
		Name:  "aivyctl",
		Usage: "Aivy admin CLI for local dev tasks",
		Commands: []*cli.Command{
			{
				Name:  "create-user",
				Usage: "Create a user directly in the database",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Required: true},
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "password", Required: true},
					&cli.StringFlag{Name: "role", Value: "student"},
				},
				Action: func(c *cli.Context) error {
					users, _ := mustUserRepo()
					hash, err := bcrypt.GenerateFromPassword([]byte(c.String("password")), bcrypt.DefaultCost)
					if err != nil {
						return err
					}
					user := models.User{
						Name:         c.String("name"),
						Email:        c.String("email"),
						PasswordHash: string(hash),
						Role:         c.String("role"),
					}
					if err := users.Create(&user); err != nil {
						return err
					}
					fmt.Printf("created user %s (%s)\n", user.ID, user.Email)
					return nil
				},
			},
			{
				Name:  "issue-token",
				Usage: "Issue an access token for an existing user (handy for ws testing)",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Required: true},
				},
				Action: func(c *cli.Context) error {
					users, cfg := mustUserRepo()
					user, err := users.FindByEmail(c.String("email"))
					if err != nil {
						return err
					}
					token, err := auth.GenerateUserToken(*user, []byte(cfg.JWTSecret), cfg.UserTokenTTL)
					if err != nil {
						return err
					}
					fmt.Println(token)
					return nil
				},
			},
			{
				Name:  "leaderboard",
				Usage: "Print the top users by points",
				Action: func(c *cli.Context) error {
					users, _ := mustUserRepo()
					list, err := users.List(10)
					if err != nil {
						return err
					}
					for i, u := range list {
						fmt.Printf("%2d. %-30s %6d pts  online=%v\n", i+1, u.Email, u.TotalPoints, u.IsOnline)
					}
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func mustUserRepo() (*repository.UserRepository, config.Config) {
	cfg := config.LoadConfig()
	log.InitLogger()
	conn, err := db.InitDB(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "db init failed:", err)
		os.Exit(1)
	}
	return repository.NewUserRepository(conn), cfg
}
