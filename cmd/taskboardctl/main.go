// Command taskboardctl manages the store outside an interactive session:
// it bootstraps the admin account and purges persisted data.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/aminrsv/taskboard/internal/config"
	"github.com/aminrsv/taskboard/internal/models"
	"github.com/aminrsv/taskboard/internal/repository"
	"github.com/aminrsv/taskboard/internal/storage"
	"github.com/aminrsv/taskboard/internal/utils"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		printUsage()
		return fmt.Errorf("an action is required")
	}

	cfg, err := config.Load(os.Getenv("TASKBOARD_CONFIG"))
	if err != nil {
		return err
	}
	layout := repository.NewLayout(cfg.DataDir)
	if err := layout.Ensure(); err != nil {
		return err
	}

	switch args[0] {
	case "create-admin":
		return createAdmin(layout, args[1:])
	case "purge-data":
		return purgeData(cfg.DataDir)
	default:
		printUsage()
		return fmt.Errorf("unknown action %q", args[0])
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `usage: taskboardctl <action> [flags]

actions:
  create-admin -username <name> -password <secret>
  purge-data`)
}

// createAdmin writes the admin credential record. It refuses to overwrite
// an existing admin account.
func createAdmin(layout repository.Layout, args []string) error {
	fs := flag.NewFlagSet("create-admin", flag.ContinueOnError)
	username := fs.String("username", "", "username for admin")
	password := fs.String("password", "", "password for admin")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *username == "" || *password == "" {
		return fmt.Errorf("both -username and -password are required")
	}
	if !utils.IsValidUsername(*username) {
		return fmt.Errorf("username may contain only letters, digits and underscores")
	}

	userRepo := repository.NewUserRepository(layout)
	if _, err := userRepo.LoadAdminIndex(); err == nil {
		return fmt.Errorf("admin account already exists")
	}

	index := map[string]models.Credential{
		*username: {
			Username:       *username,
			PasswordDigest: utils.HashPassword(*password),
			ActivityStatus: models.ActivityActive,
		},
	}
	if err := userRepo.SaveAdminIndex(index); err != nil {
		return err
	}

	fmt.Println("The admin account was created successfully.")
	return nil
}

// purgeData removes the whole data directory after an interactive yes/no
// confirmation. The data-dir lock is taken first, so a live interactive
// session cannot have the store deleted out from under it.
func purgeData(dataDir string) error {
	lock, err := storage.Acquire(dataDir)
	if err != nil {
		if errors.Is(err, storage.ErrLocked) {
			return fmt.Errorf("an interactive session is using %s; close it first", dataDir)
		}
		return err
	}
	defer lock.Release()

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Printf("Are you sure you want to purge %s? (yes / no): ", dataDir)
		answer, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		switch strings.TrimSpace(answer) {
		case "yes":
			if err := os.RemoveAll(dataDir); err != nil {
				return err
			}
			fmt.Println("All data purged.")
			return nil
		case "no":
			return nil
		default:
			fmt.Println("Unacceptable answer, please answer yes or no.")
		}
	}
}
