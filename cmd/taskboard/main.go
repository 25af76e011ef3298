package main

import (
	"errors"
	"flag"
	"os"

	"github.com/aminrsv/taskboard/internal/config"
	"github.com/aminrsv/taskboard/internal/repository"
	"github.com/aminrsv/taskboard/internal/services"
	"github.com/aminrsv/taskboard/internal/storage"
	"github.com/aminrsv/taskboard/internal/ui"
	"github.com/aminrsv/taskboard/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to the config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	logger.Init(cfg.LogLevel)

	// Prepare the data directory
	layout := repository.NewLayout(cfg.DataDir)
	if err := layout.Ensure(); err != nil {
		logger.Fatalf("Failed to prepare data directory: %v", err)
	}

	// One interactive session at a time
	lock, err := storage.Acquire(cfg.DataDir)
	if err != nil {
		if errors.Is(err, storage.ErrLocked) {
			logger.Fatalf("Another taskboard session is already using %s", cfg.DataDir)
		}
		logger.Fatalf("Failed to lock data directory: %v", err)
	}
	defer lock.Release()

	// Initialize repositories
	userRepo := repository.NewUserRepository(layout)
	projectRepo := repository.NewProjectRepository(layout)
	taskRepo := repository.NewTaskRepository(layout)
	historyRepo := repository.NewHistoryRepository(layout)

	// Initialize services
	authService := services.NewAuthService(userRepo, projectRepo)
	projectService := services.NewProjectService(userRepo, projectRepo, taskRepo, historyRepo)
	taskService := services.NewTaskService(userRepo, projectRepo, taskRepo, historyRepo)

	// Run the interactive session
	session := ui.NewSession(os.Stdin, os.Stdout, authService, projectService, taskService)
	if err := session.Run(); err != nil {
		logger.Fatalf("Session failed: %v", err)
	}
}
